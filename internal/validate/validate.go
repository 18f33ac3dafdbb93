package validate

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/5w1tchy/earthy-reads/internal/api/apperr"
	"github.com/5w1tchy/earthy-reads/internal/models"
)

var ErrInvalid = errors.New("invalid")

const (
	MaxTitle    = 200
	MaxAuthor   = 120
	MaxSynopsis = 5000
	MaxGenre    = 60
)

// RequireBounded trims and ensures length bounds.
func RequireBounded(name, s string, min, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < min || utf8.RuneCountInString(s) > max {
		return "", errors.New(name + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters")
	}
	return s, nil
}

// Draft trims every field and reports each problem found. The returned
// draft is only meaningful when no field errors are returned.
func Draft(d models.Draft) (models.Draft, []apperr.FieldError) {
	var errs []apperr.FieldError
	bounded := func(field string, v *string, max int) {
		s, err := RequireBounded(field, *v, 1, max)
		if err != nil {
			code := "too_long"
			if strings.TrimSpace(*v) == "" {
				code = "required"
			}
			errs = append(errs, apperr.FieldError{Field: field, Code: code, Message: err.Error()})
			return
		}
		*v = s
	}
	bounded("title", &d.Title, MaxTitle)
	bounded("author", &d.Author, MaxAuthor)
	bounded("synopsis", &d.Synopsis, MaxSynopsis)

	d.Genre = strings.TrimSpace(d.Genre)
	if utf8.RuneCountInString(d.Genre) > MaxGenre {
		errs = append(errs, apperr.FieldError{Field: "genre", Code: "too_long", Message: "genre must be at most " + strconv.Itoa(MaxGenre) + " characters"})
	}

	d.CoverImage = strings.TrimSpace(d.CoverImage)
	if d.CoverImage != "" && !CoverRef(d.CoverImage) {
		errs = append(errs, apperr.FieldError{Field: "coverImage", Code: "invalid", Message: "coverImage must be an http(s) URL or a data: URI"})
	}
	return d, errs
}

// Book validates a full record as sent to PUT.
func Book(b models.Book) (models.Book, []apperr.FieldError) {
	d, errs := Draft(models.Draft{
		Title: b.Title, Author: b.Author, Synopsis: b.Synopsis,
		CoverImage: b.CoverImage, Genre: b.Genre,
	})
	if !b.Status.Valid() {
		errs = append(errs, apperr.FieldError{Field: "status", Code: "invalid", Message: "status must be one of To Read, Currently Reading, Read"})
	}
	b.Title, b.Author, b.Synopsis, b.CoverImage, b.Genre = d.Title, d.Author, d.Synopsis, d.CoverImage, d.Genre
	return b, errs
}

// CoverRef accepts absolute http(s) URLs and data: URIs.
func CoverRef(s string) bool {
	if strings.HasPrefix(s, "data:") {
		return strings.Contains(s, ",")
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
