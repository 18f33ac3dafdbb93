package catalog

import (
	"strings"

	"github.com/5w1tchy/earthy-reads/internal/models"
)

const (
	UnknownAuthor = "Unknown Author"
	NoSynopsis    = "No synopsis available."
)

// Draft maps a volume onto the book creation shape.
func (v Volume) Draft() models.Draft {
	info := v.VolumeInfo
	d := models.Draft{
		Title:    strings.TrimSpace(info.Title),
		Author:   UnknownAuthor,
		Synopsis: NoSynopsis,
	}
	if authors := nonEmpty(info.Authors); len(authors) > 0 {
		d.Author = strings.Join(authors, ", ")
	}
	if s := strings.TrimSpace(info.Description); s != "" {
		d.Synopsis = s
	}
	if info.ImageLinks != nil {
		thumb := info.ImageLinks.Thumbnail
		if thumb == "" {
			thumb = info.ImageLinks.SmallThumbnail
		}
		d.CoverImage = secure(thumb)
	}
	if cats := nonEmpty(info.Categories); len(cats) > 0 {
		d.Genre = cats[0]
	}
	return d
}

// secure upgrades http thumbnails; browsers block mixed content.
func secure(u string) string {
	if strings.HasPrefix(u, "http:") {
		return "https:" + strings.TrimPrefix(u, "http:")
	}
	return u
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
