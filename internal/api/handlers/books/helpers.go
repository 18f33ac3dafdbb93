package books

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/5w1tchy/earthy-reads/internal/api/apperr"
	"github.com/5w1tchy/earthy-reads/internal/api/httpx"
	mw "github.com/5w1tchy/earthy-reads/internal/api/middlewares"
	storebooks "github.com/5w1tchy/earthy-reads/internal/store/books"
)

func pathID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("id"))
}

// decode writes the problem response itself and reports whether v was filled.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := httpx.DecodeJSON(r, v)
	switch {
	case err == nil:
		return true
	case errors.Is(err, httpx.ErrTooLarge):
		apperr.WriteStatus(w, r, http.StatusRequestEntityTooLarge, "Payload Too Large", "request body too large")
	default:
		apperr.BadRequest(w, r, "invalid JSON body")
	}
	return false
}

func writeStoreErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storebooks.ErrNotFound):
		apperr.NotFound(w, r, "book not found")
	case errors.Is(err, storebooks.ErrInvalidStatus):
		apperr.BadRequest(w, r, "status must be one of To Read, Currently Reading, Read")
	default:
		log.Printf("[Store] %s %s: %v", r.Method, r.URL.Path, err)
		apperr.Internal(w, r, "could not save the book")
	}
}

// clip shortens s to at most n runes.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n-1])) + "…"
}

// audit logs a successful mutation with the admin session that made it.
func audit(r *http.Request, ch storebooks.Change) {
	sid, ok := mw.SessionIDFrom(r.Context())
	if !ok {
		sid = "-"
	}
	log.Printf("[Audit] %s %q id=%s session=%s", ch.Notice.Title, ch.Book.Title, ch.Book.ID, sid)
}
