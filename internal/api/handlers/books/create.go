package books

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/5w1tchy/earthy-reads/internal/api/apperr"
	"github.com/5w1tchy/earthy-reads/internal/api/httpx"
	"github.com/5w1tchy/earthy-reads/internal/catalog"
	"github.com/5w1tchy/earthy-reads/internal/models"
	"github.com/5w1tchy/earthy-reads/internal/validate"
)

// Create adds a book from a draft. Status and finishedDate are always
// assigned by the store.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var d models.Draft
	if !decode(w, r, &d) {
		return
	}
	h.add(w, r, d)
}

// Import adds a book either from a catalog volume id or from a draft that
// was already built client-side from a search result.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req importReq
	if !decode(w, r, &req) {
		return
	}

	id := strings.TrimSpace(req.VolumeID)
	if id == "" {
		h.add(w, r, req.Draft)
		return
	}
	if h.Catalog == nil {
		apperr.Internal(w, r, "book search is not configured")
		return
	}
	vol, err := h.Catalog.Volume(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrVolumeNotFound) {
			apperr.NotFound(w, r, "volume not found")
			return
		}
		log.Printf("[Catalog] import %q: %v", id, err)
		apperr.Internal(w, r, "Failed to fetch from Google Books API")
		return
	}
	d := vol.Draft()
	d.Title = clip(d.Title, validate.MaxTitle)
	d.Author = clip(d.Author, validate.MaxAuthor)
	d.Synopsis = clip(d.Synopsis, validate.MaxSynopsis)
	d.Genre = clip(d.Genre, validate.MaxGenre)
	h.add(w, r, d)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request, d models.Draft) {
	d, errs := validate.Draft(d)
	if len(errs) > 0 {
		apperr.Invalid(w, r, errs)
		return
	}
	ch := h.Store.Add(d)
	audit(r, ch)
	httpx.Created(w, ch)
}
