package books

import (
	"net/http"
	"strings"

	"github.com/5w1tchy/earthy-reads/internal/api/apperr"
	"github.com/5w1tchy/earthy-reads/internal/api/httpx"
	"github.com/5w1tchy/earthy-reads/internal/models"
	storebooks "github.com/5w1tchy/earthy-reads/internal/store/books"
)

// List returns every book in display order, or one status group with
// ?status=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		httpx.OK(w, h.Store.List())
		return
	}
	st, err := models.ParseStatus(raw)
	if err != nil {
		apperr.BadRequest(w, r, err.Error())
		return
	}
	httpx.OK(w, h.Store.ListByStatus(st))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, storebooks.ComputeStats(h.Store.List(), h.now()))
}
