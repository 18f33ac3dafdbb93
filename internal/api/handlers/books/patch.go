package books

import (
	"net/http"
	"strings"

	"github.com/5w1tchy/earthy-reads/internal/api/apperr"
	"github.com/5w1tchy/earthy-reads/internal/api/httpx"
	"github.com/5w1tchy/earthy-reads/internal/models"
)

// SetStatus moves a book between shelves. Entering Read stamps the finish
// date; the store owns that rule.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if !decode(w, r, &req) {
		return
	}
	st, err := models.ParseStatus(strings.TrimSpace(req.Status))
	if err != nil {
		apperr.BadRequest(w, r, "status must be one of To Read, Currently Reading, Read")
		return
	}
	ch, err := h.Store.SetStatus(pathID(r), st)
	if err != nil {
		writeStoreErr(w, r, err)
		return
	}
	audit(r, ch)
	httpx.OK(w, ch)
}
