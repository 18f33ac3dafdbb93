package books

import (
	"net/http"

	"github.com/5w1tchy/earthy-reads/internal/api/apperr"
	"github.com/5w1tchy/earthy-reads/internal/api/httpx"
	"github.com/5w1tchy/earthy-reads/internal/models"
	"github.com/5w1tchy/earthy-reads/internal/validate"
)

// Put replaces the whole record. The id in the path wins; a different id in
// the body is rejected.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var b models.Book
	if !decode(w, r, &b) {
		return
	}
	if b.ID != "" && b.ID != id {
		apperr.BadRequest(w, r, "id in body does not match the path")
		return
	}
	b.ID = id

	b, errs := validate.Book(b)
	if len(errs) > 0 {
		apperr.Invalid(w, r, errs)
		return
	}
	ch, err := h.Store.Update(b)
	if err != nil {
		writeStoreErr(w, r, err)
		return
	}
	audit(r, ch)
	httpx.OK(w, ch)
}
