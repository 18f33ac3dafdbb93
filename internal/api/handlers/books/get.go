package books

import (
	"net/http"

	"github.com/5w1tchy/earthy-reads/internal/api/httpx"
)

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Store.Get(pathID(r))
	if err != nil {
		writeStoreErr(w, r, err)
		return
	}
	httpx.OK(w, b)
}
