package books

import (
	"log"
	"net/http"
)

// Delete removes a book. Unknown ids still answer 204.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ch, removed := h.Store.Delete(pathID(r))
	if removed {
		audit(r, ch)
	}
	if removed && h.Offload != nil && ch.Book.CoverImage != "" {
		// Best-effort cleanup of an offloaded cover
		if err := h.Offload.DiscardCover(r.Context(), ch.Book.CoverImage); err != nil {
			log.Printf("[Covers] discard %q: %v", ch.Book.CoverImage, err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
