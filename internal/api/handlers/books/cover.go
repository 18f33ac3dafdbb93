package books

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/5w1tchy/earthy-reads/internal/api/apperr"
	"github.com/5w1tchy/earthy-reads/internal/api/httpx"
	"github.com/5w1tchy/earthy-reads/internal/generate"
)

// GenerateCover asks the image model for a cover, optionally offloads it to
// object storage and saves it on the book.
func (h *Handler) GenerateCover(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b, err := h.Store.Get(id)
	if err != nil {
		writeStoreErr(w, r, err)
		return
	}
	if h.Covers == nil {
		apperr.Internal(w, r, generate.Message(generate.ErrNotConfigured))
		return
	}

	ctx := r.Context()
	if h.GenTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.GenTimeout)
		defer cancel()
	}

	cover, err := h.Covers.Cover(ctx, b.Title, b.Synopsis)
	if err != nil {
		log.Printf("[Generate] cover for %q: %v", id, err)
		apperr.Internal(w, r, generate.Message(generate.ErrNoImage))
		return
	}

	uploaded := false
	if h.Offload != nil {
		if u, err := h.Offload.PutCover(ctx, id, cover); err != nil {
			log.Printf("[Covers] offload %q failed, keeping data URI: %v", id, err)
		} else {
			cover, uploaded = u, true
		}
	}

	// Generation is slow; merge into the latest record, not the one read above.
	cur, err := h.Store.Get(id)
	if err != nil {
		h.discard(r.Context(), uploaded, cover)
		writeStoreErr(w, r, err)
		return
	}
	previous := cur.CoverImage
	cur.CoverImage = cover
	ch, err := h.Store.Update(cur)
	if err != nil {
		h.discard(r.Context(), uploaded, cover)
		writeStoreErr(w, r, err)
		return
	}
	if previous != "" && previous != cover {
		h.discard(r.Context(), h.Offload != nil, previous)
	}
	audit(r, ch)
	httpx.OK(w, ch)
}

func (h *Handler) discard(ctx context.Context, ok bool, url string) {
	if !ok || h.Offload == nil {
		return
	}
	if err := h.Offload.DiscardCover(ctx, url); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[Covers] discard %q: %v", url, err)
	}
}
