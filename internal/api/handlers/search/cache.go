package search

import (
	"context"
	"log"
	"net/http"

	"github.com/5w1tchy/earthy-reads/internal/api/apperr"
)

// Invalidator drops cached catalog results.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// FlushCache serves DELETE /api/book-search/cache (admin). Without a cache
// in front of the catalog there is nothing to flush.
func FlushCache(inv Invalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if inv == nil {
			apperr.NotFound(w, r, "catalog cache is not enabled")
			return
		}
		if err := inv.Invalidate(r.Context()); err != nil {
			log.Printf("[Catalog][cache] flush: %v", err)
			apperr.WriteStatus(w, r, http.StatusServiceUnavailable, "Service Unavailable", "could not flush the catalog cache")
			return
		}
		log.Printf("[Catalog][cache] flushed")
		w.WriteHeader(http.StatusNoContent)
	}
}
