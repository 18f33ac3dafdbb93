// Package search proxies catalog lookups so the API key never reaches the
// browser.
package search

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/5w1tchy/earthy-reads/internal/api/httpx"
	"github.com/5w1tchy/earthy-reads/internal/catalog"
	"github.com/5w1tchy/earthy-reads/internal/models"
)

// Item is one search hit: the raw volume fields plus the draft the
// front-end would add to the shelf.
type Item struct {
	ID         string             `json:"id"`
	VolumeInfo catalog.VolumeInfo `json:"volumeInfo"`
	Draft      models.Draft       `json:"draft"`
}

type Response struct {
	Items []Item `json:"items"`
}

// BookSearch serves GET /api/book-search?q=. Errors keep the {"error": ...}
// shape the front-end already reads.
func BookSearch(c catalog.Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			httpx.Error(w, http.StatusBadRequest, "Search query is required")
			return
		}
		if c == nil {
			log.Printf("[Catalog] search requested but no client is configured")
			httpx.Error(w, http.StatusInternalServerError, "API key is missing")
			return
		}

		vols, err := c.Search(r.Context(), q)
		switch {
		case err == nil:
		case errors.Is(err, catalog.ErrMissingAPIKey):
			log.Printf("[Catalog] GOOGLE_BOOKS_API_KEY is not set")
			httpx.Error(w, http.StatusInternalServerError, "API key is missing")
			return
		default:
			log.Printf("[Catalog] search %q: %v", q, err)
			httpx.Error(w, http.StatusInternalServerError, "Failed to fetch from Google Books API")
			return
		}

		out := Response{Items: make([]Item, 0, len(vols))}
		for _, v := range vols {
			out.Items = append(out.Items, Item{ID: v.ID, VolumeInfo: v.VolumeInfo, Draft: v.Draft()})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}
