package books

import (
	"context"
	"time"

	"github.com/5w1tchy/earthy-reads/internal/catalog"
	"github.com/5w1tchy/earthy-reads/internal/models"
	storebooks "github.com/5w1tchy/earthy-reads/internal/store/books"
)

// CoverArtist produces a data: URI cover for a book.
type CoverArtist interface {
	Cover(ctx context.Context, title, synopsis string) (string, error)
}

// CoverStore moves generated covers out of the record and into object
// storage. Optional.
type CoverStore interface {
	PutCover(ctx context.Context, bookID, dataURI string) (string, error)
	DiscardCover(ctx context.Context, coverURL string) error
}

// Handler serves the /api/books routes and /api/stats. Catalog, Covers and
// Offload are optional; routes that need a missing one answer 500.
type Handler struct {
	Store      *storebooks.Store
	Catalog    catalog.Searcher
	Covers     CoverArtist
	Offload    CoverStore
	GenTimeout time.Duration
	Now        func() time.Time
}

type statusReq struct {
	Status string `json:"status"`
}

// importReq is either {"volumeId": "..."} or a plain draft.
type importReq struct {
	VolumeID string `json:"volumeId,omitempty"`
	models.Draft
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
