// Package foryou serves AI reading suggestions built from the shelf.
package foryou

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/5w1tchy/earthy-reads/internal/api/httpx"
	"github.com/5w1tchy/earthy-reads/internal/generate"
)

type Suggester interface {
	Suggest(ctx context.Context, readingList string) ([]generate.Suggestion, error)
}

// ReadingLister renders the shelf as "Title by Author, ...".
type ReadingLister interface {
	ReadingList() string
}

type Request struct {
	ReadingList string `json:"readingList,omitempty"`
}

type Response struct {
	Suggestions []generate.Suggestion `json:"suggestions"`
}

// Handler serves POST /api/suggestions. The body is optional; without a
// readingList override the current shelf is used.
func Handler(s Suggester, shelf ReadingLister, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if r.Body != nil {
			err := json.NewDecoder(r.Body).Decode(&req)
			if err != nil && !errors.Is(err, io.EOF) {
				var tooBig *http.MaxBytesError
				if errors.As(err, &tooBig) {
					httpx.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
					return
				}
				httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
		}

		list := strings.TrimSpace(req.ReadingList)
		if list == "" && shelf != nil {
			list = strings.TrimSpace(shelf.ReadingList())
		}

		// an empty shelf is the caller's problem whether or not a model is configured
		if list == "" {
			httpx.Error(w, http.StatusBadRequest, generate.Message(generate.ErrEmptyReadingList))
			return
		}
		if s == nil {
			log.Printf("[Generate] suggestions requested but GEMINI_API_KEY is not set")
			httpx.Error(w, http.StatusInternalServerError, generate.Message(generate.ErrNotConfigured))
			return
		}

		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		out, err := s.Suggest(ctx, list)
		switch {
		case err == nil:
			httpx.WriteJSON(w, http.StatusOK, Response{Suggestions: out})
		case errors.Is(err, generate.ErrEmptyReadingList):
			httpx.Error(w, http.StatusBadRequest, generate.Message(err))
		default:
			log.Printf("[Generate] suggestions: %v", err)
			httpx.Error(w, http.StatusBadGateway, generate.Message(err))
		}
	})
}
