package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

type SearchItem struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
	Draft      Draft      `json:"draft"`
}

// Search returns catalog hits. A blank query returns an empty slice and
// ErrEmptyQuery without touching the network.
func (c *Client) Search(ctx context.Context, q string) ([]SearchItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []SearchItem{}, ErrEmptyQuery
	}
	var out struct {
		Items []SearchItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/book-search", url.Values{"q": {q}}, nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []SearchItem{}
	}
	return out.Items, nil
}

// Suggest asks for reading suggestions for readingList. An empty list is
// rejected locally.
func (c *Client) Suggest(ctx context.Context, readingList string) ([]Suggestion, error) {
	if strings.TrimSpace(readingList) == "" {
		return nil, ErrEmptyReadingList
	}
	return c.suggest(ctx, map[string]string{"readingList": readingList})
}

// SuggestFromShelf lets the server build the reading list from the store.
func (c *Client) SuggestFromShelf(ctx context.Context) ([]Suggestion, error) {
	return c.suggest(ctx, struct{}{})
}

func (c *Client) suggest(ctx context.Context, body any) ([]Suggestion, error) {
	var out struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/suggestions", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}
