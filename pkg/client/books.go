package client

import (
	"context"
	"net/http"
	"net/url"
)

// Books lists the shelf; an empty status lists everything.
func (c *Client) Books(ctx context.Context, status Status) ([]Book, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": {string(status)}}
	}
	var out []Book
	err := c.doEnvelope(ctx, http.MethodGet, "/api/books", q, nil, &out)
	return out, err
}

func (c *Client) Book(ctx context.Context, id string) (Book, error) {
	var out Book
	err := c.doEnvelope(ctx, http.MethodGet, "/api/books/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) Add(ctx context.Context, d Draft) (Change, error) {
	var out Change
	err := c.doEnvelope(ctx, http.MethodPost, "/api/books", nil, d, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, b Book) (Change, error) {
	var out Change
	err := c.doEnvelope(ctx, http.MethodPut, "/api/books/"+url.PathEscape(b.ID), nil, b, &out)
	return out, err
}

func (c *Client) SetStatus(ctx context.Context, id string, st Status) (Change, error) {
	var out Change
	err := c.doEnvelope(ctx, http.MethodPatch, "/api/books/"+url.PathEscape(id)+"/status", nil,
		map[string]string{"status": string(st)}, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/books/"+url.PathEscape(id), nil, nil, nil)
}

// Import adds a search hit by its catalog volume id.
func (c *Client) Import(ctx context.Context, volumeID string) (Change, error) {
	var out Change
	err := c.doEnvelope(ctx, http.MethodPost, "/api/books/import", nil,
		map[string]string{"volumeId": volumeID}, &out)
	return out, err
}

// GenerateCover asks the server for a new cover and returns the updated book.
func (c *Client) GenerateCover(ctx context.Context, id string) (Change, error) {
	var out Change
	err := c.doEnvelope(ctx, http.MethodPost, "/api/books/"+url.PathEscape(id)+"/cover", nil, struct{}{}, &out)
	return out, err
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	err := c.doEnvelope(ctx, http.MethodGet, "/api/stats", nil, nil, &out)
	return out, err
}
