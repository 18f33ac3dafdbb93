// Package catalog is a small client for the Google Books volumes API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/books/v1"
	MaxResults     = 10
	defaultTimeout = 10 * time.Second
)

// Searcher is the part of Client the HTTP layer depends on.
type Searcher interface {
	Search(ctx context.Context, q string) ([]Volume, error)
	Volume(ctx context.Context, id string) (Volume, error)
}

var _ Searcher = (*Client)(nil)

type Client struct {
	apiKey  string
	baseURL *url.URL
	http    *http.Client
	tracer  trace.Tracer
}

type Options struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Debug   bool
	// Transport overrides the round tripper, mainly for tests.
	Transport http.RoundTripper
}

func NewClient(o Options) (*Client, error) {
	raw := strings.TrimSpace(o.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse catalog base url %q: %w", o.BaseURL, err)
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	rt := o.Transport
	if o.Debug {
		rt = &LoggingTransport{Base: rt}
	}
	return &Client{
		apiKey:  strings.TrimSpace(o.APIKey),
		baseURL: base,
		http:    &http.Client{Timeout: o.Timeout, Transport: rt},
		tracer:  otel.Tracer("earthy-reads/catalog"),
	}, nil
}

// Search returns up to MaxResults volumes for q. A blank query is rejected
// before any request is made.
func (c *Client) Search(ctx context.Context, q string) ([]Volume, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Volume{}, ErrEmptyQuery
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	ctx, span := c.tracer.Start(ctx, "catalog.search",
		trace.WithAttributes(attribute.Int("query.length", len(q))))
	defer span.End()

	v := url.Values{}
	v.Set("q", q)
	v.Set("key", c.apiKey)
	v.Set("maxResults", fmt.Sprint(MaxResults))

	var payload searchResponse
	if err := c.get(ctx, "/volumes", v, &payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, err
	}
	if payload.Items == nil {
		payload.Items = []Volume{}
	}
	span.SetAttributes(attribute.Int("result.count", len(payload.Items)))
	return payload.Items, nil
}

// Volume fetches a single volume by id.
func (c *Client) Volume(ctx context.Context, id string) (Volume, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Volume{}, ErrVolumeNotFound
	}
	if c.apiKey == "" {
		return Volume{}, ErrMissingAPIKey
	}

	ctx, span := c.tracer.Start(ctx, "catalog.volume",
		trace.WithAttributes(attribute.String("volume.id", id)))
	defer span.End()

	v := url.Values{}
	v.Set("key", c.apiKey)

	var vol Volume
	if err := c.get(ctx, "/volumes/"+url.PathEscape(id), v, &vol); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "volume lookup failed")
		return Volume{}, err
	}
	return vol, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dest any) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, redactErr(err, c.apiKey))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound && path != "/volumes" {
		return ErrVolumeNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		log.Printf("[Catalog] upstream %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return nil
}

// redactErr keeps the API key out of wrapped url.Error messages.
func redactErr(err error, key string) string {
	msg := err.Error()
	if key != "" {
		msg = strings.ReplaceAll(msg, key, "REDACTED")
	}
	return msg
}
