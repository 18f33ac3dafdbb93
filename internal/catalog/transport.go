package catalog

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/url"
)

// LoggingTransport logs outbound catalog traffic. The API key query
// parameter is redacted from logged URLs.
type LoggingTransport struct {
	Base http.RoundTripper
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	log.Printf("[Catalog] -> %s %s", req.Method, redact(req.URL))

	resp, err := base.RoundTrip(req)
	if err != nil {
		log.Printf("[Catalog] <- error %s: %v", redact(req.URL), err)
		return resp, err
	}

	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	log.Printf("[Catalog] <- %d %s (%d bytes)", resp.StatusCode, redact(req.URL), len(body))
	return resp, nil
}

func redact(u *url.URL) string {
	c := *u
	q := c.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		c.RawQuery = q.Encode()
	}
	return c.String()
}
