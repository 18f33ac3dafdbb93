package foryou_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/5w1tchy/earthy-reads/internal/api/handlers/foryou"
	"github.com/5w1tchy/earthy-reads/internal/generate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSuggester struct {
	got []string
	out []generate.Suggestion
	err error
}

func (s *stubSuggester) Suggest(_ context.Context, list string) ([]generate.Suggestion, error) {
	s.got = append(s.got, list)
	if strings.TrimSpace(list) == "" {
		return nil, generate.ErrEmptyReadingList
	}
	return s.out, s.err
}

type shelf string

func (s shelf) ReadingList() string { return string(s) }

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/suggestions", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSuggestions_UsesShelfByDefault(t *testing.T) {
	s := &stubSuggester{out: []generate.Suggestion{{Title: "Hyperion", Author: "Dan Simmons", Reason: "More epic sci-fi."}}}
	h := foryou.Handler(s, shelf("Dune by Frank Herbert"), 0)

	rr := post(h, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, []string{"Dune by Frank Herbert"}, s.got)

	var resp foryou.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "Hyperion", resp.Suggestions[0].Title)
}

func TestSuggestions_Override(t *testing.T) {
	s := &stubSuggester{out: []generate.Suggestion{{Title: "x", Author: "y", Reason: "z"}}}
	h := foryou.Handler(s, shelf("Dune by Frank Herbert"), 0)

	rr := post(h, `{"readingList":"Emma by Jane Austen"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"Emma by Jane Austen"}, s.got)
}

func TestSuggestions_EmptyShelf(t *testing.T) {
	s := &stubSuggester{}
	rr := post(foryou.Handler(s, shelf(""), 0), "{}")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Your reading list is empty")
	assert.Empty(t, s.got, "no model call for an empty list")
}

func TestSuggestions_EmptyShelfWithoutGenerator(t *testing.T) {
	rr := post(foryou.Handler(nil, shelf("  "), 0), "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Your reading list is empty")
}

func TestSuggestions_Errors(t *testing.T) {
	rr := post(foryou.Handler(&stubSuggester{err: generate.ErrNoSuggestions}, shelf("a by b"), 0), "")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "couldn't come up with any suggestions")

	rr = post(foryou.Handler(&stubSuggester{err: errors.Join(generate.ErrUpstream, errors.New("quota"))}, shelf("a by b"), 0), "")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.NotContains(t, rr.Body.String(), "quota")

	rr = post(foryou.Handler(nil, shelf("a by b"), 0), "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = post(foryou.Handler(&stubSuggester{}, shelf("a by b"), 0), "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
