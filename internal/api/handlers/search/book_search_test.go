package search_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/5w1tchy/earthy-reads/internal/api/handlers/search"
	"github.com/5w1tchy/earthy-reads/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	vols  []catalog.Volume
	err   error
	calls int
}

func (s *stubCatalog) Search(_ context.Context, q string) ([]catalog.Volume, error) {
	s.calls++
	return s.vols, s.err
}

func (s *stubCatalog) Volume(context.Context, string) (catalog.Volume, error) {
	return catalog.Volume{}, catalog.ErrVolumeNotFound
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestBookSearch_BlankQuery(t *testing.T) {
	c := &stubCatalog{}
	h := search.BookSearch(c)

	for _, target := range []string{"/api/book-search", "/api/book-search?q=%20%20"} {
		rr := get(h, target)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Search query is required", errorBody(t, rr))
	}
	assert.Zero(t, c.calls)
}

func TestBookSearch_Success(t *testing.T) {
	c := &stubCatalog{vols: []catalog.Volume{
		{ID: "a", VolumeInfo: catalog.VolumeInfo{Title: "Dune", Authors: []string{"Frank Herbert"}, Description: "Spice."}},
		{ID: "b", VolumeInfo: catalog.VolumeInfo{Title: "Untitled"}},
	}}
	rr := get(search.BookSearch(c), "/api/book-search?q=dune")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp search.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Dune", resp.Items[0].VolumeInfo.Title)
	assert.Equal(t, "Frank Herbert", resp.Items[0].Draft.Author)
	assert.Equal(t, catalog.UnknownAuthor, resp.Items[1].Draft.Author)
	assert.Equal(t, catalog.NoSynopsis, resp.Items[1].Draft.Synopsis)
}

func TestBookSearch_EmptyResultIsArray(t *testing.T) {
	rr := get(search.BookSearch(&stubCatalog{vols: []catalog.Volume{}}), "/api/book-search?q=zzzz")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"items":[]}`, rr.Body.String())
}

func TestBookSearch_Errors(t *testing.T) {
	cases := []struct {
		name string
		c    catalog.Searcher
		msg  string
	}{
		{"missing key", &stubCatalog{err: catalog.ErrMissingAPIKey}, "API key is missing"},
		{"upstream", &stubCatalog{err: fmt.Errorf("%w: status 503", catalog.ErrUpstream)}, "Failed to fetch from Google Books API"},
		{"no client", nil, "API key is missing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := get(search.BookSearch(tc.c), "/api/book-search?q=dune")
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.Equal(t, tc.msg, errorBody(t, rr))
		})
	}
}

type stubInvalidator struct {
	err   error
	calls int
}

func (s *stubInvalidator) Invalidate(context.Context) error {
	s.calls++
	return s.err
}

func TestFlushCache(t *testing.T) {
	del := func(h http.Handler) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/book-search/cache", nil))
		return rr
	}

	inv := &stubInvalidator{}
	assert.Equal(t, http.StatusNoContent, del(search.FlushCache(inv)).Code)
	assert.Equal(t, 1, inv.calls)

	assert.Equal(t, http.StatusServiceUnavailable, del(search.FlushCache(&stubInvalidator{err: fmt.Errorf("redis down")})).Code)
	assert.Equal(t, http.StatusNotFound, del(search.FlushCache(nil)).Code)
}
