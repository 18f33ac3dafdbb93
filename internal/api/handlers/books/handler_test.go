package books_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/5w1tchy/earthy-reads/internal/api/apperr"
	"github.com/5w1tchy/earthy-reads/internal/api/handlers/books"
	mw "github.com/5w1tchy/earthy-reads/internal/api/middlewares"
	"github.com/5w1tchy/earthy-reads/internal/catalog"
	"github.com/5w1tchy/earthy-reads/internal/generate"
	"github.com/5w1tchy/earthy-reads/internal/models"
	storebooks "github.com/5w1tchy/earthy-reads/internal/store/books"
	"github.com/5w1tchy/earthy-reads/internal/store/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 20, 8, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	vols map[string]catalog.Volume
}

func (f fakeCatalog) Search(context.Context, string) ([]catalog.Volume, error) {
	return []catalog.Volume{}, nil
}

func (f fakeCatalog) Volume(_ context.Context, id string) (catalog.Volume, error) {
	v, ok := f.vols[id]
	if !ok {
		return catalog.Volume{}, catalog.ErrVolumeNotFound
	}
	return v, nil
}

type fakeArtist struct {
	uri string
	err error
}

func (f fakeArtist) Cover(context.Context, string, string) (string, error) { return f.uri, f.err }

type fakeOffload struct {
	err       error
	discarded []string
}

func (f *fakeOffload) PutCover(_ context.Context, id, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://covers.example/covers/" + id + ".png", nil
}

func (f *fakeOffload) DiscardCover(_ context.Context, u string) error {
	f.discarded = append(f.discarded, u)
	return nil
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func setup(t *testing.T, h *books.Handler) http.Handler {
	t.Helper()
	if h.Store == nil {
		h.Store = storebooks.New(seed.Default(now),
			storebooks.WithClock(func() time.Time { return now }),
			storebooks.WithNotifier(&storebooks.Recorder{}))
	}
	h.Now = func() time.Time { return now }
	mux := http.NewServeMux()
	pass := func(next http.Handler) http.Handler { return next }
	books.Register(mux, h, pass, pass)
	return mux
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func data[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	require.Equal(t, "success", env.Status)
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func problem(t *testing.T, rr *httptest.ResponseRecorder) apperr.Problem {
	t.Helper()
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	var p apperr.Problem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p), rr.Body.String())
	return p
}

func TestList(t *testing.T) {
	mux := setup(t, &books.Handler{})

	rr := do(t, mux, http.MethodGet, "/api/books", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, data[[]models.Book](t, rr), 5)

	rr = do(t, mux, http.MethodGet, "/api/books?status=read", "")
	require.Equal(t, http.StatusOK, rr.Code)
	for _, b := range data[[]models.Book](t, rr) {
		assert.Equal(t, models.StatusRead, b.Status)
	}

	rr = do(t, mux, http.MethodGet, "/api/books?status=abandoned", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGet(t *testing.T) {
	mux := setup(t, &books.Handler{})

	rr := do(t, mux, http.MethodGet, "/api/books/2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Dune", data[models.Book](t, rr).Title)

	rr = do(t, mux, http.MethodGet, "/api/books/nope", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "book not found", problem(t, rr).Detail)
}

func TestCreate(t *testing.T) {
	mux := setup(t, &books.Handler{})

	rr := do(t, mux, http.MethodPost, "/api/books",
		`{"title":"  Piranesi ","author":"Susanna Clarke","synopsis":"Halls.","status":"Read"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	ch := data[storebooks.Change](t, rr)
	assert.Equal(t, "Piranesi", ch.Book.Title)
	assert.Equal(t, models.StatusToRead, ch.Book.Status)
	assert.Nil(t, ch.Book.FinishedDate)
	assert.Equal(t, "Book added!", ch.Notice.Title)
}

func TestCreate_Invalid(t *testing.T) {
	mux := setup(t, &books.Handler{})

	rr := do(t, mux, http.MethodPost, "/api/books", `{"title":"","author":"A","synopsis":"S","coverImage":"ftp://x"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	p := problem(t, rr)
	fields := map[string]string{}
	for _, f := range p.FieldErrors {
		fields[f.Field] = f.Code
	}
	assert.Equal(t, map[string]string{"title": "required", "coverImage": "invalid"}, fields)

	rr = do(t, mux, http.MethodPost, "/api/books", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPut(t *testing.T) {
	mux := setup(t, &books.Handler{})

	body := `{"title":"Dune Messiah","author":"Frank Herbert","synopsis":"Twelve years later.","status":"Currently Reading","genre":"Sci-Fi"}`
	rr := do(t, mux, http.MethodPut, "/api/books/2", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	ch := data[storebooks.Change](t, rr)
	assert.Equal(t, "2", ch.Book.ID)
	assert.Equal(t, "Dune Messiah", ch.Book.Title)
	assert.Equal(t, "Book updated!", ch.Notice.Title)

	rr = do(t, mux, http.MethodPut, "/api/books/missing", body)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, mux, http.MethodPut, "/api/books/2", `{"id":"3","title":"x","author":"y","synopsis":"z","status":"Read"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, mux, http.MethodPut, "/api/books/2", `{"title":"x","author":"y","synopsis":"z","status":"Someday"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "unknown status fails JSON decoding")
}

func TestSetStatus(t *testing.T) {
	mux := setup(t, &books.Handler{})

	rr := do(t, mux, http.MethodPatch, "/api/books/4/status", `{"status":"Read"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	ch := data[storebooks.Change](t, rr)
	require.NotNil(t, ch.Book.FinishedDate)
	assert.True(t, ch.Book.FinishedDate.Equal(now))

	rr = do(t, mux, http.MethodPatch, "/api/books/4/status", `{"status":"Abandoned"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, mux, http.MethodPatch, "/api/books/missing/status", `{"status":"Read"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDelete_Idempotent(t *testing.T) {
	off := &fakeOffload{}
	h := &books.Handler{Offload: off}
	mux := setup(t, h)

	rr := do(t, mux, http.MethodDelete, "/api/books/3", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(t, mux, http.MethodDelete, "/api/books/3", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 4, h.Store.Len())
	assert.Empty(t, off.discarded, "seed books have no cover to discard")
}

func TestImport(t *testing.T) {
	cat := fakeCatalog{vols: map[string]catalog.Volume{
		"vol1": {ID: "vol1", VolumeInfo: catalog.VolumeInfo{
			Title:      "The Left Hand of Darkness",
			Authors:    []string{"Ursula K. Le Guin"},
			Categories: []string{"Fiction"},
			ImageLinks: &catalog.ImageLinks{Thumbnail: "http://books.google.com/t.jpg"},
		}},
	}}
	mux := setup(t, &books.Handler{Catalog: cat})

	rr := do(t, mux, http.MethodPost, "/api/books/import", `{"volumeId":"vol1"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	ch := data[storebooks.Change](t, rr)
	assert.Equal(t, "Ursula K. Le Guin", ch.Book.Author)
	assert.Equal(t, catalog.NoSynopsis, ch.Book.Synopsis)
	assert.Equal(t, "https://books.google.com/t.jpg", ch.Book.CoverImage)
	assert.Equal(t, "Fiction", ch.Book.Genre)

	rr = do(t, mux, http.MethodPost, "/api/books/import", `{"volumeId":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, mux, http.MethodPost, "/api/books/import", `{"title":"Emma","author":"Jane Austen","synopsis":"Matchmaking."}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestImport_NoCatalog(t *testing.T) {
	mux := setup(t, &books.Handler{})
	rr := do(t, mux, http.MethodPost, "/api/books/import", `{"volumeId":"vol1"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestGenerateCover(t *testing.T) {
	const uri = "data:image/png;base64,iVBORw0KGgo="

	t.Run("not configured", func(t *testing.T) {
		mux := setup(t, &books.Handler{})
		rr := do(t, mux, http.MethodPost, "/api/books/1/cover", "")
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, generate.Message(generate.ErrNotConfigured), problem(t, rr).Detail)
	})

	t.Run("stores data uri", func(t *testing.T) {
		mux := setup(t, &books.Handler{Covers: fakeArtist{uri: uri}})
		rr := do(t, mux, http.MethodPost, "/api/books/1/cover", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, uri, data[storebooks.Change](t, rr).Book.CoverImage)
	})

	t.Run("offloads to storage", func(t *testing.T) {
		off := &fakeOffload{}
		h := &books.Handler{Covers: fakeArtist{uri: uri}, Offload: off}
		mux := setup(t, h)

		rr := do(t, mux, http.MethodPost, "/api/books/1/cover", "")
		require.Equal(t, http.StatusOK, rr.Code)
		first := data[storebooks.Change](t, rr).Book.CoverImage
		assert.Equal(t, "https://covers.example/covers/1.png", first)

		rr = do(t, mux, http.MethodDelete, "/api/books/1", "")
		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, []string{first}, off.discarded)
	})

	t.Run("offload failure keeps data uri", func(t *testing.T) {
		mux := setup(t, &books.Handler{Covers: fakeArtist{uri: uri}, Offload: &fakeOffload{err: errors.New("r2 down")}})
		rr := do(t, mux, http.MethodPost, "/api/books/1/cover", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, uri, data[storebooks.Change](t, rr).Book.CoverImage)
	})

	t.Run("model failure", func(t *testing.T) {
		mux := setup(t, &books.Handler{Covers: fakeArtist{err: generate.ErrNoImage}})
		rr := do(t, mux, http.MethodPost, "/api/books/1/cover", "")
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Image generation failed.", problem(t, rr).Detail)
	})

	t.Run("unknown book", func(t *testing.T) {
		mux := setup(t, &books.Handler{Covers: fakeArtist{uri: uri}})
		rr := do(t, mux, http.MethodPost, "/api/books/zzz/cover", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestStats(t *testing.T) {
	mux := setup(t, &books.Handler{})
	rr := do(t, mux, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	st := data[storebooks.Stats](t, rr)
	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 2, st.TotalRead)
	assert.Equal(t, 1, st.ReadThisYear)
}

func TestMutationsAuditedWithSessionID(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	h := &books.Handler{
		Store: storebooks.New(seed.Default(now),
			storebooks.WithClock(func() time.Time { return now }),
			storebooks.WithNotifier(&storebooks.Recorder{})),
		Now: func() time.Time { return now },
	}
	mux := http.NewServeMux()
	withSession := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(mw.WithSessionID(r.Context(), "jti-42")))
		})
	}
	pass := func(next http.Handler) http.Handler { return next }
	books.Register(mux, h, withSession, pass)

	rr := do(t, mux, http.MethodPatch, "/api/books/4/status", `{"status":"Read"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = do(t, mux, http.MethodDelete, "/api/books/3", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(t, mux, http.MethodDelete, "/api/books/3", "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	out := buf.String()
	assert.Contains(t, out, `[Audit] Status updated!`)
	assert.Contains(t, out, `id=4 session=jti-42`)
	assert.Contains(t, out, `[Audit] Book deleted "Project Hail Mary" id=3 session=jti-42`)
	assert.Equal(t, 2, strings.Count(out, "[Audit]"), "unknown id deletes are not audited")
}
