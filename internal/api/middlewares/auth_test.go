package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/5w1tchy/earthy-reads/internal/api/middlewares"
	"github.com/5w1tchy/earthy-reads/internal/security/session"
)

func newGate(t *testing.T) (*session.Gate, string) {
	t.Helper()
	s := session.NewSigner("0123456789abcdef0123456789abcdef", 0)
	tok, _, err := s.Sign(time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return &session.Gate{Signer: s}, tok
}

func TestRequireAdmin(t *testing.T) {
	g, tok := newGate(t)

	var sid string
	h := mw.RequireAdmin(g, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, _ = mw.SessionIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/books", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no cookie: code=%d", rec.Code)
	}

	req := httptest.NewRequest("POST", "/api/books", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "garbage"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad cookie: code=%d", rec.Code)
	}

	req = httptest.NewRequest("POST", "/api/books", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tok})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid cookie: code=%d", rec.Code)
	}
	if sid == "" {
		t.Error("session id not attached to context")
	}
}
