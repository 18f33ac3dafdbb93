package router

import (
	"net/http"
	"time"

	"github.com/5w1tchy/earthy-reads/internal/api/handlers"
	"github.com/5w1tchy/earthy-reads/internal/api/handlers/books"
	"github.com/5w1tchy/earthy-reads/internal/api/handlers/foryou"
	"github.com/5w1tchy/earthy-reads/internal/api/handlers/search"
	mw "github.com/5w1tchy/earthy-reads/internal/api/middlewares"
	"github.com/5w1tchy/earthy-reads/internal/auth"
	"github.com/5w1tchy/earthy-reads/internal/catalog"
	"github.com/5w1tchy/earthy-reads/internal/security/session"
	storebooks "github.com/5w1tchy/earthy-reads/internal/store/books"
	"github.com/redis/go-redis/v9"
)

// Deps is everything the routes need. Catalog, Suggester, Covers, Offload
// and RDB may be nil.
type Deps struct {
	Store *storebooks.Store
	Gate  *session.Gate
	Auth  *auth.Handler
	RDB   *redis.Client

	Catalog   catalog.Searcher
	Suggester foryou.Suggester
	Covers    books.CoverArtist
	Offload   books.CoverStore

	GeneratorTimeout time.Duration
	LoginMaxAttempts int
	LoginWindow      time.Duration
	Limits           Limits
}

func Router(d Deps) http.Handler {
	mux := http.NewServeMux()

	// Root
	mux.HandleFunc("GET /", handlers.RootHandler)
	mux.Handle("GET /healthz", handlers.Healthz(d.RDB))

	// Session
	mux.HandleFunc("GET /api/auth-status", d.Auth.Status)
	mux.Handle("POST /api/login", mw.LoginRateLimit(d.RDB, d.LoginMaxAttempts, d.LoginWindow)(http.HandlerFunc(d.Auth.Login)))
	mux.HandleFunc("POST /api/logout", d.Auth.Logout)

	gen := generatorLimit(d.RDB, d.Limits)

	// Search and suggestions (public)
	mux.Handle("GET /api/book-search", searchLimit(d.RDB, d.Limits)(search.BookSearch(d.Catalog)))
	var inv search.Invalidator
	if c, ok := d.Catalog.(search.Invalidator); ok {
		inv = c
	}
	mux.Handle("DELETE /api/book-search/cache", adminGate(d.Gate)(search.FlushCache(inv)))
	mux.Handle("POST /api/suggestions", gen(foryou.Handler(d.Suggester, d.Store, d.GeneratorTimeout)))

	// Books
	books.Register(mux, &books.Handler{
		Store:      d.Store,
		Catalog:    d.Catalog,
		Covers:     d.Covers,
		Offload:    d.Offload,
		GenTimeout: d.GeneratorTimeout,
	}, adminGate(d.Gate), gen)

	return mux
}
