package router

import (
	"net/http"
	"time"

	mw "github.com/5w1tchy/earthy-reads/internal/api/middlewares"
	"github.com/5w1tchy/earthy-reads/internal/security/session"
	"github.com/redis/go-redis/v9"
)

// Limits tunes the Redis-backed limiters. Zero values pick the defaults.
type Limits struct {
	GeneratorRate  float64 // tokens per second
	GeneratorBurst int
	SearchPerWin   int
	SearchWindow   time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.GeneratorRate <= 0 {
		l.GeneratorRate = 0.1
	}
	if l.GeneratorBurst <= 0 {
		l.GeneratorBurst = 5
	}
	if l.SearchPerWin <= 0 {
		l.SearchPerWin = 120
	}
	if l.SearchWindow <= 0 {
		l.SearchWindow = time.Minute
	}
	return l
}

// adminGate wraps mutations behind the session cookie.
func adminGate(g *session.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw.RequireAdmin(g, next)
	}
}

// generatorLimit throttles model calls per IP. Redis shares the bucket
// across replicas; without it each process keeps its own.
func generatorLimit(rdb *redis.Client, l Limits) func(http.Handler) http.Handler {
	l = l.withDefaults()
	var lim mw.Limiter = mw.NewLocalBucket(l.GeneratorRate, l.GeneratorBurst)
	if rdb != nil {
		lim = &mw.TokenBucket{RDB: rdb, Rate: l.GeneratorRate, Burst: l.GeneratorBurst}
	}
	return mw.Throttle(lim, mw.PerIPKey("tb:gen"), "Generation is busy. Try again shortly.")
}

func searchLimit(rdb *redis.Client, l Limits) func(http.Handler) http.Handler {
	l = l.withDefaults()
	var lim mw.Limiter = mw.NewLocalWindow(l.SearchPerWin, l.SearchWindow)
	if rdb != nil {
		lim = &mw.SlidingWindow{RDB: rdb, Limit: l.SearchPerWin, Window: l.SearchWindow}
	}
	return mw.Throttle(lim, mw.PerIPKey("sw:search"), "")
}
