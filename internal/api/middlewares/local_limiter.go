package middlewares

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LocalBucket is the per-process token bucket used when Redis is not
// configured. Each key gets its own x/time/rate limiter; idle keys are swept
// once the map grows past sweepAt.
type LocalBucket struct {
	every rate.Limit
	burst int
	idle  time.Duration

	mu sync.Mutex
	m  map[string]*localEntry
}

type localEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

const sweepAt = 4096

// NewLocalBucket refills at perSecond tokens/s up to burst.
func NewLocalBucket(perSecond float64, burst int) *LocalBucket {
	if burst < 1 {
		burst = 1
	}
	// an idle bucket is full again after burst/rate; keep it a bit longer
	idle := time.Hour
	if perSecond > 0 {
		if full := time.Duration(float64(burst) / perSecond * float64(time.Second)); full > idle {
			idle = full
		}
	}
	return &LocalBucket{
		every: rate.Limit(perSecond),
		burst: burst,
		idle:  idle,
		m:     map[string]*localEntry{},
	}
}

// NewLocalWindow approximates "limit per window" with a bucket of size limit
// that refills evenly over the window.
func NewLocalWindow(limit int, window time.Duration) *LocalBucket {
	if limit < 1 {
		limit = 1
	}
	return NewLocalBucket(float64(rate.Every(window/time.Duration(limit))), limit)
}

func (*LocalBucket) Policy() string { return "local-token-bucket" }

func (b *LocalBucket) Allow(_ context.Context, key string) (Decision, error) {
	now := time.Now()

	b.mu.Lock()
	e, ok := b.m[key]
	if !ok {
		e = &localEntry{lim: rate.NewLimiter(b.every, b.burst)}
		b.m[key] = e
	}
	e.seen = now
	if len(b.m) > sweepAt {
		b.sweep(now)
	}
	b.mu.Unlock()

	d := Decision{Limit: b.burst}
	res := e.lim.ReserveN(now, 1)
	if delay := res.DelayFrom(now); !res.OK() || delay > 0 {
		// give the token back; this request is rejected, not queued
		res.CancelAt(now)
		d.RetryAfter = delay
		if !res.OK() || delay <= 0 {
			d.RetryAfter = time.Second
		}
		return d, nil
	}
	d.Allowed = true
	d.Remaining = max(0, int(e.lim.TokensAt(now)))
	return d, nil
}

// caller holds mu
func (b *LocalBucket) sweep(now time.Time) {
	for k, e := range b.m {
		if now.Sub(e.seen) > b.idle {
			delete(b.m, k)
		}
	}
}
