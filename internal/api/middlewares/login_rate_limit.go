package middlewares

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginRateLimit caps login attempts per client IP to max per window.
// Counting happens in Redis when rdb is set so that every replica shares
// the budget; otherwise each process keeps its own limiter per IP.
func LoginRateLimit(rdb *redis.Client, max int, win time.Duration) func(http.Handler) http.Handler {
	if max <= 0 {
		max = 10
	}
	if win <= 0 {
		win = 5 * time.Minute
	}
	local := NewLocalWindow(max, win)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// clientIP only believes forwarding headers from trusted proxies
			ip := clientIP(r)
			if ip == "" {
				next.ServeHTTP(w, r)
				return
			}

			localAllow := func() bool {
				d, _ := local.Allow(r.Context(), ip)
				return d.Allowed
			}

			blocked := false
			if rdb != nil {
				ctx := r.Context()
				key := "rl:login:" + ip
				n, err := rdb.Incr(ctx, key).Result()
				switch {
				case err != nil:
					log.Printf("[LoginRateLimit] Redis error: %v (using local limiter)", err)
					blocked = !localAllow()
				default:
					// first hit opens the window
					if n == 1 {
						_ = rdb.Expire(ctx, key, win).Err()
					}
					blocked = n > int64(max)
				}
			} else {
				blocked = !localAllow()
			}

			if blocked {
				log.Printf("[LoginRateLimit] blocked %s", ip)
				w.Header().Set("Retry-After", strconv.Itoa(int(win.Seconds())))
				tooMany(w, r, "Too many login attempts. Try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
