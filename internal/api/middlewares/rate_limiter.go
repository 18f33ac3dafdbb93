package middlewares

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/5w1tchy/earthy-reads/internal/api/apperr"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// KeyFunc maps a request to the limiter bucket it spends from.
type KeyFunc func(r *http.Request) string

// PerIPKey buckets by client address.
func PerIPKey(prefix string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientIP(r)
		if ip == "" {
			ip = "unknown"
		}
		return prefix + ":" + ip
	}
}

// Decision is one limiter verdict.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter spends one unit from key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Policy() string
}

// Throttle applies l per key. Redis errors let the request through so a
// cache outage never takes the catalog or the generator offline.
func Throttle(l Limiter, keyFn KeyFunc, detail string) func(http.Handler) http.Handler {
	tag := "[" + l.Policy() + "]"
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			d, err := l.Allow(r.Context(), key)
			if err != nil {
				log.Printf("%s redis error: %v (allowing request)", tag, err)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Policy", l.Policy())
			h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

			if !d.Allowed {
				sec := max(int64(1), int64((d.RetryAfter+time.Second-1)/time.Second))
				h.Set("Retry-After", strconv.FormatInt(sec, 10))
				log.Printf("%s blocked %s (key=%s), retry in %ds", tag, r.RemoteAddr, key, sec)
				tooMany(w, r, detail)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tokenBucketLua refills KEYS[1] at ARGV[1] tokens/s up to ARGV[2] and takes
// one token. Returns {allowed, floor(tokens), retry_ms}.
var tokenBucketLua = redis.NewScript(`
local key  = KEYS[1]
local rate = tonumber(ARGV[1])
local cap  = tonumber(ARGV[2])

local t = redis.call('TIME')
local now = (tonumber(t[1]) * 1000) + math.floor(tonumber(t[2]) / 1000)

local st = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(st[1]) or cap
local ts = tonumber(st[2]) or now

if now > ts then
  tokens = math.min(cap, tokens + ((now - ts) / 1000.0) * rate)
end

local ok, retry = 0, 0
if tokens >= 1.0 then
  tokens = tokens - 1.0
  ok = 1
else
  retry = math.ceil((1.0 - tokens) * 1000.0 / rate)
end

redis.call('HSET', key, 'tokens', tokens, 'ts', now)
redis.call('PEXPIRE', key, math.ceil((cap / rate) * 1000.0))
return {ok, math.floor(tokens), retry}
`)

// TokenBucket allows bursts up to Burst and refills at Rate per second.
// State lives in Redis so every replica draws from the same bucket.
type TokenBucket struct {
	RDB   redis.Scripter
	Rate  float64
	Burst int
}

func (*TokenBucket) Policy() string { return "token-bucket" }

func (tb *TokenBucket) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := tokenBucketLua.Run(ctx, tb.RDB, []string{key},
		strconv.FormatFloat(tb.Rate, 'f', -1, 64), tb.Burst).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("token bucket: unexpected reply %v", res)
	}
	return Decision{
		Allowed:    res[0] == 1,
		Limit:      tb.Burst,
		Remaining:  int(res[1]),
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}

// SlidingWindow admits at most Limit requests in any trailing Window,
// tracked as a Redis sorted set of request timestamps.
type SlidingWindow struct {
	RDB    redis.Cmdable
	Limit  int
	Window time.Duration
}

func (*SlidingWindow) Policy() string { return "sliding-window" }

func (sw *SlidingWindow) Allow(ctx context.Context, key string) (Decision, error) {
	now := time.Now().UnixMilli()
	winMs := sw.Window.Milliseconds()

	pipe := sw.RDB.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: strconv.FormatInt(now, 10) + ":" + uuid.NewString()})
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(now-winMs, 10))
	card := pipe.ZCard(ctx, key)
	pipe.PExpire(ctx, key, sw.Window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	n := int(card.Val())
	d := Decision{Allowed: n <= sw.Limit, Limit: sw.Limit, Remaining: max(0, sw.Limit-n)}
	if d.Allowed {
		return d, nil
	}

	d.RetryAfter = time.Second
	if oldest, err := sw.RDB.ZRangeWithScores(ctx, key, 0, 0).Result(); err == nil && len(oldest) == 1 {
		if ms := int64(oldest[0].Score) + winMs - now; ms > 1000 {
			d.RetryAfter = time.Duration(ms) * time.Millisecond
		}
	}
	return d, nil
}

func tooMany(w http.ResponseWriter, r *http.Request, detail string) {
	if detail == "" {
		detail = "Slow down and try again shortly."
	}
	apperr.Write(w, r, apperr.Problem{
		Status:    http.StatusTooManyRequests,
		Title:     "Too Many Requests",
		Detail:    detail,
		Retryable: true,
	})
}
