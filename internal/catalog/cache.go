package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// cacheVersionKey is bumped to drop every cached search at once.
	cacheVersionKey = "cat:ver"
	defaultCacheTTL = 10 * time.Minute
	cacheOpTimeout  = 150 * time.Millisecond
)

// Cache fronts a Searcher with Redis. Every cache failure falls through to
// the upstream call; errors are never cached.
type Cache struct {
	next    Searcher
	rdb     *redis.Client
	ttl     time.Duration
	shortTO time.Duration

	warnMu sync.Mutex
	warned time.Time
}

var _ Searcher = (*Cache)(nil)

func NewCache(next Searcher, rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{next: next, rdb: rdb, ttl: ttl, shortTO: cacheOpTimeout}
}

func (c *Cache) Search(ctx context.Context, q string) ([]Volume, error) {
	norm := strings.Join(strings.Fields(strings.ToLower(q)), " ")
	if norm == "" {
		return c.next.Search(ctx, q)
	}
	var out []Volume
	if c.get(ctx, "search:"+norm, &out) {
		return out, nil
	}
	out, err := c.next.Search(ctx, q)
	if err != nil {
		return out, err
	}
	c.set(ctx, "search:"+norm, out)
	return out, nil
}

func (c *Cache) Volume(ctx context.Context, id string) (Volume, error) {
	id = strings.TrimSpace(id)
	var v Volume
	if id != "" && c.get(ctx, "vol:"+id, &v) {
		return v, nil
	}
	v, err := c.next.Volume(ctx, id)
	if err != nil {
		return v, err
	}
	c.set(ctx, "vol:"+id, v)
	return v, nil
}

// Invalidate drops every cached entry by moving to a new key prefix.
func (c *Cache) Invalidate(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()
	if err := c.rdb.Incr(cctx, cacheVersionKey).Err(); err != nil {
		return fmt.Errorf("bump catalog cache version: %w", err)
	}
	return nil
}

func (c *Cache) prefix(ctx context.Context) (string, bool) {
	ver, err := c.rdb.Get(ctx, cacheVersionKey).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		ver = 0
	case err != nil:
		c.warn("cache version read failed: %v; bypassing cache", err)
		return "", false
	}
	return fmt.Sprintf("cat:v%d:", ver), true
}

func (c *Cache) get(ctx context.Context, key string, dest any) bool {
	ctx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()

	p, ok := c.prefix(ctx)
	if !ok {
		return false
	}
	b, err := c.rdb.Get(ctx, p+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warn("cache get failed: %v; bypassing cache", err)
		}
		return false
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false
	}
	return true
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()

	p, ok := c.prefix(ctx)
	if !ok {
		return
	}
	if err := c.rdb.SetEx(ctx, p+key, b, c.ttl).Err(); err != nil {
		c.warn("cache set failed: %v", err)
	}
}

// warn logs at most once a minute so a Redis outage does not flood the log.
func (c *Cache) warn(format string, args ...any) {
	c.warnMu.Lock()
	defer c.warnMu.Unlock()
	if time.Since(c.warned) < time.Minute {
		return
	}
	c.warned = time.Now()
	log.Printf("[Catalog][cache] "+format, args...)
}
