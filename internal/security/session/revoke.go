package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "sess:revoked:"

// Revocations tracks logged-out token ids. A nil RDB disables it: tokens
// then stay valid until they expire.
type Revocations struct {
	RDB *redis.Client
}

func (r Revocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if r.RDB == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return r.RDB.Set(ctx, revokedPrefix+jti, 1, ttl).Err()
}

// Revoked fails closed: a Redis error counts as revoked.
func (r Revocations) Revoked(ctx context.Context, jti string) bool {
	if r.RDB == nil {
		return false
	}
	n, err := r.RDB.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return true
	}
	return n > 0
}
