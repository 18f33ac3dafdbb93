package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Subject is the only principal a session can carry.
const Subject = "admin"

type Claims struct {
	jwt.RegisteredClaims
}

func newClaims(jti string, now time.Time, ttl time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   Subject,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// Remaining is how long the token stays valid after now. Never negative.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
