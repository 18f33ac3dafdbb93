package validate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Env validates required env configuration for the session gate.
// Fail-fast on bad config.
func Env() error {
	// Session secret must be present & reasonably long
	secret := os.Getenv("SESSION_SECRET")
	if len(secret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 characters")
	}

	if os.Getenv("ADMIN_PASSWORD_HASH") == "" && os.Getenv("ADMIN_PASSWORD") == "" {
		return errors.New("ADMIN_PASSWORD_HASH or ADMIN_PASSWORD must be set")
	}

	// TTLs and timeouts must parse and be > 0 (defaults are fine if unset)
	if _, err := envDuration("SESSION_TTL", "168h"); err != nil {
		return fmt.Errorf("SESSION_TTL: %w", err)
	}
	for _, k := range []string{"CATALOG_TIMEOUT", "GENERATOR_TIMEOUT", "LOGIN_WINDOW"} {
		if os.Getenv(k) == "" {
			continue
		}
		if _, err := envDuration(k, ""); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}

	// Covers must be served from a stable public URL; presigned ones expire.
	if os.Getenv("AWS_BUCKET") != "" && os.Getenv("COVER_PUBLIC_BASE_URL") == "" {
		return errors.New("COVER_PUBLIC_BASE_URL must be set when AWS_BUCKET is set")
	}

	// Argon2 lower bounds (only enforce if explicitly set)
	if err := envMinUint("ARGON2_MEMORY", 19456); err != nil { // >= 19MiB
		return fmt.Errorf("ARGON2_MEMORY: %w", err)
	}
	if err := envMinUint("ARGON2_ITER", 2); err != nil { // >= 2
		return fmt.Errorf("ARGON2_ITER: %w", err)
	}
	if err := envMinUint("ARGON2_PAR", 1); err != nil { // >= 1
		return fmt.Errorf("ARGON2_PAR: %w", err)
	}
	return nil
}

// HardeningWarnings returns non-fatal warnings to log on startup.
func HardeningWarnings(appEnv string) []string {
	var warns []string

	// Session TTL unusually long?
	if d, _ := envDuration("SESSION_TTL", "168h"); d > 30*24*time.Hour {
		warns = append(warns, fmt.Sprintf("SESSION_TTL=%s is > 30 days; consider a shorter session", d))
	}

	if plain := os.Getenv("ADMIN_PASSWORD"); plain != "" && os.Getenv("ADMIN_PASSWORD_HASH") == "" {
		if score, msg := Strength(plain); score < 3 {
			warns = append(warns, "ADMIN_PASSWORD is weak: "+msg)
		}
	}

	if os.Getenv("GOOGLE_BOOKS_API_KEY") == "" {
		warns = append(warns, "GOOGLE_BOOKS_API_KEY not set; /api/book-search will answer 500")
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		warns = append(warns, "GEMINI_API_KEY not set; cover and suggestion generation disabled")
	}

	// Production-specific nudges
	if strings.EqualFold(appEnv, "production") {
		if os.Getenv("ADMIN_PASSWORD") != "" && os.Getenv("ADMIN_PASSWORD_HASH") == "" {
			warns = append(warns, "ADMIN_PASSWORD is plain text; prefer ADMIN_PASSWORD_HASH in production")
		}
		if os.Getenv("ARGON2_MEMORY") == "" || os.Getenv("ARGON2_ITER") == "" {
			warns = append(warns, "ARGON2_* not explicitly set; using code defaults. Set strong values in production")
		}
		// Redis transport/auth checks from envs
		if u := os.Getenv("UPSTASH_REDIS_URL"); u != "" && strings.HasPrefix(u, "redis://") {
			warns = append(warns, "UPSTASH_REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
		if os.Getenv("UPSTASH_REDIS_URL") == "" && os.Getenv("REDIS_ADDR") != "" {
			// Using REDIS_ADDR path
			if os.Getenv("REDIS_PASSWORD") == "" || os.Getenv("REDIS_USER") == "" {
				warns = append(warns, "REDIS_ADDR provided without REDIS_USER/REDIS_PASSWORD; require auth in production")
			}
		}
		if os.Getenv("UPSTASH_REDIS_URL") == "" && os.Getenv("REDIS_ADDR") == "" {
			warns = append(warns, "no Redis configured; logout cannot revoke sessions and login throttling is per-process")
		}
	}

	return warns
}

// PingRedis checks connectivity with a short timeout.
func PingRedis(rdb *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, err := rdb.Ping(ctx).Result()
	return err
}

// --- helpers ---

func envDuration(key, def string) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		s = def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

func envMinUint(key string, min uint64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil // unset -> code defaults apply elsewhere
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("not a number: %v", err)
	}
	if n < min {
		return fmt.Errorf("must be >= %d", min)
	}
	return nil
}
