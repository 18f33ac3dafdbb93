// Package config reads runtime settings from the environment. Call
// godotenv.Load before Load so a local .env file is honoured.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	AppEnv   string
	TLSCert  string
	TLSKey   string
	LogLevel string

	SessionSecret string
	SessionTTL    time.Duration
	ClockSkew     time.Duration

	AdminPasswordHash string
	AdminPassword     string

	LoginMaxAttempts int
	LoginWindow      time.Duration

	RedisURL      string
	RedisAddr     string
	RedisUser     string
	RedisPassword string

	CatalogAPIKey  string
	CatalogBaseURL string
	CatalogTimeout time.Duration
	CatalogCache   bool
	CatalogTTL     time.Duration

	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiImageModel string
	GeneratorTimeout time.Duration

	SeedDatabaseURL string

	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	CoverPublicBase string
	S3PathStyle     bool

	AllowedOrigins []string
	TrustedProxies []string
	MaxBodySize    int64
	StrictSecurity bool

	OTLPEndpoint string
}

func Load() Config {
	return Config{
		Port:     getEnv("PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		TLSCert:  os.Getenv("TLS_CERT_FILE"),
		TLSKey:   os.Getenv("TLS_KEY_FILE"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    envDur("SESSION_TTL", 7*24*time.Hour),
		ClockSkew:     time.Duration(envInt("AUTH_CLOCK_SKEW_SEC", 60)) * time.Second,

		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),

		LoginMaxAttempts: envInt("LOGIN_MAX_ATTEMPTS", 10),
		LoginWindow:      envDur("LOGIN_WINDOW", 5*time.Minute),

		RedisURL:      os.Getenv("UPSTASH_REDIS_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisUser:     os.Getenv("REDIS_USER"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		CatalogAPIKey:  os.Getenv("GOOGLE_BOOKS_API_KEY"),
		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "https://www.googleapis.com/books/v1"),
		CatalogTimeout: envDur("CATALOG_TIMEOUT", 10*time.Second),
		CatalogCache:   os.Getenv("CATALOG_DISABLE_CACHE") != "1",
		CatalogTTL:     envDur("CATALOG_CACHE_TTL", 10*time.Minute),

		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-2.0-flash"),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.0-flash-preview-image-generation"),
		GeneratorTimeout: envDur("GENERATOR_TIMEOUT", 60*time.Second),

		SeedDatabaseURL: os.Getenv("SEED_DATABASE_URL"),

		S3Endpoint:      os.Getenv("AWS_ENDPOINT"),
		S3Region:        getEnv("AWS_REGION", "auto"),
		S3Bucket:        os.Getenv("AWS_BUCKET"),
		S3AccessKey:     os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretKey:     os.Getenv("AWS_SECRET_ACCESS_KEY"),
		CoverPublicBase: os.Getenv("COVER_PUBLIC_BASE_URL"),
		S3PathStyle:     os.Getenv("AWS_PATH_STYLE") == "1",

		AllowedOrigins: splitCSV(os.Getenv("ALLOWED_ORIGINS")),
		// Only peers in these ranges may set X-Forwarded-For / X-Real-IP.
		TrustedProxies: splitCSV(os.Getenv("TRUSTED_PROXIES")),
		MaxBodySize:    int64(envInt("MAX_BODY_SIZE", 10*1024*1024)),
		StrictSecurity: os.Getenv("STRICT_SECURITY") == "1",

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func (c Config) Production() bool { return strings.EqualFold(c.AppEnv, "production") }

func (c Config) Debug() bool { return c.LogLevel == "debug" }

// CoverStorage reports whether generated covers should be offloaded.
func (c Config) CoverStorage() bool { return c.S3Bucket != "" }

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
