package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mw "github.com/5w1tchy/earthy-reads/internal/api/middlewares"
	"github.com/5w1tchy/earthy-reads/internal/api/router"
	"github.com/5w1tchy/earthy-reads/internal/auth"
	"github.com/5w1tchy/earthy-reads/internal/catalog"
	"github.com/5w1tchy/earthy-reads/internal/config"
	"github.com/5w1tchy/earthy-reads/internal/generate"
	"github.com/5w1tchy/earthy-reads/internal/models"
	"github.com/5w1tchy/earthy-reads/internal/repository/sqlconnect"
	"github.com/5w1tchy/earthy-reads/internal/security/password"
	"github.com/5w1tchy/earthy-reads/internal/security/session"
	storage "github.com/5w1tchy/earthy-reads/internal/storage/s3"
	storebooks "github.com/5w1tchy/earthy-reads/internal/store/books"
	"github.com/5w1tchy/earthy-reads/internal/store/seed"
	"github.com/5w1tchy/earthy-reads/internal/telemetry"
	"github.com/5w1tchy/earthy-reads/internal/validate"
	"github.com/5w1tchy/earthy-reads/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {

	_ = godotenv.Load()

	if err := validate.Env(); err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg := config.Load()
	for _, w := range validate.HardeningWarnings(cfg.AppEnv) {
		log.Printf("[Config] warning: %s", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "earthy-reads", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}

	rdb := connectRedis(cfg)
	if rdb != nil {
		// Redis is optional: revocation and shared limits degrade, the app keeps serving.
		if err := validate.PingRedis(rdb, 3*time.Second); err != nil {
			log.Printf("[Redis] ping failed: %v (continuing; revocation fails closed)", err)
		} else {
			fmt.Println("✅ Connected to Redis")
		}
	}

	initial := loadSeed(ctx, cfg)
	store := storebooks.New(initial)
	log.Printf("[Seed] store starts with %d books", store.Len())

	cred, err := password.NewCredential(cfg.AdminPasswordHash, cfg.AdminPassword, password.LoadParamsFromEnv())
	if err != nil {
		log.Fatalf("admin credential: %v", err)
	}
	gate := &session.Gate{
		Signer:  session.NewSigner(cfg.SessionSecret, cfg.ClockSkew),
		Revoked: session.Revocations{RDB: rdb},
	}

	deps := router.Deps{
		Store:            store,
		Gate:             gate,
		Auth:             auth.New(gate, cred, cfg.SessionTTL, cfg.Production()),
		RDB:              rdb,
		GeneratorTimeout: cfg.GeneratorTimeout,
		LoginMaxAttempts: cfg.LoginMaxAttempts,
		LoginWindow:      cfg.LoginWindow,
	}

	cat, err := catalog.NewClient(catalog.Options{
		APIKey:  cfg.CatalogAPIKey,
		BaseURL: cfg.CatalogBaseURL,
		Timeout: cfg.CatalogTimeout,
		Debug:   cfg.Debug(),
	})
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	deps.Catalog = cat
	if rdb != nil && cfg.CatalogCache {
		deps.Catalog = catalog.NewCache(cat, rdb, cfg.CatalogTTL)
	}

	gem, err := generate.NewGemini(ctx, cfg.GeminiAPIKey)
	switch {
	case errors.Is(err, generate.ErrNotConfigured):
		log.Printf("[Generate] GEMINI_API_KEY not set; generator routes disabled")
	case err != nil:
		log.Fatalf("gemini: %v", err)
	default:
		defer gem.Close()
		deps.Suggester = generate.NewSuggester(gem.Model(cfg.GeminiTextModel, generate.ConfigureSuggestions))
		deps.Covers = generate.NewCoverArtist(gem.Model(cfg.GeminiImageModel, nil))
	}

	if cfg.CoverStorage() {
		r2, err := storage.NewR2Client(ctx, storage.Settings{
			Endpoint:   cfg.S3Endpoint,
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			PublicBase: cfg.CoverPublicBase,
			PathStyle:  cfg.S3PathStyle,
		})
		if err != nil {
			log.Fatalf("cover storage: %v", err)
		}
		deps.Offload = r2
		log.Printf("[Covers] offloading generated covers to bucket %s", cfg.S3Bucket)
	}

	if err := mw.TrustProxies(cfg.TrustedProxies); err != nil {
		log.Fatalf("TRUSTED_PROXIES: %v", err)
	}
	if len(cfg.TrustedProxies) == 0 {
		log.Printf("[Config] TRUSTED_PROXIES empty; rate limits key on the peer address")
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = mw.DefaultOrigins
	}

	// Last listed runs first.
	secureMux := utils.ApplyMiddleware(
		router.Router(deps),
		mw.HPP(mw.DefaultHPPOptions()),
		mw.BodySizeLimit(cfg.MaxBodySize),
		mw.Compression,
		mw.SecurityHeaders(cfg.StrictSecurity),
		mw.ResponseTimeMiddleware,
		mw.Cors(origins),
		mw.RequestID,
		mw.Recovery,
	)

	port := ":" + cfg.Port
	server := &http.Server{
		Addr:              port,
		Handler:           secureMux,
		ReadHeaderTimeout: 10 * time.Second,
		// Cover generation can take most of a minute.
		WriteTimeout: cfg.GeneratorTimeout + 15*time.Second,
		IdleTimeout:  2 * time.Minute,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	go func() {
		fmt.Println("Server is running on port:", port)
		var err error
		if cfg.TLSCert != "" && cfg.TLSKey != "" {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalln("Error starting server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}

// connectRedis returns nil when neither UPSTASH_REDIS_URL nor REDIS_ADDR is set.
func connectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisURL != "" {
		// Path A: full Upstash URL (recommended)
		opt, err := redis.ParseURL(cfg.RedisURL) // e.g. rediss://default:<token>@host:port
		if err != nil {
			log.Fatalf("invalid UPSTASH_REDIS_URL: %v", err)
		}
		if opt.TLSConfig == nil && cfg.Production() {
			opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		return redis.NewClient(opt)
	}

	if cfg.RedisAddr == "" {
		log.Printf("[Redis] not configured; logout revocation off, rate limits are per process")
		return nil
	}

	// Path B: split fields
	opts := &redis.Options{
		Addr:         cfg.RedisAddr, // host:port (no scheme)
		Username:     cfg.RedisUser,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
	if cfg.RedisPassword != "" {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}

// loadSeed reads the initial shelf once. A configured database that fails
// falls back to the built-in list.
func loadSeed(ctx context.Context, cfg config.Config) []models.Book {
	var src seed.Source = seed.Static{}
	if cfg.SeedDatabaseURL != "" {
		db, err := sqlconnect.ConnectDB(cfg.SeedDatabaseURL)
		if err != nil {
			log.Printf("[Seed] database unavailable (%v); using built-in seed", err)
		} else {
			defer db.Close()
			src = seed.Fallback{Primary: seed.SQL{DB: db}, Secondary: seed.Static{}}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	books, err := src.Books(ctx)
	if err != nil {
		log.Printf("[Seed] %v; starting empty", err)
		return nil
	}
	return books
}
