package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dramatize/streamgate/internal/gate/domain"
	httpapi "github.com/dramatize/streamgate/internal/gate/http"
	"github.com/dramatize/streamgate/internal/gate/service"
	"github.com/dramatize/streamgate/internal/gate/store"
	"github.com/dramatize/streamgate/internal/gate/store/drivers/sqlite"
	"github.com/dramatize/streamgate/pkg/cryptox"
	"github.com/dramatize/streamgate/pkg/jwtx"
	"github.com/dramatize/streamgate/pkg/ratelimit"
	"github.com/dramatize/streamgate/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gate service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	redis *redis.Client // nil unless the redis rate-limit backend is configured

	tokenService  *service.TokenService
	keyService    *service.KeyService
	accessService *service.AccessService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "streamgate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initSecrets(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.seedCatalog(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("streamgate starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"media_root", app.cfg.MediaRoot,
		"rate_limit_backend", app.cfg.RateLimitBackend,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down streamgate...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("streamgate stopped")
	return nil
}

// initSecrets enforces the signing and encryption secrets. Outside prod,
// missing secrets are generated so the service starts for local development;
// tokens and keys then don't survive a restart.
func (app *Application) initSecrets() error {
	if app.cfg.TokenSecret == "" {
		if app.cfg.Env == "prod" {
			return errors.New("STREAMGATE_TOKEN_SECRET is required in prod")
		}
		app.cfg.TokenSecret = cryptox.MustGenerateToken(32)
		app.logger.Warn("STREAMGATE_TOKEN_SECRET not set, generated an ephemeral one")
	}

	if app.cfg.EncryptionSecret == "" {
		if app.cfg.Env == "prod" {
			return errors.New("STREAMGATE_ENCRYPTION_SECRET is required in prod")
		}
		app.cfg.EncryptionSecret = cryptox.MustGenerateToken(32)
		app.logger.Warn("STREAMGATE_ENCRYPTION_SECRET not set, generated an ephemeral one")
	}

	return nil
}

// initDatabase initializes the catalog database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// seedCatalog inserts STREAMGATE_SEED_VIDEOS rows ("id:title,id:title") into
// an empty catalog. Dev and test convenience only.
func (app *Application) seedCatalog() error {
	if app.cfg.SeedVideos == "" {
		return nil
	}
	if app.cfg.Env == "prod" {
		return errors.New("STREAMGATE_SEED_VIDEOS must not be set in prod")
	}

	ctx := context.Background()

	count, err := app.db.Videos().CountVideos(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if count > 0 {
		return nil // already seeded
	}

	for _, entry := range strings.Split(app.cfg.SeedVideos, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		id, title, ok := strings.Cut(entry, ":")
		if !ok || id == "" {
			return fmt.Errorf("seed catalog: malformed entry %q", entry)
		}
		if title == "" {
			title = id
		}

		err := app.db.Videos().CreateVideo(ctx, domain.Video{
			ID:        id,
			Title:     title,
			Available: true,
		})
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		app.logger.Info("seeded catalog video", "video_id", id)
	}

	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	codec, err := jwtx.NewHS256([]byte(app.cfg.TokenSecret))
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}

	app.tokenService = &service.TokenService{
		Signer:     codec,
		Verifier:   codec,
		Expiry:     app.cfg.TokenExpiry,
		CDNBaseURL: app.cfg.CDNBaseURL,
	}
	app.keyService = &service.KeyService{Secret: app.cfg.EncryptionSecret}
	app.accessService = &service.AccessService{Store: app.db}

	return nil
}

// initHTTP wires the router, rate limiting backend and the HTTP server
func (app *Application) initHTTP() error {
	router := httpapi.NewRouter(app.db, app.logger, app.cfg.Env == "prod")
	router.Tokens = app.tokenService
	router.Keys = app.keyService
	router.Referer = service.NewRefererPolicy(app.cfg.AllowedDomains)
	router.Access = app.accessService
	router.MediaRoot = app.cfg.MediaRoot

	switch app.cfg.RateLimitBackend {
	case "", "memory":
		router.VideoLimiter = ratelimit.NewMemory(ratelimit.VideoLimit)
		router.LenientLimiter = ratelimit.NewMemory(ratelimit.LenientLimit)

	case "redis":
		if app.cfg.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required when RATE_LIMIT_BACKEND=redis")
		}
		app.redis = redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})

		router.VideoLimiter = ratelimit.NewRedis(app.redis, "rl:video", ratelimit.VideoLimit)
		router.LenientLimiter = ratelimit.NewRedis(app.redis, "rl:lenient", ratelimit.LenientLimit)
		router.ReadyChecks = append(router.ReadyChecks, httpapi.ReadyCheck{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return app.redis.Ping(ctx).Err()
			},
		})

	default:
		return fmt.Errorf("unknown rate limit backend %q", app.cfg.RateLimitBackend)
	}

	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              ":" + strconv.Itoa(app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return nil
}
