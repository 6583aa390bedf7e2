package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/redact"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// pinger reports whether a backing service is reachable.
type pinger interface {
	PingContext(ctx context.Context) error
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	health pinger
	redis  *redis.Client

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService  auth.JWTService
	userService service.UserService
	taskService service.TaskService

	registry    *prometheus.Registry
	metrics     *middleware.Metrics
	rateLimiter middleware.RateLimiter
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		health: db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT secret not configured; authenticated routes will fail")
	}
	logger.Info("JWT authentication service initialized",
		slog.Duration("token_lifetime", cfg.Auth.TokenLifetime))

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.userService = service.NewUserService(app.userStore, auth.NewBcryptVerifier(), logger)
	app.taskService = service.NewTaskService(app.taskStore, logger)

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "taskapi"),
	)
	app.metrics = middleware.NewMetrics(app.registry)

	app.rateLimiter = app.setupRateLimiter(ctx)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupRateLimiter returns the Redis limiter when Redis is configured and
// reachable, and the in-process limiter otherwise.
func (app *application) setupRateLimiter(ctx context.Context) middleware.RateLimiter {
	rl := app.config.RateLimit

	if rl.RedisURL != "" {
		client, err := connectRedis(ctx, rl.RedisURL)
		if err == nil {
			app.redis = client
			app.logger.Info("Using Redis rate limiter",
				slog.Int("max_requests", rl.MaxRequests),
				slog.Duration("window", rl.Window))
			return middleware.NewRedisRateLimiter(client, rl.MaxRequests, rl.Window, app.metrics)
		}
		app.logger.Warn("Redis unavailable, falling back to in-memory rate limiter",
			slog.String("error", redact.Error(err)))
	}

	limiter := middleware.NewIPRateLimiter(rl.RequestsPerSecond, rl.Burst, app.metrics)
	go limiter.Run(ctx, time.Minute)
	return limiter
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis client", slog.String("error", redact.Error(err)))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", redact.Error(err)))
		}
	}

	app.logger.Info("Application shutdown completed")
}
