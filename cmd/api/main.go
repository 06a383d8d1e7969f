package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"webexpress_backend/internal/auth"
	"webexpress_backend/internal/campaigns"
	"webexpress_backend/internal/catalog"
	"webexpress_backend/internal/events"
	"webexpress_backend/internal/funnel"
	apphttp "webexpress_backend/internal/http"
	"webexpress_backend/internal/http/router"
	"webexpress_backend/internal/leads"
	"webexpress_backend/internal/notification"
	"webexpress_backend/internal/tracking"
	"webexpress_backend/platform/config"
	"webexpress_backend/platform/db"
	"webexpress_backend/platform/logger"
	"webexpress_backend/platform/validator"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Redis backs recovery snapshots and the tracking task queue.
	redisOpts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("failed to parse REDIS_URL", "error", err)
		panic("failed to parse REDIS_URL: " + err.Error())
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisOpts.Addr,
		Password: redisOpts.Password,
		DB:       redisOpts.DB,
	})
	defer func() { _ = asynqClient.Close() }()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogModule := catalog.NewModule(pool, val, log)
	if err := catalogModule.Seed(ctx, cfg); err != nil {
		log.Error("failed to seed catalog", "error", err)
		panic("failed to seed catalog: " + err.Error())
	}

	campaignsModule := campaigns.NewModule(pool, eventBus, val, cfg, log)
	leadsModule := leads.NewModule(pool, val, log)
	funnelModule := funnel.NewModule(
		catalogModule.Repository(),
		campaignsModule.Service(),
		leadsModule.Service(),
		redisClient,
		eventBus,
		val,
		cfg,
		log,
	)
	authModule := auth.NewModule(cfg, val, log)

	// Event-only modules: no HTTP surface, wired straight to the bus.
	tracking.NewModule(pool, asynqClient, eventBus, cfg, log)
	notification.NewModule(eventBus, cfg, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			catalogModule,
			campaignsModule,
			leadsModule,
			funnelModule,
			authModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()
	log.Info("server listening", "addr", cfg.HTTPAddr)

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
