// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Doira HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers and the deposit worker.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/doira/internal/api"
	"github.com/taibuivan/doira/internal/core/catalog"
	"github.com/taibuivan/doira/internal/core/crossref"
	"github.com/taibuivan/doira/internal/platform/config"
	"github.com/taibuivan/doira/internal/platform/constants"
	"github.com/taibuivan/doira/internal/platform/migration"
	pgstore "github.com/taibuivan/doira/internal/platform/postgres"
	redisstore "github.com/taibuivan/doira/internal/platform/redis"
	"github.com/taibuivan/doira/internal/platform/sec"
	"github.com/taibuivan/doira/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "doira"))
	slog.SetDefault(log)

	log.Info("[Doira] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "doira"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lifecycle context for long-lived background components (rate limiter
	// janitor, deposit worker). Cancelled after the HTTP server drains.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Auth Service ───────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckQueue: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, jwtSvc)
	authHandler := auth.NewHandler(authService)

	publisherRepository := catalog.NewPublisherRepository(pool)
	publicationRepository := catalog.NewPublicationRepository(pool)
	issueRepository := catalog.NewIssueRepository(pool)
	articleRepository := catalog.NewArticleRepository(pool)
	graphRepository := catalog.NewGraphRepository(pool)

	catalogService := catalog.NewService(
		publisherRepository,
		publicationRepository,
		issueRepository,
		articleRepository,
		log,
	)
	catalogHandler := catalog.NewHandler(catalogService)

	depositRepository := crossref.NewDepositRepository(pool)
	exportRepository := crossref.NewExportRepository(pool)
	generateQueue := crossref.NewRedisQueue(rdb)

	depositService := crossref.NewService(
		graphRepository,
		issueRepository,
		articleRepository,
		depositRepository,
		exportRepository,
		generateQueue,
		crossref.NewRenderer(),
		crossref.Depositor{Name: cfg.DepositorName, Email: cfg.DepositorEmail},
		log,
	)
	depositHandler := crossref.NewHandler(depositService)

	// Deferred generation worker. One consumer is enough: generation is
	// serialized per issue by the status guard anyway.
	depositWorker := crossref.NewWorker(generateQueue, depositService, log)
	go depositWorker.Run(appCtx)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Catalog:   catalogHandler,
		Deposit:   depositHandler,
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	// Stop the deposit worker after the listener drains so in-flight
	// generate requests can still enqueue.
	appCancel()

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
