package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mapleai/mapleai/internal/app"
	"github.com/mapleai/mapleai/internal/auth"
	"github.com/mapleai/mapleai/internal/dashboard"
	"github.com/mapleai/mapleai/internal/events"
	"github.com/mapleai/mapleai/internal/observability"
	"github.com/mapleai/mapleai/internal/platform/cache"
	"github.com/mapleai/mapleai/internal/platform/db"
	"github.com/mapleai/mapleai/internal/shared"
	"github.com/mapleai/mapleai/internal/view"
	"github.com/mapleai/mapleai/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// Redis is a degradation, not a hard dependency: without it the
	// dashboard cache and usage counters are skipped.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("connect redis", slog.Any("error", err))
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokenIssuer, err := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		logger.Error("init token issuer", slog.Any("error", err))
		os.Exit(1)
	}
	guard := auth.NewGuard(tokenIssuer)
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret, cfg.IsProduction())

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	tracker := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, logger)
	defer func() {
		if err := tracker.Close(); err != nil {
			logger.Warn("tracker close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(dbpool)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, logger, auditLogger)
	authHandler := auth.NewHandler(logger, authService, tokenIssuer, templates, csrfManager, tracker, cfg.IsProduction())

	eventStore := events.NewStore(dbpool, redisClient)
	dashboardRepo := dashboard.NewRepository(dbpool)
	dashboardCache := dashboard.NewCache(redisClient, 10*time.Minute)
	dashboardService := dashboard.NewService(dashboardRepo, eventStore, dashboardCache, logger)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, tracker)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Templates:        templates,
		Guard:            guard,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		DashboardHandler: dashboardHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("base_url", cfg.BaseURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
