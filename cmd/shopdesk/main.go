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

	"github.com/joho/godotenv"

	"github.com/shopdesk/shopdesk/internal/analytics"
	"github.com/shopdesk/shopdesk/internal/app"
	jobmetrics "github.com/shopdesk/shopdesk/internal/jobs"
	"github.com/shopdesk/shopdesk/internal/observability"
	"github.com/shopdesk/shopdesk/internal/platform/cache"
	"github.com/shopdesk/shopdesk/internal/shared"
	shophttp "github.com/shopdesk/shopdesk/internal/shop/http"
	"github.com/shopdesk/shopdesk/internal/view"
	"github.com/shopdesk/shopdesk/internal/workspace"
	"github.com/shopdesk/shopdesk/report"
)

func main() {
	_ = godotenv.Load()

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
	slog.SetDefault(logger)

	wsConfig, err := cfg.WorkspaceConfig()
	if err != nil {
		logger.Error("workspace config", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "shopdesk_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	registry := workspace.NewRegistry(wsConfig, cfg.SessionTTL, logger, metrics)
	registry.InstrumentJobs(jobmetrics.NewMetrics(metrics.Registerer()))
	go registry.Run(ctx, cfg.WorkspaceSweepInterval)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	reportClient := report.NewClient(cfg.GotenbergURL, cfg.GotenbergTimeout)
	if err := reportClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg unreachable, pdf export will fail", slog.Any("error", err))
	}

	shopHandler := shophttp.NewHandler(shophttp.Deps{
		Logger:     logger,
		Registry:   registry,
		CSRF:       csrfManager,
		Sessions:   sessionManager,
		Idempotent: shared.NewIdempotencyStore(redisClient, cfg.IdempotencyRetention),
		Renderer:   report.NewQuotationRenderer(templates, reportClient),
		ChartCache: analytics.NewCache(redisClient, cfg.ChartCacheTTL),
		Metrics:    metrics,
		PageSize:   cfg.DefaultPageSize,
		PDFTimeout: cfg.GotenbergTimeout,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		ShopHandler:    shopHandler,
		Metrics:        metrics,
		Readiness: map[string]app.Pinger{
			"redis":     cache.Probe{Client: redisClient},
			"gotenberg": reportClient,
		},
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: cfg.AppReadTimeout,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("stock_policy", string(wsConfig.StockPolicy)),
			slog.Bool("unique_names", wsConfig.UniqueNames))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
