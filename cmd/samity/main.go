package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/samity/samity-ledger-go/internal/config"
	"github.com/samity/samity-ledger-go/internal/domain"
	"github.com/samity/samity-ledger-go/internal/handler"
	"github.com/samity/samity-ledger-go/internal/infra/cache"
	"github.com/samity/samity-ledger-go/internal/infra/memstore"
	"github.com/samity/samity-ledger-go/internal/infra/observability"
	"github.com/samity/samity-ledger-go/internal/infra/store"
	"github.com/samity/samity-ledger-go/internal/port"
	"github.com/samity/samity-ledger-go/internal/service"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("data_backend", cfg.DataBackend),
		zap.String("sqlite_path", cfg.SQLitePath),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Bool("tracing_enabled", cfg.TracingEnabled),
	)

	// --- Tracing ---
	otlpEndpoint := ""
	if cfg.TracingEnabled {
		otlpEndpoint = cfg.OTLPEndpoint
	}
	shutdownTracer, err := observability.InitTracer(otlpEndpoint, "samity-ledger")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Store ---
	var ledgerStore port.Store
	switch cfg.DataBackend {
	case "memory":
		logger.Info("using in-memory data backend; data is lost on restart")
		ledgerStore = memstore.New()
	default:
		logger.Info("using SQLite data backend", zap.String("path", cfg.SQLitePath))
		sqliteStore, err := store.New(cfg.SQLitePath, logger)
		if err != nil {
			logger.Fatal("failed to open store", zap.Error(err))
		}
		defer sqliteStore.Close()
		ledgerStore = sqliteStore
	}

	// --- Cache ---
	dashboardCache := cache.New[*domain.Dashboard](cfg.CacheTTL)

	// --- Service ---
	svc := service.New(ledgerStore, dashboardCache, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(svc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
