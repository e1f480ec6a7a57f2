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

	"github.com/kailas-cloud/storefront/internal/backend"
	"github.com/kailas-cloud/storefront/internal/config"
	logpkg "github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/internal/metrics"
	chiTransport "github.com/kailas-cloud/storefront/internal/transport/chi"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
	productsuc "github.com/kailas-cloud/storefront/internal/usecase/products"
	"github.com/kailas-cloud/storefront/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting storefront API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_backend", cfg.Index.Backend),
		zap.Bool("legacy_errors", cfg.API.LegacyErrors),
	)

	// Register index metrics explicitly (no init())
	metrics.RegisterIndexMetrics()

	ctx := context.Background()
	idx, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open product index", zap.Error(err))
	}
	defer idx.Close()

	if created, err := idx.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to prepare product index", zap.Error(err))
	} else if created {
		logger.Info("Created product index; run cmd/seed to load the catalog")
	}
	logger.Info("Product index ready", zap.String("backend", idx.Name))

	productsSvc := productsuc.New(idx.Index, idx.Name, cfg.API.QueryTimeout())
	healthSvc := healthuc.New(idx.Index, healthuc.DefaultCheckTimeout)

	server := chiTransport.NewServer(productsSvc, healthSvc, cfg.API.LegacyErrors)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys:        cfg.API.APIKeys,
		RateLimitRPS:   cfg.API.RateLimitRPS,
		RateLimitBurst: cfg.API.RateLimitBurst,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
