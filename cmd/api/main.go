package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"example.com/salesvault/internal/api"
	"example.com/salesvault/internal/auth"
	"example.com/salesvault/internal/config"
	"example.com/salesvault/internal/dataset"
	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/logging"
	"example.com/salesvault/internal/projection"
	"example.com/salesvault/internal/store/memory"
	httptransport "example.com/salesvault/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	data, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		logger.Fatal("failed to load dataset", zap.String("path", cfg.DatasetPath), zap.Error(err))
	}

	notifier, closeNotifier, err := buildNotifier(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to configure crm sync", zap.String("backend", cfg.SyncBackend), zap.Error(err))
	}

	service := domain.NewService(memory.NewActivityLog(),
		domain.WithNotifier(notifier),
		domain.WithLogger(logger.Named("service")),
	)
	projector := projection.NewProjector(data)

	handler := api.NewHandler(service, projector, logger.Named("api"))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, cfg.AuthDisabled)
	if cfg.AuthDisabled {
		logger.Warn("authentication disabled, every request runs as the local user")
	}

	server := httptransport.NewServer(httptransport.DefaultServerConfig(cfg.HTTPAddress),
		httptransport.Chain(mux,
			httptransport.RequestLogger(logger.Named("http")),
			httptransport.CORS(cfg.CORSOrigin),
			authMiddleware.Wrap,
		))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("salesvault api listening",
			zap.String("address", cfg.HTTPAddress),
			zap.String("sync_backend", cfg.SyncBackend),
			zap.Int("dataset_records", len(data.Records)))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	closeNotifier()
}
