package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/internal/frontend/server"
	"github.com/msto63/stormsql/internal/history"
	"github.com/msto63/stormsql/pkg/core/config"
	"github.com/msto63/stormsql/pkg/core/logging"
	"github.com/msto63/stormsql/pkg/core/version"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logging.NewSimpleLogger("stormsqld").ErrorWithErr("Failed to load configuration", err)
		os.Exit(1)
	}

	logger := logging.NewServiceLogger("stormsqld", cfg)
	logger.Info("Starting StormSQL server", mdwlog.Fields{"version": version.String("stormsqld")})

	ctx := context.Background()
	recorder, err := history.Open(ctx, cfg.History, logger)
	if err != nil {
		logger.ErrorWithErr("Failed to open history", err)
		os.Exit(1)
	}

	// Create server
	srv := server.New(server.ConfigFrom(cfg, recorder, logger))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.ErrorWithErr("Server failed", err)
		srv.Stop(ctx)
		os.Exit(1)
	case <-sigCh:
		logger.Info("Shutdown signal received, stopping server...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	srv.Stop(shutdownCtx)

	logger.Info("StormSQL server stopped")
}
