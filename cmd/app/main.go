package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freshcart/grocery-backend/internal/config"
	"github.com/freshcart/grocery-backend/internal/logging"
	"github.com/freshcart/grocery-backend/internal/server"
	"github.com/freshcart/grocery-backend/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, logging.LevelInfo).Error("invalid configuration", map[string]interface{}{"error": err})
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(cfg.Tracing, os.Stderr)
	if err != nil {
		logger.Error("tracing setup failed", map[string]interface{}{"error": err})
		os.Exit(1)
	}

	srv, err := server.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", map[string]interface{}{"error": err})
		os.Exit(1)
	}
	defer srv.Close()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down", nil)
		_ = srv.App.ShutdownWithTimeout(10 * time.Second)
	}()

	logger.Info("starting server", map[string]interface{}{"addr": cfg.Addr, "in_memory": cfg.DatabaseURL == ""})
	if err := srv.App.Listen(cfg.Addr); err != nil {
		logger.Error("server stopped", map[string]interface{}{"error": err})
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Warn("tracing flush failed", map[string]interface{}{"error": err})
	}
}
