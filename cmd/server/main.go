package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brojonat/blinkshop/service/actions"
	"github.com/brojonat/blinkshop/service/config"
	"github.com/brojonat/blinkshop/service/metrics"
	"github.com/brojonat/blinkshop/service/nats"
	"github.com/brojonat/blinkshop/service/server"
	"github.com/brojonat/blinkshop/service/solana"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load and validate configuration from environment
	// This fails fast if any required config is missing or invalid
	cfg := config.MustLoad()

	// Setup structured logging
	logger := setupLogger(cfg.LogLevel)
	logger.Info("starting server",
		"addr", cfg.ServerAddr,
		"log_level", cfg.LogLevel,
	)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.NewMetrics(prometheus.DefaultRegisterer)
	}

	// Initialize Solana RPC client
	// Note: For premium RPC endpoints, include API key in the URL
	solanaRPC := solana.NewRPCClient(cfg.SolanaRPCURL)
	solanaClient := solana.NewClient(solanaRPC, cfg.SolanaCommitment, solana.EndpointLabel(cfg.SolanaRPCURL), m, logger)
	logger.Info("initialized solana RPC client",
		"endpoint", solana.EndpointLabel(cfg.SolanaRPCURL),
		"commitment", cfg.SolanaCommitment,
	)

	svc := actions.NewService(solanaClient, actions.Wallets{
		TipTo: cfg.TipTo,
		Shop:  cfg.ShopWallet,
	}, m, logger)

	// Action events are optional; the service runs without NATS.
	if cfg.NATSURL != "" {
		publisher, err := nats.NewPublisher(cfg.NATSURL, m, logger)
		if err != nil {
			logger.Error("failed to initialize NATS publisher", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		svc.WithPublisher(publisher)
	} else {
		logger.Warn("NATS_URL not configured, action events disabled")
	}

	// Initialize HTTP server
	httpServer := server.New(cfg.ServerAddr, cfg, svc, m, logger)

	logger.Info("server initialized, all dependencies ready",
		"tip_to", cfg.TipTo.String(),
		"shop_wallet", cfg.ShopWallet.String(),
		"nats_enabled", cfg.NATSURL != "",
		"metrics_enabled", cfg.MetricsEnabled,
	)

	// Start HTTP server in background
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.Start()
	}()

	// Wait for shutdown signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())

		// Graceful shutdown with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown server gracefully", "error", err)
			os.Exit(1)
		}

		logger.Info("server shutdown complete")
	}
}

// setupLogger creates a structured logger with the given log level.
func setupLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
