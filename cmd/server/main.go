// Package main implements the hanzi-srs HTTP server, which schedules HSK
// vocabulary reviews for a learner.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/hanzi-srs/internal/config"
	"github.com/phrazzld/hanzi-srs/internal/platform/logger"
	"github.com/phrazzld/hanzi-srs/internal/platform/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("hanzi-srs server: %v", err)
	}
}

// run loads configuration, opens storage and serves until ctx is done.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.Bool("strict_levels", cfg.Scheduler.StrictLevels),
		slog.Duration("digest_interval", cfg.Scheduler.DigestInterval))

	backend, err := storage.OpenAndMigrate(ctx, cfg.Storage, l)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	app := newApplication(cfg, l, backend)
	return app.Run(ctx)
}
