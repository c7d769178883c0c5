package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/hanzi-srs/internal/config"
	"github.com/phrazzld/hanzi-srs/internal/domain/srs"
	"github.com/phrazzld/hanzi-srs/internal/jobs"
	"github.com/phrazzld/hanzi-srs/internal/platform/clock"
	"github.com/phrazzld/hanzi-srs/internal/platform/storage"
	"github.com/phrazzld/hanzi-srs/internal/service/study"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	storage      *storage.Backend
	studyService study.Service
	digest       *jobs.Digest
}

// newApplication wires the study service and the digest job on top of an
// opened storage backend. The application owns backend from here on.
func newApplication(cfg *config.Config, logger *slog.Logger, backend *storage.Backend) *application {
	studyService := study.NewService(
		backend.Cards,
		backend.Lookups,
		srs.NewDefaultService(),
		clock.System{},
		studyOptions(cfg.Scheduler),
		logger,
	)

	return &application{
		config:       cfg,
		logger:       logger,
		storage:      backend,
		studyService: studyService,
		digest:       jobs.NewDigest(studyService, cfg.Scheduler.DigestInterval, logger),
	}
}

func studyOptions(cfg config.SchedulerConfig) study.Options {
	return study.Options{
		FrictionThreshold: cfg.FrictionThreshold,
		StrictLevels:      cfg.StrictLevels,
	}
}

// Run starts the digest job and the HTTP server and blocks until ctx is done
// or the server fails.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.digest.Start(); err != nil {
		return err
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	app.digest.Stop()

	if err := app.storage.Close(); err != nil {
		app.logger.Error("error closing storage", slog.String("error", err.Error()))
	}

	app.logger.Info("application shutdown completed")
}
