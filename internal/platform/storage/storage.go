// Package storage opens the card and lookup stores selected by
// configuration.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/hanzi-srs/internal/config"
	"github.com/phrazzld/hanzi-srs/internal/platform/memory"
	"github.com/phrazzld/hanzi-srs/internal/platform/migrate"
	"github.com/phrazzld/hanzi-srs/internal/platform/postgres"
	"github.com/phrazzld/hanzi-srs/internal/platform/sqlite"
	"github.com/phrazzld/hanzi-srs/internal/store"
)

// ErrNoMigrations is returned by Migrator for drivers without a schema.
var ErrNoMigrations = errors.New("storage driver has no migrations")

// Backend bundles the stores of one driver with the resources behind them.
type Backend struct {
	Driver  string
	Cards   store.CardStore
	Lookups store.LookupStore

	db     *sql.DB
	logger *slog.Logger
}

// Open connects to the configured driver. SQL backends are not migrated;
// call Migrator or use OpenAndMigrate.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "storage"), slog.String("driver", cfg.Driver))

	b := &Backend{Driver: cfg.Driver, logger: logger}

	switch cfg.Driver {
	case config.DriverMemory:
		b.Cards = memory.NewCardStore(logger)
		b.Lookups = memory.NewLookupStore()

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.db = db.DB
		b.Cards = sqlite.NewCardStore(db, logger)
		b.Lookups = sqlite.NewLookupStore(db, logger)

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b.db = db
		b.Cards = postgres.NewPostgresCardStore(db, logger)
		b.Lookups = postgres.NewPostgresLookupStore(db, logger)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	logger.Info("storage opened")
	return b, nil
}

// OpenAndMigrate opens the configured driver and applies pending migrations.
func OpenAndMigrate(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*Backend, error) {
	b, err := Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	m, err := b.Migrator()
	if errors.Is(err, ErrNoMigrations) {
		return b, nil
	}
	if err == nil {
		err = m.Up(ctx)
	}
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to migrate %s storage: %w", cfg.Driver, err)
	}
	return b, nil
}

// Migrator returns the schema migrator of a SQL backend, or ErrNoMigrations.
func (b *Backend) Migrator() (*migrate.Migrator, error) {
	switch b.Driver {
	case config.DriverSQLite:
		return sqlite.NewMigrator(b.db, b.logger)
	case config.DriverPostgres:
		return postgres.NewMigrator(b.db, b.logger)
	default:
		return nil, ErrNoMigrations
	}
}

// Close releases the database connection, if any.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close %s storage: %w", b.Driver, err)
	}
	return nil
}
