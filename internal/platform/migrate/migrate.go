// Package migrate applies the embedded SQL schema of a storage backend with
// goose. Each backend ships its own migrations as an fs.FS; a Migrator binds
// one of them to an open database.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
)

// Commands accepted by Run.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// ErrUnknownCommand is returned by Run for commands it does not understand.
var ErrUnknownCommand = errors.New("unknown migration command")

// Migrator runs migrations for one database.
type Migrator struct {
	provider *goose.Provider
	logger   *slog.Logger
}

// New creates a Migrator for db using the migrations in fsys, which must hold
// goose SQL files at its root.
func New(db *sql.DB, dialect goose.Dialect, fsys fs.FS, logger *slog.Logger) (*Migrator, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Migrator{
		provider: provider,
		logger: logger.With(
			slog.String("component", "migrations"),
			slog.String("dialect", string(dialect)),
		),
	}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	for _, r := range results {
		m.logResult(r)
	}
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if len(results) == 0 {
		m.logger.Info("no pending migrations")
	}
	return nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if result != nil {
		m.logResult(result)
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Version returns the current schema version, 0 when nothing is applied.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// Status describes one known migration.
type Status struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// Status lists every known migration and whether it is applied.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Status{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

// Run executes a named command, logging under a fresh correlation ID.
func (m *Migrator) Run(ctx context.Context, command string) error {
	start := time.Now()
	log := m.logger.With(
		slog.String("correlation_id", uuid.New().String()),
		slog.String("command", command),
	)
	log.Info("starting migration operation")

	var err error
	switch command {
	case CommandUp:
		err = m.Up(ctx)
	case CommandDown:
		err = m.Down(ctx)
	case CommandStatus:
		var statuses []Status
		statuses, err = m.Status(ctx)
		for _, s := range statuses {
			log.Info("migration status",
				slog.Int64("version", s.Version),
				slog.String("path", s.Path),
				slog.Bool("applied", s.Applied))
		}
	case CommandVersion:
		var v int64
		v, err = m.Version(ctx)
		if err == nil {
			log.Info("current schema version", slog.Int64("version", v))
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}

	log.Info("migration operation completed",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		slog.Bool("success", err == nil))
	return err
}

func (m *Migrator) logResult(r *goose.MigrationResult) {
	if r == nil || r.Source == nil {
		return
	}
	attrs := []any{
		slog.Int64("version", r.Source.Version),
		slog.String("path", r.Source.Path),
		slog.String("direction", r.Direction),
		slog.Int64("duration_ms", r.Duration.Milliseconds()),
	}
	if r.Error != nil {
		m.logger.Error("migration failed", append(attrs, slog.String("error", r.Error.Error()))...)
		return
	}
	m.logger.Info("migration applied", attrs...)
}
