package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/platform/logger"
	"github.com/phrazzld/hanzi-srs/internal/store"
)

// PostgresLookupStore implements store.LookupStore on PostgreSQL.
type PostgresLookupStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.LookupStore = (*PostgresLookupStore)(nil)

// NewPostgresLookupStore creates a new PostgreSQL lookup counter.
func NewPostgresLookupStore(db store.DBTX, logger *slog.Logger) *PostgresLookupStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLookupStore{
		db:     db,
		logger: logger.With(slog.String("component", "lookup_store")),
	}
}

// Increment implements store.LookupStore.Increment.
func (s *PostgresLookupStore) Increment(ctx context.Context, key string) (int, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, domain.ErrEmptyKey
	}

	var count int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO lookups (key, count) VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET count = lookups.count + 1
		RETURNING count`, key).Scan(&count)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to increment lookups",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("lookup", "increment", "upsert failed", MapError(err))
	}
	return count, nil
}

// Count implements store.LookupStore.Count.
func (s *PostgresLookupStore) Count(ctx context.Context, key string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM lookups WHERE key = $1`, strings.TrimSpace(key)).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, store.NewStoreError("lookup", "count", "query failed", MapError(err))
	}
	return count, nil
}
