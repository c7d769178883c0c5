package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/platform/logger"
	"github.com/phrazzld/hanzi-srs/internal/store"
)

// LookupStore implements store.LookupStore on SQLite.
type LookupStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var _ store.LookupStore = (*LookupStore)(nil)

// NewLookupStore creates a SQLite lookup counter.
func NewLookupStore(db *sqlx.DB, logger *slog.Logger) *LookupStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LookupStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_lookup_store")),
	}
}

// Increment implements store.LookupStore.
func (s *LookupStore) Increment(ctx context.Context, key string) (int, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, domain.ErrEmptyKey
	}

	var count int
	err := s.db.GetContext(ctx, &count, `
		INSERT INTO lookups (key, count) VALUES (?, 1)
		ON CONFLICT (key) DO UPDATE SET count = count + 1
		RETURNING count`, key)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to increment lookups",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("lookup", "increment", "upsert failed", err)
	}
	return count, nil
}

// Count implements store.LookupStore.
func (s *LookupStore) Count(ctx context.Context, key string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT count FROM lookups WHERE key = ?`, strings.TrimSpace(key))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, store.NewStoreError("lookup", "count", "query failed", err)
	}
	return count, nil
}
