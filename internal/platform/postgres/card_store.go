package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/domain/level"
	"github.com/phrazzld/hanzi-srs/internal/platform/logger"
	"github.com/phrazzld/hanzi-srs/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore and store.CardUpdater
var (
	_ store.CardStore   = (*PostgresCardStore)(nil)
	_ store.CardUpdater = (*PostgresCardStore)(nil)
)

const cardColumns = `key, level, pinyin, meaning_vi, meaning_en, easiness_factor,
	interval_days, repetitions, lapses, friction, last_review, next_review, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card       domain.Card
		lastReview sql.NullTime
	)
	err := row.Scan(
		&card.Key,
		&card.Level,
		&card.Pinyin,
		&card.MeaningVI,
		&card.MeaningEN,
		&card.EasinessFactor,
		&card.Interval,
		&card.Repetitions,
		&card.Lapses,
		&card.Friction,
		&lastReview,
		&card.NextReview,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReview.Valid {
		t := lastReview.Time.UTC()
		card.LastReview = &t
	}
	card.NextReview = card.NextReview.UTC()
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()

	card = card.WithDefaults()
	return &card, nil
}

func cardArgs(c *domain.Card) []any {
	var lastReview *time.Time
	if c.LastReview != nil {
		t := *c.LastReview
		lastReview = &t
	}
	return []any{
		c.Key,
		c.Level,
		c.Pinyin,
		c.MeaningVI,
		c.MeaningEN,
		c.EasinessFactor,
		c.Interval,
		c.Repetitions,
		c.Lapses,
		c.Friction,
		lastReview,
		c.NextReview,
		c.CreatedAt,
		c.UpdatedAt,
	}
}

// Get implements store.CardStore.Get
// It retrieves a card by its key.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) Get(ctx context.Context, key string) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE key = $1`, strings.TrimSpace(key))
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found", slog.String("key", key))
		return nil, store.ErrCardNotFound
	}
	if err != nil {
		log.Error("failed to get card",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("card", "get", "query failed", MapError(err))
	}
	return card, nil
}

// GetAll implements store.CardStore.GetAll
// It returns every card at the normalized level, ordered by key.
func (s *PostgresCardStore) GetAll(ctx context.Context, lvl string) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// The stored level may be any spelling when another tool wrote the row,
	// so rows are matched on their canonical tag after scanning.
	rows, err := s.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY key`)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("level", lvl),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("card", "get_all", "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tag := level.Canonical(lvl)
	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, store.NewStoreError("card", "get_all", "scan failed", err)
		}
		if card.Level == tag {
			cards = append(cards, card)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "get_all", "iteration failed", err)
	}
	return cards, nil
}

// Create implements store.CardStore.Create
// The insert is a no-op when the key exists, which makes creation idempotent
// across processes; that case is reported as store.ErrCardExists.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("invalid card rejected",
			slog.String("key", card.Key),
			slog.String("error", err.Error()))
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (key) DO NOTHING`, cardArgs(card)...)
	if err != nil {
		log.Error("failed to create card",
			slog.String("key", card.Key),
			slog.String("error", err.Error()))
		return store.NewStoreError("card", "create", "insert failed", MapError(err))
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrCardExists
		}
		return store.NewStoreError("card", "create", "rows affected unavailable", err)
	}

	log.Debug("card created",
		slog.String("key", card.Key),
		slog.String("level", card.Level))
	return nil
}

// Put implements store.CardStore.Put
// It upserts the whole record.
func (s *PostgresCardStore) Put(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (key) DO UPDATE SET
			level = EXCLUDED.level,
			pinyin = EXCLUDED.pinyin,
			meaning_vi = EXCLUDED.meaning_vi,
			meaning_en = EXCLUDED.meaning_en,
			easiness_factor = EXCLUDED.easiness_factor,
			interval_days = EXCLUDED.interval_days,
			repetitions = EXCLUDED.repetitions,
			lapses = EXCLUDED.lapses,
			friction = EXCLUDED.friction,
			last_review = EXCLUDED.last_review,
			next_review = EXCLUDED.next_review,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at`, cardArgs(card)...)
	if err != nil {
		log.Error("failed to put card",
			slog.String("key", card.Key),
			slog.String("error", err.Error()))
		return store.NewStoreError("card", "put", "upsert failed", MapError(err))
	}
	return nil
}

// Update implements store.CardUpdater.Update
// The row is locked with SELECT ... FOR UPDATE, so reviews of the same key
// from other processes wait for this one to commit. When the store already
// wraps a transaction the update joins it.
func (s *PostgresCardStore) Update(ctx context.Context, key string, fn store.CardUpdateFn) (*domain.Card, error) {
	beginner, ok := s.db.(store.TxBeginner)
	if !ok {
		return s.updateIn(ctx, s.db, key, fn)
	}

	var updated *domain.Card
	err := store.RunInTransaction(ctx, beginner, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		updated, err = s.updateIn(ctx, tx, key, fn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PostgresCardStore) updateIn(
	ctx context.Context,
	db store.DBTX,
	key string,
	fn store.CardUpdateFn,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	key = strings.TrimSpace(key)

	row := db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE key = $1 FOR UPDATE`, key)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCardNotFound
	}
	if err != nil {
		log.Error("failed to lock card",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("card", "update", "query failed", MapError(err))
	}

	next, err := fn(card)
	if err != nil {
		return nil, err
	}

	txStore := &PostgresCardStore{db: db, logger: s.logger}
	if err := txStore.Put(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}
