package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/domain/level"
	"github.com/phrazzld/hanzi-srs/internal/platform/logger"
	"github.com/phrazzld/hanzi-srs/internal/store"
)

// CardStore implements store.CardStore on SQLite.
type CardStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var _ store.CardStore = (*CardStore)(nil)

// NewCardStore creates a SQLite card store. The schema must already be
// migrated. If logger is nil, a default logger will be used.
func NewCardStore(db *sqlx.DB, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_card_store")),
	}
}

type cardRow struct {
	Key            string        `db:"key"`
	Level          string        `db:"level"`
	Pinyin         string        `db:"pinyin"`
	MeaningVI      string        `db:"meaning_vi"`
	MeaningEN      string        `db:"meaning_en"`
	EasinessFactor float64       `db:"easiness_factor"`
	IntervalDays   int           `db:"interval_days"`
	Repetitions    int           `db:"repetitions"`
	Lapses         int           `db:"lapses"`
	Friction       bool          `db:"friction"`
	LastReview     sql.NullInt64 `db:"last_review"`
	NextReview     int64         `db:"next_review"`
	CreatedAt      int64         `db:"created_at"`
	UpdatedAt      int64         `db:"updated_at"`
}

const cardColumns = `key, level, pinyin, meaning_vi, meaning_en, easiness_factor,
	interval_days, repetitions, lapses, friction, last_review, next_review, created_at, updated_at`

func toRow(c *domain.Card) cardRow {
	row := cardRow{
		Key:            c.Key,
		Level:          c.Level,
		Pinyin:         c.Pinyin,
		MeaningVI:      c.MeaningVI,
		MeaningEN:      c.MeaningEN,
		EasinessFactor: c.EasinessFactor,
		IntervalDays:   c.Interval,
		Repetitions:    c.Repetitions,
		Lapses:         c.Lapses,
		Friction:       c.Friction,
		NextReview:     c.NextReview.UnixMilli(),
		CreatedAt:      c.CreatedAt.UnixMilli(),
		UpdatedAt:      c.UpdatedAt.UnixMilli(),
	}
	if c.LastReview != nil {
		row.LastReview = sql.NullInt64{Int64: c.LastReview.UnixMilli(), Valid: true}
	}
	return row
}

func (r cardRow) toCard() *domain.Card {
	card := domain.Card{
		Key:            r.Key,
		Level:          r.Level,
		Pinyin:         r.Pinyin,
		MeaningVI:      r.MeaningVI,
		MeaningEN:      r.MeaningEN,
		EasinessFactor: r.EasinessFactor,
		Interval:       r.IntervalDays,
		Repetitions:    r.Repetitions,
		Lapses:         r.Lapses,
		Friction:       r.Friction,
		NextReview:     time.UnixMilli(r.NextReview).UTC(),
		CreatedAt:      time.UnixMilli(r.CreatedAt).UTC(),
		UpdatedAt:      time.UnixMilli(r.UpdatedAt).UTC(),
	}
	if r.LastReview.Valid {
		t := time.UnixMilli(r.LastReview.Int64).UTC()
		card.LastReview = &t
	}
	card = card.WithDefaults()
	return &card
}

// Get implements store.CardStore.
func (s *CardStore) Get(ctx context.Context, key string) (*domain.Card, error) {
	var row cardRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+cardColumns+` FROM cards WHERE key = ?`, strings.TrimSpace(key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCardNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get card",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("card", "get", "query failed", err)
	}
	return row.toCard(), nil
}

// GetAll implements store.CardStore.
func (s *CardStore) GetAll(ctx context.Context, lvl string) ([]*domain.Card, error) {
	// Rows written by other tools may carry any spelling of a level, so the
	// match runs on the canonical tag rather than the stored column.
	var rows []cardRow
	err := s.db.SelectContext(ctx, &rows, `SELECT `+cardColumns+` FROM cards ORDER BY key`)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list cards",
			slog.String("level", lvl),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("card", "get_all", "query failed", err)
	}

	tag := level.Canonical(lvl)
	cards := make([]*domain.Card, 0)
	for _, r := range rows {
		if card := r.toCard(); card.Level == tag {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// Create implements store.CardStore. Existing keys are left untouched.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES (:key, :level, :pinyin, :meaning_vi, :meaning_en, :easiness_factor,
			:interval_days, :repetitions, :lapses, :friction, :last_review, :next_review, :created_at, :updated_at)
		ON CONFLICT (key) DO NOTHING`, toRow(card))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create card",
			slog.String("key", card.Key),
			slog.String("error", err.Error()))
		return store.NewStoreError("card", "create", "insert failed", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return store.NewStoreError("card", "create", "rows affected unavailable", err)
	}
	if n == 0 {
		return store.ErrCardExists
	}
	return nil
}

// Put implements store.CardStore.
func (s *CardStore) Put(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES (:key, :level, :pinyin, :meaning_vi, :meaning_en, :easiness_factor,
			:interval_days, :repetitions, :lapses, :friction, :last_review, :next_review, :created_at, :updated_at)
		ON CONFLICT (key) DO UPDATE SET
			level = excluded.level,
			pinyin = excluded.pinyin,
			meaning_vi = excluded.meaning_vi,
			meaning_en = excluded.meaning_en,
			easiness_factor = excluded.easiness_factor,
			interval_days = excluded.interval_days,
			repetitions = excluded.repetitions,
			lapses = excluded.lapses,
			friction = excluded.friction,
			last_review = excluded.last_review,
			next_review = excluded.next_review,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`, toRow(card))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to put card",
			slog.String("key", card.Key),
			slog.String("error", err.Error()))
		return store.NewStoreError("card", "put", "upsert failed", err)
	}
	return nil
}
