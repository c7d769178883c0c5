package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/hanzi-srs/internal/platform/postgres"
	"github.com/phrazzld/hanzi-srs/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "cards",
		ColumnName:     "level",
		ConstraintName: "cards_easiness_factor_check",
	}
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	generic := errors.New("connection reset")

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "no rows", err: sql.ErrNoRows, target: store.ErrNotFound},
		{name: "unique violation", err: newPgError("23505"), target: store.ErrDuplicate},
		{name: "check violation", err: newPgError("23514"), target: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502"), target: store.ErrInvalidEntity},
		{name: "wrapped unique violation", err: fmt.Errorf("exec: %w", newPgError("23505")), target: store.ErrDuplicate},
		{name: "unmapped error passes through", err: generic, target: generic},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, postgres.MapError(tt.err), tt.target)
		})
	}

	assert.NoError(t, postgres.MapError(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.CheckRowsAffected(fakeResult{rows: 1}, "card"))

	err := postgres.CheckRowsAffected(fakeResult{rows: 0}, "card")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "card not found")

	assert.Error(t, postgres.CheckRowsAffected(fakeResult{err: errors.New("driver")}, "card"))
	assert.Error(t, postgres.CheckRowsAffected(nil, "card"))
}

func TestNewStores_NilDB(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { postgres.NewPostgresCardStore(nil, nil) })
	assert.Panics(t, func() { postgres.NewPostgresLookupStore(nil, nil) })
}
