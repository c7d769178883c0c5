package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/phrazzld/hanzi-srs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every statement on the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE items (name TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	return db
}

func countItems(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n))
	return n
}

func TestRunInTransaction_Commit(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('学')`)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, countItems(t, db))
}

func TestRunInTransaction_FunctionError(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	fnErr := errors.New("boom")

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('学')`); err != nil {
			return err
		}
		return fnErr
	})

	assert.ErrorIs(t, err, fnErr)
	assert.Equal(t, 0, countItems(t, db), "insert should be rolled back")
}

func TestRunInTransaction_Panic(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	assert.Panics(t, func() {
		_ = store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('学')`); err != nil {
				return err
			}
			panic("unexpected")
		})
	})
	assert.Equal(t, 0, countItems(t, db), "insert should be rolled back after panic")
}

func TestRunInTransaction_BeginError(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	require.NoError(t, db.Close())

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		t.Fatal("fn must not run when the transaction cannot begin")
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}
