package sqlite_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/hanzi-srs/internal/platform/sqlite"
	"github.com/phrazzld/hanzi-srs/internal/store"
	"github.com/phrazzld/hanzi-srs/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := sqlite.NewMigrator(db.DB, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up(ctx))
	return db
}

func TestCardStore(t *testing.T) {
	t.Parallel()
	storetest.RunCardStoreTests(t, func(t *testing.T) store.CardStore {
		return sqlite.NewCardStore(newTestDB(t), nil)
	})
}

func TestLookupStore(t *testing.T) {
	t.Parallel()
	storetest.RunLookupStoreTests(t, func(t *testing.T) store.LookupStore {
		return sqlite.NewLookupStore(newTestDB(t), nil)
	})
}

func TestCardStore_MissingEasinessDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)

	// Rows written by other tools may bypass the column default with 0.
	_, err := db.ExecContext(ctx, `PRAGMA ignore_check_constraints = ON`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
		INSERT INTO cards (key, level, easiness_factor, next_review, created_at, updated_at)
		VALUES ('旧', 'HSK2', 0, 0, 0, 0)`)
	require.NoError(t, err)

	card, err := sqlite.NewCardStore(db, nil).Get(ctx, "旧")
	require.NoError(t, err)
	assert.Equal(t, 2.5, card.EasinessFactor)
	assert.Equal(t, "2", card.Level)
	assert.Nil(t, card.LastReview)
}

func TestCardStore_GetAllMatchesStoredSpellings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)

	for _, row := range []struct{ key, level string }{
		{"旧", "hsk7-9"},
		{"老", "HSK 7–9"},
		{"新", "7-9"},
		{"书", "hsk1"},
	} {
		_, err := db.ExecContext(ctx, `
			INSERT INTO cards (key, level, next_review, created_at, updated_at)
			VALUES (?, ?, 0, 0, 0)`, row.key, row.level)
		require.NoError(t, err)
	}

	s := sqlite.NewCardStore(db, nil)
	got, err := s.GetAll(ctx, "7-9")
	require.NoError(t, err)

	keys := make([]string, 0, len(got))
	for _, c := range got {
		keys = append(keys, c.Key)
		assert.Equal(t, "7-9", c.Level)
	}
	assert.ElementsMatch(t, []string{"旧", "老", "新"}, keys)

	ones, err := s.GetAll(ctx, "HSK1")
	require.NoError(t, err)
	require.Len(t, ones, 1)
	assert.Equal(t, "书", ones[0].Key)
}

func TestCardStore_StoreErrorWhenClosed(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	s := sqlite.NewCardStore(db, nil)
	require.NoError(t, db.Close())

	_, err := s.Get(context.Background(), "学")
	require.Error(t, err)
	assert.False(t, store.IsNotFoundError(err))

	var storeErr *store.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

func TestMigrator_VersionAndStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)

	m, err := sqlite.NewMigrator(db.DB, nil)
	require.NoError(t, err)

	v, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	for _, s := range statuses {
		assert.True(t, s.Applied, s.Path)
	}

	require.NoError(t, m.Down(ctx))
	v, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	assert.Error(t, m.Run(ctx, "sideways"))
	assert.NoError(t, m.Run(ctx, "up"))
}
