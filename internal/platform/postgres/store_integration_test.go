//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/platform/postgres"
	"github.com/phrazzld/hanzi-srs/internal/store"
	"github.com/phrazzld/hanzi-srs/internal/store/storetest"
	"github.com/phrazzld/hanzi-srs/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRollback = errors.New("rollback")

func TestPostgresCardStore(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	storetest.RunCardStoreTests(t, func(t *testing.T) store.CardStore {
		return postgres.NewPostgresCardStore(testdb.BeginTx(t, db), nil)
	})
}

func TestPostgresLookupStore(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	storetest.RunLookupStoreTests(t, func(t *testing.T) store.LookupStore {
		return postgres.NewPostgresLookupStore(testdb.BeginTx(t, db), nil)
	})
}

func TestPostgresCardStore_TransactionRollback(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		cards := postgres.NewPostgresCardStore(tx, nil)
		if err := cards.Create(ctx, storetest.NewCard(t, "回滚", "4")); err != nil {
			return err
		}
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)

	_, err = postgres.NewPostgresCardStore(db, nil).Get(ctx, "回滚")
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestPostgresCardStore_GetAllMatchesStoredSpellings(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()
	tx := testdb.BeginTx(t, db)

	_, err := tx.ExecContext(ctx, `
		INSERT INTO cards (key, level, next_review)
		VALUES ('旧', 'hsk7-9', NOW()), ('老', 'HSK 7–9', NOW()), ('书', 'hsk1', NOW())`)
	require.NoError(t, err)

	cards, err := postgres.NewPostgresCardStore(tx, nil).GetAll(ctx, "7-9")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	for _, c := range cards {
		assert.Equal(t, "7-9", c.Level)
	}
}

func TestPostgresCardStore_UpdateInTransaction(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()
	cards := postgres.NewPostgresCardStore(testdb.BeginTx(t, db), nil)
	require.NoError(t, cards.Create(ctx, storetest.NewCard(t, "改", "2")))

	updated, err := cards.Update(ctx, "改", func(c *domain.Card) (*domain.Card, error) {
		next := c.Clone()
		next.Repetitions = 1
		next.Interval = 1
		return next, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Repetitions)

	got, err := cards.Get(ctx, "改")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Interval)

	_, err = cards.Update(ctx, "没有", func(c *domain.Card) (*domain.Card, error) {
		t.Fatal("fn must not run for a missing card")
		return c, nil
	})
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestPostgresCardStore_UpdateCommitsOrRollsBack(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()
	cards := postgres.NewPostgresCardStore(db, nil)

	key := "提交-" + t.Name()
	require.NoError(t, cards.Create(ctx, storetest.NewCard(t, key, "3")))
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), `DELETE FROM cards WHERE key = $1`, key)
	})

	_, err := cards.Update(ctx, key, func(c *domain.Card) (*domain.Card, error) {
		return nil, errRollback
	})
	require.ErrorIs(t, err, errRollback)

	_, err = cards.Update(ctx, key, func(c *domain.Card) (*domain.Card, error) {
		next := c.Clone()
		next.Lapses = 2
		return next, nil
	})
	require.NoError(t, err)

	got, err := cards.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Lapses)
}
