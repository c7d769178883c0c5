package memory_test

import (
	"context"
	"testing"

	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/platform/memory"
	"github.com/phrazzld/hanzi-srs/internal/store"
	"github.com/phrazzld/hanzi-srs/internal/store/storetest"
	"github.com/stretchr/testify/assert"
)

func TestCardStore(t *testing.T) {
	t.Parallel()
	storetest.RunCardStoreTests(t, func(t *testing.T) store.CardStore {
		return memory.NewCardStore(nil)
	})
}

func TestLookupStore(t *testing.T) {
	t.Parallel()
	storetest.RunLookupStoreTests(t, func(t *testing.T) store.LookupStore {
		return memory.NewLookupStore()
	})
}

func TestCardStore_Len(t *testing.T) {
	t.Parallel()
	s := memory.NewCardStore(nil)
	assert.Equal(t, 0, s.Len())
	assert.NoError(t, s.Put(context.Background(), storetest.NewCard(t, "水", "1")))
	assert.Equal(t, 1, s.Len())
}

func TestCardStore_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := memory.NewCardStore(nil)
	_, err := s.Get(ctx, "水")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Put(ctx, storetest.NewCard(t, "水", "1")), context.Canceled)
}

func TestLookupStore_EmptyKey(t *testing.T) {
	t.Parallel()
	_, err := memory.NewLookupStore().Increment(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyKey)
}
