// Package storetest holds behavioural tests shared by every implementation
// of the store interfaces. Each adapter's test file calls RunCardStoreTests
// and RunLookupStoreTests with a constructor for a fresh, empty store.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Epoch is the reference time used for cards built by NewCard.
var Epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// NewCard builds a valid never-reviewed card for key at lvl.
func NewCard(t *testing.T, key, lvl string) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(domain.Word{
		Key:       key,
		Level:     lvl,
		Pinyin:    "pīnyīn",
		MeaningVI: "nghĩa",
		MeaningEN: "meaning",
	}, false, Epoch)
	require.NoError(t, err)
	return card
}

// CardDiff compares cards tolerating the precision loss of the backing
// storage: times are compared to the millisecond and in any location.
func CardDiff(want, got *domain.Card) string {
	return cmp.Diff(want, got,
		cmpopts.EquateApproxTime(time.Millisecond),
		cmpopts.EquateApprox(0, 1e-9),
	)
}

// RunCardStoreTests exercises newStore against the store.CardStore contract.
// newStore must return an empty store that is isolated from other calls.
func RunCardStoreTests(t *testing.T, newStore func(t *testing.T) store.CardStore) {
	t.Helper()

	t.Run("get missing returns ErrCardNotFound", func(t *testing.T) {
		s := newStore(t)
		card, err := s.Get(context.Background(), "不在")
		assert.Nil(t, card)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("create then get round trips", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		want := NewCard(t, "学习", "3")

		require.NoError(t, s.Create(ctx, want))

		got, err := s.Get(ctx, "学习")
		require.NoError(t, err)
		if diff := CardDiff(want, got); diff != "" {
			t.Errorf("card mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("create existing key leaves stored card untouched", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		first := NewCard(t, "朋友", "1")
		require.NoError(t, s.Create(ctx, first))

		second := NewCard(t, "朋友", "5")
		second.MeaningEN = "changed"
		err := s.Create(ctx, second)
		assert.ErrorIs(t, err, store.ErrCardExists)

		got, err := s.Get(ctx, "朋友")
		require.NoError(t, err)
		assert.Equal(t, "1", got.Level)
		assert.Equal(t, "meaning", got.MeaningEN)
	})

	t.Run("create rejects invalid card", func(t *testing.T) {
		s := newStore(t)
		card := NewCard(t, "错", "1")
		card.EasinessFactor = 1.0
		assert.ErrorIs(t, s.Create(context.Background(), card), domain.ErrInvalidEasiness)
	})

	t.Run("put replaces whole record", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		card := NewCard(t, "电脑", "2")
		require.NoError(t, s.Create(ctx, card))

		reviewed := Epoch.Add(time.Hour)
		card.EasinessFactor = 2.36
		card.Interval = 6
		card.Repetitions = 2
		card.Lapses = 1
		card.LastReview = &reviewed
		card.NextReview = reviewed.Add(6 * 24 * time.Hour)
		card.UpdatedAt = reviewed
		require.NoError(t, s.Put(ctx, card))

		got, err := s.Get(ctx, "电脑")
		require.NoError(t, err)
		if diff := CardDiff(card, got); diff != "" {
			t.Errorf("card mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("put creates missing record", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Put(ctx, NewCard(t, "猫", "1")))

		_, err := s.Get(ctx, "猫")
		assert.NoError(t, err)
	})

	t.Run("returned cards are not aliased", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Create(ctx, NewCard(t, "书", "1")))

		got, err := s.Get(ctx, "书")
		require.NoError(t, err)
		got.Interval = 99

		again, err := s.Get(ctx, "书")
		require.NoError(t, err)
		assert.Equal(t, 0, again.Interval)
	})

	t.Run("get all filters by normalized level ordered by key", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, c := range []struct{ key, lvl string }{
			{"c", "HSK 3"},
			{"a", "3"},
			{"b", "三"},
			{"d", "7"},
			{"e", "8"},
			{"f", "7–9"},
		} {
			require.NoError(t, s.Create(ctx, NewCard(t, c.key, c.lvl)))
		}

		// "三" has no digits and is filed under HSK 1.
		keys := func(lvl string) []string {
			cards, err := s.GetAll(ctx, lvl)
			require.NoError(t, err)
			out := make([]string, 0, len(cards))
			for _, c := range cards {
				out = append(out, c.Key)
			}
			return out
		}

		assert.Equal(t, []string{"a", "c"}, keys("3"))
		assert.Equal(t, []string{"a", "c"}, keys("hsk3"))
		assert.Equal(t, []string{"b"}, keys("1"))
		assert.Equal(t, []string{"d", "e", "f"}, keys("7-9"))
		assert.Equal(t, []string{"d", "e", "f"}, keys("HSK 7—9"))
		assert.Empty(t, keys("6"))
	})

	t.Run("concurrent puts to distinct keys", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, s.Put(ctx, NewCard(t, fmt.Sprintf("k%02d", i), "2")))
			}(i)
		}
		wg.Wait()

		cards, err := s.GetAll(ctx, "2")
		require.NoError(t, err)
		assert.Len(t, cards, 16)
	})
}

// RunLookupStoreTests exercises newStore against the store.LookupStore contract.
func RunLookupStoreTests(t *testing.T, newStore func(t *testing.T) store.LookupStore) {
	t.Helper()

	t.Run("count of unknown key is zero", func(t *testing.T) {
		s := newStore(t)
		n, err := s.Count(context.Background(), "没有")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("increment returns running count", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for want := 1; want <= 3; want++ {
			n, err := s.Increment(ctx, "查")
			require.NoError(t, err)
			assert.Equal(t, want, n)
		}

		n, err := s.Count(ctx, "查")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		other, err := s.Count(ctx, "别")
		require.NoError(t, err)
		assert.Equal(t, 0, other)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Increment(ctx, "快")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		n, err := s.Count(ctx, "快")
		require.NoError(t, err)
		assert.Equal(t, 20, n)
	})
}
