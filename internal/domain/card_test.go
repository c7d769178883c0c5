package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func TestNewCard(t *testing.T) {
	t.Parallel()

	card, err := NewCard(Word{Key: " 你好 ", Level: "hsk1", Pinyin: "nǐ hǎo", MeaningEN: "hello"}, false, testNow)
	require.NoError(t, err)

	assert.Equal(t, "你好", card.Key)
	assert.Equal(t, "1", card.Level)
	assert.Equal(t, "nǐ hǎo", card.Pinyin)
	assert.Equal(t, "hello", card.MeaningEN)
	assert.Equal(t, DefaultEasinessFactor, card.EasinessFactor)
	assert.Zero(t, card.Interval)
	assert.Zero(t, card.Repetitions)
	assert.False(t, card.Friction)
	assert.Nil(t, card.LastReview)
	assert.Equal(t, testNow, card.NextReview)
	assert.Equal(t, testNow, card.CreatedAt)
	assert.True(t, card.IsNew())
	assert.True(t, card.IsDue(testNow))
}

func TestNewCardWithFriction(t *testing.T) {
	t.Parallel()

	card, err := NewCard(Word{Key: "麻烦", Level: "HSK 7–9"}, true, testNow)
	require.NoError(t, err)

	assert.Equal(t, "7-9", card.Level)
	assert.True(t, card.Friction)
	assert.InDelta(t, 2.2, card.EasinessFactor, 1e-9)
	assert.Zero(t, card.Interval)
}

func TestNewCardEmptyKey(t *testing.T) {
	t.Parallel()

	_, err := NewCard(Word{Key: "   ", Level: "2"}, false, testNow)
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestHasFriction(t *testing.T) {
	t.Parallel()

	assert.False(t, HasFriction(0))
	assert.False(t, HasFriction(2))
	assert.True(t, HasFriction(3))
}

func TestCardValidate(t *testing.T) {
	t.Parallel()

	valid := Card{Key: "好", Level: "1", EasinessFactor: 2.5, NextReview: testNow}

	testCases := []struct {
		name    string
		mutate  func(c *Card)
		wantErr error
	}{
		{name: "valid", mutate: func(c *Card) {}},
		{name: "empty key", mutate: func(c *Card) { c.Key = "" }, wantErr: ErrEmptyKey},
		{name: "raw level", mutate: func(c *Card) { c.Level = "hsk3" }, wantErr: ErrInvalidLevel},
		{name: "easiness below floor", mutate: func(c *Card) { c.EasinessFactor = 1.2 }, wantErr: ErrInvalidEasiness},
		{name: "negative interval", mutate: func(c *Card) { c.Interval = -1 }, wantErr: ErrInvalidInterval},
		{name: "negative repetitions", mutate: func(c *Card) { c.Repetitions = -1 }, wantErr: ErrInvalidRepetitions},
		{name: "negative lapses", mutate: func(c *Card) { c.Lapses = -1 }, wantErr: ErrInvalidLapses},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := valid
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()

	legacy := Card{Key: "猫", Level: "hsk7-9", Interval: -4, Repetitions: -1, Lapses: -2}
	got := legacy.WithDefaults()

	assert.Equal(t, DefaultEasinessFactor, got.EasinessFactor)
	assert.Equal(t, "7-9", got.Level)
	assert.Zero(t, got.Interval)
	assert.Zero(t, got.Repetitions)
	assert.Zero(t, got.Lapses)
	// The receiver is untouched.
	assert.Equal(t, "hsk7-9", legacy.Level)
}

func TestFrictionApplies(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		card Card
		want bool
	}{
		{name: "plain card", card: Card{Repetitions: 1}, want: false},
		{name: "friction card before first success", card: Card{Friction: true}, want: false},
		{name: "friction card after first success", card: Card{Friction: true, Repetitions: 1}, want: true},
		{name: "friction card graduated", card: Card{Friction: true, Repetitions: 2}, want: false},
		{name: "friction card relearning after a lapse", card: Card{Friction: true, Repetitions: 1, Lapses: 1}, want: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.card.FrictionApplies())
		})
	}
}

func TestIsDue(t *testing.T) {
	t.Parallel()

	future := testNow.Add(48 * time.Hour)

	reviewedNotDue := Card{Repetitions: 2, NextReview: future}
	assert.False(t, reviewedNotDue.IsDue(testNow))

	reviewedDue := Card{Repetitions: 2, NextReview: testNow}
	assert.True(t, reviewedDue.IsDue(testNow))

	newWithFutureTimestamp := Card{Repetitions: 0, NextReview: future}
	assert.True(t, newWithFutureTimestamp.IsDue(testNow))

	missingNextReview := Card{Repetitions: 1}
	assert.True(t, missingNextReview.IsDue(testNow))
}

func TestClone(t *testing.T) {
	t.Parallel()

	last := testNow.Add(-time.Hour)
	orig := &Card{Key: "水", Level: "1", EasinessFactor: 2.5, LastReview: &last}
	cp := orig.Clone()

	*cp.LastReview = testNow
	cp.Interval = 9

	assert.Equal(t, last, *orig.LastReview)
	assert.Zero(t, orig.Interval)
}
