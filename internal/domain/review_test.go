package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingQuality(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		rating Rating
		want   Quality
	}{
		{RatingAgain, 1},
		{RatingHard, 2},
		{RatingGood, 4},
		{RatingEasy, 5},
	}

	for _, tc := range testCases {
		q, err := tc.rating.Quality()
		require.NoError(t, err)
		assert.Equal(t, tc.want, q, string(tc.rating))
		assert.True(t, q.Valid())
	}

	_, err := Rating("meh").Quality()
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestParseRating(t *testing.T) {
	t.Parallel()

	r, err := ParseRating(" Good ")
	require.NoError(t, err)
	assert.Equal(t, RatingGood, r)

	_, err = ParseRating("")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestQualityBounds(t *testing.T) {
	t.Parallel()

	assert.False(t, Quality(0).Valid())
	assert.True(t, Quality(3).Valid())
	assert.False(t, Quality(6).Valid())

	assert.False(t, Quality(2).Passed())
	assert.True(t, Quality(3).Passed(), "3 is the low-pass boundary")
}

func TestAnalyticsDue(t *testing.T) {
	t.Parallel()

	a := Analytics{Level: "2", New: 3, Learning: 2, Mastered: 1, Total: 6}
	assert.Equal(t, 5, a.Due())
}
