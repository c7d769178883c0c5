package srs

import (
	"testing"
	"time"

	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultService(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()

	defaultSvc, ok := service.(*defaultService)
	require.True(t, ok, "Expected *defaultService type")
	require.NotNil(t, defaultSvc.params)
}

func TestCalculateNextReview(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	card := newTestCard()

	next, err := service.CalculateNextReview(&card, 4, false, reviewNow)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Repetitions)
	assert.Equal(t, 1, next.Interval)

	// The input is left untouched.
	assert.Zero(t, card.Repetitions)
	assert.Nil(t, card.LastReview)
}

func TestCalculateNextReviewValidation(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	card := newTestCard()

	_, err := service.CalculateNextReview(nil, 4, false, reviewNow)
	assert.ErrorIs(t, err, ErrNilCard)

	_, err = service.CalculateNextReview(&card, 0, false, reviewNow)
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)

	_, err = service.CalculateNextReview(&card, 6, false, reviewNow)
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)
}

func TestCalculateNextReviewCustomParams(t *testing.T) {
	t.Parallel()
	service := NewServiceWithParams(NewParams(ParamsConfig{LapseInterval: 2}))
	card := newTestCard()

	next, err := service.CalculateNextReview(&card, 1, false, reviewNow)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Interval)
}

func TestPostponeReview(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()

	t.Run("future due date moves forward", func(t *testing.T) {
		t.Parallel()
		card := newTestCard()
		card.NextReview = reviewNow.Add(2 * day)

		next, err := service.PostponeReview(&card, 3, reviewNow)
		require.NoError(t, err)
		assert.Equal(t, reviewNow.Add(5*day), next.NextReview)
		assert.Equal(t, reviewNow, next.UpdatedAt)
		assert.Equal(t, card.Interval, next.Interval)
	})

	t.Run("overdue card is pushed from now", func(t *testing.T) {
		t.Parallel()
		card := newTestCard()
		card.NextReview = reviewNow.Add(-10 * day)

		next, err := service.PostponeReview(&card, 1, reviewNow)
		require.NoError(t, err)
		assert.Equal(t, reviewNow.Add(day), next.NextReview)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		card := newTestCard()

		_, err := service.PostponeReview(&card, 0, reviewNow)
		assert.ErrorIs(t, err, ErrInvalidDays)

		_, err = service.PostponeReview(nil, 1, reviewNow)
		assert.ErrorIs(t, err, ErrNilCard)
	})
}

func TestPostponeReviewKeepsNewCardsDue(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	card := newTestCard()

	next, err := service.PostponeReview(&card, 2, reviewNow)
	require.NoError(t, err)
	// Never-reviewed cards stay in the queue regardless of their timestamp.
	assert.True(t, next.IsDue(reviewNow))
	assert.Equal(t, reviewNow.Add(2*time.Hour*24), next.NextReview)
}
