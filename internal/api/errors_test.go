package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/hanzi-srs/internal/api/shared"
	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/domain/srs"
	"github.com/phrazzld/hanzi-srs/internal/service/study"
	"github.com/phrazzld/hanzi-srs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"card not found", study.ErrCardNotFound, http.StatusNotFound},
		{"wrapped store miss", fmt.Errorf("get: %w", store.ErrCardNotFound), http.StatusNotFound},
		{"empty key", domain.ErrEmptyKey, http.StatusBadRequest},
		{"invalid level", fmt.Errorf("%w: %q", domain.ErrInvalidLevel, "x"), http.StatusBadRequest},
		{"invalid quality", domain.ErrInvalidQuality, http.StatusBadRequest},
		{"invalid rating", domain.ErrInvalidRating, http.StatusBadRequest},
		{"invalid days", srs.ErrInvalidDays, http.StatusBadRequest},
		{"unavailable", store.NewStoreError("card", "get", "down", store.ErrUnavailable), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Card not found", GetSafeErrorMessage(study.ErrCardNotFound))
	assert.Equal(t, "Days must be at least 1", GetSafeErrorMessage(srs.ErrInvalidDays))

	leaky := errors.New("pq: relation \"cards\" does not exist at /var/lib/postgres/data")
	msg := GetSafeErrorMessage(leaky)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "cards")
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(PostponeRequest{Days: 0})
	require.Error(t, err)
	assert.Equal(t, "Invalid days: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}

func TestReviewRequestValidate(t *testing.T) {
	t.Parallel()

	q := 4
	assert.NoError(t, ReviewRequest{Rating: "good"}.Validate())
	assert.NoError(t, ReviewRequest{Quality: &q}.Validate())
	assert.Error(t, ReviewRequest{}.Validate())
	assert.Error(t, ReviewRequest{Rating: "good", Quality: &q}.Validate())
}
