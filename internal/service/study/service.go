package study

import (
	"context"
	"errors"

	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/domain/level"
)

// Common errors returned by the study service. Storage failures never
// surface as errors; see SaveStatus and ReviewStatus.
var (
	// ErrCardNotFound indicates that no card exists for the requested key.
	ErrCardNotFound = errors.New("card not found")
)

// SaveStatus reports what happened to a saved word.
type SaveStatus string

const (
	// SaveStatusCreated means a new card was stored.
	SaveStatusCreated SaveStatus = "created"
	// SaveStatusExists means the key already had a card; nothing changed.
	SaveStatusExists SaveStatus = "exists"
	// SaveStatusUnavailable means the card could not be stored.
	SaveStatusUnavailable SaveStatus = "unavailable"
)

// SaveResult describes the outcome of SaveWord.
type SaveResult struct {
	Status SaveStatus `json:"status"`
	// Card is the new card, the already stored card for SaveStatusExists
	// (when it could be read), or the unsaved card for SaveStatusUnavailable.
	Card *domain.Card `json:"card,omitempty"`
	// LevelStatus reports how the submitted level label was interpreted.
	LevelStatus level.Status `json:"-"`
}

// ReviewStatus reports whether a review's result was persisted.
type ReviewStatus string

const (
	// ReviewStatusSaved means the updated card was stored.
	ReviewStatusSaved ReviewStatus = "saved"
	// ReviewStatusUnpersisted means the update was computed but not stored.
	ReviewStatusUnpersisted ReviewStatus = "unpersisted"
)

// ReviewResult describes the outcome of a review or a postponement.
type ReviewResult struct {
	Status ReviewStatus `json:"status"`
	Card   *domain.Card `json:"card"`
}

// Service is the study workflow used by the HTTP API, the CLI, the importer
// and the digest job.
type Service interface {
	// SaveWord creates the card for word. Saving an existing key is a no-op
	// reported as SaveStatusExists. The card is created under friction when
	// the key was looked up more often than the friction threshold.
	// Returns domain.ErrEmptyKey for a blank key, and domain.ErrInvalidLevel
	// for an unrecognizable level when strict levels are enabled.
	SaveWord(ctx context.Context, word domain.Word) (*SaveResult, error)

	// RecordLookup counts one manual lookup of key and returns the new count.
	// The count is 0 when the lookup could not be recorded.
	RecordLookup(ctx context.Context, key string) (int, error)

	// LookupCount returns the number of lookups recorded for key.
	LookupCount(ctx context.Context, key string) (int, error)

	// GetCard returns the card for key or ErrCardNotFound.
	GetCard(ctx context.Context, key string) (*domain.Card, error)

	// Review applies a quality in [1,5] to the card for key.
	// Returns domain.ErrInvalidQuality or ErrCardNotFound.
	Review(ctx context.Context, key string, quality domain.Quality) (*ReviewResult, error)

	// ReviewRating applies an again/hard/good/easy rating to the card for key.
	// Returns domain.ErrInvalidRating or ErrCardNotFound.
	ReviewRating(ctx context.Context, key string, rating domain.Rating) (*ReviewResult, error)

	// Postpone pushes the card's next review days into the future.
	// Returns srs.ErrInvalidDays or ErrCardNotFound.
	Postpone(ctx context.Context, key string, days int) (*ReviewResult, error)

	// DueQueue returns the due cards of one level ordered by key.
	DueQueue(ctx context.Context, lvl string) ([]*domain.Card, error)

	// Analytics classifies the cards of one level.
	Analytics(ctx context.Context, lvl string) (domain.Analytics, error)

	// AllAnalytics classifies every level, in level order.
	AllAnalytics(ctx context.Context) ([]domain.Analytics, error)
}

// Options tunes the study service.
type Options struct {
	// FrictionThreshold is the lookup count a key must exceed before it is
	// saved for friction to apply.
	FrictionThreshold int
	// StrictLevels rejects unrecognizable level labels instead of filing
	// them under HSK 1.
	StrictLevels bool
}

// DefaultOptions returns the lenient default behaviour.
func DefaultOptions() Options {
	return Options{
		FrictionThreshold: domain.FrictionLookupThreshold,
		StrictLevels:      false,
	}
}
