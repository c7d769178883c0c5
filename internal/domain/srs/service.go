package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/hanzi-srs/internal/domain"
)

// Common errors
var (
	ErrNilCard     = errors.New("card cannot be nil")
	ErrInvalidDays = errors.New("postpone days must be at least 1")
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// CalculateNextReview computes the card state after a review. friction
	// applies the easiness penalty and the shorter second interval.
	CalculateNextReview(
		card *domain.Card,
		quality domain.Quality,
		friction bool,
		now time.Time,
	) (*domain.Card, error)

	// PostponeReview pushes the next review time forward by a specified number of days
	PostponeReview(
		card *domain.Card,
		days int,
		now time.Time,
	) (*domain.Card, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface for calculating the next card state
func (s *defaultService) CalculateNextReview(
	card *domain.Card,
	quality domain.Quality,
	friction bool,
	now time.Time,
) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if !quality.Valid() {
		return nil, domain.ErrInvalidQuality
	}

	next := nextState(*card, quality, friction, now, s.params)
	return &next, nil
}

// PostponeReview implements the Service interface for postponing reviews
func (s *defaultService) PostponeReview(
	card *domain.Card,
	days int,
	now time.Time,
) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := card.Clone()
	// An overdue card is pushed from now, not from its stale due date.
	base := card.NextReview
	if base.Before(now) {
		base = now
	}
	next.NextReview = base.Add(time.Duration(days) * 24 * time.Hour)
	next.UpdatedAt = now

	return next, nil
}
