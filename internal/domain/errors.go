package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyKey is returned when a card key is empty or blank.
	ErrEmptyKey = errors.New("card key cannot be empty")

	// ErrInvalidLevel is returned when a level label cannot be interpreted
	// and the caller asked for strict level handling.
	ErrInvalidLevel = errors.New("invalid level")

	// ErrInvalidQuality is returned when a quality score is outside [1,5].
	ErrInvalidQuality = errors.New("quality must be between 1 and 5")

	// ErrInvalidRating is returned when a rating is not again/hard/good/easy.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidEasiness is returned when an easiness factor is below the floor.
	ErrInvalidEasiness = errors.New("easiness factor below minimum")

	// ErrInvalidInterval is returned when an interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidRepetitions is returned when a repetition count is negative.
	ErrInvalidRepetitions = errors.New("repetitions must be greater than or equal to 0")

	// ErrInvalidLapses is returned when a lapse count is negative.
	ErrInvalidLapses = errors.New("lapses must be greater than or equal to 0")
)
