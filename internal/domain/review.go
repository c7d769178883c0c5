package domain

import (
	"fmt"
	"strings"
)

// Quality is the reviewer's self-assessed recall on the SM-2 scale,
// 1 (forgot) to 5 (trivial). Values below PassingQuality are lapses.
type Quality int

// Quality bounds.
const (
	MinQuality     Quality = 1
	MaxQuality     Quality = 5
	PassingQuality Quality = 3
)

// Valid reports whether q lies in [1,5].
func (q Quality) Valid() bool {
	return q >= MinQuality && q <= MaxQuality
}

// Passed reports whether q counts as a successful recall.
func (q Quality) Passed() bool {
	return q >= PassingQuality
}

// Rating is one of the four buttons offered after a card is flipped.
type Rating string

// Possible rating values
const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

var ratingQuality = map[Rating]Quality{
	RatingAgain: 1,
	RatingHard:  2,
	RatingGood:  4,
	RatingEasy:  5,
}

// Quality maps a rating to its quality score. The four-button scale never
// produces 3.
func (r Rating) Quality() (Quality, error) {
	q, ok := ratingQuality[r]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, string(r))
	}
	return q, nil
}

// ParseRating parses a rating name case-insensitively.
func ParseRating(s string) (Rating, error) {
	r := Rating(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ratingQuality[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return r, nil
}
