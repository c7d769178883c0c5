package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/hanzi-srs/internal/domain/level"
)

// Scheduling defaults shared by card creation and the review engine.
const (
	// DefaultEasinessFactor is the easiness of a card nobody has struggled with.
	DefaultEasinessFactor = 2.5

	// MinEasinessFactor is the floor the easiness factor is clamped to.
	MinEasinessFactor = 1.3

	// FrictionPenalty is subtracted from the easiness of cards created under
	// lookup friction.
	FrictionPenalty = 0.3

	// FrictionLookupThreshold is the lookup count a key must exceed before it
	// is saved for friction to apply.
	FrictionLookupThreshold = 2
)

// Word is the vocabulary item a learner saves for review.
type Word struct {
	Key       string `json:"key" validate:"required"`
	Level     string `json:"level"`
	Pinyin    string `json:"pinyin,omitempty"`
	MeaningVI string `json:"vi,omitempty"`
	MeaningEN string `json:"en,omitempty"`
}

// Card is the persisted scheduling state for one vocabulary key.
// There is at most one Card per Key.
type Card struct {
	Key            string     `json:"key"`
	Level          string     `json:"level"`
	Pinyin         string     `json:"pinyin,omitempty"`
	MeaningVI      string     `json:"vi,omitempty"`
	MeaningEN      string     `json:"en,omitempty"`
	EasinessFactor float64    `json:"easiness_factor"`
	Interval       int        `json:"interval"`    // days
	Repetitions    int        `json:"repetitions"` // consecutive successes since the last lapse
	Lapses         int        `json:"lapses"`      // failed reviews over the card's lifetime
	Friction       bool       `json:"friction"`    // created after more than FrictionLookupThreshold lookups
	LastReview     *time.Time `json:"last_review"`
	NextReview     time.Time  `json:"next_review"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasFriction reports whether a key looked up lookupCount times before being
// saved is created under friction.
func HasFriction(lookupCount int) bool {
	return lookupCount > FrictionLookupThreshold
}

// InitialEasiness returns the starting easiness for a new card.
func InitialEasiness(friction bool) float64 {
	if friction {
		return max(MinEasinessFactor, DefaultEasinessFactor-FrictionPenalty)
	}
	return DefaultEasinessFactor
}

// NewCard creates a never-reviewed card for word, due immediately at now.
// The level label is normalized to its canonical tag.
func NewCard(word Word, friction bool, now time.Time) (*Card, error) {
	card := &Card{
		Key:            strings.TrimSpace(word.Key),
		Level:          level.Canonical(word.Level),
		Pinyin:         word.Pinyin,
		MeaningVI:      word.MeaningVI,
		MeaningEN:      word.MeaningEN,
		EasinessFactor: InitialEasiness(friction),
		Interval:       0,
		Repetitions:    0,
		Lapses:         0,
		Friction:       friction,
		LastReview:     nil,
		NextReview:     now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.Key) == "" {
		return ErrEmptyKey
	}
	if !level.IsCanonical(c.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Level)
	}
	if c.EasinessFactor < MinEasinessFactor {
		return ErrInvalidEasiness
	}
	if c.Interval < 0 {
		return ErrInvalidInterval
	}
	if c.Repetitions < 0 {
		return ErrInvalidRepetitions
	}
	if c.Lapses < 0 {
		return ErrInvalidLapses
	}
	return nil
}

// WithDefaults returns a copy of c with absent fields filled in. Records
// written by older or external writers may lack an easiness factor or carry
// an unnormalized level.
func (c Card) WithDefaults() Card {
	if c.EasinessFactor == 0 {
		c.EasinessFactor = DefaultEasinessFactor
	}
	if c.Interval < 0 {
		c.Interval = 0
	}
	if c.Repetitions < 0 {
		c.Repetitions = 0
	}
	if c.Lapses < 0 {
		c.Lapses = 0
	}
	c.Level = level.Canonical(c.Level)
	return c
}

// IsNew reports whether the card has no successful review since its last lapse
// (or ever).
func (c *Card) IsNew() bool {
	return c.Repetitions == 0
}

// IsDue reports whether the card is due at now: its next review has passed
// or it has never been successfully reviewed.
func (c *Card) IsDue(now time.Time) bool {
	return !c.NextReview.After(now) || c.Repetitions == 0
}

// FrictionApplies reports whether the next review of c runs under friction.
// Only a friction card on its way to a second consecutive success, with no
// failed review behind it, qualifies. Its easiness was already lowered at
// creation, so the review-time penalty lands once in the card's life.
func (c *Card) FrictionApplies() bool {
	return c.Friction && c.Lapses == 0 && c.Repetitions == 1
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	cp := *c
	if c.LastReview != nil {
		t := *c.LastReview
		cp.LastReview = &t
	}
	return &cp
}
