package api

import (
	"errors"
	"time"

	"github.com/phrazzld/hanzi-srs/internal/domain"
)

// SaveWordRequest is the body of POST /api/words.
type SaveWordRequest struct {
	Key       string `json:"key" validate:"required"`
	Level     string `json:"level"`
	Pinyin    string `json:"pinyin"`
	MeaningVI string `json:"vi"`
	MeaningEN string `json:"en"`
}

func (r SaveWordRequest) toWord() domain.Word {
	return domain.Word{
		Key:       r.Key,
		Level:     r.Level,
		Pinyin:    r.Pinyin,
		MeaningVI: r.MeaningVI,
		MeaningEN: r.MeaningEN,
	}
}

// ReviewRequest is the body of POST /api/cards/{key}/review. Exactly one of
// Rating and Quality must be set.
type ReviewRequest struct {
	Rating  string `json:"rating,omitempty" validate:"omitempty,oneof=again hard good easy"`
	Quality *int   `json:"quality,omitempty" validate:"omitempty,min=1,max=5"`
}

var errRatingOrQuality = errors.New("exactly one of rating and quality is required")

// Validate enforces that exactly one grading form is given.
func (r ReviewRequest) Validate() error {
	if (r.Rating == "") == (r.Quality == nil) {
		return errRatingOrQuality
	}
	return nil
}

// PostponeRequest is the body of POST /api/cards/{key}/postpone.
type PostponeRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// CardResponse is the wire form of a card.
type CardResponse struct {
	Key            string     `json:"key"`
	Level          string     `json:"level"`
	Pinyin         string     `json:"pinyin,omitempty"`
	MeaningVI      string     `json:"vi,omitempty"`
	MeaningEN      string     `json:"en,omitempty"`
	EasinessFactor float64    `json:"easiness_factor"`
	Interval       int        `json:"interval"`
	Repetitions    int        `json:"repetitions"`
	Lapses         int        `json:"lapses"`
	Friction       bool       `json:"friction"`
	LastReview     *time.Time `json:"last_review"`
	NextReview     time.Time  `json:"next_review"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func cardToResponse(card *domain.Card) *CardResponse {
	if card == nil {
		return nil
	}
	return &CardResponse{
		Key:            card.Key,
		Level:          card.Level,
		Pinyin:         card.Pinyin,
		MeaningVI:      card.MeaningVI,
		MeaningEN:      card.MeaningEN,
		EasinessFactor: card.EasinessFactor,
		Interval:       card.Interval,
		Repetitions:    card.Repetitions,
		Lapses:         card.Lapses,
		Friction:       card.Friction,
		LastReview:     card.LastReview,
		NextReview:     card.NextReview,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
}

func cardsToResponse(cards []*domain.Card) []*CardResponse {
	out := make([]*CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToResponse(c))
	}
	return out
}

// SaveWordResponse reports the outcome of saving a word.
type SaveWordResponse struct {
	Status string        `json:"status"`
	Card   *CardResponse `json:"card,omitempty"`
}

// LookupResponse reports a key's running lookup count.
type LookupResponse struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// ReviewResponse reports a reviewed or postponed card.
type ReviewResponse struct {
	Status string        `json:"status"`
	Card   *CardResponse `json:"card"`
}

// DueQueueResponse lists the due cards of one level.
type DueQueueResponse struct {
	Level string          `json:"level"`
	Count int             `json:"count"`
	Cards []*CardResponse `json:"cards"`
}

// AnalyticsResponse is the wire form of one level's progress.
type AnalyticsResponse struct {
	Level    string `json:"level"`
	New      int    `json:"new"`
	Learning int    `json:"learning"`
	Mastered int    `json:"mastered"`
	Total    int    `json:"total"`
	Due      int    `json:"due"`
}

func analyticsToResponse(a domain.Analytics) AnalyticsResponse {
	return AnalyticsResponse{
		Level:    a.Level,
		New:      a.New,
		Learning: a.Learning,
		Mastered: a.Mastered,
		Total:    a.Total,
		Due:      a.Due(),
	}
}
