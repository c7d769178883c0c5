package srs

import (
	"math"
	"time"

	"github.com/phrazzld/hanzi-srs/internal/domain"
)

// calculateNewEasiness applies the friction penalty (when requested) and the
// quality update to the incoming easiness factor.
//
// The update is EF' = EF - 0.8 + 0.2*q + 0.01*(1-q), floored at
// params.MinEasinessFactor. There is no ceiling: repeated "easy" answers keep
// growing the factor.
func calculateNewEasiness(current float64, quality domain.Quality, friction bool, params *Params) float64 {
	ef := current
	if friction {
		ef = math.Max(params.MinEasinessFactor, ef-params.FrictionPenalty)
	}

	q := float64(quality)
	ef = ef - 0.8 + 0.2*q + 0.01*(1-q)
	if ef < params.MinEasinessFactor {
		ef = params.MinEasinessFactor
	}
	return ef
}

// calculateNewSchedule returns the repetition count and interval after a
// review.
//
// A lapse (quality below 3) resets repetitions and always schedules the next
// review params.LapseInterval days out. A success increments repetitions;
// the first success reviews again after params.FirstInterval days, the
// second after params.SecondInterval days (params.SecondFrictionInterval
// under friction), and every later one multiplies the previous interval by
// the already-updated easiness factor.
func calculateNewSchedule(
	repetitions int,
	interval int,
	easiness float64,
	quality domain.Quality,
	friction bool,
	params *Params,
) (int, int) {
	if !quality.Passed() {
		return 0, params.LapseInterval
	}

	repetitions++
	switch {
	case repetitions == 1:
		return repetitions, params.FirstInterval
	case repetitions == 2 && friction:
		return repetitions, params.SecondFrictionInterval
	case repetitions == 2:
		return repetitions, params.SecondInterval
	default:
		return repetitions, int(math.Round(float64(interval) * easiness))
	}
}

// nextState computes the card state after one review. It does not validate
// quality; callers keep it within [1,5]. Every field the algorithm does not
// own is carried over unchanged.
func nextState(card domain.Card, quality domain.Quality, friction bool, now time.Time, params *Params) domain.Card {
	if card.EasinessFactor == 0 {
		card.EasinessFactor = params.DefaultEasinessFactor
	}
	if card.Interval < 0 {
		card.Interval = 0
	}
	if card.Repetitions < 0 {
		card.Repetitions = 0
	}
	if card.Lapses < 0 {
		card.Lapses = 0
	}

	next := card
	if card.LastReview != nil {
		// Keep the input's pointer out of the result.
		prev := *card.LastReview
		next.LastReview = &prev
	}

	next.EasinessFactor = calculateNewEasiness(card.EasinessFactor, quality, friction, params)
	next.Repetitions, next.Interval = calculateNewSchedule(
		card.Repetitions,
		card.Interval,
		next.EasinessFactor,
		quality,
		friction,
		params,
	)
	if !quality.Passed() {
		next.Lapses++
	}

	reviewed := now
	next.LastReview = &reviewed
	next.NextReview = now.Add(time.Duration(next.Interval) * 24 * time.Hour)
	next.UpdatedAt = now

	return next
}

// NextState is the review engine with default parameters: the state of card
// after a review of the given quality at now. It is a pure function.
func NextState(card domain.Card, quality domain.Quality, friction bool, now time.Time) domain.Card {
	return nextState(card, quality, friction, now, NewDefaultParams())
}
