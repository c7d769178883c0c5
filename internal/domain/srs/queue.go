package srs

import (
	"time"

	"github.com/phrazzld/hanzi-srs/internal/domain"
)

// DueQueue returns the cards that are due at now, in input order. A card is
// due when its next review has passed or when it has never been successfully
// reviewed; the latter wins even over a future next-review timestamp.
//
// No priority reordering is applied: a card overdue by a month sorts the same
// as one that became due a second ago.
func DueQueue(cards []*domain.Card, now time.Time) []*domain.Card {
	due := make([]*domain.Card, 0, len(cards))
	for _, c := range cards {
		if c == nil {
			continue
		}
		if c.IsDue(now) {
			due = append(due, c)
		}
	}
	return due
}

// Classify buckets the cards of one level into New, Learning and Mastered.
// The buckets are exclusive and exhaustive:
//   - never successfully reviewed → New
//   - reviewed and due again → Learning
//   - reviewed and not yet due → Mastered
func Classify(levelTag string, cards []*domain.Card, now time.Time) domain.Analytics {
	a := domain.Analytics{Level: levelTag}
	for _, c := range cards {
		if c == nil {
			continue
		}
		a.Total++
		switch {
		case c.Repetitions == 0:
			a.New++
		case !c.NextReview.After(now):
			a.Learning++
		default:
			a.Mastered++
		}
	}
	return a
}
