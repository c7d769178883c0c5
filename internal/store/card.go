package store

import (
	"context"

	"github.com/phrazzld/hanzi-srs/internal/domain"
)

// CardStore defines the interface for card data persistence.
//
// Cards are whole records keyed by their text key. Implementations provide
// read-then-write semantics only: there is no optimistic concurrency
// control, so concurrent writers to the same key resolve as last writer
// wins. Callers that need stronger guarantees serialize per key.
type CardStore interface {
	// Get retrieves a card by its key.
	// Returns ErrCardNotFound if the card does not exist.
	Get(ctx context.Context, key string) (*domain.Card, error)

	// GetAll retrieves every card of one level, ordered by key.
	// The level is normalized before matching, so any spelling of a level
	// selects the same cards. An unknown level yields an empty slice.
	GetAll(ctx context.Context, level string) ([]*domain.Card, error)

	// Create saves a new card.
	// Returns ErrCardExists if a card with the same key is already stored;
	// the stored card is left untouched in that case.
	// Returns validation errors from the domain Card if data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// Put writes the whole card, replacing any stored record with the same key.
	// Returns validation errors from the domain Card if data is invalid.
	Put(ctx context.Context, card *domain.Card) error
}

// CardUpdateFn computes the new state of a card from its stored state.
type CardUpdateFn func(card *domain.Card) (*domain.Card, error)

// CardUpdater is implemented by card stores that can run a read-modify-write
// of one card atomically, holding other writers of the same key off until
// the new state is stored. Stores shared between processes implement it.
type CardUpdater interface {
	// Update loads the card for key, passes it to fn and stores the result.
	// Returns ErrCardNotFound if the card does not exist and fn's error
	// unchanged if fn fails; nothing is written in either case.
	Update(ctx context.Context, key string, fn CardUpdateFn) (*domain.Card, error)
}

// LookupStore counts how often the learner looked up each key. The count is
// consulted when a card is created to decide whether friction applies.
type LookupStore interface {
	// Increment adds one lookup for key and returns the new count.
	Increment(ctx context.Context, key string) (int, error)

	// Count returns the number of lookups recorded for key, 0 if none.
	Count(ctx context.Context, key string) (int, error)
}
