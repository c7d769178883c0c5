package memory

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/domain/level"
	"github.com/phrazzld/hanzi-srs/internal/platform/logger"
	"github.com/phrazzld/hanzi-srs/internal/store"
)

// CardStore keeps cards in a map guarded by a RWMutex. Stored cards are
// copies, so callers never share state with the store.
type CardStore struct {
	mu     sync.RWMutex
	cards  map[string]*domain.Card
	logger *slog.Logger
}

var _ store.CardStore = (*CardStore)(nil)

// NewCardStore creates an empty in-memory card store.
// If logger is nil, a default logger will be used.
func NewCardStore(logger *slog.Logger) *CardStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		cards:  make(map[string]*domain.Card),
		logger: logger.With(slog.String("component", "memory_card_store")),
	}
}

// Get implements store.CardStore.
func (s *CardStore) Get(ctx context.Context, key string) (*domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	card, ok := s.cards[strings.TrimSpace(key)]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card.Clone(), nil
}

// GetAll implements store.CardStore. Cards are matched on their normalized
// level and returned ordered by key.
func (s *CardStore) GetAll(ctx context.Context, lvl string) ([]*domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tag := level.Canonical(lvl)

	s.mu.RLock()
	cards := make([]*domain.Card, 0)
	for _, card := range s.cards {
		if level.Canonical(card.Level) == tag {
			cards = append(cards, card.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(cards, func(i, j int) bool { return cards[i].Key < cards[j].Key })
	return cards, nil
}

// Create implements store.CardStore.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := card.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cards[card.Key]; exists {
		return store.ErrCardExists
	}
	s.cards[card.Key] = card.Clone()

	logger.FromContextOrDefault(ctx, s.logger).Debug("card created",
		slog.String("key", card.Key),
		slog.String("level", card.Level))
	return nil
}

// Put implements store.CardStore.
func (s *CardStore) Put(ctx context.Context, card *domain.Card) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := card.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.cards[card.Key] = card.Clone()
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored cards.
func (s *CardStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards)
}
