package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/store"
)

// LookupStore counts lookups per key in memory.
type LookupStore struct {
	mu     sync.Mutex
	counts map[string]int
}

var _ store.LookupStore = (*LookupStore)(nil)

// NewLookupStore creates an empty in-memory lookup counter.
func NewLookupStore() *LookupStore {
	return &LookupStore{counts: make(map[string]int)}
}

// Increment implements store.LookupStore.
func (s *LookupStore) Increment(ctx context.Context, key string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, domain.ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

// Count implements store.LookupStore.
func (s *LookupStore) Count(ctx context.Context, key string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[strings.TrimSpace(key)], nil
}
