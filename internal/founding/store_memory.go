package founding

import (
	"context"
	"sync"

	id "tandem/pkg/domain"
)

// InMemoryStore holds the token pool and access states behind a single
// mutex. Suitable for development and tests; production deployments use
// the Redis store so the pool survives restarts.
type InMemoryStore struct {
	mu      sync.Mutex
	tokens  map[string]struct{}
	granted int
	states  map[id.CoupleID]AccessState
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tokens: make(map[string]struct{}),
		states: make(map[id.CoupleID]AccessState),
	}
}

func (s *InMemoryStore) SeedTokens(_ context.Context, tokens ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tokens {
		s.tokens[t] = struct{}{}
	}
	return nil
}

func (s *InMemoryStore) ConsumeToken(_ context.Context, token string, cap int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.granted >= cap {
		return false, nil
	}
	if _, ok := s.tokens[token]; !ok {
		return false, nil
	}
	delete(s.tokens, token)
	return true, nil
}

func (s *InMemoryStore) IncrementGranted(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.granted++
	return s.granted, nil
}

func (s *InMemoryStore) GrantedCount(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.granted, nil
}

func (s *InMemoryStore) State(_ context.Context, couple id.CoupleID) (AccessState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[couple], nil
}

func (s *InMemoryStore) SaveState(_ context.Context, couple id.CoupleID, state AccessState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[couple] = state
	return nil
}
