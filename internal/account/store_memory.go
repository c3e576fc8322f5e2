package account

import (
	"context"
	"sync"

	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

// InMemoryStore keeps accounts behind a RWMutex.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[id.CoupleID]Account
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{accounts: make(map[id.CoupleID]Account)}
}

func (s *InMemoryStore) Create(_ context.Context, a Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[a.ID]; exists {
		return dErrors.New(dErrors.CodeConflict, "couple already registered")
	}
	s.accounts[a.ID] = a
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, couple id.CoupleID) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[couple]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *InMemoryStore) Update(_ context.Context, a Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[a.ID]; !exists {
		return dErrors.New(dErrors.CodeNotFound, "couple not registered")
	}
	s.accounts[a.ID] = a
	return nil
}
