package confirm

import (
	"context"
	"sync"
	"time"

	id "tandem/pkg/domain"
)

// InMemoryStore keeps actions in process memory. One mutex serializes every
// mutation, which trivially satisfies the per-key single-writer discipline.
type InMemoryStore struct {
	mu      sync.RWMutex
	actions map[Key]*Action
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{actions: make(map[Key]*Action)}
}

func (s *InMemoryStore) Mutate(_ context.Context, key Key, fn MutateFunc) (*Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.actions[key].clone())
	if err != nil {
		return nil, err
	}
	if next == nil {
		delete(s.actions, key)
		return nil, nil
	}
	s.actions[key] = next
	return next.clone(), nil
}

func (s *InMemoryStore) Get(_ context.Context, key Key) (*Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actions[key].clone(), nil
}

func (s *InMemoryStore) ListByCouple(_ context.Context, couple id.CoupleID) ([]*Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Action
	for key, a := range s.actions {
		if key.Couple == couple {
			out = append(out, a.clone())
		}
	}
	return out, nil
}

func (s *InMemoryStore) SweepExpired(_ context.Context, now time.Time) ([]Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var transitioned []Key
	for key, a := range s.actions {
		if a.Status == StatusPending && now.After(a.Deadline()) {
			a.Status = StatusExpired
			transitioned = append(transitioned, key)
		}
	}
	return transitioned, nil
}

func (s *InMemoryStore) HasConfirmed(_ context.Context, couple id.CoupleID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, a := range s.actions {
		if key.Couple == couple && a.Status == StatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}
