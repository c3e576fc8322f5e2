package interest

import (
	"context"
	"sync"

	id "tandem/pkg/domain"
	"tandem/pkg/requestcontext"
)

// InMemoryStore keeps the ledger in process memory. A single mutex
// serializes every check-then-mutate so the cap cannot be breached by
// concurrent expressions.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.CoupleID]map[id.CoupleID]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.CoupleID]map[id.CoupleID]Record)}
}

func (s *InMemoryStore) Express(ctx context.Context, couple, candidate id.CoupleID, intent id.Intent, limit int) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.entries[couple]
	if ledger == nil {
		ledger = make(map[id.CoupleID]Record)
		s.entries[couple] = ledger
	}

	if existing, ok := ledger[candidate]; ok {
		if existing.Intent == intent {
			delete(ledger, candidate)
			return OutcomeRetracted, nil
		}
		// Replacing the tag on an existing entry does not change the count.
		existing.Intent = intent
		existing.ExpressedAt = requestcontext.Now(ctx)
		ledger[candidate] = existing
		return OutcomeAccepted, nil
	}

	if len(ledger) >= limit {
		return OutcomeCapReached, nil
	}

	ledger[candidate] = Record{
		Couple:      couple,
		Candidate:   candidate,
		Intent:      intent,
		ExpressedAt: requestcontext.Now(ctx),
	}
	return OutcomeAccepted, nil
}

func (s *InMemoryStore) Get(_ context.Context, couple, candidate id.CoupleID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.entries[couple][candidate]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (s *InMemoryStore) List(_ context.Context, couple id.CoupleID) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.entries[couple]))
	for _, rec := range s.entries[couple] {
		out = append(out, rec)
	}
	return out, nil
}

func (s *InMemoryStore) Count(_ context.Context, couple id.CoupleID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[couple]), nil
}
