package cosign

import (
	"context"
	"sync"

	id "tandem/pkg/domain"
)

type targetKey struct {
	kind   Kind
	target string
}

// InMemoryStore keeps drafts and records behind a RWMutex.
type InMemoryStore struct {
	mu      sync.RWMutex
	drafts  map[DraftKey]Draft
	records map[targetKey][]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		drafts:  make(map[DraftKey]Draft),
		records: make(map[targetKey][]Record),
	}
}

func (s *InMemoryStore) PutDraft(_ context.Context, d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[DraftKey{Couple: d.Couple, Kind: d.Kind, Target: d.Target}] = d
	return nil
}

func (s *InMemoryStore) GetDraft(_ context.Context, key DraftKey) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[key]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (s *InMemoryStore) DeleteDraft(_ context.Context, key DraftKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
	return nil
}

func (s *InMemoryStore) AppendRecord(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := targetKey{kind: r.Kind, target: r.Target}
	s.records[k] = append(s.records[k], r)
	return nil
}

func (s *InMemoryStore) ListRecords(_ context.Context, kind Kind, target string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.records[targetKey{kind: kind, target: target}]
	out := make([]Record, len(recs))
	copy(out, recs)
	return out, nil
}

func (s *InMemoryStore) ListByCouple(_ context.Context, couple id.CoupleID) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, recs := range s.records {
		for _, r := range recs {
			if r.Couple == couple {
				out = append(out, r)
			}
		}
	}
	return out, nil
}
