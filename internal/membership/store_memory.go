package membership

import (
	"context"
	"sync"

	id "tandem/pkg/domain"
)

type memberKey struct {
	kind   ContextKind
	target string
}

// InMemoryStore keeps memberships in a per-couple set behind a RWMutex.
type InMemoryStore struct {
	mu       sync.RWMutex
	byCouple map[id.CoupleID]map[memberKey]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byCouple: make(map[id.CoupleID]map[memberKey]struct{})}
}

func (s *InMemoryStore) Join(_ context.Context, m Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.byCouple[m.Couple]
	if !ok {
		set = make(map[memberKey]struct{})
		s.byCouple[m.Couple] = set
	}
	set[memberKey{kind: m.Kind, target: m.Target}] = struct{}{}
	return nil
}

func (s *InMemoryStore) Leave(_ context.Context, m Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.byCouple[m.Couple]; ok {
		delete(set, memberKey{kind: m.Kind, target: m.Target})
		if len(set) == 0 {
			delete(s.byCouple, m.Couple)
		}
	}
	return nil
}

func (s *InMemoryStore) List(_ context.Context, couple id.CoupleID) ([]Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.byCouple[couple]
	out := make([]Membership, 0, len(set))
	for k := range set {
		out = append(out, Membership{Couple: couple, Kind: k.kind, Target: k.target})
	}
	return out, nil
}

func (s *InMemoryStore) IsMember(_ context.Context, couple id.CoupleID, kind ContextKind, target string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.byCouple[couple]
	if !ok {
		return false, nil
	}
	_, ok = set[memberKey{kind: kind, target: target}]
	return ok, nil
}
