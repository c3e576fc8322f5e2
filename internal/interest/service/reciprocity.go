package service

import (
	"context"
	"sync"

	id "tandem/pkg/domain"
)

// StaticReciprocity is a seeded reciprocity source. The hosting application
// feeds it from whatever signal it owns; the engine only reads it.
type StaticReciprocity struct {
	mu    sync.RWMutex
	pairs map[id.CoupleID]map[id.CoupleID]bool
}

func NewStaticReciprocity() *StaticReciprocity {
	return &StaticReciprocity{pairs: make(map[id.CoupleID]map[id.CoupleID]bool)}
}

// Set records that `from` has reciprocated toward `to`.
func (r *StaticReciprocity) Set(from, to id.CoupleID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pairs[from] == nil {
		r.pairs[from] = make(map[id.CoupleID]bool)
	}
	r.pairs[from][to] = true
}

// Clear removes a reciprocation.
func (r *StaticReciprocity) Clear(from, to id.CoupleID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pairs[from], to)
}

func (r *StaticReciprocity) HasReciprocated(_ context.Context, candidate, couple id.CoupleID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pairs[candidate][couple], nil
}
