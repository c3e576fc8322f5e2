// Package cosign implements the draft/ratify pattern shared by lounge
// responses and place presence: one partner drafts, the other ratifies,
// and only the ratified record becomes durable and visible.
package cosign

import (
	"time"

	"github.com/google/uuid"

	id "tandem/pkg/domain"
)

// Kind separates the two co-signed surfaces.
type Kind string

const (
	KindLoungeResponse Kind = "lounge_response"
	KindPlacePresence  Kind = "place_presence"
)

func (k Kind) IsValid() bool {
	return k == KindLoungeResponse || k == KindPlacePresence
}

// Slot tags a presence record with the part of day it announces. Slot
// expiry is wall-clock based, not TTL based: "today" lapses at 18:00 and
// "tonight" at 03:00 the following day, in the record's own location.
type Slot string

const (
	SlotNone    Slot = ""
	SlotToday   Slot = "today"
	SlotTonight Slot = "tonight"
)

func ParseSlot(raw string) (Slot, bool) {
	switch Slot(raw) {
	case SlotToday, SlotTonight:
		return Slot(raw), true
	case SlotNone:
		return SlotNone, true
	}
	return SlotNone, false
}

// ExpiresAt returns the wall-clock boundary after which a presence record
// in this slot no longer shows. SlotNone never expires by slot rule.
func (s Slot) ExpiresAt(created time.Time) time.Time {
	midnight := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, created.Location())
	switch s {
	case SlotToday:
		return midnight.Add(18 * time.Hour)
	case SlotTonight:
		return midnight.Add(27 * time.Hour)
	}
	return time.Time{}
}

// ResponseMaxAge is how long a ratified lounge response stays visible.
const ResponseMaxAge = 7 * 24 * time.Hour

// Draft is one partner's unratified submission. At most one draft exists
// per (couple, kind, target); a new draft replaces the old one.
type Draft struct {
	Couple    id.CoupleID `json:"couple_id"`
	Kind      Kind        `json:"kind"`
	Target    string      `json:"target"`
	Content   string      `json:"content"`
	Slot      Slot        `json:"slot,omitempty"`
	DraftedBy id.Partner  `json:"drafted_by"`
	CreatedAt time.Time   `json:"created_at"`
}

// Record is a ratified, durable entry stamped with both partners'
// attribution.
type Record struct {
	ID         uuid.UUID   `json:"id"`
	Couple     id.CoupleID `json:"couple_id"`
	Kind       Kind        `json:"kind"`
	Target     string      `json:"target"`
	Content    string      `json:"content"`
	Slot       Slot        `json:"slot,omitempty"`
	DraftedBy  id.Partner  `json:"drafted_by"`
	RatifiedBy id.Partner  `json:"ratified_by"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Visible reports whether the record still shows at the given instant:
// lounge responses age out after ResponseMaxAge, presence records lapse at
// their slot boundary.
func (r Record) Visible(now time.Time) bool {
	switch r.Kind {
	case KindLoungeResponse:
		return now.Sub(r.CreatedAt) < ResponseMaxAge
	case KindPlacePresence:
		if r.Slot == SlotNone {
			return true
		}
		return now.Before(r.Slot.ExpiresAt(r.CreatedAt))
	}
	return false
}
