// Package membership tracks which lounges a couple has joined and which
// events it has RSVPed to. The messaging gate's shared-context check reads
// this: two couples share context when they co-inhabit at least one lounge
// or event.
package membership

import id "tandem/pkg/domain"

// ContextKind distinguishes the two membership surfaces.
type ContextKind string

const (
	ContextLounge ContextKind = "lounge"
	ContextEvent  ContextKind = "event"
)

// Membership is one couple's presence in one lounge or event.
type Membership struct {
	Couple id.CoupleID `json:"couple_id"`
	Kind   ContextKind `json:"kind"`
	Target string      `json:"target"`
}
