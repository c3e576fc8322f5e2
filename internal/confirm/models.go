// Package confirm implements the generic two-party, TTL-bounded commit
// protocol. One state machine serves messaging unlock, event attendance, and
// presence ratification; the use sites differ only in (kind, target, ttl).
package confirm

import (
	"time"

	"github.com/google/uuid"

	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

// Kind labels what the confirmation commits to.
type Kind string

const (
	KindMessaging Kind = "messaging"
	KindRSVP      Kind = "rsvp"
	KindPresence  Kind = "presence"
)

var validKinds = map[Kind]bool{
	KindMessaging: true,
	KindRSVP:      true,
	KindPresence:  true,
}

// ParseKind constructs a Kind from external input.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !validKinds[k] {
		return "", dErrors.New(dErrors.CodeValidation, "kind must be messaging, rsvp, or presence")
	}
	return k, nil
}

// Status is the lifecycle state of an action. Absence is represented by a
// nil action, not a status value.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusExpired   Status = "expired"
)

// Key is the composite identity of an action: one couple, one kind, one
// target. Re-taps on the same key address the same action until it reaches a
// terminal state.
type Key struct {
	Couple id.CoupleID `json:"couple_id"`
	Kind   Kind        `json:"kind"`
	Target string      `json:"target_id"`
}

// Action is one run of the protocol. ID distinguishes successive runs under
// the same key (an expired run is replaced by a fresh one).
type Action struct {
	ID                uuid.UUID   `json:"id"`
	Key               Key         `json:"key"`
	Initiator         id.Partner  `json:"initiator"`
	Partner1Confirmed bool        `json:"partner1_confirmed"`
	Partner2Confirmed bool        `json:"partner2_confirmed"`
	Status            Status      `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	TTL               time.Duration `json:"ttl"`
}

// Deadline is the instant after which a pending action is sweepable.
func (a *Action) Deadline() time.Time {
	return a.CreatedAt.Add(a.TTL)
}

// Confirmed reports whether the given partner's flag is set.
func (a *Action) Confirmed(p id.Partner) bool {
	if p == id.Partner1 {
		return a.Partner1Confirmed
	}
	return a.Partner2Confirmed
}

// SetConfirmed sets the given partner's flag.
func (a *Action) SetConfirmed(p id.Partner, v bool) {
	if p == id.Partner1 {
		a.Partner1Confirmed = v
	} else {
		a.Partner2Confirmed = v
	}
}

// clone returns a copy so stores can hand out actions without aliasing their
// internal state.
func (a *Action) clone() *Action {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}
