// Package interest holds the bounded ledger of outstanding expressed
// intents: at most one live entry per candidate, at most InterestLimit live
// entries per couple, at every tier.
package interest

import (
	"time"

	id "tandem/pkg/domain"
)

// Outcome is the result of an expression attempt. The cap is a normal
// outcome, not an error.
type Outcome string

const (
	// OutcomeAccepted means the intent was recorded (new or replaced).
	OutcomeAccepted Outcome = "accepted"
	// OutcomeRetracted means the same intent was already recorded and the
	// tap removed it. Retraction always succeeds and never touches the cap.
	OutcomeRetracted Outcome = "retracted"
	// OutcomeCapReached means the ledger is full for this couple.
	OutcomeCapReached Outcome = "cap_reached"
)

// Record is one live ledger entry.
type Record struct {
	Couple      id.CoupleID `json:"couple_id"`
	Candidate   id.CoupleID `json:"candidate_id"`
	Intent      id.Intent   `json:"intent"`
	ExpressedAt time.Time   `json:"expressed_at"`
}
