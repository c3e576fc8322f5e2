// Package gate aggregates the four messaging preconditions into a single
// decision: location scope, mutual interest, shared context, and the
// dual-confirmation latch.
package gate

// Reason names the first gate check that failed. Empty when unlocked.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonLocation     Reason = "location"
	ReasonInterest     Reason = "mutual_interest"
	ReasonContext      Reason = "shared_context"
	ReasonConfirmation Reason = "confirmation"
)

// Result reports each check plus the aggregate. Checks run in a fixed
// order and stop at the first failure, so flags after the blocking one are
// reported false without being evaluated.
type Result struct {
	LocationOK     bool   `json:"location_ok"`
	MutualInterest bool   `json:"mutual_interest"`
	SharedContext  bool   `json:"shared_context"`
	DualConfirmed  bool   `json:"dual_confirmed"`
	Unlocked       bool   `json:"unlocked"`
	Blocking       Reason `json:"blocking,omitempty"`
}
