// Package founding implements the capped invitation-token pool and the
// eligibility watcher that upgrades a pending grant into active access.
package founding

const (
	// Cap is the hard limit on founding grants across the whole deployment.
	// The granted counter is monotonic; once it reaches Cap no further
	// activation may increment it.
	Cap = 30

	// TenureDays is the documented minimum account age before a token is
	// considered. Enforcement is delegated to a pluggable predicate; see
	// the service constructor.
	TenureDays = 30
)

// AccessState tracks a couple's progress through the founding grant.
// Eligible is set at signup when a valid token is redeemed. Active is set
// once the engagement conditions are met, at most once. Acknowledged is set
// after the one-time activation notice has been shown.
type AccessState struct {
	Eligible     bool `json:"eligible"`
	Active       bool `json:"active"`
	Acknowledged bool `json:"acknowledged"`
}
