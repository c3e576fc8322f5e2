package domain

import (
	"time"

	dErrors "tandem/pkg/domain-errors"
)

// InterestLimit is the maximum number of live ledger entries per couple.
// Invariant: identical at every tier. Upgrades extend time windows only;
// they never increase outbound volume.
const InterestLimit = 5

// Tier selects the time windows a couple operates under.
type Tier string

const (
	TierFree     Tier = "free"
	TierPremium  Tier = "premium"
	// TierFounding grants the premium windows without billing. It is
	// non-purchasable; see the founding package.
	TierFounding Tier = "founding"
)

var validTiers = map[Tier]bool{
	TierFree:     true,
	TierPremium:  true,
	TierFounding: true,
}

// Limits are the tier-derived operating windows. The interest cap is listed
// here for completeness but is the same constant for every tier.
type Limits struct {
	InterestLimit int
	MessageTTL    time.Duration
	RSVPTTL       time.Duration
}

var (
	freeLimits    = Limits{InterestLimit: InterestLimit, MessageTTL: 72 * time.Hour, RSVPTTL: 48 * time.Hour}
	premiumLimits = Limits{InterestLimit: InterestLimit, MessageTTL: 168 * time.Hour, RSVPTTL: 96 * time.Hour}
)

// ParseTier constructs a Tier from external input.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !validTiers[t] {
		return "", dErrors.New(dErrors.CodeValidation, "tier must be free, premium, or founding")
	}
	return t, nil
}

// IsValid checks if the tier is one of the supported enum values.
func (t Tier) IsValid() bool {
	return validTiers[t]
}

// Limits returns the operating windows for the tier. Founding maps to the
// premium values.
func (t Tier) Limits() Limits {
	switch t {
	case TierPremium, TierFounding:
		return premiumLimits
	default:
		return freeLimits
	}
}

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}
