// Package domain holds the primitive value types shared by every module:
// identifiers, the partner pair, discovery scopes, interest intents, and
// subscription tiers.
//
// Construct parsed types via their Parse functions at trust boundaries;
// direct casting bypasses validation.
package domain

import dErrors "tandem/pkg/domain-errors"

// CoupleID identifies a two-person account. Every profile, ledger entry, and
// confirmation action belongs to exactly one couple.
type CoupleID string

// IsNil returns true when the ID is empty.
func (id CoupleID) IsNil() bool {
	return id == ""
}

// String returns the string representation of the ID.
func (id CoupleID) String() string {
	return string(id)
}

// Partner identifies one member of a couple. There are exactly two.
type Partner string

const (
	Partner1 Partner = "partner1"
	Partner2 Partner = "partner2"
)

// ParsePartner constructs a Partner from external input.
func ParsePartner(s string) (Partner, error) {
	switch Partner(s) {
	case Partner1, Partner2:
		return Partner(s), nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "partner must be partner1 or partner2")
}

// IsValid reports whether p is one of the two members.
func (p Partner) IsValid() bool {
	return p == Partner1 || p == Partner2
}

// Other returns the opposite member of the pair.
func (p Partner) Other() Partner {
	if p == Partner1 {
		return Partner2
	}
	return Partner1
}

// String returns the string representation of the partner.
func (p Partner) String() string {
	return string(p)
}
