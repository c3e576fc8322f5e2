package domain

import dErrors "tandem/pkg/domain-errors"

// Scope selects how wide discovery reaches. Country boundaries are checked
// separately and before any scope logic.
type Scope string

const (
	// ScopeLocal shows the viewer's own region, plus one adjacent region
	// when the viewer's locale is sparse.
	ScopeLocal Scope = "local"
	// ScopeNearby shows the viewer's region and its direct neighbors.
	// Adjacency is one hop; it is never closed transitively.
	ScopeNearby Scope = "nearby"
	// ScopeTravel is country-wide.
	ScopeTravel Scope = "travel"
)

var validScopes = map[Scope]bool{
	ScopeLocal:  true,
	ScopeNearby: true,
	ScopeTravel: true,
}

// ParseScope constructs a Scope from external input.
func ParseScope(s string) (Scope, error) {
	sc := Scope(s)
	if !validScopes[sc] {
		return "", dErrors.New(dErrors.CodeValidation, "scope must be local, nearby, or travel")
	}
	return sc, nil
}

// IsValid checks if the scope is one of the supported enum values.
func (s Scope) IsValid() bool {
	return validScopes[s]
}

// String returns the string representation of the scope.
func (s Scope) String() string {
	return string(s)
}
