// Package discovery decides whether a candidate location is visible to a
// viewer given a chosen scope and an explicit cross-border opt-in. It is a
// pure filter over the region graph; it owns no state.
package discovery

import (
	id "tandem/pkg/domain"

	"tandem/internal/region"
)

// EventClass labels scheduled gatherings for visibility purposes.
type EventClass string

const (
	// EventLocal events are filtered by viewer scope like profiles.
	EventLocal EventClass = "local"
	// EventVirtual events are always visible.
	EventVirtual EventClass = "virtual"
	// EventTravel events are always visible; callers label them rather
	// than filtering.
	EventTravel EventClass = "travel"
)

// IsValid checks if the class is one of the supported enum values.
func (c EventClass) IsValid() bool {
	return c == EventLocal || c == EventVirtual || c == EventTravel
}

// Service evaluates scope and event visibility against the region graph.
type Service struct {
	graph *region.Graph
}

// New creates a discovery service over the given graph.
func New(graph *region.Graph) *Service {
	return &Service{graph: graph}
}

// InScope reports whether a candidate location is visible to the viewer.
//
// Rules, in order:
//   - either region unresolved: visible (never hide unknown geography)
//   - countries differ without crossBorder: hidden, before any scope logic
//   - travel: country-wide
//   - local: same region, plus one neighbor when the viewer locale is sparse
//   - nearby: same region or any direct neighbor (one hop, no traversal)
func (s *Service) InScope(viewer, candidate region.Location, scope id.Scope, crossBorder bool) bool {
	if !viewer.Resolved() || !candidate.Resolved() {
		return true
	}

	if viewer.Country != candidate.Country && !crossBorder {
		return false
	}

	if scope == id.ScopeTravel {
		return true
	}

	switch scope {
	case id.ScopeLocal:
		if candidate.Region == viewer.Region {
			return true
		}
		if s.graph.DensityOf(viewer.City, viewer.State) == region.DensitySparse &&
			s.graph.IsNeighbor(viewer.Region, candidate.Region) {
			return true
		}
		return false
	case id.ScopeNearby:
		return candidate.Region == viewer.Region ||
			s.graph.IsNeighbor(viewer.Region, candidate.Region)
	}

	return false
}

// EventVisible reports whether a scheduled gathering is visible to the
// viewer. Virtual and travel-type events are always visible; local events
// follow the same scope rules as profiles.
func (s *Service) EventVisible(class EventClass, eventLoc, viewer region.Location, scope id.Scope, crossBorder bool) bool {
	switch class {
	case EventVirtual, EventTravel:
		return true
	}
	return s.InScope(viewer, eventLoc, scope, crossBorder)
}

// ageTolerance is the allowed gap, in years, between corresponding partners.
const ageTolerance = 5

// AgesCompatible reports whether two couples fall within the age-match rule:
// each partner within the tolerance of the other couple's corresponding
// partner. A zero age on either side means unset and passes the check.
func AgesCompatible(viewerA, viewerB, candidateA, candidateB int) bool {
	if viewerA == 0 || viewerB == 0 || candidateA == 0 || candidateB == 0 {
		return true
	}
	return absDiff(viewerA, candidateA) <= ageTolerance &&
		absDiff(viewerB, candidateB) <= ageTolerance
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
