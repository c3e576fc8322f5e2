// Package region models the static geographic layer: city/state pairs map to
// metro-level regions, regions carry a country and a density class, and a
// one-hop adjacency relation connects neighboring regions.
//
// There are no coordinates, no geocoding, and no maps. The graph is an
// explicit data structure so a deployment can grow it without touching any
// filter logic.
package region

import (
	"fmt"
	"strings"
)

// Density classifies how thick a locale's market is. Sparse locales widen
// the local scope by one neighbor so feeds aren't empty.
type Density string

const (
	DensitySparse   Density = "sparse"
	DensityModerate Density = "moderate"
	DensityDense    Density = "dense"
)

// Location is a resolved place. Region is empty when the city is unknown to
// the graph; an unresolved region must never cause filtering (fail-open).
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country"`
}

// Resolved reports whether the location mapped to a known region.
func (l Location) Resolved() bool {
	return l.Region != ""
}

type entry struct {
	region  string
	country string
	density Density
}

// Graph is the static region model: place lookups plus region adjacency.
// All methods are pure lookups; the graph is immutable after construction.
type Graph struct {
	places    map[string]entry
	adjacency map[string][]string
}

// NewGraph builds the seeded graph. A production deployment would load this
// from configuration; the shape of the API does not change.
func NewGraph() *Graph {
	return &Graph{
		places: map[string]entry{
			"Austin, TX":        {region: "Austin Metro", country: "US", density: DensityModerate},
			"Round Rock, TX":    {region: "Austin Metro", country: "US", density: DensityModerate},
			"San Marcos, TX":    {region: "Austin Metro", country: "US", density: DensityModerate},
			"San Antonio, TX":   {region: "San Antonio Metro", country: "US", density: DensityModerate},
			"Houston, TX":       {region: "Houston Metro", country: "US", density: DensityDense},
			"Dallas, TX":        {region: "Dallas Metro", country: "US", density: DensityDense},
			"Fort Worth, TX":    {region: "Dallas Metro", country: "US", density: DensityDense},
			"Los Angeles, CA":   {region: "LA Metro", country: "US", density: DensityDense},
			"San Francisco, CA": {region: "SF Bay Area", country: "US", density: DensityDense},
			"Oakland, CA":       {region: "SF Bay Area", country: "US", density: DensityDense},
			"Toronto, ON":       {region: "Toronto Metro", country: "CA", density: DensityDense},
			"Ottawa, ON":        {region: "Ottawa Metro", country: "CA", density: DensityModerate},
			"Montreal, QC":      {region: "Montreal Metro", country: "CA", density: DensityDense},
			"Vancouver, BC":     {region: "Vancouver Metro", country: "CA", density: DensityDense},
		},
		adjacency: map[string][]string{
			"Austin Metro":      {"San Antonio Metro"},
			"San Antonio Metro": {"Austin Metro"},
			"Houston Metro":     {"Dallas Metro"},
			"Dallas Metro":      {"Houston Metro"},
			"LA Metro":          {},
			"SF Bay Area":       {},
			"Toronto Metro":     {"Ottawa Metro"},
			"Ottawa Metro":      {"Toronto Metro", "Montreal Metro"},
			"Montreal Metro":    {"Ottawa Metro"},
			"Vancouver Metro":   {},
		},
	}
}

// Resolve derives a full location record from raw signup inputs. The result
// is always usable: an unknown city yields an empty region and the US
// default country so downstream filters let it through.
func (g *Graph) Resolve(city, state string) Location {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	loc := Location{City: city, State: state, Country: "US"}
	if e, ok := g.places[placeKey(city, state)]; ok {
		loc.Region = e.region
		loc.Country = e.country
	}
	return loc
}

// ResolveKey derives a location from a combined "City, ST" string, the form
// candidate profiles carry.
func (g *Graph) ResolveKey(key string) Location {
	parts := strings.SplitN(key, ",", 2)
	if len(parts) != 2 {
		return Location{City: strings.TrimSpace(key), Country: "US"}
	}
	return g.Resolve(parts[0], parts[1])
}

// Neighbors returns the direct adjacency ring of a region. The relation is
// one hop; callers must not close it transitively.
func (g *Graph) Neighbors(region string) []string {
	return g.adjacency[region]
}

// IsNeighbor reports whether b is in a's direct adjacency ring.
func (g *Graph) IsNeighbor(a, b string) bool {
	for _, n := range g.adjacency[a] {
		if n == b {
			return true
		}
	}
	return false
}

// DensityOf returns the density class of the viewer's locale. Unknown places
// default to moderate, which keeps the sparse widening rule conservative.
func (g *Graph) DensityOf(city, state string) Density {
	if e, ok := g.places[placeKey(strings.TrimSpace(city), strings.TrimSpace(state))]; ok {
		return e.density
	}
	return DensityModerate
}

func placeKey(city, state string) string {
	return fmt.Sprintf("%s, %s", city, state)
}
