package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	g := NewGraph()

	t.Run("known city", func(t *testing.T) {
		loc := g.Resolve("Austin", "TX")
		assert.Equal(t, "Austin Metro", loc.Region)
		assert.Equal(t, "US", loc.Country)
		assert.True(t, loc.Resolved())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		loc := g.Resolve("  Toronto ", " ON ")
		assert.Equal(t, "Toronto Metro", loc.Region)
		assert.Equal(t, "CA", loc.Country)
	})

	t.Run("unknown city fails open", func(t *testing.T) {
		loc := g.Resolve("Lubbock", "TX")
		assert.False(t, loc.Resolved())
		assert.Equal(t, "US", loc.Country)
		assert.Equal(t, "Lubbock", loc.City)
	})
}

func TestResolveKey(t *testing.T) {
	g := NewGraph()

	loc := g.ResolveKey("San Antonio, TX")
	assert.Equal(t, "San Antonio Metro", loc.Region)

	loc = g.ResolveKey("nowhere")
	assert.False(t, loc.Resolved())
}

func TestAdjacency(t *testing.T) {
	g := NewGraph()

	t.Run("one hop only", func(t *testing.T) {
		assert.True(t, g.IsNeighbor("Austin Metro", "San Antonio Metro"))
		assert.True(t, g.IsNeighbor("Ottawa Metro", "Montreal Metro"))
		// Toronto-Montreal would require two hops through Ottawa.
		assert.False(t, g.IsNeighbor("Toronto Metro", "Montreal Metro"))
	})

	t.Run("isolated regions have no neighbors", func(t *testing.T) {
		assert.Empty(t, g.Neighbors("LA Metro"))
	})
}

func TestDensityOf(t *testing.T) {
	g := NewGraph()
	assert.Equal(t, DensityDense, g.DensityOf("Houston", "TX"))
	assert.Equal(t, DensityModerate, g.DensityOf("Nowhere", "ZZ"))
}
