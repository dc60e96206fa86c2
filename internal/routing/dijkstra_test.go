package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
	"github.com/lintang-b-s/rout3go/internal/roadgraph"
)

func cellN(nth int) h3cell.Cell {
	lat := -7.56 + float64(nth)*0.01
	lon := 110.78 + float64(nth)*0.01
	return h3cell.FromLatLon(lat, lon, 10)
}

// buildTriangle builds a three-node graph: A->B (10s, 1.0), B->C (5s,
// 0.5), A->C (20s, 1.0).
func buildTriangle(t *testing.T) (g *roadgraph.RoadGraph, a, b, c h3cell.Cell) {
	t.Helper()
	a, b, c = cellN(0), cellN(1), cellN(2)
	g = roadgraph.New("triangle", 10)
	require.NoError(t, g.AddEdge(a, b, 10, 1.0))
	require.NoError(t, g.AddEdge(b, c, 5, 0.5))
	require.NoError(t, g.AddEdge(a, c, 20, 1.0))
	return g, a, b, c
}

func TestManyToMany_ExactMode(t *testing.T) {
	g, a, _, c := buildTriangle(t)
	results := ManyToMany(g, []h3cell.Cell{a}, []h3cell.Cell{c}, Options{Mode: roadgraph.Exact})

	require.Len(t, results, 1)
	require.Len(t, results[0], 1)
	path := results[0][0]
	assert.True(t, path.Reached)
	assert.InDelta(t, 15.0, path.CostSecs, 1e-9)
}

func TestManyToMany_PreferBetterRoadsMode(t *testing.T) {
	g, a, b, c := buildTriangle(t)
	mode := roadgraph.Mode{Name: "prefer-better-roads", PreferenceFactor: 0.8}
	results := ManyToMany(g, []h3cell.Cell{a}, []h3cell.Cell{c}, Options{Mode: mode})

	path := results[0][0]
	assert.True(t, path.Reached)
	// A->B->C: 10 + 5*(1+0.8*0.5) == 10 + 7 == 17, beats A->C direct at 20.
	assert.InDelta(t, 17.0, path.CostSecs, 1e-9)
	require.Len(t, path.Cells, 3)
	assert.Equal(t, a, path.Cells[0])
	assert.Equal(t, b, path.Cells[1])
	assert.Equal(t, c, path.Cells[2])
}

func TestManyToMany_UnreachableDestination(t *testing.T) {
	g, a, _, _ := buildTriangle(t)
	isolated := cellN(99)
	results := ManyToMany(g, []h3cell.Cell{a}, []h3cell.Cell{isolated}, Options{Mode: roadgraph.Exact})
	assert.False(t, results[0][0].Reached)
}

func TestWithinThreshold_BoundaryInclusive(t *testing.T) {
	// Single edge O->C costing exactly 100s; the threshold boundary is
	// inclusive at 100s and must exclude a cost of 101s.
	a, c := cellN(0), cellN(1)
	g := roadgraph.New("threshold", 10)
	require.NoError(t, g.AddEdge(a, c, 100, 1.0))

	hits := WithinThreshold(g, []h3cell.Cell{a}, roadgraph.Exact, 100)
	var found bool
	for _, h := range hits {
		if h.H3Index == c {
			found = true
			assert.InDelta(t, 100.0, h.TravelDurationS, 1e-9)
		}
	}
	assert.True(t, found, "cost exactly at the ceiling must be included")
}

func TestWithinThreshold_BoundaryExclusive(t *testing.T) {
	a, c := cellN(0), cellN(1)
	g := roadgraph.New("threshold", 10)
	require.NoError(t, g.AddEdge(a, c, 101, 1.0))

	hits := WithinThreshold(g, []h3cell.Cell{a}, roadgraph.Exact, 100)
	for _, h := range hits {
		assert.NotEqual(t, c, h.H3Index, "cost beyond the ceiling must be excluded")
	}
}

func TestWithinThreshold_AggregatesMinimumAcrossOrigins(t *testing.T) {
	a, b, target := cellN(0), cellN(1), cellN(2)
	g := roadgraph.New("g", 10)
	require.NoError(t, g.AddEdge(a, target, 50, 1.0))
	require.NoError(t, g.AddEdge(b, target, 10, 1.0))

	hits := WithinThreshold(g, []h3cell.Cell{a, b}, roadgraph.Exact, 1000)
	for _, h := range hits {
		if h.H3Index == target {
			assert.InDelta(t, 10.0, h.TravelDurationS, 1e-9)
			assert.Equal(t, b, h.OriginH3Index)
		}
	}
}

func TestManyToMany_KDestStopsAtCheapestDestinations(t *testing.T) {
	// Origin O reaches three destinations at costs 5, 10, 20 (added in
	// request order costliest-first, so a request-order truncation
	// would keep the wrong ones).
	o, costly, mid, cheap := cellN(0), cellN(1), cellN(2), cellN(3)
	g := roadgraph.New("g", 10)
	require.NoError(t, g.AddEdge(o, costly, 20, 1.0))
	require.NoError(t, g.AddEdge(o, mid, 10, 1.0))
	require.NoError(t, g.AddEdge(o, cheap, 5, 1.0))

	results := ManyToMany(g, []h3cell.Cell{o}, []h3cell.Cell{costly, mid, cheap}, Options{Mode: roadgraph.Exact, KDest: 2})
	require.Len(t, results[0], 3)

	reachedCount := 0
	for _, p := range results[0] {
		if p.Reached {
			reachedCount++
			assert.NotEqual(t, costly, p.Destination, "the single costliest destination must be excluded by a k_dest of 2")
		}
	}
	assert.Equal(t, 2, reachedCount)
}

func TestManyToMany_DeterministicAcrossRuns(t *testing.T) {
	g, a, _, c := buildTriangle(t)
	r1 := ManyToMany(g, []h3cell.Cell{a}, []h3cell.Cell{c}, Options{Mode: roadgraph.Exact})
	r2 := ManyToMany(g, []h3cell.Cell{a}, []h3cell.Cell{c}, Options{Mode: roadgraph.Exact})
	assert.Equal(t, r1[0][0].Cells, r2[0][0].Cells)
}
