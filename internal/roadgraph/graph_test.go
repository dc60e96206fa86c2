package roadgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
)

// testCell picks a deterministic, distinct cell for each test label by
// nudging a base coordinate - real H3 indices, not synthetic ints,
// since roadgraph keys nodes by h3cell.Cell throughout.
func testCell(t *testing.T, nth int) h3cell.Cell {
	t.Helper()
	lat := -7.56 + float64(nth)*0.01
	lon := 110.78 + float64(nth)*0.01
	return h3cell.FromLatLon(lat, lon, 10)
}

// buildFourNodeGraph returns four cells but adds edges only between A, B
// and C: A->B (10s, 1.0), B->C (5s, 0.5), A->C (20s, 1.0). D is not a
// node of the graph.
func buildFourNodeGraph(t *testing.T) (g *RoadGraph, a, b, c, d h3cell.Cell) {
	t.Helper()
	a, b, c, d = testCell(t, 0), testCell(t, 1), testCell(t, 2), testCell(t, 3)
	g = New("s1", 10)
	require.NoError(t, g.AddEdge(a, b, 10, 1.0))
	require.NoError(t, g.AddEdge(b, c, 5, 0.5))
	require.NoError(t, g.AddEdge(a, c, 20, 1.0))
	return g, a, b, c, d
}

func TestAddEdge_RejectsSelfLoop(t *testing.T) {
	g := New("g", 10)
	a := testCell(t, 0)
	err := g.AddEdge(a, a, 5, 1.0)
	assert.Error(t, err)
}

func TestAddEdge_KeepsLowestCostParallelEdge(t *testing.T) {
	g := New("g", 10)
	a, b := testCell(t, 0), testCell(t, 1)
	require.NoError(t, g.AddEdge(a, b, 10, 1.0))
	require.NoError(t, g.AddEdge(a, b, 4, 0.9)) // cheaper parallel edge wins
	require.NoError(t, g.AddEdge(a, b, 50, 1.0))

	id, ok := g.NodeID(a)
	require.True(t, ok)
	out := g.OutEdges(id)
	require.Len(t, out, 1)
	assert.Equal(t, 4.0, out[0].CostSecs)
}

func TestEffectiveCost_ExactModeIgnoresPreference(t *testing.T) {
	g, _, _, _, _ := buildFourNodeGraph(t)
	edges := g.OutEdges(mustID(t, g, 0))
	require.Len(t, edges, 2)
	assert.Equal(t, 10.0, EffectiveCost(edges[0], 0))
}

func TestEffectiveCost_PreferenceWeightingFavorsBetterRoads(t *testing.T) {
	g, _, _, _, _ := buildFourNodeGraph(t)
	bcEdges := g.OutEdges(mustID(t, g, 1))
	require.Len(t, bcEdges, 1)
	// B->C: 5 * (1 + 0.8*(1-0.5)) == 5 * 1.4 == 7
	assert.InDelta(t, 7.0, EffectiveCost(bcEdges[0], 0.8), 1e-9)
}

func TestMask_RemovesIncidentEdges(t *testing.T) {
	g, a, b, c, _ := buildFourNodeGraph(t)
	masked := g.Mask(h3cell.NewSet([]h3cell.Cell{b}))

	aID, _ := masked.NodeID(a)
	out := masked.OutEdges(aID)
	for _, e := range out {
		assert.NotEqual(t, masked.Cell(e.To), b)
	}
	// A->C should survive the mask since neither endpoint is excluded.
	found := false
	for _, e := range out {
		if masked.Cell(e.To) == c {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCoarsen_RejectsFinerOrEqualResolution(t *testing.T) {
	g := New("g", 8)
	_, err := g.Coarsen(8)
	assert.Error(t, err)
	_, err = g.Coarsen(9)
	assert.Error(t, err)
}

func TestMayIntersect_EmptyGraphAlwaysFalse(t *testing.T) {
	g := New("empty", 10)
	assert.False(t, g.MayIntersect(-10, -10, 10, 10))
}

// --- small helpers kept local to this test file ---

func mustID(t *testing.T, g *RoadGraph, nth int) int32 {
	t.Helper()
	id, ok := g.NodeID(testCellFrom(g, nth))
	require.True(t, ok)
	return id
}

// testCellFrom reconstructs the nth cell used by buildFourNodeGraph/testCell
// without needing a *testing.T in scope at the call site.
func testCellFrom(g *RoadGraph, nth int) h3cell.Cell {
	lat := -7.56 + float64(nth)*0.01
	lon := 110.78 + float64(nth)*0.01
	return h3cell.FromLatLon(lat, lon, g.Resolution)
}
