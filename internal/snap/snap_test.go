package snap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
)

type fakeGraph struct {
	nodes h3cell.Set
}

func (f fakeGraph) Contains(c h3cell.Cell) bool { return f.nodes.Contains(c) }

// findRing2Neighbor locates some cell at exactly grid-distance 2 from q.
func findRing2Neighbor(t *testing.T, q h3cell.Cell) h3cell.Cell {
	t.Helper()
	ring := q.GridRing(2)
	require.NotEmpty(t, ring)
	return ring[0]
}

func TestToGraph_AlreadyOnGraph(t *testing.T) {
	q := h3cell.FromLatLon(-7.56, 110.78, 9)
	g := fakeGraph{nodes: h3cell.NewSet([]h3cell.Cell{q})}

	res := ToGraph(g, q, 5)
	assert.True(t, res.Reachable)
	assert.Equal(t, q, res.Snapped)
	assert.Equal(t, 0, res.RingDist)
}

func TestToGraph_SnapAtRingDistance2(t *testing.T) {
	q := h3cell.FromLatLon(-7.56, 110.78, 9)
	target := findRing2Neighbor(t, q)
	g := fakeGraph{nodes: h3cell.NewSet([]h3cell.Cell{target})}

	// num_gap_cells_to_graph = 1: unreachable.
	res := ToGraph(g, q, 1)
	assert.False(t, res.Reachable)

	// num_gap_cells_to_graph = 2: snapped, deterministic.
	res = ToGraph(g, q, 2)
	assert.True(t, res.Reachable)
	assert.Equal(t, target, res.Snapped)
	assert.Equal(t, 2, res.RingDist)
}

func TestToGraph_Unreachable(t *testing.T) {
	q := h3cell.FromLatLon(-7.56, 110.78, 9)
	g := fakeGraph{nodes: h3cell.NewSet(nil)}

	res := ToGraph(g, q, 3)
	assert.False(t, res.Reachable)
}

func TestToGraph_TieBreakIsDeterministic(t *testing.T) {
	q := h3cell.FromLatLon(-7.56, 110.78, 9)
	ring := q.GridRing(1)
	require.GreaterOrEqual(t, len(ring), 2)

	g := fakeGraph{nodes: h3cell.NewSet(ring)}
	res1 := ToGraph(g, q, 1)
	res2 := ToGraph(g, q, 1)
	assert.Equal(t, res1.Snapped, res2.Snapped)

	for _, c := range ring {
		assert.LessOrEqual(t, uint64(res1.Snapped), uint64(c))
	}
}
