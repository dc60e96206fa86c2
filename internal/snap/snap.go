// Package snap implements bounded-radius snapping of an off-graph H3
// cell to the nearest on-graph node.
package snap

import (
	"github.com/lintang-b-s/rout3go/internal/h3cell"
	"github.com/lintang-b-s/rout3go/internal/roadgraph"
)

// Result is the outcome of snapping a single query cell.
type Result struct {
	Query     h3cell.Cell
	Snapped   h3cell.Cell
	RingDist  int
	Reachable bool
}

// Graph is the minimal surface snap.ToGraph needs from a RoadGraph,
// kept as an interface so tests can snap against a fake node set
// without building a full graph.
type Graph interface {
	Contains(cell h3cell.Cell) bool
}

// ToGraph maps q to the nearest on-graph cell by expanding a ring
// search at radii 0, 1, ..., maxRings (the request's
// num_gap_cells_to_graph). The first ring containing any graph node
// wins; ties within that ring are broken by the lexicographically
// smallest H3 index, to make output deterministic.
//
// If q is already a graph node, it is returned unchanged at ring 0.
// If no ring up to and including maxRings contains a node, Reachable
// is false.
func ToGraph(g Graph, q h3cell.Cell, maxRings int) Result {
	if g.Contains(q) {
		return Result{Query: q, Snapped: q, RingDist: 0, Reachable: true}
	}
	for k := 1; k <= maxRings; k++ {
		ring := q.GridRing(k)
		var candidates []h3cell.Cell
		for _, c := range ring {
			if g.Contains(c) {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) > 0 {
			return Result{
				Query:     q,
				Snapped:   roadgraph.NearestNodeByID(candidates),
				RingDist:  k,
				Reachable: true,
			}
		}
	}
	return Result{Query: q, Reachable: false}
}

// ManyToGraph snaps every cell in qs, preserving order. Unreachable
// queries are still present in the output (Reachable == false) so
// callers can report which origins/destinations were dropped rather
// than silently shrinking the set.
func ManyToGraph(g Graph, qs []h3cell.Cell, maxRings int) []Result {
	out := make([]Result, len(qs))
	for i, q := range qs {
		out[i] = ToGraph(g, q, maxRings)
	}
	return out
}
