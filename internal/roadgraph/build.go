package roadgraph

import "github.com/lintang-b-s/rout3go/internal/h3cell"

// EdgeSpec is a single (u, v, cost, preference) tuple, the unit the
// graph-file decoder and tests build graphs from.
type EdgeSpec struct {
	From       h3cell.Cell
	To         h3cell.Cell
	CostSecs   float64
	Preference float32
}

// FromEdges builds a graph at the given name/resolution from a flat
// edge list, skipping (rather than failing on) individually malformed
// edges - a corrupt single edge in a multi-million edge extract should
// not fail the whole graph load. Skipped edges are counted and
// returned so callers can log/alert on a high skip rate.
func FromEdges(name string, resolution int, edges []EdgeSpec) (*RoadGraph, int) {
	g := New(name, resolution)
	skipped := 0
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To, e.CostSecs, e.Preference); err != nil {
			skipped++
		}
	}
	return g, skipped
}
