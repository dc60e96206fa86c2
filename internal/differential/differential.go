// Package differential implements differential shortest-path analysis:
// compare routing from a set of origins before and after a disturbance
// removes a region of the graph, summarizing the effect per origin.
package differential

import (
	"math"

	"github.com/lintang-b-s/rout3go/internal/geoutil"
	"github.com/lintang-b-s/rout3go/internal/h3cell"
	"github.com/lintang-b-s/rout3go/internal/roadgraph"
	"github.com/lintang-b-s/rout3go/internal/routing"
)

// Input bundles everything needed for one differential run: a
// reference dataset (the population of candidate origins), a
// disturbance region and its surrounding buffer, a destination set,
// and the routing mode to apply on both the baseline and disturbed
// graphs.
type Input struct {
	Graph        *roadgraph.RoadGraph
	Disturbance  h3cell.Set
	WithinBuffer []h3cell.Cell
	RefDataset   h3cell.Set
	Destinations []h3cell.Cell
	Mode         roadgraph.Mode
	// KDest bounds the number of destinations each origin's search
	// settles before stopping early (see routing.Options.KDest). Zero
	// means unbounded.
	KDest int

	// DownsampledGraph, when non-nil, is a coarser-resolution graph
	// used to pre-filter which origins are worth routing at full
	// resolution. Built by roadgraph.Coarsen.
	DownsampledGraph *roadgraph.RoadGraph
}

// OriginResult is the per-origin summary: average duration/preference
// and reached-count in both scenarios, plus the preferred (lowest-cost)
// destination in each.
type OriginResult struct {
	Origin h3cell.Cell

	NumReachedWithout    int
	AvgDurationWithout   float64
	AvgPreferenceWithout float64
	PreferredDestWithout h3cell.Cell
	HasPreferredWithout  bool

	NumReachedWith    int
	AvgDurationWith   float64
	AvgPreferenceWith float64
	PreferredDestWith h3cell.Cell
	HasPreferredWith  bool

	RoutesWithout []routing.Path
	RoutesWith    []routing.Path
}

// Run executes the full differential analysis: select origins,
// optionally pre-filter them via a downsampled graph, then route every
// surviving origin against both the baseline and the disturbed
// (masked) graph. Origins with zero baseline-reached destinations are
// dropped from the result.
func Run(in Input) []OriginResult {
	origins := selectOrigins(in)
	if in.DownsampledGraph != nil {
		origins = filterByDownsampledPrerouting(in, origins)
	}

	disturbed := in.Graph.Mask(in.Disturbance)

	opt := routing.Options{Mode: in.Mode, KDest: in.KDest}
	before := routing.ManyToMany(in.Graph, origins, in.Destinations, opt)
	after := routing.ManyToMany(disturbed, origins, in.Destinations, opt)

	out := make([]OriginResult, 0, len(origins))
	for i, origin := range origins {
		withoutReached := reachedOnly(before[i])
		if len(withoutReached) == 0 {
			continue // no baseline destination reached; skip this origin
		}
		withReached := reachedOnly(after[i])

		r := OriginResult{
			Origin:               origin,
			NumReachedWithout:    len(withoutReached),
			AvgDurationWithout:   avgDuration(withoutReached),
			AvgPreferenceWithout: avgPreference(withoutReached),
			NumReachedWith:       len(withReached),
			AvgDurationWith:      avgDuration(withReached),
			AvgPreferenceWith:    avgPreference(withReached),
			RoutesWithout:        withoutReached,
			RoutesWith:           withReached,
		}
		if best, ok := minCostPath(withoutReached); ok {
			r.PreferredDestWithout = best.Destination
			r.HasPreferredWithout = true
		}
		if best, ok := minCostPath(withReached); ok {
			r.PreferredDestWith = best.Destination
			r.HasPreferredWith = true
		}
		out = append(out, r)
	}
	return out
}

// selectOrigins picks origin cells from the disturbance buffer that
// both appear in the reference dataset and lie outside the disturbance
// itself: cells of the disturbance and cells absent from the reference
// population are excluded from routing.
func selectOrigins(in Input) []h3cell.Cell {
	out := make([]h3cell.Cell, 0, len(in.WithinBuffer))
	for _, c := range in.WithinBuffer {
		if in.RefDataset.Contains(c) && !in.Disturbance.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// filterByDownsampledPrerouting narrows origins using a coarse-graph
// pre-routing pass. It runs the differential comparison on the
// downsampled graph, finds coarse cells whose
// before/after reachability differs within a k-ring buffer
// (k_affected, derived from the coarse graph's average edge length),
// and keeps only fine origins whose coarse parent is affected or
// itself disturbed at the coarse resolution.
//
// If the coarse graph has no edges at all, downsampled pre-routing is
// a no-op and every origin passes through unfiltered - there is
// nothing to pre-filter against.
func filterByDownsampledPrerouting(in Input, origins []h3cell.Cell) []h3cell.Cell {
	hasEdge := false
	for id := 0; id < in.DownsampledGraph.NumNodes(); id++ {
		if len(in.DownsampledGraph.OutEdges(int32(id))) > 0 {
			hasEdge = true
			break
		}
	}
	if !hasEdge {
		return origins
	}
	coarseRes := in.DownsampledGraph.Resolution

	coarseDestinations := coarsenDedup(in.Destinations, coarseRes)
	coarseDisturbance := coarsenSet(in.Disturbance, coarseRes)
	coarseOrigins := coarsenDedup(origins, coarseRes)

	coarseDisturbed := in.DownsampledGraph.Mask(coarseDisturbance)
	before := routing.ManyToMany(in.DownsampledGraph, coarseOrigins, coarseDestinations, routing.Options{Mode: in.Mode})
	after := routing.ManyToMany(coarseDisturbed, coarseOrigins, coarseDestinations, routing.Options{Mode: in.Mode})

	diffByCell := make(map[h3cell.Cell]bool, len(coarseOrigins))
	for i, origin := range coarseOrigins {
		diffByCell[origin] = !sameReachability(before[i], after[i])
	}

	kAffected := kAffectedRingSize(in.DownsampledGraph)
	affected := h3cell.NewSet(nil)
	for cell, differs := range diffByCell {
		if !differs {
			continue
		}
		for _, ring := range cell.GridDisk(kAffected) {
			affected[ring] = struct{}{}
		}
	}

	out := make([]h3cell.Cell, 0, len(origins))
	for _, fine := range origins {
		parent, err := fine.Parent(coarseRes)
		if err != nil {
			continue
		}
		if affected.Contains(parent) || coarseDisturbance.Contains(parent) {
			out = append(out, fine)
		}
	}
	return out
}

// kAffectedRingSize derives the re-admission buffer radius from the
// coarse graph's typical edge length: ceil(1500m /
// avg_edge_length_at_resolution), floored at 1.
func kAffectedRingSize(coarse *roadgraph.RoadGraph) int {
	avg := averageEdgeLengthMeters(coarse)
	if avg <= 0 {
		return 1
	}
	k := int(math.Ceil(1500.0 / avg))
	if k < 1 {
		return 1
	}
	return k
}

func averageEdgeLengthMeters(g *roadgraph.RoadGraph) float64 {
	// The coarse graph doesn't carry physical edge lengths directly;
	// approximate using the cell's characteristic size at its
	// resolution via the haversine distance between a node and one of
	// its own grid-ring-1 neighbors, averaged over a small sample.
	const sample = 16
	n := g.NumNodes()
	if n == 0 {
		return 0
	}
	total, count := 0.0, 0
	step := 1
	if n > sample {
		step = n / sample
	}
	for id := 0; id < n && count < sample; id += step {
		cell := g.Cell(int32(id))
		ring := cell.GridRing(1)
		if len(ring) == 0 {
			continue
		}
		lat1, lon1 := cell.LatLon()
		lat2, lon2 := ring[0].LatLon()
		total += geoutil.HaversineMeters(lat1, lon1, lat2, lon2)
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func coarsenDedup(cells []h3cell.Cell, resolution int) []h3cell.Cell {
	set := h3cell.NewSet(nil)
	out := make([]h3cell.Cell, 0, len(cells))
	for _, c := range cells {
		parent, err := c.Parent(resolution)
		if err != nil {
			continue
		}
		if _, ok := set[parent]; ok {
			continue
		}
		set[parent] = struct{}{}
		out = append(out, parent)
	}
	return out
}

func coarsenSet(cells h3cell.Set, resolution int) h3cell.Set {
	out := h3cell.NewSet(nil)
	for c := range cells {
		parent, err := c.Parent(resolution)
		if err != nil {
			continue
		}
		out[parent] = struct{}{}
	}
	return out
}

// sameReachability reports whether two one-origin path sets reach
// exactly the same destination set - the coarse-resolution signal used
// to decide whether a cell is "affected" by the disturbance.
func sameReachability(before, after []routing.Path) bool {
	if len(before) != len(after) {
		return false
	}
	reached := func(paths []routing.Path) map[h3cell.Cell]bool {
		m := make(map[h3cell.Cell]bool, len(paths))
		for _, p := range paths {
			m[p.Destination] = p.Reached
		}
		return m
	}
	b, a := reached(before), reached(after)
	for dest, r := range b {
		if a[dest] != r {
			return false
		}
	}
	return true
}

// minCostPath returns the lowest-cost path in paths, the "preferred"
// destination for an origin. ok is false for an empty slice.
func minCostPath(paths []routing.Path) (routing.Path, bool) {
	if len(paths) == 0 {
		return routing.Path{}, false
	}
	best := paths[0]
	for _, p := range paths[1:] {
		if p.CostSecs < best.CostSecs {
			best = p
		}
	}
	return best, true
}

func reachedOnly(paths []routing.Path) []routing.Path {
	out := make([]routing.Path, 0, len(paths))
	for _, p := range paths {
		if p.Reached {
			out = append(out, p)
		}
	}
	return out
}

// avgDuration and avgPreference are computed as the average over a
// single origin's reached paths - a per-path average per origin, not a
// per-edge average.
func avgDuration(paths []routing.Path) float64 {
	if len(paths) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range paths {
		total += p.CostSecs
	}
	return total / float64(len(paths))
}

func avgPreference(paths []routing.Path) float64 {
	if len(paths) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range paths {
		total += p.AvgPreference
	}
	return total / float64(len(paths))
}
