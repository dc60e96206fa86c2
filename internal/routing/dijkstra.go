// Package routing implements the many-to-many shortest-path engine
// over a roadgraph.RoadGraph: one Dijkstra run per origin,
// early-terminated once every requested destination has been settled,
// the frontier empties, or a cost ceiling is exceeded, with origins
// processed in parallel.
package routing

import (
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/lintang-b-s/rout3go/internal/geoutil"
	"github.com/lintang-b-s/rout3go/internal/h3cell"
	"github.com/lintang-b-s/rout3go/internal/roadgraph"
)

// Path is one resolved origin->destination route.
type Path struct {
	Origin      h3cell.Cell
	Destination h3cell.Cell
	Reached     bool
	CostSecs    float64
	LengthM     float64
	// AvgPreference is the mean road-class preference across the
	// path's edges.
	AvgPreference float64
	// Cells is the node sequence from origin to destination, inclusive.
	// Empty when Reached is false.
	Cells []h3cell.Cell
}

// Options configures a single- or many-to-many routing call.
type Options struct {
	Mode roadgraph.Mode
	// CostCeiling bounds search effort: once the frontier's minimum
	// tentative cost exceeds it, the run stops early. Zero/negative
	// means unbounded.
	CostCeiling float64
	// KDest bounds the number of destinations a single-origin search
	// settles before stopping early: once KDest destinations have been
	// popped off the frontier in cost-ascending order, the search ends
	// and the remaining requested destinations are reported unreached.
	// Zero/negative means unbounded (settle every requested destination).
	KDest int
}

// ManyToMany computes, for every origin, the shortest path to every
// destination in dests, running one Dijkstra search per origin in
// parallel: independent per-origin searches execute concurrently,
// bounded by available CPU.
func ManyToMany(g *roadgraph.RoadGraph, origins, dests []h3cell.Cell, opt Options) [][]Path {
	results := make([][]Path, len(origins))
	p := pool.New().WithMaxGoroutines(maxParallelism())
	for i, origin := range origins {
		i, origin := i, origin
		p.Go(func() {
			results[i] = oneToMany(g, origin, dests, opt)
		})
	}
	p.Wait()
	return results
}

func maxParallelism() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}

// oneToMany runs a single Dijkstra search from origin, stopping once
// every requested destination has been settled, opt.KDest destinations
// have been settled (whichever comes first, when KDest is set), the
// frontier empties, or the cost ceiling is exceeded. When KDest cuts
// the search short, the destinations left unsettled are the costlier
// ones: Dijkstra pops nodes in non-decreasing cost order, so the
// settled destinations are exactly the KDest cheapest-to-reach.
func oneToMany(g *roadgraph.RoadGraph, origin h3cell.Cell, dests []h3cell.Cell, opt Options) []Path {
	out := make([]Path, len(dests))
	for i, d := range dests {
		out[i] = Path{Origin: origin, Destination: d}
	}

	originID, ok := g.NodeID(origin)
	if !ok {
		return out // origin isn't a graph node: nothing is reachable
	}

	remaining := make(map[int32]bool, len(dests))
	for _, d := range dests {
		if id, ok := g.NodeID(d); ok {
			remaining[id] = true
		}
	}
	if len(remaining) == 0 {
		return out
	}

	dist := map[int32]float64{originID: 0}
	// pred breaks ties deterministically: when two predecessor
	// candidates offer the same tentative cost, the one reached via the
	// smaller H3 cell index wins, so the result is independent of
	// adjacency iteration order.
	pred := map[int32]int32{}
	predPreference := map[int32]float32{}
	settled := map[int32]bool{}

	h := newMinHeap()
	h.Push(originID, 0)

	settledDests := 0
	for h.Len() > 0 {
		u, cost, _ := h.Pop()
		if settled[u] {
			continue
		}
		if opt.CostCeiling > 0 && cost > opt.CostCeiling {
			break
		}
		settled[u] = true
		if remaining[u] {
			delete(remaining, u)
			settledDests++
			if len(remaining) == 0 {
				break
			}
			if opt.KDest > 0 && settledDests >= opt.KDest {
				break
			}
		}

		for _, e := range g.OutEdges(u) {
			if settled[e.To] {
				continue
			}
			next := cost + roadgraph.EffectiveCost(e, opt.Mode.PreferenceFactor)
			cur, has := dist[e.To]
			switch {
			case !has || next < cur:
				dist[e.To] = next
				pred[e.To] = u
				predPreference[e.To] = e.Preference
				h.Push(e.To, next)
			case next == cur:
				if existing, ok := pred[e.To]; ok && uint64(g.Cell(u)) < uint64(g.Cell(existing)) {
					pred[e.To] = u
					predPreference[e.To] = e.Preference
				}
			}
		}
	}

	for i, d := range dests {
		destID, ok := g.NodeID(d)
		if !ok {
			continue
		}
		if !settled[destID] {
			continue // not reached within the KDest/cost-ceiling budget
		}
		cost, has := dist[destID]
		if !has {
			continue
		}
		cells, avgPref := reconstruct(g, originID, destID, pred, predPreference)
		out[i] = Path{
			Origin:        origin,
			Destination:   d,
			Reached:       true,
			CostSecs:      cost,
			LengthM:       pathLengthMeters(cells),
			AvgPreference: avgPref,
			Cells:         cells,
		}
	}
	return out
}

func reconstruct(g *roadgraph.RoadGraph, originID, destID int32, pred map[int32]int32, predPreference map[int32]float32) ([]h3cell.Cell, float64) {
	if originID == destID {
		return []h3cell.Cell{g.Cell(originID)}, 1.0
	}
	var rev []h3cell.Cell
	var prefSum float64
	var prefCount int
	cur := destID
	for {
		rev = append(rev, g.Cell(cur))
		if cur == originID {
			break
		}
		p, ok := pred[cur]
		if !ok {
			return nil, 0 // unreachable in practice: dist had a value but no predecessor
		}
		prefSum += float64(predPreference[cur])
		prefCount++
		cur = p
	}
	out := make([]h3cell.Cell, len(rev))
	for i, c := range rev {
		out[len(rev)-1-i] = c
	}
	avgPref := 1.0
	if prefCount > 0 {
		avgPref = prefSum / float64(prefCount)
	}
	return out, avgPref
}

func pathLengthMeters(cells []h3cell.Cell) float64 {
	total := 0.0
	for i := 1; i < len(cells); i++ {
		lat1, lon1 := cells[i-1].LatLon()
		lat2, lon2 := cells[i].LatLon()
		total += geoutil.HaversineMeters(lat1, lon1, lat2, lon2)
	}
	return total
}
