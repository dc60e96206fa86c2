package routing

import (
	"github.com/sourcegraph/conc/pool"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
	"github.com/lintang-b-s/rout3go/internal/roadgraph"
)

// ThresholdHit is one cell reached from some origin within the cost
// ceiling. OriginH3Index is the origin that produced the minimal cost
// to H3Index (ties broken by smallest H3 index).
type ThresholdHit struct {
	H3Index         h3cell.Cell
	OriginH3Index   h3cell.Cell
	TravelDurationS float64
	EdgePreference  float64
}

// settledNode is one node settled by a single-origin scan, before
// aggregation across origins.
type settledNode struct {
	cell       h3cell.Cell
	costSecs   float64
	preference float64
}

// WithinThreshold finds every cell reachable from any origin within
// costCeiling, keeping for each reached cell the minimal cost across
// all origins. Origins are searched in parallel; merging into the
// shared result map happens after each origin's local scan completes,
// so no lock is held during the search itself.
func WithinThreshold(g *roadgraph.RoadGraph, origins []h3cell.Cell, mode roadgraph.Mode, costCeiling float64) []ThresholdHit {
	perOrigin := make([][]settledNode, len(origins))
	p := pool.New().WithMaxGoroutines(maxParallelism())
	for i, origin := range origins {
		i, origin := i, origin
		p.Go(func() {
			perOrigin[i] = scanFromOrigin(g, origin, mode, costCeiling)
		})
	}
	p.Wait()

	best := make(map[h3cell.Cell]ThresholdHit)
	for i, hits := range perOrigin {
		origin := origins[i]
		for _, h := range hits {
			cur, ok := best[h.cell]
			if !ok || h.costSecs < cur.TravelDurationS ||
				(h.costSecs == cur.TravelDurationS && uint64(origin) < uint64(cur.OriginH3Index)) {
				best[h.cell] = ThresholdHit{
					H3Index:         h.cell,
					OriginH3Index:   origin,
					TravelDurationS: h.costSecs,
					EdgePreference:  h.preference,
				}
			}
		}
	}

	out := make([]ThresholdHit, 0, len(best))
	for _, v := range best {
		out = append(out, v)
	}
	return out
}

// scanFromOrigin runs Dijkstra from origin with no destination set,
// settling every node within costCeiling and recording, for each, the
// cost and the preference of the edge that settled it.
func scanFromOrigin(g *roadgraph.RoadGraph, origin h3cell.Cell, mode roadgraph.Mode, costCeiling float64) []settledNode {
	originID, ok := g.NodeID(origin)
	if !ok {
		return nil
	}

	dist := map[int32]float64{originID: 0}
	pref := map[int32]float64{originID: 1.0}
	settled := map[int32]bool{}

	h := newMinHeap()
	h.Push(originID, 0)

	var out []settledNode
	for h.Len() > 0 {
		u, cost, _ := h.Pop()
		if settled[u] {
			continue
		}
		if costCeiling > 0 && cost > costCeiling {
			break
		}
		settled[u] = true
		out = append(out, settledNode{cell: g.Cell(u), costSecs: cost, preference: pref[u]})

		for _, e := range g.OutEdges(u) {
			if settled[e.To] {
				continue
			}
			next := cost + roadgraph.EffectiveCost(e, mode.PreferenceFactor)
			if cur, has := dist[e.To]; !has || next < cur {
				dist[e.To] = next
				pref[e.To] = float64(e.Preference)
				h.Push(e.To, next)
			}
		}
	}
	return out
}
