// Package roadgraph implements the in-memory road-network graph model:
// a weighted directed graph whose nodes are H3 cells at a fixed
// resolution, with per-edge raw cost and road-class preference.
package roadgraph

import (
	"fmt"

	"github.com/dhconnelly/rtreego"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
)

// Edge is one directed arc (u, v, w, p): raw traversal cost in
// seconds and a road-class preference in (0, 1], 1.0 meaning most
// preferred.
type Edge struct {
	To         int32 // dense node index, not a cell
	CostSecs   float64
	Preference float32
}

// node holds the adjacency list and identity of one graph node.
type node struct {
	cell h3cell.Cell
	out  []Edge
}

// RoadGraph is the compact adjacency representation used throughout
// routing: nodes indexed densely by int32, cells looked up via a map,
// with an rtree over node boundary boxes used for cheap "could this
// geometry possibly touch the graph" rejection before any per-cell set
// membership test is attempted.
type RoadGraph struct {
	Name       string
	Resolution int

	nodes    []node
	cellToID map[h3cell.Cell]int32
	index    *rtreego.Rtree
}

// New builds an empty graph at the given name/resolution identity.
func New(name string, resolution int) *RoadGraph {
	return &RoadGraph{
		Name:       name,
		Resolution: resolution,
		cellToID:   make(map[h3cell.Cell]int32),
		index:      rtreego.NewTree(2, 25, 50),
	}
}

// rtreeNode wraps a node index so rtreego can index it by bounding box.
type rtreeNode struct {
	nodeID int32
	bounds rtreego.Rect
}

func (n *rtreeNode) Bounds() rtreego.Rect { return n.bounds }

// EnsureNode returns the dense index for cell, creating the node (with
// no outgoing edges yet) if this is the first time it is seen.
func (g *RoadGraph) EnsureNode(cell h3cell.Cell) int32 {
	if id, ok := g.cellToID[cell]; ok {
		return id
	}
	id := int32(len(g.nodes))
	g.nodes = append(g.nodes, node{cell: cell})
	g.cellToID[cell] = id

	lat, lon := cell.LatLon()
	const eps = 1e-6 // degenerate (zero-area) boxes are rejected by rtreego
	rect, err := rtreego.NewRect(
		rtreego.Point{lat - eps, lon - eps},
		[]float64{2 * eps, 2 * eps},
	)
	if err == nil {
		g.index.Insert(&rtreeNode{nodeID: id, bounds: rect})
	}
	return id
}

// AddEdge inserts a directed edge u->v with the given raw cost and
// preference. Self-loops are rejected. A parallel edge with a lower
// cost replaces any existing edge to the same target: parallel edges
// are only kept distinguished by cost, and the lowest wins.
func (g *RoadGraph) AddEdge(u, v h3cell.Cell, costSecs float64, preference float32) error {
	if u == v {
		return fmt.Errorf("roadgraph: self-loop at cell %s rejected", u)
	}
	if costSecs < 0 {
		return fmt.Errorf("roadgraph: negative cost %f for edge %s->%s", costSecs, u, v)
	}
	if preference <= 0 || preference > 1 {
		return fmt.Errorf("roadgraph: preference %f for edge %s->%s out of (0,1]", preference, u, v)
	}
	uID := g.EnsureNode(u)
	vID := g.EnsureNode(v)

	for i, e := range g.nodes[uID].out {
		if e.To == vID {
			if costSecs < e.CostSecs {
				g.nodes[uID].out[i] = Edge{To: vID, CostSecs: costSecs, Preference: preference}
			}
			return nil
		}
	}
	g.nodes[uID].out = append(g.nodes[uID].out, Edge{To: vID, CostSecs: costSecs, Preference: preference})
	return nil
}

// NodeID returns the dense index of cell and whether it is a node of
// the graph at all.
func (g *RoadGraph) NodeID(cell h3cell.Cell) (int32, bool) {
	id, ok := g.cellToID[cell]
	return id, ok
}

// Cell returns the H3 cell for a dense node index.
func (g *RoadGraph) Cell(id int32) h3cell.Cell {
	return g.nodes[id].cell
}

// NumNodes returns the number of graph nodes.
func (g *RoadGraph) NumNodes() int {
	return len(g.nodes)
}

// OutEdges returns the outgoing edges of a dense node index.
func (g *RoadGraph) OutEdges(id int32) []Edge {
	return g.nodes[id].out
}

// Contains reports whether cell is a node of the graph.
func (g *RoadGraph) Contains(cell h3cell.Cell) bool {
	_, ok := g.cellToID[cell]
	return ok
}

// MayIntersect is the quick-rejection test backed by the rtree of node
// bounding boxes: if it returns false, no cell within the given WGS84
// bounding box can possibly be a graph node, so callers can skip any
// further per-cell work.
func (g *RoadGraph) MayIntersect(minLat, minLon, maxLat, maxLon float64) bool {
	if len(g.nodes) == 0 {
		return false
	}
	w, h := maxLat-minLat, maxLon-minLon
	if w < 0 || h < 0 {
		return false
	}
	rect, err := rtreego.NewRect(rtreego.Point{minLat, minLon}, []float64{w, h})
	if err != nil {
		return true // degenerate box: fail open, let the caller do the real check
	}
	return len(g.index.SearchIntersect(rect)) > 0
}

// EffectiveCost applies a routing mode's preference factor to an
// edge's raw cost:
//
//	effective = w * (1 + f * (1 - p))
func EffectiveCost(e Edge, preferenceFactor float64) float64 {
	return e.CostSecs * (1 + preferenceFactor*(1-float64(e.Preference)))
}

// Mask returns a read-only view of g with every edge incident
// (as source or target) to a cell in excluded removed. The view shares
// the underlying node/edge slices of g and allocates new adjacency
// slices only for nodes that actually lose an edge, so building a
// disturbed graph is cheap relative to the size of the exclusion set.
func (g *RoadGraph) Mask(excluded h3cell.Set) *RoadGraph {
	if len(excluded) == 0 {
		return g
	}
	masked := &RoadGraph{
		Name:       g.Name,
		Resolution: g.Resolution,
		nodes:      make([]node, len(g.nodes)),
		cellToID:   g.cellToID,
		index:      g.index,
	}
	for id, n := range g.nodes {
		if excluded.Contains(n.cell) {
			masked.nodes[id] = node{cell: n.cell} // drop all outgoing edges
			continue
		}
		filtered := n.out
		for _, e := range n.out {
			if excluded.Contains(g.nodes[e.To].cell) {
				filtered = make([]Edge, 0, len(n.out))
				for _, e2 := range n.out {
					if !excluded.Contains(g.nodes[e2.To].cell) {
						filtered = append(filtered, e2)
					}
				}
				break
			}
		}
		masked.nodes[id] = node{cell: n.cell, out: filtered}
	}
	return masked
}

// Coarsen builds a graph at a coarser resolution by mapping every
// node's parent-at-resolution cell to a coarse node, and every edge to
// an edge between the corresponding coarse nodes (dropping edges that
// become self-loops once coarsened). Parallel coarse edges keep the
// minimum of their underlying edge costs.
func (g *RoadGraph) Coarsen(resolution int) (*RoadGraph, error) {
	if resolution >= g.Resolution {
		return nil, fmt.Errorf("roadgraph: coarsen resolution %d must be < graph resolution %d", resolution, g.Resolution)
	}
	coarse := New(g.Name, resolution)
	for id := range g.nodes {
		parent, err := g.nodes[id].cell.Parent(resolution)
		if err != nil {
			return nil, err
		}
		coarse.EnsureNode(parent)
	}
	for _, n := range g.nodes {
		uParent, _ := n.cell.Parent(resolution)
		for _, e := range n.out {
			vParent, _ := g.nodes[e.To].cell.Parent(resolution)
			if uParent == vParent {
				continue
			}
			// AddEdge already keeps the minimum cost on duplicate targets.
			if err := coarse.AddEdge(uParent, vParent, e.CostSecs, e.Preference); err != nil {
				continue // a degenerate preference/cost on this edge is skipped, not fatal
			}
		}
	}
	return coarse, nil
}

// SizeBytes is a rough memory-footprint estimate used by the cache to
// charge capacity against loaded graphs.
func (g *RoadGraph) SizeBytes() int64 {
	const perNode = 8 + 24 // cell + slice header
	const perEdge = 16
	total := int64(len(g.nodes)) * perNode
	for _, n := range g.nodes {
		total += int64(len(n.out)) * perEdge
	}
	return total
}

// NearestNodeByID breaks ties deterministically among cells at equal
// ring distance during snapping: the lexicographically smallest H3
// index (as an unsigned integer) wins.
func NearestNodeByID(candidates []h3cell.Cell) h3cell.Cell {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if uint64(c) < uint64(best) {
			best = c
		}
	}
	return best
}
