package roadgraph

import (
	"fmt"

	"github.com/kelindar/binary"
)

// file is the on-disk/object-store representation of a graph: a flat
// edge list plus the identity pair used as the cache key. Kept
// separate from RoadGraph itself so the in-memory adjacency/rtree
// structures never need to round-trip through the codec.
type file struct {
	Name       string
	Resolution int
	Edges      []EdgeSpec
}

// Encode serializes g as a flat edge list.
func Encode(g *RoadGraph) ([]byte, error) {
	f := file{Name: g.Name, Resolution: g.Resolution}
	for _, n := range g.nodes {
		for _, e := range n.out {
			f.Edges = append(f.Edges, EdgeSpec{
				From:       n.cell,
				To:         g.nodes[e.To].cell,
				CostSecs:   e.CostSecs,
				Preference: e.Preference,
			})
		}
	}
	data, err := binary.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("roadgraph: encode %q: %w", g.Name, err)
	}
	return data, nil
}

// Decode rebuilds a graph from bytes written by Encode.
func Decode(data []byte) (*RoadGraph, error) {
	var f file
	if err := binary.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("roadgraph: decode: %w", err)
	}
	g, _ := FromEdges(f.Name, f.Resolution, f.Edges)
	return g, nil
}
