// Package encode turns routing results into the wire shapes the RPC
// dispatcher streams back: WKB line strings, ordered cell sequences,
// and Arrow record batches. Route geometry is built the way
// datastructure.RenderPath2 builds a polyline - a flat coordinate
// slice assembled from the path, then handed to an encoder - using
// paulmach/orb + orb/encoding/wkb as the coordinate/codec layer.
package encode

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
)

// RouteLineString builds the WGS84 line string for a path, using each
// crossed cell's centroid as a vertex. If smoothen is set, one
// iteration of Chaikin corner-cutting is applied first.
func RouteLineString(cells []h3cell.Cell, smoothen bool) orb.LineString {
	ls := make(orb.LineString, len(cells))
	for i, c := range cells {
		lat, lon := c.LatLon()
		ls[i] = orb.Point{lon, lat}
	}
	if smoothen {
		ls = chaikinSmooth(ls, 1)
	}
	return ls
}

// RouteWKB encodes a path's geometry as little-endian WKB.
func RouteWKB(cells []h3cell.Cell, smoothen bool) ([]byte, error) {
	ls := RouteLineString(cells, smoothen)
	data, err := wkb.Marshal(ls)
	if err != nil {
		return nil, fmt.Errorf("encode: marshal route wkb: %w", err)
	}
	return data, nil
}

// RouteH3Indexes returns a path's cell sequence as raw uint64s, the
// wire form of an H3 index column.
func RouteH3Indexes(cells []h3cell.Cell) []uint64 {
	out := make([]uint64, len(cells))
	for i, c := range cells {
		out[i] = uint64(c)
	}
	return out
}

// RouteEdges returns a path's cells as directed (u, v) pairs flattened
// to [u0, v0, u1, v1, ...], used by the Edges RPC variant where the
// caller wants edges rather than the node sequence.
func RouteEdges(cells []h3cell.Cell) []uint64 {
	if len(cells) < 2 {
		return nil
	}
	out := make([]uint64, 0, 2*(len(cells)-1))
	for i := 0; i+1 < len(cells); i++ {
		out = append(out, uint64(cells[i]), uint64(cells[i+1]))
	}
	return out
}

// chaikinSmooth applies iterations rounds of Chaikin corner-cutting:
// each interior segment [p, q] is replaced by the two points at 1/4
// and 3/4 along it, pulling the line toward a smoothed curve while
// keeping the endpoints fixed.
func chaikinSmooth(ls orb.LineString, iterations int) orb.LineString {
	if len(ls) < 3 {
		return ls
	}
	cur := ls
	for iter := 0; iter < iterations; iter++ {
		next := make(orb.LineString, 0, 2*(len(cur)-1))
		next = append(next, cur[0])
		for i := 0; i+1 < len(cur); i++ {
			p, q := cur[i], cur[i+1]
			next = append(next,
				orb.Point{0.75*p[0] + 0.25*q[0], 0.75*p[1] + 0.25*q[1]},
				orb.Point{0.25*p[0] + 0.75*q[0], 0.25*p[1] + 0.75*q[1]},
			)
		}
		next = append(next, cur[len(cur)-1])
		cur = next
	}
	return cur
}
