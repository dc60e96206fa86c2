package geoutil

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
)

// DisturbanceCells decodes a WKB-encoded polygon or multipolygon and
// returns the cells it covers at resolution: the raw, unbuffered
// disturbance cell set (A_inner).
func DisturbanceCells(data []byte, resolution int) ([]h3cell.Cell, error) {
	geom, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("geoutil: decode disturbance wkb: %w", err)
	}

	var polygons []orb.Polygon
	switch g := geom.(type) {
	case orb.Polygon:
		polygons = []orb.Polygon{g}
	case orb.MultiPolygon:
		polygons = g
	default:
		return nil, fmt.Errorf("geoutil: disturbance geometry must be a polygon or multipolygon, got %T", geom)
	}

	seen := h3cell.NewSet(nil)
	for _, poly := range polygons {
		if len(poly) == 0 {
			continue
		}
		outer := ringToLatLon(poly[0])
		holes := make([][]h3cell.LatLon, 0, len(poly)-1)
		for _, hole := range poly[1:] {
			holes = append(holes, ringToLatLon(hole))
		}
		for _, c := range h3cell.PolygonCells(outer, holes, resolution) {
			seen[c] = struct{}{}
		}
	}
	return seen.Slice(), nil
}

func ringToLatLon(ring orb.Ring) []h3cell.LatLon {
	out := make([]h3cell.LatLon, len(ring))
	for i, p := range ring {
		out[i] = h3cell.LatLon{Lat: p[1], Lon: p[0]}
	}
	return out
}

// BufferCells expands inner by radiusMeters, approximated as a
// grid-disk of cells around each inner cell: no planar polygon-buffer
// library appears anywhere in the retrieved pack, so the buffer is
// built in H3's own native units instead - the ring count is the
// smallest k such that k hexagon edges at resolution cover
// radiusMeters. A non-positive radius returns inner unchanged.
func BufferCells(inner []h3cell.Cell, resolution int, radiusMeters float64) ([]h3cell.Cell, error) {
	if radiusMeters <= 0 {
		return inner, nil
	}
	edgeLen, err := h3cell.AverageEdgeLengthMeters(resolution)
	if err != nil {
		return nil, err
	}
	k := 1
	if edgeLen > 0 {
		if ring := int(math.Ceil(radiusMeters / edgeLen)); ring > k {
			k = ring
		}
	}

	seen := h3cell.NewSet(nil)
	for _, c := range inner {
		for _, ring := range c.GridDisk(k) {
			seen[ring] = struct{}{}
		}
	}
	return seen.Slice(), nil
}
