package h3cell

import (
	"fmt"

	"github.com/uber/h3-go/v4"
)

// PolygonCells returns every cell at resolution whose centroid falls
// inside the polygon bounded by outer (a closed WGS84 ring) and outside
// every ring in holes, via h3's native polygon-fill.
func PolygonCells(outer []LatLon, holes [][]LatLon, resolution int) []Cell {
	poly := h3.GeoPolygon{
		GeoLoop: toGeoLoop(outer),
		Holes:   make([]h3.GeoLoop, len(holes)),
	}
	for i, hole := range holes {
		poly.Holes[i] = toGeoLoop(hole)
	}
	raw := h3.PolygonToCells(poly, resolution)
	out := make([]Cell, len(raw))
	for i, c := range raw {
		out[i] = Cell(c)
	}
	return out
}

func toGeoLoop(vertices []LatLon) h3.GeoLoop {
	loop := make(h3.GeoLoop, len(vertices))
	for i, v := range vertices {
		loop[i] = h3.LatLng{Lat: v.Lat, Lng: v.Lon}
	}
	return loop
}

// AverageEdgeLengthMeters returns the average hexagon edge length at a
// resolution, used to size grid-disk buffering around a disturbance
// region in place of a planar geometry buffer.
func AverageEdgeLengthMeters(resolution int) (float64, error) {
	if resolution < 0 || resolution > MaxResolution {
		return 0, fmt.Errorf("h3cell: average edge length at resolution %d: invalid resolution", resolution)
	}
	return h3.HexagonEdgeLengthAvgM(resolution), nil
}
