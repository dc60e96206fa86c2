// Package h3cell wraps github.com/uber/h3-go/v4 with the small surface
// the rest of rout3go needs: lat/lon <-> cell, parent/child across
// resolutions, neighbor rings, and WGS84 boundary polygons.
//
// Everything that touches the h3-go API directly lives in this package
// so a version bump of the upstream library only ever requires changes
// here.
package h3cell

import (
	"fmt"

	"github.com/uber/h3-go/v4"
)

// Cell is a hexagonal (rarely pentagonal) cell identifier from the H3
// hierarchical index.
type Cell uint64

// Resolution levels run 0 (coarsest) to MaxResolution (finest).
const MaxResolution = 15

// FromLatLon converts a WGS84 coordinate to the cell containing it at
// the given resolution.
func FromLatLon(lat, lon float64, resolution int) Cell {
	c := h3.LatLngToCell(h3.LatLng{Lat: lat, Lng: lon}, resolution)
	return Cell(c)
}

// LatLon returns the coordinate of the cell's centroid.
func (c Cell) LatLon() (lat, lon float64) {
	ll := h3.Cell(c).LatLng()
	return ll.Lat, ll.Lng
}

// Resolution returns the cell's resolution, 0-15.
func (c Cell) Resolution() int {
	return h3.Cell(c).Resolution()
}

// IsValid reports whether c is a well-formed H3 cell index.
func (c Cell) IsValid() bool {
	return h3.Cell(c).IsValid()
}

// Parent returns the ancestor cell at a coarser (or equal) resolution.
func (c Cell) Parent(resolution int) (Cell, error) {
	if resolution > c.Resolution() {
		return 0, fmt.Errorf("h3cell: parent resolution %d is finer than cell resolution %d", resolution, c.Resolution())
	}
	return Cell(h3.Cell(c).Parent(resolution)), nil
}

// Children returns the descendant cells at a finer (or equal)
// resolution.
func (c Cell) Children(resolution int) ([]Cell, error) {
	if resolution < c.Resolution() {
		return nil, fmt.Errorf("h3cell: child resolution %d is coarser than cell resolution %d", resolution, c.Resolution())
	}
	raw := h3.Cell(c).Children(resolution)
	out := make([]Cell, len(raw))
	for i, rc := range raw {
		out[i] = Cell(rc)
	}
	return out, nil
}

// GridDisk returns every cell within k grid steps of c, including c
// itself. Ordering is unspecified.
func (c Cell) GridDisk(k int) []Cell {
	raw := h3.Cell(c).GridDisk(k)
	out := make([]Cell, len(raw))
	for i, rc := range raw {
		out[i] = Cell(rc)
	}
	return out
}

// GridRing returns the cells at exactly grid-distance k from c,
// computed as GridDisk(k) minus GridDisk(k-1). k == 0 returns c itself.
// Ordering is unspecified.
func (c Cell) GridRing(k int) []Cell {
	if k == 0 {
		return []Cell{c}
	}
	inner := c.GridDisk(k - 1)
	outer := c.GridDisk(k)
	seen := make(map[Cell]struct{}, len(inner))
	for _, ic := range inner {
		seen[ic] = struct{}{}
	}
	ring := make([]Cell, 0, len(outer)-len(inner))
	for _, oc := range outer {
		if _, ok := seen[oc]; !ok {
			ring = append(ring, oc)
		}
	}
	return ring
}

// Boundary returns the cell's polygon boundary in WGS84, as a closed
// ring of (lat, lon) vertices in degrees.
func (c Cell) Boundary() []LatLon {
	boundary := h3.Cell(c).Boundary()
	out := make([]LatLon, 0, len(boundary))
	for _, v := range boundary {
		out = append(out, LatLon{Lat: v.Lat, Lon: v.Lng})
	}
	return out
}

// String renders the cell in the canonical lowercase hex form used in
// wire messages and object-store keys.
func (c Cell) String() string {
	return h3.Cell(c).String()
}

// ParseString parses a canonical hex cell identifier.
func ParseString(s string) (Cell, error) {
	c := Cell(h3.IndexFromString(s))
	if !c.IsValid() {
		return 0, fmt.Errorf("h3cell: parse %q: invalid cell", s)
	}
	return c, nil
}

// LatLon is a WGS84 coordinate in degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// Set is a deduplicated collection of cells with O(1) membership
// tests, used throughout the cell-selection and dataset-intersection
// paths.
type Set map[Cell]struct{}

// NewSet builds a Set from a slice, deduplicating as it goes.
func NewSet(cells []Cell) Set {
	s := make(Set, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s Set) Contains(c Cell) bool {
	_, ok := s[c]
	return ok
}

// Intersect returns the cells present in both s and other.
func (s Set) Intersect(other Set) []Cell {
	small, big := s, other
	if len(other) < len(s) {
		small, big = other, s
	}
	out := make([]Cell, 0, len(small))
	for c := range small {
		if big.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// Slice materializes the set as a slice, in unspecified order.
func (s Set) Slice() []Cell {
	out := make([]Cell, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	return out
}
