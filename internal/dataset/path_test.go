package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
)

func TestBuildPath_SubstitutesAllPlaceholders(t *testing.T) {
	cell := h3cell.FromLatLon(-7.56, 110.78, 9)
	path := BuildPath("population/{data_h3_resolution}/{file_h3_resolution}/{h3cell}.arrow", 9, 5, cell)
	assert.Equal(t, "population/9/5/"+cell.String()+".arrow", path)
}

func TestBuildPath_ToleratesWhitespaceInsidePlaceholders(t *testing.T) {
	cell := h3cell.FromLatLon(-7.56, 110.78, 9)
	path := BuildPath("x/{ h3cell }.arrow", 9, 5, cell)
	assert.Equal(t, "x/"+cell.String()+".arrow", path)
}

func TestFileCells_DeduplicatesAtFileResolution(t *testing.T) {
	a := h3cell.FromLatLon(-7.560, 110.780, 9)
	b := h3cell.FromLatLon(-7.5601, 110.7801, 9) // likely same parent at res 5
	cells := FileCells([]h3cell.Cell{a, b}, 5)
	assert.NotEmpty(t, cells)
	// every returned cell must actually be at the requested resolution
	for _, c := range cells {
		assert.Equal(t, 5, c.Resolution())
	}
}
