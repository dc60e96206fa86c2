package encode

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
)

func cellN(nth int) h3cell.Cell {
	lat := -7.56 + float64(nth)*0.01
	lon := 110.78 + float64(nth)*0.01
	return h3cell.FromLatLon(lat, lon, 10)
}

func TestRouteWKB_DecodesBackToSameVertexCount(t *testing.T) {
	cells := []h3cell.Cell{cellN(0), cellN(1), cellN(2)}
	data, err := RouteWKB(cells, false)
	require.NoError(t, err)

	geom, err := wkb.Unmarshal(data)
	require.NoError(t, err)
	ls, ok := geom.(orb.LineString)
	require.True(t, ok)
	assert.Len(t, ls, len(cells))
}

func TestRouteH3Indexes_PreservesOrder(t *testing.T) {
	cells := []h3cell.Cell{cellN(0), cellN(1), cellN(2)}
	got := RouteH3Indexes(cells)
	require.Len(t, got, 3)
	for i, c := range cells {
		assert.Equal(t, uint64(c), got[i])
	}
}

func TestRouteEdges_FlattensConsecutivePairs(t *testing.T) {
	a, b, c := cellN(0), cellN(1), cellN(2)
	got := RouteEdges([]h3cell.Cell{a, b, c})
	require.Len(t, got, 4)
	assert.Equal(t, []uint64{uint64(a), uint64(b), uint64(b), uint64(c)}, got)
}

func TestRouteEdges_SingleCellHasNoEdges(t *testing.T) {
	assert.Empty(t, RouteEdges([]h3cell.Cell{cellN(0)}))
}

func TestChaikinSmooth_KeepsEndpointsFixed(t *testing.T) {
	cells := []h3cell.Cell{cellN(0), cellN(1), cellN(2), cellN(3)}
	raw := RouteLineString(cells, false)
	smoothed := RouteLineString(cells, true)

	require.True(t, len(smoothed) >= len(raw))
	assert.InDelta(t, raw[0][0], smoothed[0][0], 1e-9)
	assert.InDelta(t, raw[0][1], smoothed[0][1], 1e-9)
	assert.InDelta(t, raw[len(raw)-1][0], smoothed[len(smoothed)-1][0], 1e-9)
	assert.InDelta(t, raw[len(raw)-1][1], smoothed[len(smoothed)-1][1], 1e-9)
}
