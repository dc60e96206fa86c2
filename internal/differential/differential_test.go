package differential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
	"github.com/lintang-b-s/rout3go/internal/roadgraph"
)

func cellN(nth int) h3cell.Cell {
	lat := -7.56 + float64(nth)*0.01
	lon := 110.78 + float64(nth)*0.01
	return h3cell.FromLatLon(lat, lon, 10)
}

// TestRun_TwoOriginDisturbance builds a two-origin graph where the
// disturbance removes B->C, so the baseline route A->C costs 15s but
// the disturbed route must detour A->D->C at 25s.
func TestRun_TwoOriginDisturbance(t *testing.T) {
	a, b, c, d := cellN(0), cellN(1), cellN(2), cellN(3)
	g := roadgraph.New("s4", 10)
	require.NoError(t, g.AddEdge(a, b, 10, 1.0))
	require.NoError(t, g.AddEdge(b, c, 5, 1.0))
	require.NoError(t, g.AddEdge(a, d, 15, 1.0))
	require.NoError(t, g.AddEdge(d, c, 10, 1.0))

	in := Input{
		Graph:        g,
		Disturbance:  h3cell.NewSet([]h3cell.Cell{b}),
		WithinBuffer: []h3cell.Cell{a, b},
		RefDataset:   h3cell.NewSet([]h3cell.Cell{a, b}),
		Destinations: []h3cell.Cell{c},
		Mode:         roadgraph.Exact,
	}

	results := Run(in)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, a, r.Origin)
	assert.Equal(t, 1, r.NumReachedWithout)
	assert.InDelta(t, 15.0, r.AvgDurationWithout, 1e-9)
	assert.Equal(t, c, r.PreferredDestWithout)

	assert.Equal(t, 1, r.NumReachedWith)
	assert.InDelta(t, 25.0, r.AvgDurationWith, 1e-9)
	assert.Equal(t, c, r.PreferredDestWith)
}

// TestRun_PreferredDestIsMinimumCostNotFirstRequested builds two
// destinations where the costlier one is listed first in the request,
// so a naive "first reached" pick would choose it - PreferredDest must
// instead be the cheaper destination regardless of request order.
func TestRun_PreferredDestIsMinimumCostNotFirstRequested(t *testing.T) {
	a, costly, cheap := cellN(0), cellN(1), cellN(2)
	g := roadgraph.New("g", 10)
	require.NoError(t, g.AddEdge(a, costly, 20, 1.0))
	require.NoError(t, g.AddEdge(a, cheap, 5, 1.0))

	in := Input{
		Graph:        g,
		Disturbance:  h3cell.NewSet(nil),
		WithinBuffer: []h3cell.Cell{a},
		RefDataset:   h3cell.NewSet([]h3cell.Cell{a}),
		Destinations: []h3cell.Cell{costly, cheap},
		Mode:         roadgraph.Exact,
	}

	results := Run(in)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, 2, r.NumReachedWithout)
	assert.Equal(t, cheap, r.PreferredDestWithout)
	assert.Equal(t, cheap, r.PreferredDestWith)
}

func TestRun_DropsOriginsUnreachedAtBaseline(t *testing.T) {
	a, c := cellN(0), cellN(1)
	isolated := cellN(5)
	g := roadgraph.New("g", 10)
	require.NoError(t, g.AddEdge(a, c, 10, 1.0))

	in := Input{
		Graph:        g,
		Disturbance:  h3cell.NewSet(nil),
		WithinBuffer: []h3cell.Cell{a, isolated},
		RefDataset:   h3cell.NewSet([]h3cell.Cell{a, isolated}),
		Destinations: []h3cell.Cell{c},
		Mode:         roadgraph.Exact,
	}

	results := Run(in)
	require.Len(t, results, 1)
	assert.Equal(t, a, results[0].Origin)
}

func TestSelectOrigins_ExcludesDisturbanceAndMissingFromRefDataset(t *testing.T) {
	a, b, outside := cellN(0), cellN(1), cellN(2)
	in := Input{
		Disturbance:  h3cell.NewSet([]h3cell.Cell{b}),
		WithinBuffer: []h3cell.Cell{a, b, outside},
		RefDataset:   h3cell.NewSet([]h3cell.Cell{a, b}),
	}
	origins := selectOrigins(in)
	assert.Equal(t, []h3cell.Cell{a}, origins)
}
