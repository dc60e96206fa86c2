package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/rout3go/internal/differential"
	"github.com/lintang-b-s/rout3go/internal/routing"
)

func TestShortestPathRows_OmitsUnreachedPairs(t *testing.T) {
	a, b, c := cellN(0), cellN(1), cellN(2)
	results := [][]routing.Path{
		{
			{Origin: a, Destination: b, Reached: true, CostSecs: 12, LengthM: 100, AvgPreference: 1},
			{Origin: a, Destination: c, Reached: false},
		},
	}
	rec, err := ShortestPathRows(results)
	require.NoError(t, err)
	defer rec.Release()
	assert.EqualValues(t, 1, rec.NumRows())
}

func TestDifferentialRows_NullsDisconnectedScenario(t *testing.T) {
	a := cellN(0)
	results := []differential.OriginResult{
		{
			Origin:            a,
			NumReachedWithout: 2, AvgDurationWithout: 10, AvgPreferenceWithout: 1, HasPreferredWithout: true,
			NumReachedWith: 0,
		},
	}
	rec, err := DifferentialRows(results)
	require.NoError(t, err)
	defer rec.Release()
	assert.EqualValues(t, 1, rec.NumRows())
	assert.True(t, rec.Column(6).IsNull(0))
	assert.True(t, rec.Column(8).IsNull(0))
}

func TestWithinThresholdRows_EncodesEveryHit(t *testing.T) {
	hits := []routing.ThresholdHit{
		{H3Index: cellN(0), OriginH3Index: cellN(1), TravelDurationS: 42},
	}
	rec, err := WithinThresholdRows(hits)
	require.NoError(t, err)
	defer rec.Release()
	assert.EqualValues(t, 1, rec.NumRows())
}
