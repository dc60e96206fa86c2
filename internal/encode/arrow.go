package encode

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/lintang-b-s/rout3go/internal/differential"
	"github.com/lintang-b-s/rout3go/internal/routing"
)

var defaultAllocator = memory.NewGoAllocator()

var shortestPathSchema = arrow.NewSchema([]arrow.Field{
	{Name: "origin_h3index", Type: arrow.PrimitiveTypes.Uint64},
	{Name: "destination_h3index", Type: arrow.PrimitiveTypes.Uint64},
	{Name: "travel_duration_secs", Type: arrow.PrimitiveTypes.Float64},
	{Name: "length_m", Type: arrow.PrimitiveTypes.Float64},
	{Name: "edge_preference", Type: arrow.PrimitiveTypes.Float64},
}, nil)

// ShortestPathRows encodes many-to-many routing results into the
// tabular schema streamed by H3ShortestPath. Unreached pairs are
// omitted, matching the dispatcher's "unreachable origins produce zero
// rows" contract.
func ShortestPathRows(results [][]routing.Path) (arrow.Record, error) {
	b := array.NewRecordBuilder(defaultAllocator, shortestPathSchema)
	defer b.Release()

	origin := b.Field(0).(*array.Uint64Builder)
	dest := b.Field(1).(*array.Uint64Builder)
	duration := b.Field(2).(*array.Float64Builder)
	length := b.Field(3).(*array.Float64Builder)
	preference := b.Field(4).(*array.Float64Builder)

	for _, row := range results {
		for _, p := range row {
			if !p.Reached {
				continue
			}
			origin.Append(uint64(p.Origin))
			dest.Append(uint64(p.Destination))
			duration.Append(p.CostSecs)
			length.Append(p.LengthM)
			preference.Append(p.AvgPreference)
		}
	}
	return b.NewRecord(), nil
}

var differentialSchema = arrow.NewSchema([]arrow.Field{
	{Name: "origin_h3index", Type: arrow.PrimitiveTypes.Uint64},
	{Name: "num_reached_without_disturbance", Type: arrow.PrimitiveTypes.Int64},
	{Name: "avg_travel_duration_secs_without_disturbance", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "avg_edge_preference_without_disturbance", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "preferred_destination_h3index_without_disturbance", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
	{Name: "num_reached_with_disturbance", Type: arrow.PrimitiveTypes.Int64},
	{Name: "avg_travel_duration_secs_with_disturbance", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "avg_edge_preference_with_disturbance", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "preferred_destination_h3index_with_disturbance", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
}, nil)

// DifferentialRows encodes per-origin differential aggregates into the
// tabular schema streamed by DifferentialShortestPath and its
// persisted-result retrieval RPC. A fully disconnected scenario (zero
// destinations reached) encodes its average/preferred columns as null
// rather than zero.
func DifferentialRows(results []differential.OriginResult) (arrow.Record, error) {
	b := array.NewRecordBuilder(defaultAllocator, differentialSchema)
	defer b.Release()

	origin := b.Field(0).(*array.Uint64Builder)
	numWithout := b.Field(1).(*array.Int64Builder)
	durationWithout := b.Field(2).(*array.Float64Builder)
	preferenceWithout := b.Field(3).(*array.Float64Builder)
	destWithout := b.Field(4).(*array.Uint64Builder)
	numWith := b.Field(5).(*array.Int64Builder)
	durationWith := b.Field(6).(*array.Float64Builder)
	preferenceWith := b.Field(7).(*array.Float64Builder)
	destWith := b.Field(8).(*array.Uint64Builder)

	for _, r := range results {
		origin.Append(uint64(r.Origin))

		numWithout.Append(int64(r.NumReachedWithout))
		if r.NumReachedWithout == 0 {
			durationWithout.AppendNull()
			preferenceWithout.AppendNull()
		} else {
			durationWithout.Append(r.AvgDurationWithout)
			preferenceWithout.Append(r.AvgPreferenceWithout)
		}
		if r.HasPreferredWithout {
			destWithout.Append(uint64(r.PreferredDestWithout))
		} else {
			destWithout.AppendNull()
		}

		numWith.Append(int64(r.NumReachedWith))
		if r.NumReachedWith == 0 {
			durationWith.AppendNull()
			preferenceWith.AppendNull()
		} else {
			durationWith.Append(r.AvgDurationWith)
			preferenceWith.Append(r.AvgPreferenceWith)
		}
		if r.HasPreferredWith {
			destWith.Append(uint64(r.PreferredDestWith))
		} else {
			destWith.AppendNull()
		}
	}
	return b.NewRecord(), nil
}

var withinThresholdSchema = arrow.NewSchema([]arrow.Field{
	{Name: "h3index", Type: arrow.PrimitiveTypes.Uint64},
	{Name: "origin_h3index", Type: arrow.PrimitiveTypes.Uint64},
	{Name: "travel_duration_secs", Type: arrow.PrimitiveTypes.Float64},
}, nil)

// WithinThresholdRows encodes the reachable-cell set produced by
// H3CellsWithinThreshold.
func WithinThresholdRows(hits []routing.ThresholdHit) (arrow.Record, error) {
	b := array.NewRecordBuilder(defaultAllocator, withinThresholdSchema)
	defer b.Release()

	cell := b.Field(0).(*array.Uint64Builder)
	origin := b.Field(1).(*array.Uint64Builder)
	duration := b.Field(2).(*array.Float64Builder)

	for _, h := range hits {
		cell.Append(uint64(h.H3Index))
		origin.Append(uint64(h.OriginH3Index))
		duration.Append(h.TravelDurationS)
	}
	return b.NewRecord(), nil
}
