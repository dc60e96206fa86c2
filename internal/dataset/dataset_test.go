package dataset

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
)

func buildTestRecord(t *testing.T, cells []h3cell.Cell, population []float64) arrow.Record {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "h3index", Type: arrow.PrimitiveTypes.Uint64},
		{Name: "population", Type: arrow.PrimitiveTypes.Float64},
	}, nil)
	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	h3Builder := b.Field(0).(*array.Uint64Builder)
	popBuilder := b.Field(1).(*array.Float64Builder)
	for i, c := range cells {
		h3Builder.Append(uint64(c))
		popBuilder.Append(population[i])
	}
	return b.NewRecord()
}

func TestFromRecord_MaterializesCellSet(t *testing.T) {
	a := h3cell.FromLatLon(-7.56, 110.78, 9)
	b := h3cell.FromLatLon(-7.57, 110.79, 9)
	rec := buildTestRecord(t, []h3cell.Cell{a, b}, []float64{100, 200})

	ds, err := FromRecord(rec, "h3index")
	require.NoError(t, err)
	assert.True(t, ds.Contains(a))
	assert.True(t, ds.Contains(b))
	assert.Equal(t, int64(2), ds.NumRows())
}

func TestFromRecord_RejectsUnknownColumn(t *testing.T) {
	a := h3cell.FromLatLon(-7.56, 110.78, 9)
	rec := buildTestRecord(t, []h3cell.Cell{a}, []float64{1})
	_, err := FromRecord(rec, "nope")
	assert.Error(t, err)
}

func TestEncodeDecodeIPCFile_RoundTrips(t *testing.T) {
	a := h3cell.FromLatLon(-7.56, 110.78, 9)
	b := h3cell.FromLatLon(-7.57, 110.79, 9)
	rec := buildTestRecord(t, []h3cell.Cell{a, b}, []float64{100, 200})

	data, err := EncodeIPCFile(rec)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	ds, err := DecodeIPCFile(data, "h3index")
	require.NoError(t, err)
	assert.True(t, ds.Contains(a))
	assert.True(t, ds.Contains(b))
	assert.Equal(t, int64(2), ds.NumRows())
}
