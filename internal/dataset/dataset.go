package dataset

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
)

// Dataset is a loaded reference dataframe: an Arrow record plus the
// name of its H3-index column, with the index column materialized as
// an h3cell.Set for fast membership tests during origin selection.
type Dataset struct {
	Record        arrow.Record
	H3IndexColumn string
	cells         h3cell.Set
}

// FromRecord wraps an already-decoded Arrow record, validating that
// the named H3 index column exists and is a uint64 column, and
// materializing its membership set.
func FromRecord(rec arrow.Record, h3IndexColumn string) (*Dataset, error) {
	idx := rec.Schema().FieldIndices(h3IndexColumn)
	if len(idx) == 0 {
		return nil, fmt.Errorf("dataset: column %q not found in schema", h3IndexColumn)
	}
	col, ok := rec.Column(idx[0]).(*array.Uint64)
	if !ok {
		return nil, fmt.Errorf("dataset: column %q is not uint64", h3IndexColumn)
	}
	cells := make(h3cell.Set, col.Len())
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		cells[h3cell.Cell(col.Value(i))] = struct{}{}
	}
	return &Dataset{Record: rec, H3IndexColumn: h3IndexColumn, cells: cells}, nil
}

// Cells returns the dataset's H3 index membership set.
func (d *Dataset) Cells() h3cell.Set { return d.cells }

// Contains reports whether cell is present in the dataset.
func (d *Dataset) Contains(cell h3cell.Cell) bool { return d.cells.Contains(cell) }

// NumRows returns the number of rows in the underlying record.
func (d *Dataset) NumRows() int64 {
	if d.Record == nil {
		return 0
	}
	return d.Record.NumRows()
}

// DecodeIPCFile decodes a complete Arrow IPC file (the format produced
// by EncodeIPCFile and the one datasets are stored as in the object
// store) into a single concatenated record. Files with more than one
// record batch are concatenated in order.
func DecodeIPCFile(data []byte, h3IndexColumn string) (*Dataset, error) {
	mem := memory.NewGoAllocator()
	reader, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("dataset: open ipc file: %w", err)
	}
	defer reader.Close()

	var records []arrow.Record
	for i := 0; i < reader.NumRecords(); i++ {
		rec, err := reader.RecordAt(i)
		if err != nil {
			return nil, fmt.Errorf("dataset: read record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset: ipc file has no record batches")
	}
	merged, err := concatRecords(mem, records)
	if err != nil {
		return nil, err
	}
	return FromRecord(merged, h3IndexColumn)
}

// concatRecords stitches multiple record batches sharing the same
// schema into a single record, for when one IPC file holds more than one
// record batch.
func concatRecords(mem memory.Allocator, records []arrow.Record) (arrow.Record, error) {
	if len(records) == 1 {
		return records[0], nil
	}
	schema := records[0].Schema()
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for _, rec := range records {
		for colIdx := 0; colIdx < int(rec.NumCols()); colIdx++ {
			appendColumn(builder.Field(colIdx), rec.Column(colIdx))
		}
	}
	return builder.NewRecord(), nil
}

// EncodeIPCFile serializes a single record as a one-batch Arrow IPC
// file, the format datasets and query results are persisted in.
func EncodeIPCFile(rec arrow.Record) ([]byte, error) {
	var buf bytes.Buffer
	w, err := ipc.NewFileWriter(&buf, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("dataset: new ipc writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		return nil, fmt.Errorf("dataset: write record: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("dataset: close ipc writer: %w", err)
	}
	return buf.Bytes(), nil
}

// appendColumn copies one column's values into a builder field for the
// concrete column types datasets are expected to use. Unsupported
// column types are left untouched (zero rows appended), which would
// desync row counts; callers are expected to keep dataset schemas to
// the documented uint64/float64/string columns.
func appendColumn(b array.Builder, col arrow.Array) {
	switch src := col.(type) {
	case *array.Uint64:
		dst := b.(*array.Uint64Builder)
		for i := 0; i < src.Len(); i++ {
			if src.IsNull(i) {
				dst.AppendNull()
				continue
			}
			dst.Append(src.Value(i))
		}
	case *array.Float64:
		dst := b.(*array.Float64Builder)
		for i := 0; i < src.Len(); i++ {
			if src.IsNull(i) {
				dst.AppendNull()
				continue
			}
			dst.Append(src.Value(i))
		}
	case *array.String:
		dst := b.(*array.StringBuilder)
		for i := 0; i < src.Len(); i++ {
			if src.IsNull(i) {
				dst.AppendNull()
				continue
			}
			dst.Append(src.Value(i))
		}
	}
}
