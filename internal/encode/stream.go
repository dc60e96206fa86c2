package encode

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/lintang-b-s/rout3go/internal/dataset"
)

// MaxRowsPerChunk bounds a single streamed record batch so it stays
// well under typical gRPC message-size limits.
const MaxRowsPerChunk = 3000

// ChunkIPCBytes slices rec into row-bounded pieces of at most
// MaxRowsPerChunk rows each, Arrow-IPC-encoding every piece. A record
// with zero rows yields a single empty-bodied chunk, so a stream
// always emits at least one message for the caller to attach a
// terminal identifier to.
func ChunkIPCBytes(rec arrow.Record) ([][]byte, error) {
	if rec.NumRows() == 0 {
		data, err := dataset.EncodeIPCFile(rec)
		if err != nil {
			return nil, fmt.Errorf("encode: chunk empty record: %w", err)
		}
		return [][]byte{data}, nil
	}

	var chunks [][]byte
	for offset := int64(0); offset < rec.NumRows(); offset += MaxRowsPerChunk {
		length := int64(MaxRowsPerChunk)
		if remaining := rec.NumRows() - offset; remaining < length {
			length = remaining
		}
		part := rec.NewSlice(offset, offset+length)
		data, err := dataset.EncodeIPCFile(part)
		part.Release()
		if err != nil {
			return nil, fmt.Errorf("encode: chunk record at offset %d: %w", offset, err)
		}
		chunks = append(chunks, data)
	}
	return chunks, nil
}
