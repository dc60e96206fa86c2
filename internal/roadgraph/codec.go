package roadgraph

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/DataDog/zstd"
)

// Codec compresses and decompresses a graph's encoded bytes for
// object-store storage. Selected by file extension so different graphs
// can be stored under whichever codec suits their size/access pattern.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

type plainCodec struct{}

func (plainCodec) Compress(data []byte) ([]byte, error)   { return data, nil }
func (plainCodec) Decompress(data []byte) ([]byte, error) { return data, nil }

type zstdCodec struct{}

func (zstdCodec) Compress(data []byte) ([]byte, error)   { return zstd.Compress(nil, data) }
func (zstdCodec) Decompress(data []byte) ([]byte, error) { return zstd.Decompress(nil, data) }

type gzipCodec struct{}

func (gzipCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("roadgraph: gzip compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("roadgraph: gzip compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (gzipCodec) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("roadgraph: gzip decompress: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("roadgraph: gzip decompress: %w", err)
	}
	return out, nil
}

// codecs maps a file extension (without the leading dot, lowercased) to
// the codec that handles it. The empty string is the no-compression
// default for a bare key with no extension.
var codecs = map[string]Codec{
	"":    plainCodec{},
	"zst": zstdCodec{},
	"gz":  gzipCodec{},
}

// CodecForExt returns the codec registered for ext ("zst", "gz", or ""
// for no compression). ok is false for an unregistered extension.
func CodecForExt(ext string) (Codec, bool) {
	c, ok := codecs[strings.ToLower(ext)]
	return c, ok
}
