// Package persist implements the persisted-result object-store entry: a
// completed streaming RPC's payload is stored once under a freshly
// minted identifier, and a later GetX(id) call re-streams the
// identical payload.
package persist

import (
	"context"
	"fmt"

	"github.com/DataDog/zstd"
	"github.com/google/uuid"
	"github.com/kelindar/binary"

	"github.com/lintang-b-s/rout3go/internal/objectstore"
)

// Result is the envelope stored per completed, persistable RPC
// response: an identifier plus an opaque, already-serialized payload
// (the differential RPC stores its kelindar/binary-encoded result
// envelope here). The payload is zstd-compressed on disk; differential
// results can carry many per-origin route pairs and compress well.
type Result struct {
	ID      uuid.UUID
	Payload []byte
}

// Store mints a new identifier, wraps payload in a Result envelope,
// and writes it zstd-compressed to store under prefix+id.
func Store(ctx context.Context, store objectstore.Store, prefix string, payload []byte) (uuid.UUID, error) {
	id := uuid.New()
	r := Result{ID: id, Payload: payload}
	data, err := binary.Marshal(r)
	if err != nil {
		return uuid.Nil, fmt.Errorf("persist: marshal result %s: %w", id, err)
	}
	compressed, err := zstd.Compress(nil, data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("persist: compress result %s: %w", id, err)
	}
	if err := store.Put(ctx, key(prefix, id), compressed); err != nil {
		return uuid.Nil, fmt.Errorf("persist: store result %s: %w", id, err)
	}
	return id, nil
}

// Retrieve loads a previously stored payload by identifier.
func Retrieve(ctx context.Context, store objectstore.Store, prefix string, id uuid.UUID) ([]byte, error) {
	compressed, err := store.Get(ctx, key(prefix, id))
	if err != nil {
		return nil, fmt.Errorf("persist: load result %s: %w", id, err)
	}
	data, err := zstd.Decompress(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("persist: decompress result %s: %w", id, err)
	}
	var r Result
	if err := binary.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("persist: unmarshal result %s: %w", id, err)
	}
	if r.ID != id {
		return nil, fmt.Errorf("persist: result %s has mismatched stored id %s", id, r.ID)
	}
	return r.Payload, nil
}

func key(prefix string, id uuid.UUID) string {
	if prefix == "" {
		return id.String()
	}
	return prefix + id.String()
}
