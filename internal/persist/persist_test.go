package persist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/rout3go/internal/objectstore"
)

func mustRandomID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

// TestStoreRetrieve_RoundTripIsByteIdentical checks that the payload
// retrieved by id is byte-identical to what was stored.
func TestStoreRetrieve_RoundTripIsByteIdentical(t *testing.T) {
	store, err := objectstore.NewFilesystem(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	payload := []byte("arrow-ipc-chunk-bytes-would-go-here")

	id, err := Store(ctx, store, "outputs", payload)
	require.NoError(t, err)
	assert.NotEqual(t, id.String(), "")

	got, err := Retrieve(ctx, store, "outputs", id)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRetrieve_UnknownIDFails(t *testing.T) {
	store, err := objectstore.NewFilesystem(t.TempDir())
	require.NoError(t, err)

	_, err = Retrieve(context.Background(), store, "outputs", mustRandomID(t))
	assert.Error(t, err)
}
