package objectstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystem_PutGetRoundTrip(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "graphs/jakarta/9.bin", []byte("hello")))

	data, err := store.Get(ctx, "graphs/jakarta/9.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestFilesystem_GetMissingReturnsErrNotFound(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFilesystem_ListFiltersByPrefix(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "graphs/a.bin", []byte("1")))
	require.NoError(t, store.Put(ctx, "graphs/b.bin", []byte("2")))
	require.NoError(t, store.Put(ctx, "datasets/c.bin", []byte("3")))

	keys, err := store.List(ctx, "graphs/")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestFilesystem_DeleteRemovesKey(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "x.bin", []byte("1")))
	require.NoError(t, store.Delete(ctx, "x.bin"))

	_, err = store.Get(ctx, "x.bin")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFilesystem_RejectsPathEscape(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}
