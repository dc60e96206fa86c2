package objectstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyStore struct {
	failuresBeforeSuccess int
	calls                 int
	notFoundAlways        bool
}

func (f *flakyStore) Get(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	if f.notFoundAlways {
		return nil, ErrNotFound
	}
	if f.calls <= f.failuresBeforeSuccess {
		return nil, errors.New("transient network error")
	}
	return []byte("ok"), nil
}

func (f *flakyStore) Put(context.Context, string, []byte) error     { return nil }
func (f *flakyStore) List(context.Context, string) ([]string, error) { return nil, nil }
func (f *flakyStore) Delete(context.Context, string) error           { return nil }

func TestRetrying_RetriesTransientFailures(t *testing.T) {
	inner := &flakyStore{failuresBeforeSuccess: 2}
	store := Retrying(inner, 5)

	data, err := store.Get(context.Background(), "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)
	assert.Equal(t, 3, inner.calls)
}

func TestRetrying_DoesNotRetryNotFound(t *testing.T) {
	inner := &flakyStore{notFoundAlways: true}
	store := Retrying(inner, 5)

	_, err := store.Get(context.Background(), "key")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, inner.calls)
}
