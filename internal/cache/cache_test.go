package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls int64
}

func (f *countingFetcher) Fetch(_ context.Context, key string) (Artifact, int64, error) {
	atomic.AddInt64(&f.calls, 1)
	return Artifact{Kind: KindGraph, Graph: key}, 128, nil
}

// TestGet_ConcurrentRequestsShareOneFetch checks that 32 concurrent
// requests against an uncached key observe exactly one underlying
// fetch.
func TestGet_ConcurrentRequestsShareOneFetch(t *testing.T) {
	f := &countingFetcher{}
	c, err := New(f, 1<<20)
	require.NoError(t, err)

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			p, err := c.Get(context.Background(), "graph-jakarta-9")
			assert.NoError(t, err)
			assert.Equal(t, "graph-jakarta-9", p.Artifact.Graph)
			p.Release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&f.calls))
}

func TestGet_CachedKeyDoesNotRefetch(t *testing.T) {
	f := &countingFetcher{}
	c, err := New(f, 1<<20)
	require.NoError(t, err)

	ctx := context.Background()
	p1, err := c.Get(ctx, "k")
	require.NoError(t, err)
	p1.Release()

	p2, err := c.Get(ctx, "k")
	require.NoError(t, err)
	p2.Release()

	assert.Equal(t, int64(1), atomic.LoadInt64(&f.calls))
}

func TestGet_DistinctKeysEachFetchOnce(t *testing.T) {
	f := &countingFetcher{}
	c, err := New(f, 1<<20)
	require.NoError(t, err)

	ctx := context.Background()
	p1, err := c.Get(ctx, "a")
	require.NoError(t, err)
	p2, err := c.Get(ctx, "b")
	require.NoError(t, err)
	p1.Release()
	p2.Release()

	assert.Equal(t, int64(2), atomic.LoadInt64(&f.calls))
}
