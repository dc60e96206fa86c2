// Package cache implements a bounded, single-flight, reference-counted
// artifact cache: concurrent requests for the same key collapse into
// one fetch, and a pinned (in-use) artifact is never evicted even
// under capacity pressure. Built on singleflight for fetch
// deduplication and ristretto for capacity-bounded admission.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"
)

// Kind discriminates the closed set of artifact types the cache holds:
// a loaded graph or a loaded dataset, never anything else.
type Kind int

const (
	KindGraph Kind = iota
	KindDataset
)

// Artifact is the tagged union stored per key. Exactly one of Graph /
// Dataset is set, selected by Kind.
type Artifact struct {
	Kind    Kind
	Graph   any // *roadgraph.RoadGraph, kept as any to avoid an import cycle
	Dataset any // *dataset.Dataset
	size    int64
}

// SizeBytes reports the memory cost charged against cache capacity.
func (a Artifact) SizeBytes() int64 { return a.size }

// Fetcher loads an artifact for a key on a cache miss. Implementations
// wrap an objectstore.Store plus a decoder (graph or dataset).
type Fetcher interface {
	Fetch(ctx context.Context, key string) (Artifact, int64, error)
}

// entry is the value ristretto actually stores: the artifact plus a
// pin count and the cache key it belongs to (needed inside OnEvict,
// since ristretto's eviction callback only hands back the stored
// value, not the original key).
type entry struct {
	key      string
	artifact Artifact
	refcount int64
}

// Recorder receives a "hit" or "miss" event per Get call, named after
// the cache that produced it; satisfied by internal/metrics.GRPC.
type Recorder interface {
	RecordCacheEvent(cacheName, event string)
}

// Cache is a bounded artifact cache with single-flight fetch
// deduplication and refcount-gated eviction.
type Cache struct {
	fetcher Fetcher
	group   singleflight.Group
	ring    *ristretto.Cache[string, *entry]

	mu      sync.Mutex
	entries map[string]*entry

	name     string
	recorder Recorder
}

// SetMetrics attaches a Recorder that observes every Get as a hit or
// miss, labeled by name. Optional; a Cache with no Recorder attached
// simply skips recording.
func (c *Cache) SetMetrics(name string, recorder Recorder) {
	c.name = name
	c.recorder = recorder
}

func (c *Cache) record(event string) {
	if c.recorder != nil {
		c.recorder.RecordCacheEvent(c.name, event)
	}
}

// New builds a cache bounded by maxCostBytes total artifact size.
func New(fetcher Fetcher, maxCostBytes int64) (*Cache, error) {
	c := &Cache{fetcher: fetcher, entries: make(map[string]*entry)}
	ring, err := ristretto.NewCache(&ristretto.Config[string, *entry]{
		NumCounters: 1e6,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
		OnEvict: func(item *ristretto.Item[*entry]) {
			c.onEvict(item.Value)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("cache: new ristretto cache: %w", err)
	}
	c.ring = ring
	return c, nil
}

// onEvict re-admits an entry ristretto chose to evict while it is
// still pinned, approximating the "never evict while referenced"
// invariant - ristretto's eviction is cost-probabilistic, so this is
// best-effort re-admission rather than a hard guarantee against a
// brief window of the entry being absent from the index.
func (c *Cache) onEvict(e *entry) {
	if atomic.LoadInt64(&e.refcount) <= 0 {
		c.mu.Lock()
		delete(c.entries, e.key)
		c.mu.Unlock()
		return
	}
	c.ring.Set(e.key, e, e.artifact.SizeBytes())
}

// Pinned is a handle to a cached artifact; callers must call Release
// exactly once when done to allow eviction.
type Pinned struct {
	Artifact Artifact
	release  func()
}

// Release drops this handle's pin on the artifact.
func (p *Pinned) Release() {
	if p.release != nil {
		p.release()
	}
}

// Get returns the cached artifact for key, fetching it on a miss.
// Concurrent Get calls for the same key during a miss share one fetch:
// any number of simultaneous requests on an uncached key produce
// exactly one underlying fetch.
func (c *Cache) Get(ctx context.Context, key string) (*Pinned, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		atomic.AddInt64(&e.refcount, 1)
		c.mu.Unlock()
		c.record("hit")
		return c.pin(e), nil
	}
	c.mu.Unlock()
	c.record("miss")

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A load that finished between the lookup above and this call
		// has already stored the entry; reuse it instead of fetching again.
		c.mu.Lock()
		if e, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return e, nil
		}
		c.mu.Unlock()
		artifact, size, fetchErr := c.fetcher.Fetch(ctx, key)
		if fetchErr != nil {
			return nil, fetchErr
		}
		artifact.size = size
		e := &entry{key: key, artifact: artifact, refcount: 0}

		c.mu.Lock()
		c.entries[key] = e
		c.mu.Unlock()
		c.ring.Set(key, e, size)
		c.ring.Wait()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	e := v.(*entry)
	atomic.AddInt64(&e.refcount, 1)
	return c.pin(e), nil
}

func (c *Cache) pin(e *entry) *Pinned {
	var once sync.Once
	return &Pinned{
		Artifact: e.artifact,
		release: func() {
			once.Do(func() {
				atomic.AddInt64(&e.refcount, -1)
			})
		},
	}
}

// Len reports the number of distinct keys currently tracked (pinned or
// not); used by tests to assert single-flight behavior.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// ListKeys returns a snapshot of every key whose artifact is currently
// loaded in the cache. It never triggers a fetch and never touches
// the underlying Fetcher - callers that also need keys not yet seen by
// this cache (e.g. objects present on the backing object store but
// never loaded) must merge this with their own listing.
func (c *Cache) ListKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	return out
}
