package rpcserver

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lintang-b-s/rout3go/internal/cache"
	"github.com/lintang-b-s/rout3go/internal/config"
	"github.com/lintang-b-s/rout3go/internal/dataset"
	"github.com/lintang-b-s/rout3go/internal/h3cell"
	"github.com/lintang-b-s/rout3go/internal/objectstore"
	"github.com/lintang-b-s/rout3go/internal/roadgraph"
	"github.com/lintang-b-s/rout3go/internal/rpcerr"
)

// graphKeyPattern matches the <name>_r<resolution>[.<ext>] tail of a
// graph object-store key. <ext> selects the compression codec the file
// is stored under (see roadgraph.CodecForExt); a key with no extension
// is stored uncompressed.
var graphKeyPattern = regexp.MustCompile(`^(.+)_r(\d+)(?:\.([A-Za-z0-9]+))?$`)

func graphKey(prefix, name string, resolution int, ext string) string {
	if ext == "" {
		return fmt.Sprintf("%s%s_r%d", prefix, name, resolution)
	}
	return fmt.Sprintf("%s%s_r%d.%s", prefix, name, resolution, ext)
}

// parseGraphKey splits an object-store key into the graph name, its
// resolution, and its codec extension, returning ok=false for a key
// that doesn't match the <name>_r<resolution>[.<ext>] shape (e.g. a
// stray file placed under the graphs prefix).
func parseGraphKey(prefix, key string) (name string, resolution int, ext string, ok bool) {
	rest := strings.TrimPrefix(key, prefix)
	if rest == key && prefix != "" {
		return "", 0, "", false
	}
	m := graphKeyPattern.FindStringSubmatch(rest)
	if m == nil {
		return "", 0, "", false
	}
	res, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, "", false
	}
	return m[1], res, m[3], true
}

// graphNameFromKey returns just the name component of an object-store
// graph key, or "" if the key doesn't match the expected shape.
func graphNameFromKey(prefix, key string) string {
	name, _, _, ok := parseGraphKey(prefix, key)
	if !ok {
		return ""
	}
	return name
}

// findGraphKey locates the single object-store key under prefix whose
// name component is name, regardless of resolution/codec extension.
// Graphs are looked up by name alone (RPC requests carry no
// resolution), so exactly one stored key per name is expected; more
// than one is ambiguous and reported as an error rather than guessed.
func findGraphKey(ctx context.Context, store objectstore.Store, prefix, name string) (key string, resolution int, ext string, err error) {
	keys, err := store.List(ctx, prefix)
	if err != nil {
		return "", 0, "", fmt.Errorf("rpcserver: list graphs under %q: %w", prefix, err)
	}
	found := ""
	for _, k := range keys {
		n, res, e, ok := parseGraphKey(prefix, k)
		if !ok || n != name {
			continue
		}
		if found != "" {
			return "", 0, "", fmt.Errorf("rpcserver: graph %q has more than one stored object (%q and %q)", name, found, k)
		}
		found, resolution, ext = k, res, e
	}
	if found == "" {
		return "", 0, "", objectstore.ErrNotFound
	}
	return found, resolution, ext, nil
}

// graphFetcher loads, decompresses, and decodes a RoadGraph on a cache
// miss.
type graphFetcher struct {
	store  objectstore.Store
	prefix string
}

func (f *graphFetcher) Fetch(ctx context.Context, key string) (cache.Artifact, int64, error) {
	storeKey, _, ext, err := findGraphKey(ctx, f.store, f.prefix, key)
	if err != nil {
		return cache.Artifact{}, 0, fmt.Errorf("rpcserver: locate graph %q: %w", key, err)
	}
	codec, ok := roadgraph.CodecForExt(ext)
	if !ok {
		return cache.Artifact{}, 0, fmt.Errorf("rpcserver: graph %q: unsupported codec extension %q", key, ext)
	}
	raw, err := f.store.Get(ctx, storeKey)
	if err != nil {
		return cache.Artifact{}, 0, fmt.Errorf("rpcserver: fetch graph %q: %w", key, err)
	}
	data, err := codec.Decompress(raw)
	if err != nil {
		return cache.Artifact{}, 0, fmt.Errorf("rpcserver: decompress graph %q: %w", key, err)
	}
	g, err := roadgraph.Decode(data)
	if err != nil {
		return cache.Artifact{}, 0, fmt.Errorf("rpcserver: decode graph %q: %w", key, err)
	}
	return cache.Artifact{Kind: cache.KindGraph, Graph: g}, g.SizeBytes(), nil
}

// datasetCacheKey composes the composite key a dataset file artifact is
// cached under: the dataset is sharded into one object-store file per
// file-resolution cell, so the cache key must carry the dataset name,
// the data resolution it was requested at (to resolve the file
// resolution), and the specific file cell.
func datasetCacheKey(name string, dataResolution int, fileCell h3cell.Cell) string {
	return fmt.Sprintf("%s@%d@%s", name, dataResolution, fileCell.String())
}

func parseDatasetCacheKey(key string) (name string, dataResolution int, fileCell h3cell.Cell, err error) {
	parts := strings.Split(key, "@")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("rpcserver: malformed dataset cache key %q", key)
	}
	dataResolution, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("rpcserver: malformed dataset cache key %q: %w", key, err)
	}
	fileCell, err = h3cell.ParseString(parts[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("rpcserver: malformed dataset cache key %q: %w", key, err)
	}
	return parts[0], dataResolution, fileCell, nil
}

// datasetFetcher loads and decodes one dataset shard (one file cell's
// worth of rows) on a cache miss.
type datasetFetcher struct {
	store objectstore.Store
	cfg   *config.ServerConfig
}

func (f *datasetFetcher) Fetch(ctx context.Context, key string) (cache.Artifact, int64, error) {
	name, dataResolution, fileCell, err := parseDatasetCacheKey(key)
	if err != nil {
		return cache.Artifact{}, 0, err
	}
	d, ok := f.cfg.Datasets[name]
	if !ok {
		return cache.Artifact{}, 0, fmt.Errorf("rpcserver: dataset %q is not configured", name)
	}
	fileResolution, err := d.FileResolution(dataResolution)
	if err != nil {
		return cache.Artifact{}, 0, err
	}
	path := dataset.BuildPath(d.KeyPattern, dataResolution, fileResolution, fileCell)
	data, err := f.store.Get(ctx, path)
	if err != nil {
		return cache.Artifact{}, 0, fmt.Errorf("rpcserver: fetch dataset %q shard %q: %w", name, path, err)
	}
	ds, err := dataset.DecodeIPCFile(data, d.H3IndexColumn)
	if err != nil {
		return cache.Artifact{}, 0, fmt.Errorf("rpcserver: decode dataset %q shard %q: %w", name, path, err)
	}
	return cache.Artifact{Kind: cache.KindDataset, Dataset: ds}, int64(len(data)), nil
}

// datasetMembers fetches every file shard covering candidates and
// returns the union of their H3 index columns (not narrowed to
// candidates): the reference-dataset membership test used to select
// differential-analysis origins.
func (s *Server) datasetMembers(ctx context.Context, name string, dataResolution int, candidates []h3cell.Cell) (h3cell.Set, error) {
	d, ok := s.cfg.Datasets[name]
	if !ok {
		return nil, invalidArgumentf("rpcserver: dataset %q is not configured", name)
	}
	fileResolution, err := d.FileResolution(dataResolution)
	if err != nil {
		return nil, &rpcerr.InvalidArgumentError{Cause: err}
	}

	members := h3cell.NewSet(nil)
	for _, fileCell := range dataset.FileCells(candidates, fileResolution) {
		pinned, err := s.datasets.Get(ctx, datasetCacheKey(name, dataResolution, fileCell))
		if err != nil {
			if errors.Is(err, objectstore.ErrNotFound) {
				continue // this shard simply has no rows; not every file cell is populated
			}
			return nil, err
		}
		ds, ok := pinned.Artifact.Dataset.(*dataset.Dataset)
		if !ok {
			pinned.Release()
			return nil, fmt.Errorf("rpcserver: cached artifact for dataset %q has the wrong kind", name)
		}
		for c := range ds.Cells() {
			members[c] = struct{}{}
		}
		pinned.Release()
	}
	return members, nil
}
