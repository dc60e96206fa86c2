// Package rpcserver implements rout3pb.RouteServiceServer: it resolves
// graphs and datasets through the artifact cache, runs the routing
// algorithms in internal/routing and internal/differential, and streams
// encoded results back over gRPC.
package rpcserver

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lintang-b-s/rout3go/api/rout3pb"
	"github.com/lintang-b-s/rout3go/internal/cache"
	"github.com/lintang-b-s/rout3go/internal/config"
	"github.com/lintang-b-s/rout3go/internal/metrics"
	"github.com/lintang-b-s/rout3go/internal/objectstore"
	"github.com/lintang-b-s/rout3go/internal/roadgraph"
)

// Version is overridden at build time via -ldflags, the same way the
// teacher's build pipeline stamps its binaries.
var Version = "dev"

// defaultSnapRings bounds ring-expansion snapping for the one request
// shape that carries no num_gap_cells_to_graph field of its own
// (H3WithinThresholdRequest).
const defaultSnapRings = 2

// downsampleResolutionStep is how many resolutions coarser the
// downsampled pre-routing graph is built relative to the query graph.
const downsampleResolutionStep = 2

// Server implements rout3pb.RouteServiceServer.
type Server struct {
	log   *zap.Logger
	cfg   *config.ServerConfig
	store objectstore.Store

	graphs   *cache.Cache
	datasets *cache.Cache
}

// New wires a Server against a loaded configuration and object store,
// building the graph and dataset artifact caches on top of it. m may
// be nil, in which case cache hit/miss events are simply not recorded.
func New(cfg *config.ServerConfig, store objectstore.Store, log *zap.Logger, m *metrics.GRPC) (*Server, error) {
	s := &Server{cfg: cfg, store: store, log: log}

	graphCacheBytes := int64(cfg.Graphs.CacheSize) * 1024 * 1024
	graphs, err := cache.New(&graphFetcher{store: store, prefix: cfg.Graphs.Prefix}, graphCacheBytes)
	if err != nil {
		return nil, fmt.Errorf("rpcserver: build graph cache: %w", err)
	}
	s.graphs = graphs

	const datasetCacheBytes = 256 * 1024 * 1024
	datasets, err := cache.New(&datasetFetcher{store: store, cfg: cfg}, datasetCacheBytes)
	if err != nil {
		return nil, fmt.Errorf("rpcserver: build dataset cache: %w", err)
	}
	s.datasets = datasets

	if m != nil {
		s.graphs.SetMetrics("graphs", m)
		s.datasets.SetMetrics("datasets", m)
	}

	return s, nil
}

var _ rout3pb.RouteServiceServer = (*Server)(nil)

func (s *Server) logRPC(method string, start time.Time, err *error) {
	fields := []zap.Field{zap.String("method", method), zap.Duration("duration", time.Since(start))}
	if *err != nil {
		s.log.Error("rpc failed", append(fields, zap.Error(*err))...)
		return
	}
	s.log.Info("rpc completed", fields...)
}

// Version reports the running build.
func (s *Server) Version(ctx context.Context, _ *rout3pb.Empty) (*rout3pb.VersionResponse, error) {
	info := "unknown"
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = bi.Main.Path + "@" + bi.Main.Version
	}
	return &rout3pb.VersionResponse{Version: Version, BuildInfo: info}, nil
}

// ListGraphs enumerates the graphs stored under the configured prefix.
// Name and resolution are parsed straight out of each object-store key
// (<name>_r<resolution>.<ext>); listing never decodes a graph, so it
// neither forces a load of a cold graph nor disturbs what is already
// pinned in the cache.
func (s *Server) ListGraphs(ctx context.Context, _ *rout3pb.Empty) (*rout3pb.ListGraphsResponse, error) {
	keys, err := s.store.List(ctx, s.cfg.Graphs.Prefix)
	if err != nil {
		return nil, toStatus(s.log, "ListGraphs", err)
	}
	out := make([]rout3pb.GraphInfo, 0, len(keys))
	for _, key := range keys {
		name, resolution, _, ok := parseGraphKey(s.cfg.Graphs.Prefix, key)
		if !ok {
			continue
		}
		out = append(out, rout3pb.GraphInfo{Name: name, Resolution: int32(resolution)})
	}
	return &rout3pb.ListGraphsResponse{Graphs: out}, nil
}

// ListDatasets enumerates the configured dataset names.
func (s *Server) ListDatasets(ctx context.Context, _ *rout3pb.Empty) (*rout3pb.ListDatasetsResponse, error) {
	names := make([]string, 0, len(s.cfg.Datasets))
	for name := range s.cfg.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return &rout3pb.ListDatasetsResponse{Datasets: names}, nil
}

// resolveGraph fetches a graph by name from the cache. The returned
// release func must be called exactly once when the caller is done
// with the graph.
func (s *Server) resolveGraph(ctx context.Context, name string) (*roadgraph.RoadGraph, func(), error) {
	pinned, err := s.graphs.Get(ctx, name)
	if err != nil {
		return nil, nil, wrapNotFound(err, "rpcserver: graph %q", name)
	}
	g, ok := pinned.Artifact.Graph.(*roadgraph.RoadGraph)
	if !ok {
		pinned.Release()
		return nil, nil, fmt.Errorf("rpcserver: cached artifact for graph %q has the wrong kind", name)
	}
	return g, pinned.Release, nil
}
