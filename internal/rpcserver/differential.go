package rpcserver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kelindar/binary"

	"github.com/lintang-b-s/rout3go/api/rout3pb"
	"github.com/lintang-b-s/rout3go/internal/differential"
	"github.com/lintang-b-s/rout3go/internal/encode"
	"github.com/lintang-b-s/rout3go/internal/geoutil"
	"github.com/lintang-b-s/rout3go/internal/h3cell"
	"github.com/lintang-b-s/rout3go/internal/persist"
	"github.com/lintang-b-s/rout3go/internal/roadgraph"
	"github.com/lintang-b-s/rout3go/internal/rpcerr"
	"github.com/lintang-b-s/rout3go/internal/routing"
)

// diffEnvelope is the structure a completed differential run is
// persisted as: enough to re-encode the tabular result and to answer
// GetDifferentialShortestPathRoutes without re-running the analysis.
type diffEnvelope struct {
	Origins []diffOriginRecord
}

type diffOriginRecord struct {
	Origin uint64

	NumReachedWithout    int
	AvgDurationWithout    float64
	AvgPreferenceWithout  float64
	PreferredDestWithout  uint64
	HasPreferredWithout   bool

	NumReachedWith    int
	AvgDurationWith   float64
	AvgPreferenceWith float64
	PreferredDestWith uint64
	HasPreferredWith  bool

	RoutesWithout []routeRecord
	RoutesWith    []routeRecord
}

type routeRecord struct {
	Destination    uint64
	DurationSecs   float64
	LengthM        float64
	EdgePreference float64
	Cells          []uint64
}

func toRouteRecords(paths []routing.Path) []routeRecord {
	out := make([]routeRecord, len(paths))
	for i, p := range paths {
		out[i] = routeRecord{
			Destination:    uint64(p.Destination),
			DurationSecs:   p.CostSecs,
			LengthM:        p.LengthM,
			EdgePreference: p.AvgPreference,
			Cells:          toRaw(p.Cells),
		}
	}
	return out
}

func toRouteH3Indexes(origin uint64, records []routeRecord) []rout3pb.RouteH3Indexes {
	out := make([]rout3pb.RouteH3Indexes, len(records))
	for i, r := range records {
		out[i] = rout3pb.RouteH3Indexes{
			Origin:         origin,
			Destination:    r.Destination,
			DurationSecs:   r.DurationSecs,
			LengthM:        r.LengthM,
			EdgePreference: r.EdgePreference,
			H3Indexes:      r.Cells,
		}
	}
	return out
}

func toDiffEnvelope(results []differential.OriginResult) diffEnvelope {
	env := diffEnvelope{Origins: make([]diffOriginRecord, len(results))}
	for i, r := range results {
		env.Origins[i] = diffOriginRecord{
			Origin: uint64(r.Origin),

			NumReachedWithout:   r.NumReachedWithout,
			AvgDurationWithout:  r.AvgDurationWithout,
			AvgPreferenceWithout: r.AvgPreferenceWithout,
			PreferredDestWithout: uint64(r.PreferredDestWithout),
			HasPreferredWithout:  r.HasPreferredWithout,

			NumReachedWith:    r.NumReachedWith,
			AvgDurationWith:   r.AvgDurationWith,
			AvgPreferenceWith: r.AvgPreferenceWith,
			PreferredDestWith: uint64(r.PreferredDestWith),
			HasPreferredWith:  r.HasPreferredWith,

			RoutesWithout: toRouteRecords(r.RoutesWithout),
			RoutesWith:    toRouteRecords(r.RoutesWith),
		}
	}
	return env
}

func fromDiffEnvelope(env diffEnvelope) []differential.OriginResult {
	out := make([]differential.OriginResult, len(env.Origins))
	for i, r := range env.Origins {
		out[i] = differential.OriginResult{
			Origin: h3cell.Cell(r.Origin),

			NumReachedWithout:    r.NumReachedWithout,
			AvgDurationWithout:   r.AvgDurationWithout,
			AvgPreferenceWithout: r.AvgPreferenceWithout,
			PreferredDestWithout: h3cell.Cell(r.PreferredDestWithout),
			HasPreferredWithout:  r.HasPreferredWithout,

			NumReachedWith:    r.NumReachedWith,
			AvgDurationWith:   r.AvgDurationWith,
			AvgPreferenceWith: r.AvgPreferenceWith,
			PreferredDestWith: h3cell.Cell(r.PreferredDestWith),
			HasPreferredWith:  r.HasPreferredWith,
		}
	}
	return out
}

func (s *Server) runDifferential(ctx context.Context, req *rout3pb.DifferentialShortestPathRequest) ([]differential.OriginResult, error) {
	if req.GraphName == "" {
		return nil, invalidArgumentf("rpcserver: graph_name is required")
	}
	g, release, err := s.resolveGraph(ctx, req.GraphName)
	if err != nil {
		return nil, err
	}
	defer release()

	factor, err := s.cfg.RoutingModeFactor(req.RoutingMode)
	if err != nil {
		return nil, &rpcerr.InvalidArgumentError{Cause: err}
	}

	inner, err := geoutil.DisturbanceCells(req.DisturbanceWKB, g.Resolution)
	if err != nil {
		return nil, &rpcerr.InvalidArgumentError{Cause: err}
	}
	if len(inner) == 0 {
		return nil, invalidArgumentf("rpcserver: disturbance geometry covers no cell of graph %q at resolution %d", req.GraphName, g.Resolution)
	}
	buffered, err := geoutil.BufferCells(inner, g.Resolution, req.RadiusMeters)
	if err != nil {
		return nil, err
	}

	if len(req.Destinations) == 0 {
		return nil, invalidArgumentf("rpcserver: at least one destination cell is required")
	}
	destinations := toCells(req.Destinations)

	refMembers, err := s.datasetMembers(ctx, req.RefDatasetName, g.Resolution, buffered)
	if err != nil {
		return nil, err
	}

	var downsampled *roadgraph.RoadGraph
	if req.DownsampledPrerouting {
		if coarseRes := g.Resolution - downsampleResolutionStep; coarseRes >= 0 {
			downsampled, err = g.Coarsen(coarseRes)
			if err != nil {
				return nil, err
			}
		}
	}

	in := differential.Input{
		Graph:            g,
		Disturbance:      h3cell.NewSet(inner),
		WithinBuffer:     buffered,
		RefDataset:       refMembers,
		Destinations:     destinations,
		Mode:             resolveMode(req.RoutingMode, factor),
		KDest:            int(req.NumDestinationsToReach),
		DownsampledGraph: downsampled,
	}
	results := differential.Run(in)
	return results, nil
}

func (s *Server) DifferentialShortestPath(req *rout3pb.DifferentialShortestPathRequest, stream rout3pb.RouteService_DifferentialShortestPathServer) (err error) {
	start := time.Now()
	defer s.logRPC("DifferentialShortestPath", start, &err)

	results, runErr := s.runDifferential(stream.Context(), req)
	if runErr != nil {
		err = toStatus(s.log, "DifferentialShortestPath", runErr)
		return err
	}

	rec, encErr := encode.DifferentialRows(results)
	if encErr != nil {
		err = toStatus(s.log, "DifferentialShortestPath", encErr)
		return err
	}
	defer rec.Release()

	payload, marshalErr := binary.Marshal(toDiffEnvelope(results))
	if marshalErr != nil {
		err = toStatus(s.log, "DifferentialShortestPath", marshalErr)
		return err
	}
	id, storeErr := persist.Store(stream.Context(), s.store, s.cfg.Outputs.Prefix, payload)
	if storeErr != nil {
		err = toStatus(s.log, "DifferentialShortestPath", storeErr)
		return err
	}

	chunks, chunkErr := encode.ChunkIPCBytes(rec)
	if chunkErr != nil {
		err = toStatus(s.log, "DifferentialShortestPath", chunkErr)
		return err
	}
	err = sendChunks(stream, chunks, id.String())
	return err
}

func (s *Server) loadDiffEnvelope(ctx context.Context, rawID string) (diffEnvelope, error) {
	id, parseErr := uuid.Parse(rawID)
	if parseErr != nil {
		return diffEnvelope{}, invalidArgumentf("rpcserver: malformed result id %q: %v", rawID, parseErr)
	}
	payload, err := persist.Retrieve(ctx, s.store, s.cfg.Outputs.Prefix, id)
	if err != nil {
		return diffEnvelope{}, wrapNotFound(err, "rpcserver: differential result %q", rawID)
	}
	var env diffEnvelope
	if err := binary.Unmarshal(payload, &env); err != nil {
		return diffEnvelope{}, err
	}
	return env, nil
}

func (s *Server) GetDifferentialShortestPath(req *rout3pb.IdRef, stream rout3pb.RouteService_GetDifferentialShortestPathServer) (err error) {
	start := time.Now()
	defer s.logRPC("GetDifferentialShortestPath", start, &err)

	env, loadErr := s.loadDiffEnvelope(stream.Context(), req.ID)
	if loadErr != nil {
		err = toStatus(s.log, "GetDifferentialShortestPath", loadErr)
		return err
	}

	rec, encErr := encode.DifferentialRows(fromDiffEnvelope(env))
	if encErr != nil {
		err = toStatus(s.log, "GetDifferentialShortestPath", encErr)
		return err
	}
	defer rec.Release()

	chunks, chunkErr := encode.ChunkIPCBytes(rec)
	if chunkErr != nil {
		err = toStatus(s.log, "GetDifferentialShortestPath", chunkErr)
		return err
	}
	err = sendChunks(stream, chunks, req.ID)
	return err
}

func (s *Server) GetDifferentialShortestPathRoutes(req *rout3pb.DifferentialShortestPathRoutesRequest, stream rout3pb.RouteService_GetDifferentialShortestPathRoutesServer) (err error) {
	start := time.Now()
	defer s.logRPC("GetDifferentialShortestPathRoutes", start, &err)

	env, loadErr := s.loadDiffEnvelope(stream.Context(), req.ID)
	if loadErr != nil {
		err = toStatus(s.log, "GetDifferentialShortestPathRoutes", loadErr)
		return err
	}

	wanted := h3cell.NewSet(toCells(req.Origins))
	for _, o := range env.Origins {
		if len(wanted) > 0 && !wanted.Contains(h3cell.Cell(o.Origin)) {
			continue
		}
		if cerr := stream.Context().Err(); cerr != nil {
			err = cerr
			return err
		}
		sendErr := stream.Send(&rout3pb.DifferentialShortestPathRoutes{
			Origin:                o.Origin,
			RoutesWithout:         toRouteH3Indexes(o.Origin, o.RoutesWithout),
			RoutesWithDisturbance: toRouteH3Indexes(o.Origin, o.RoutesWith),
		})
		if sendErr != nil {
			err = sendErr
			return err
		}
	}
	return nil
}
