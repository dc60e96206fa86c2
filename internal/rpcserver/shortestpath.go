package rpcserver

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/lintang-b-s/rout3go/api/rout3pb"
	"github.com/lintang-b-s/rout3go/internal/encode"
	"github.com/lintang-b-s/rout3go/internal/routing"
	"github.com/lintang-b-s/rout3go/internal/rpcerr"
)

// runShortestPath validates req, resolves the graph and snaps the
// requested origins/destinations, and runs the many-to-many engine.
// The returned release func must be called once the caller is done
// with the results (they reference cells owned by the pinned graph).
func (s *Server) runShortestPath(ctx context.Context, req *rout3pb.H3ShortestPathRequest) ([][]routing.Path, func(), error) {
	if req.GraphName == "" {
		return nil, nil, invalidArgumentf("rpcserver: graph_name is required")
	}
	g, release, err := s.resolveGraph(ctx, req.GraphName)
	if err != nil {
		return nil, nil, err
	}

	factor, err := s.cfg.RoutingModeFactor(req.RoutingMode)
	if err != nil {
		release()
		return nil, nil, &rpcerr.InvalidArgumentError{Cause: err}
	}

	maxRings := int(req.NumGapCellsToGraph)
	origins, err := snapCells(g, req.Origins, maxRings, "origin")
	if err != nil {
		release()
		return nil, nil, err
	}
	dests, err := snapCells(g, req.Destinations, maxRings, "destination")
	if err != nil {
		release()
		return nil, nil, err
	}

	opt := routing.Options{
		Mode:  resolveMode(req.RoutingMode, factor),
		KDest: int(req.NumDestinationsToReach),
	}
	results := routing.ManyToMany(g, origins, dests, opt)
	return results, release, nil
}

func (s *Server) H3ShortestPath(req *rout3pb.H3ShortestPathRequest, stream rout3pb.RouteService_H3ShortestPathServer) (err error) {
	start := time.Now()
	defer s.logRPC("H3ShortestPath", start, &err)

	results, release, runErr := s.runShortestPath(stream.Context(), req)
	if runErr != nil {
		err = toStatus(s.log, "H3ShortestPath", runErr)
		return err
	}
	defer release()

	rec, encErr := encode.ShortestPathRows(results)
	if encErr != nil {
		err = toStatus(s.log, "H3ShortestPath", encErr)
		return err
	}
	defer rec.Release()

	chunks, chunkErr := encode.ChunkIPCBytes(rec)
	if chunkErr != nil {
		err = toStatus(s.log, "H3ShortestPath", chunkErr)
		return err
	}
	err = sendChunks(stream, chunks, "")
	return err
}

func (s *Server) H3ShortestPathRoutes(req *rout3pb.H3ShortestPathRequest, stream rout3pb.RouteService_H3ShortestPathRoutesServer) (err error) {
	start := time.Now()
	defer s.logRPC("H3ShortestPathRoutes", start, &err)

	results, release, runErr := s.runShortestPath(stream.Context(), req)
	if runErr != nil {
		err = toStatus(s.log, "H3ShortestPathRoutes", runErr)
		return err
	}
	defer release()

	for _, row := range results {
		for _, p := range row {
			if !p.Reached {
				continue
			}
			if cerr := stream.Context().Err(); cerr != nil {
				err = cerr
				return err
			}
			wkb, wkbErr := encode.RouteWKB(p.Cells, req.Smoothen)
			if wkbErr != nil {
				err = toStatus(s.log, "H3ShortestPathRoutes", wkbErr)
				return err
			}
			sendErr := stream.Send(&rout3pb.RouteWKB{
				Origin:         uint64(p.Origin),
				Destination:    uint64(p.Destination),
				DurationSecs:   p.CostSecs,
				LengthM:        p.LengthM,
				EdgePreference: p.AvgPreference,
				WKB:            wkb,
			})
			if sendErr != nil {
				err = sendErr
				return err
			}
		}
	}
	return nil
}

func (s *Server) h3ShortestPathCellsOrEdges(req *rout3pb.H3ShortestPathRequest, send func(*rout3pb.RouteH3Indexes) error, ctx context.Context, edges bool, method string) (err error) {
	results, release, runErr := s.runShortestPath(ctx, req)
	if runErr != nil {
		return toStatus(s.log, method, runErr)
	}
	defer release()

	for _, row := range results {
		for _, p := range row {
			if !p.Reached {
				continue
			}
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			var indexes []uint64
			if edges {
				indexes = encode.RouteEdges(p.Cells)
			} else {
				indexes = encode.RouteH3Indexes(p.Cells)
			}
			if sendErr := send(&rout3pb.RouteH3Indexes{
				Origin:         uint64(p.Origin),
				Destination:    uint64(p.Destination),
				DurationSecs:   p.CostSecs,
				LengthM:        p.LengthM,
				EdgePreference: p.AvgPreference,
				H3Indexes:      indexes,
			}); sendErr != nil {
				return sendErr
			}
		}
	}
	return nil
}

func (s *Server) H3ShortestPathCells(req *rout3pb.H3ShortestPathRequest, stream rout3pb.RouteService_H3ShortestPathCellsServer) (err error) {
	start := time.Now()
	defer s.logRPC("H3ShortestPathCells", start, &err)
	err = s.h3ShortestPathCellsOrEdges(req, stream.Send, stream.Context(), false, "H3ShortestPathCells")
	return err
}

func (s *Server) H3ShortestPathEdges(req *rout3pb.H3ShortestPathRequest, stream rout3pb.RouteService_H3ShortestPathEdgesServer) (err error) {
	start := time.Now()
	defer s.logRPC("H3ShortestPathEdges", start, &err)
	err = s.h3ShortestPathCellsOrEdges(req, stream.Send, stream.Context(), true, "H3ShortestPathEdges")
	return err
}

// arrowChunkStream is the common shape of every RPC that streams
// chunked Arrow IPC tabular output, letting sendChunks serve all four
// of them without duplicating the chunk/cancellation loop.
type arrowChunkStream interface {
	Send(*rout3pb.ArrowIPCChunk) error
	grpc.ServerStream
}

// sendChunks streams chunks in order, attaching objectID (if any) to
// the terminal chunk, checking for cancellation between sends rather
// than mid-computation.
func sendChunks(stream arrowChunkStream, chunks [][]byte, objectID string) error {
	for i, c := range chunks {
		if err := stream.Context().Err(); err != nil {
			return err
		}
		chunk := &rout3pb.ArrowIPCChunk{Data: c}
		if i == len(chunks)-1 {
			chunk.ObjectID = objectID
		}
		if err := stream.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}
