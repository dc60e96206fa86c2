package rpcserver

import (
	"time"

	"github.com/lintang-b-s/rout3go/api/rout3pb"
	"github.com/lintang-b-s/rout3go/internal/encode"
	"github.com/lintang-b-s/rout3go/internal/routing"
	"github.com/lintang-b-s/rout3go/internal/rpcerr"
)

// H3CellsWithinThreshold streams every cell reachable from any
// requested origin within a travel-duration ceiling.
func (s *Server) H3CellsWithinThreshold(req *rout3pb.H3WithinThresholdRequest, stream rout3pb.RouteService_H3CellsWithinThresholdServer) (err error) {
	start := time.Now()
	defer s.logRPC("H3CellsWithinThreshold", start, &err)

	if req.GraphName == "" {
		err = toStatus(s.log, "H3CellsWithinThreshold", invalidArgumentf("rpcserver: graph_name is required"))
		return err
	}
	g, release, resolveErr := s.resolveGraph(stream.Context(), req.GraphName)
	if resolveErr != nil {
		err = toStatus(s.log, "H3CellsWithinThreshold", resolveErr)
		return err
	}
	defer release()

	factor, modeErr := s.cfg.RoutingModeFactor(req.RoutingMode)
	if modeErr != nil {
		err = toStatus(s.log, "H3CellsWithinThreshold", &rpcerr.InvalidArgumentError{Cause: modeErr})
		return err
	}

	origins, snapErr := snapCells(g, req.Origins, defaultSnapRings, "origin")
	if snapErr != nil {
		err = toStatus(s.log, "H3CellsWithinThreshold", snapErr)
		return err
	}

	hits := routing.WithinThreshold(g, origins, resolveMode(req.RoutingMode, factor), req.TravelDurationSecsThreshold)

	rec, encErr := encode.WithinThresholdRows(hits)
	if encErr != nil {
		err = toStatus(s.log, "H3CellsWithinThreshold", encErr)
		return err
	}
	defer rec.Release()

	chunks, chunkErr := encode.ChunkIPCBytes(rec)
	if chunkErr != nil {
		err = toStatus(s.log, "H3CellsWithinThreshold", chunkErr)
		return err
	}
	err = sendChunks(stream, chunks, "")
	return err
}
