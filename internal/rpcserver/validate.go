package rpcserver

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
	"github.com/lintang-b-s/rout3go/internal/objectstore"
	"github.com/lintang-b-s/rout3go/internal/roadgraph"
	"github.com/lintang-b-s/rout3go/internal/rpcerr"
	"github.com/lintang-b-s/rout3go/internal/snap"
)

func invalidArgumentf(format string, args ...any) error {
	return &rpcerr.InvalidArgumentError{Cause: fmt.Errorf(format, args...)}
}

// wrapNotFound turns an objectstore.ErrNotFound into an
// rpcerr.NotFoundError, passing any other error through unchanged.
func wrapNotFound(err error, format string, args ...any) error {
	cause := fmt.Errorf(format+": %w", append(args, err)...)
	if errors.Is(err, objectstore.ErrNotFound) {
		return &rpcerr.NotFoundError{Cause: cause}
	}
	return cause
}

// toStatus is rpcerr.ToStatus bound to this server's logger.
func toStatus(log *zap.Logger, op string, err error) error {
	return rpcerr.ToStatus(log, op, err)
}

func toCells(raw []uint64) []h3cell.Cell {
	out := make([]h3cell.Cell, len(raw))
	for i, v := range raw {
		out[i] = h3cell.Cell(v)
	}
	return out
}

func toRaw(cells []h3cell.Cell) []uint64 {
	out := make([]uint64, len(cells))
	for i, c := range cells {
		out[i] = uint64(c)
	}
	return out
}

// snapCells snaps every requested cell to the graph, silently dropping
// cells that no ring up to maxRings can reach, and errors only if
// nothing at all could be snapped - an empty origin or destination set
// makes the RPC meaningless.
func snapCells(g *roadgraph.RoadGraph, raw []uint64, maxRings int, what string) ([]h3cell.Cell, error) {
	if len(raw) == 0 {
		return nil, invalidArgumentf("rpcserver: at least one %s cell is required", what)
	}
	results := snap.ManyToGraph(g, toCells(raw), maxRings)
	out := make([]h3cell.Cell, 0, len(results))
	for _, r := range results {
		if r.Reachable {
			out = append(out, r.Snapped)
		}
	}
	if len(out) == 0 {
		return nil, invalidArgumentf("rpcserver: no %s cell could be snapped to the graph within %d rings", what, maxRings)
	}
	return out, nil
}

func resolveMode(name string, factor float64) roadgraph.Mode {
	return roadgraph.Mode{Name: name, PreferenceFactor: factor}
}
