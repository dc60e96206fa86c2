// Package rpcerr converts internal errors to gRPC status codes at the
// RPC boundary: not-found maps to NotFound, malformed input to
// InvalidArgument, everything else to Internal, with the cause always
// logged first.
package rpcerr

import (
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lintang-b-s/rout3go/internal/objectstore"
)

// Coder lets a domain error opt into a specific status code instead of
// the Internal default; errors that don't implement it fall through to
// the not-found/invalid-argument/internal classification below.
type Coder interface {
	error
	Code() codes.Code
}

// NotFoundError wraps a cause as a NotFound status.
type NotFoundError struct{ Cause error }

func (e *NotFoundError) Error() string       { return e.Cause.Error() }
func (e *NotFoundError) Unwrap() error       { return e.Cause }
func (e *NotFoundError) Code() codes.Code    { return codes.NotFound }

// InvalidArgumentError wraps a cause as an InvalidArgument status.
type InvalidArgumentError struct{ Cause error }

func (e *InvalidArgumentError) Error() string    { return e.Cause.Error() }
func (e *InvalidArgumentError) Unwrap() error    { return e.Cause }
func (e *InvalidArgumentError) Code() codes.Code { return codes.InvalidArgument }

// ToStatus converts err into a gRPC status error, logging the cause at
// the given logger before returning. nil in, nil out.
func ToStatus(log *zap.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	log.Error("rpc failed", zap.String("op", op), zap.Error(err))

	var coder Coder
	if errors.As(err, &coder) {
		return status.Error(coder.Code(), err.Error())
	}
	if errors.Is(err, objectstore.ErrNotFound) {
		return status.Error(codes.NotFound, "not found")
	}
	return status.Error(codes.Internal, err.Error())
}
