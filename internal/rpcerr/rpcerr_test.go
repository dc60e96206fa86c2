package rpcerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lintang-b-s/rout3go/internal/objectstore"
)

func TestToStatus_NilIsNil(t *testing.T) {
	assert.NoError(t, ToStatus(zap.NewNop(), "op", nil))
}

func TestToStatus_ObjectStoreNotFoundMapsToNotFound(t *testing.T) {
	err := ToStatus(zap.NewNop(), "op", objectstore.ErrNotFound)
	st, ok := status.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, codes.NotFound, st.Code())
}

func TestToStatus_CoderErrorUsesItsCode(t *testing.T) {
	err := ToStatus(zap.NewNop(), "op", &InvalidArgumentError{Cause: errors.New("bad bbox")})
	st, ok := status.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
}

func TestToStatus_UnknownErrorIsInternal(t *testing.T) {
	err := ToStatus(zap.NewNop(), "op", errors.New("boom"))
	st, ok := status.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
}
