package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStorageError(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewStorageError("list users", cause)

	assert.Equal(t, "storage error: list users: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrMapping)
	assert.Equal(t, codes.Unavailable, err.GRPCStatus().Code())
}

func TestMappingError(t *testing.T) {
	cause := stderrors.New("converting NULL to int64 is unsupported")
	err := NewMappingError(2, "id", cause)

	assert.Equal(t, `mapping error: row 2: column "id": converting NULL to int64 is unsupported`, err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrMapping)
	assert.NotErrorIs(t, err, ErrStorage)
	assert.Equal(t, codes.DataLoss, err.GRPCStatus().Code())
}

func TestMappingError_ResultSetLevel(t *testing.T) {
	err := NewMappingError(-1, "user_name", stderrors.New("column missing"))
	assert.Equal(t, `mapping error: column "user_name": column missing`, err.Error())
}

func TestIsHelpers_Wrapped(t *testing.T) {
	storage := fmt.Errorf("usecase: %w", NewStorageError("list users", nil))
	mapping := fmt.Errorf("usecase: %w", NewMappingError(0, "id", nil))

	assert.True(t, IsStorageError(storage))
	assert.False(t, IsMappingError(storage))
	assert.True(t, IsMappingError(mapping))
	assert.False(t, IsStorageError(mapping))
	assert.False(t, IsStorageError(stderrors.New("plain")))
}

func TestGRPCStatusFromError(t *testing.T) {
	var err error = NewStorageError("list users", stderrors.New("boom"))

	st, ok := status.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, codes.Unavailable, st.Code())
}
