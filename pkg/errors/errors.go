package errors

import (
	stderrors "errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Sentinel kinds, matched with errors.Is.
var (
	ErrStorage = stderrors.New("storage error")
	ErrMapping = stderrors.New("mapping error")
)

// StorageError represents a connection or execution failure at the store boundary.
type StorageError struct {
	Op  string // operation that failed, e.g. "list users"
	Err error  // underlying driver error
}

// NewStorageError creates a new storage error
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{
		Op:  op,
		Err: err,
	}
}

// Error implements the error interface
func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage error: %s", e.Op)
}

// Unwrap returns the wrapped error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the ErrStorage sentinel.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// GRPCStatus returns the gRPC status for this error
func (e *StorageError) GRPCStatus() *status.Status {
	return status.New(codes.Unavailable, e.Error())
}

// MappingError represents a row that could not be converted into a record.
type MappingError struct {
	Row    int    // zero-based index of the offending row, -1 for result-set level failures
	Column string // column name when known
	Err    error
}

// NewMappingError creates a new mapping error
func NewMappingError(row int, column string, err error) *MappingError {
	return &MappingError{
		Row:    row,
		Column: column,
		Err:    err,
	}
}

// Error implements the error interface
func (e *MappingError) Error() string {
	msg := "mapping error"
	if e.Row >= 0 {
		msg = fmt.Sprintf("%s: row %d", msg, e.Row)
	}
	if e.Column != "" {
		msg = fmt.Sprintf("%s: column %q", msg, e.Column)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error
func (e *MappingError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the ErrMapping sentinel.
func (e *MappingError) Is(target error) bool {
	return target == ErrMapping
}

// GRPCStatus returns the gRPC status for this error
func (e *MappingError) GRPCStatus() *status.Status {
	return status.New(codes.DataLoss, e.Error())
}

// IsStorageError reports whether err is or wraps a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return stderrors.As(err, &se)
}

// IsMappingError reports whether err is or wraps a *MappingError.
func IsMappingError(err error) bool {
	var me *MappingError
	return stderrors.As(err, &me)
}

// GRPCStatuser interface for errors that can provide gRPC status
type GRPCStatuser interface {
	GRPCStatus() *status.Status
}
