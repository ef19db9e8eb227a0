package domain

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("record not found")
	ErrForbidden  = errors.New("access forbidden: you don't own this resource")
)

// StoreError wraps a failure reported by the underlying document store.
// The cause is surfaced unchanged; retrying is the caller's call.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err originated at the document-store edge.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
