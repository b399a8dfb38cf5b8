package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two recoverable failure classes. Both are
// surfaced to the caller as no-ops: the operation is rejected and no
// state changes.
var (
	// ErrInvalidInput indicates a bad argument (empty task name,
	// out-of-range config value, negative elapsed time).
	ErrInvalidInput = errors.New("invalid input")

	// ErrIllegalTransition indicates an operation invoked from a state
	// that does not permit it.
	ErrIllegalTransition = errors.New("illegal transition")
)

// StorageError wraps an I/O failure from the persistence layer. The
// finalize-and-aggregate cycle aborts atomically when one occurs; the
// caller retries or surfaces it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err with the failing operation name. Returns nil
// if err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
