package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound The requested id does not exist in the collection
	ErrNotFound = errors.New("record not found")

	// ErrStorageUnavailable The snapshot could not be read, parsed or written, or the
	// write lock could not be acquired in time
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrValidation A required field is missing or blank
	ErrValidation = errors.New("invalid record")
)

// StorageError Describes a failed snapshot operation. It matches [ErrStorageUnavailable]
// with [errors.Is] and unwraps to the underlying cause
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageUnavailable, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// ValidationError Names the field that failed validation. It matches [ErrValidation]
// with [errors.Is]
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s must not be blank", ErrValidation, e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
