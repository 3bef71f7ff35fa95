package db

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every *NotFoundError
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict is returned when a save carries a stale version
	ErrVersionConflict = errors.New("record was modified by another writer")
)

// NotFoundError reports a missing record
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IOError reports a failure of the underlying store
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError wraps err as an IOError, passing nil through
func NewIOError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Err: err}
}
