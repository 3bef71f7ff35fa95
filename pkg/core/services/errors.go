package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMonthClosed is returned when volunteers declare availability for a closed month
	ErrMonthClosed = errors.New("month is not open for availability")
	// ErrMonthOpen is returned when roles are assigned while volunteers can still apply
	ErrMonthOpen = errors.New("month must be closed before roles are assigned")
	// ErrDateNotEnabled is returned when a date is not one of the month's service dates
	ErrDateNotEnabled = errors.New("date is not an enabled service date")
	ErrEmptyName      = errors.New("volunteer name must not be empty")
	ErrDuplicateName  = errors.New("a volunteer with this name already exists")
)

// ArgumentError reports malformed caller input
type ArgumentError struct {
	Field string
	Err   error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

func argumentError(field string, err error) error {
	return &ArgumentError{Field: field, Err: err}
}
