package lazyframe

import (
	"errors"
	"fmt"
)

var (
	// ErrNoColumns is returned when a frame is constructed without any
	// column.
	ErrNoColumns = errors.New("at least one column is required")
)

// ErrColumnCountMismatch indicates that the number of column names does
// not match the number of column sources.
type ErrColumnCountMismatch struct {
	Names   int
	Columns int
}

func (e *ErrColumnCountMismatch) Error() string {
	return fmt.Sprintf("column count mismatch: %d names, %d columns", e.Names, e.Columns)
}

// ErrColumnNotFound indicates a column name absent from a frame.
type ErrColumnNotFound struct {
	Name string
}

func (e *ErrColumnNotFound) Error() string {
	return fmt.Sprintf("column not found: %s", e.Name)
}
