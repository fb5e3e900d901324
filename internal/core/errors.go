package core

import (
	"errors"
	"fmt"
)

// Structural errors. Any of these aborts the run before aggregation starts.
var (
	ErrTableTooNarrow   = errors.New("recipe table too narrow")
	ErrNoSections       = errors.New("no recipe sections found")
	ErrUnnamedSection   = errors.New("section marker without a name")
	ErrMissingColumn    = errors.New("missing required column")
	ErrEmptyTable       = errors.New("empty table")
	ErrInvalidThreshold = errors.New("invalid similarity threshold")
)

// RowError is a structural error tied to one worksheet row.
type RowError struct {
	Table string // "recipes", "promotions", "sales"
	Line  int    // 1-based worksheet row
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Table, e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
