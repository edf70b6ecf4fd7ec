package frame

import (
	"errors"
	"fmt"
)

// Failure classes shared by every stage. Match them with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrParseFailure     = errors.New("parse failure")
	ErrColumnNotFound   = errors.New("column not found")
	ErrNotNumeric       = errors.New("column is not numeric")
	ErrTypeCastFailure  = errors.New("type cast failure")
	ErrMalformedJSON    = errors.New("malformed json")
	ErrMissingField     = errors.New("missing field")
	ErrNoValues         = errors.New("no non-null values")
	ErrIncompatibleKeys = errors.New("incompatible key types")
	ErrInvalidJoinMode  = errors.New("invalid join mode")
	ErrOutOfRange       = errors.New("value out of range")
)

// Error records the operation and column a failure belongs to.
type Error struct {
	Op     string
	Column string
	Row    int // 0 when not row specific; otherwise 1-based
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Column != "" {
		msg += fmt.Sprintf(" %q", e.Column)
	}
	if e.Row > 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	msg += ": " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }
