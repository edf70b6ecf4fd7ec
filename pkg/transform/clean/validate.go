package clean

import (
	"context"
	"fmt"

	"github.com/argentumzz/movie/pkg/frame"
)

// ValidateRange checks that every non-null value of a numeric column lies in
// [Min, Max]; a nil bound is open. The frame passes through unchanged.
type ValidateRange struct {
	Column string
	Min    *float64
	Max    *float64
}

func (t *ValidateRange) Name() string { return "validate_range" }

func (t *ValidateRange) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, err := f.Lookup(t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	if !col.Kind().Numeric() {
		return nil, &frame.Error{Op: t.Name(), Column: t.Column, Err: frame.ErrNotNumeric, Detail: col.Kind().String()}
	}
	var bad, first int
	for i := 0; i < col.Len(); i++ {
		v, ok := frame.Float(col, i)
		if !ok {
			continue
		}
		if (t.Min != nil && v < *t.Min) || (t.Max != nil && v > *t.Max) {
			if bad == 0 {
				first = i + 1
			}
			bad++
		}
	}
	if bad > 0 {
		return nil, &frame.Error{Op: t.Name(), Column: t.Column, Row: first, Err: frame.ErrOutOfRange,
			Detail: fmt.Sprintf("%d values outside %s", bad, t.bounds())}
	}
	return f, nil
}

func (t *ValidateRange) bounds() string {
	lo, hi := "-inf", "+inf"
	if t.Min != nil {
		lo = fmt.Sprint(*t.Min)
	}
	if t.Max != nil {
		hi = fmt.Sprint(*t.Max)
	}
	return "[" + lo + ", " + hi + "]"
}

// Between is shorthand for a closed ValidateRange.
func Between(column string, lo, hi float64) *ValidateRange {
	return &ValidateRange{Column: column, Min: &lo, Max: &hi}
}
