package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is how time cells are rendered as text.
const DateLayout = "2006-01-02"

// Take returns a new Frame holding the given rows in the given order.
// A row index of -1 produces an all-null row.
func (f *Frame) Take(rows []int) *Frame {
	out := &Frame{cols: make([]Column, len(f.cols)), index: make(map[string]int, len(f.cols)), nrows: len(rows)}
	for i, c := range f.cols {
		out.cols[i] = c.take(c.Name(), rows)
		out.index[c.Name()] = i
	}
	return out
}

// Clone deep-copies the Frame.
func (f *Frame) Clone() *Frame { return f.Take(seq(f.nrows)) }

// Head returns the first n rows.
func (f *Frame) Head(n int) *Frame {
	if n > f.nrows {
		n = f.nrows
	}
	if n < 0 {
		n = 0
	}
	return f.Take(seq(n))
}

// Filter keeps the rows for which keep returns true, preserving order.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	rows := make([]int, 0, f.nrows)
	for r := 0; r < f.nrows; r++ {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return f.Take(rows)
}

// Select projects the named columns, in the order given.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		c, err := f.Lookup("select", n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c.take(n, seq(f.nrows)))
	}
	out, err := FromColumns(cols...)
	if err != nil {
		return nil, err
	}
	out.nrows = f.nrows
	return out, nil
}

// Rename returns a copy with column from renamed to to.
func (f *Frame) Rename(from, to string) (*Frame, error) {
	i, ok := f.index[from]
	if !ok {
		return nil, &Error{Op: "rename", Column: from, Err: ErrColumnNotFound}
	}
	if j, taken := f.index[to]; taken && j != i {
		return nil, fmt.Errorf("rename %q: column %q already exists", from, to)
	}
	out := f.Clone()
	out.cols[i] = out.cols[i].take(to, seq(f.nrows))
	delete(out.index, from)
	out.index[to] = i
	return out, nil
}

// WithColumn returns a copy where c replaces the column of the same name,
// or is appended when no such column exists.
func (f *Frame) WithColumn(c Column) (*Frame, error) {
	if len(f.cols) > 0 && c.Len() != f.nrows {
		return nil, fmt.Errorf("column %s has %d rows, want %d", c.Name(), c.Len(), f.nrows)
	}
	out := f.Clone()
	if i, ok := out.index[c.Name()]; ok {
		out.cols[i] = c
		return out, nil
	}
	out.index[c.Name()] = len(out.cols)
	out.cols = append(out.cols, c)
	out.nrows = c.Len()
	return out, nil
}

// WithName returns a copy of c under a new name.
func WithName(c Column, name string) Column { return c.take(name, seq(c.Len())) }

// Drop returns a copy without the named columns; unknown names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	keep := make([]Column, 0, len(f.cols))
	for _, c := range f.cols {
		if !skip[c.Name()] {
			keep = append(keep, c.take(c.Name(), seq(f.nrows)))
		}
	}
	out, _ := FromColumns(keep...)
	out.nrows = f.nrows
	return out
}

// Row returns one row as column name -> value (nil for null).
func (f *Frame) Row(i int) map[string]any {
	m := make(map[string]any, len(f.cols))
	for _, c := range f.cols {
		m[c.Name()] = c.Value(i)
	}
	return m
}

// Text renders a cell the way it would appear in a delimited file; nulls render as "".
func Text(c Column, i int) string {
	if c.IsNull(i) {
		return ""
	}
	switch v := c.Value(i).(type) {
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(DateLayout)
		}
		return v.Format(time.RFC3339)
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	}
	return fmt.Sprint(c.Value(i))
}

// Key returns a comparable grouping/matching key for a cell. Integral floats
// share keys with the equal int so that 862 and 862.0 match. ok is false for nulls.
func Key(c Column, i int) (key any, ok bool) {
	if c.IsNull(i) {
		return nil, false
	}
	switch v := c.Value(i).(type) {
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int64(v), true
		}
		return v, true
	case time.Time:
		return v.UnixNano(), true
	case []string:
		return strings.Join(v, "\x00"), true
	default:
		return v, true
	}
}

// Floats returns the non-null values of a numeric column as float64.
func Floats(c Column) ([]float64, bool) {
	switch col := c.(type) {
	case *IntColumn:
		out := make([]float64, 0, col.Len())
		for i := 0; i < col.Len(); i++ {
			if v, ok := col.Get(i); ok {
				out = append(out, float64(v))
			}
		}
		return out, true
	case *FloatColumn:
		out := make([]float64, 0, col.Len())
		for i := 0; i < col.Len(); i++ {
			if v, ok := col.Get(i); ok {
				out = append(out, v)
			}
		}
		return out, true
	}
	return nil, false
}

// Float returns the numeric cell value of an Int or Float column.
func Float(c Column, i int) (float64, bool) {
	switch col := c.(type) {
	case *IntColumn:
		v, ok := col.Get(i)
		return float64(v), ok
	case *FloatColumn:
		return col.Get(i)
	}
	return 0, false
}

// NullCount counts null cells in c.
func NullCount(c Column) int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
