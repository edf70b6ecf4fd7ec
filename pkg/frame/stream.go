package frame

import (
	"fmt"
	"io"
)

// ChunkSource yields frames in chunks until io.EOF.
type ChunkSource interface {
	Next() (*Frame, error)
}

// Collect drains src into a single Frame. Chunks must share column names;
// when their inferred kinds disagree the column is widened (int -> float -> string).
func Collect(src ChunkSource) (*Frame, error) {
	var acc *Frame
	for {
		f, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = f
			continue
		}
		if acc, err = Concat(acc, f); err != nil {
			return nil, err
		}
	}
	if acc == nil {
		return nil, io.EOF
	}
	return acc, nil
}

// Concat stacks b under a. Both must have the same column names in the same
// order. A column with no values on one side takes the other side's kind.
func Concat(a, b *Frame) (*Frame, error) {
	if len(a.cols) != len(b.cols) {
		return nil, fmt.Errorf("concat: %d columns vs %d", len(a.cols), len(b.cols))
	}
	cols := make([]Column, len(a.cols))
	for i := range a.cols {
		ca, cb := a.cols[i], b.cols[i]
		if ca.Name() != cb.Name() {
			return nil, fmt.Errorf("concat: column %d is %q vs %q", i, ca.Name(), cb.Name())
		}
		var err error
		switch {
		case ca.Kind() == cb.Kind():
		case NullCount(cb) == cb.Len():
			if cb, err = NewColumn(cb.Name(), ca.Kind(), cb.Len()); err != nil {
				return nil, err
			}
		case NullCount(ca) == ca.Len():
			if ca, err = NewColumn(ca.Name(), cb.Kind(), ca.Len()); err != nil {
				return nil, err
			}
		}
		k := Widen(ca.Kind(), cb.Kind())
		if ca, err = Convert(ca, k); err != nil {
			return nil, err
		}
		if cb, err = Convert(cb, k); err != nil {
			return nil, err
		}
		cols[i] = appendColumn(ca, cb)
	}
	out, err := FromColumns(cols...)
	if err != nil {
		return nil, err
	}
	out.nrows = a.nrows + b.nrows
	return out, nil
}

// Widen returns the narrowest kind both a and b can be represented in.
func Widen(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case a.Numeric() && b.Numeric():
		return KindFloat
	default:
		return KindString
	}
}

// Convert losslessly re-types c to a wider kind: int -> float, anything -> string.
func Convert(c Column, k Kind) (Column, error) {
	if c.Kind() == k {
		return c, nil
	}
	switch k {
	case KindFloat:
		ic, ok := c.(*IntColumn)
		if !ok {
			break
		}
		out := NewFloatColumn(c.Name(), c.Len())
		for i := 0; i < ic.Len(); i++ {
			if v, ok := ic.Get(i); ok {
				out.Set(i, float64(v))
			}
		}
		return out, nil
	case KindString:
		out := NewStringColumn(c.Name(), c.Len())
		for i := 0; i < c.Len(); i++ {
			if !c.IsNull(i) {
				out.Set(i, Text(c, i))
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot widen column %s from %s to %s", c.Name(), c.Kind(), k)
}

func appendColumn(a, b Column) Column {
	switch ca := a.(type) {
	case *BoolColumn:
		cb := b.(*BoolColumn)
		return &BoolColumn{name: ca.name, data: append(append([]bool{}, ca.data...), cb.data...), nulls: append(append([]bool{}, ca.nulls...), cb.nulls...)}
	case *IntColumn:
		cb := b.(*IntColumn)
		return &IntColumn{name: ca.name, data: append(append([]int64{}, ca.data...), cb.data...), nulls: append(append([]bool{}, ca.nulls...), cb.nulls...)}
	case *FloatColumn:
		cb := b.(*FloatColumn)
		return &FloatColumn{name: ca.name, data: append(append([]float64{}, ca.data...), cb.data...), nulls: append(append([]bool{}, ca.nulls...), cb.nulls...)}
	case *StringColumn:
		cb := b.(*StringColumn)
		return &StringColumn{name: ca.name, data: append(append([]string{}, ca.data...), cb.data...), nulls: append(append([]bool{}, ca.nulls...), cb.nulls...)}
	case *TimeColumn:
		cb := b.(*TimeColumn)
		out := &TimeColumn{name: ca.name, nulls: append(append([]bool{}, ca.nulls...), cb.nulls...)}
		out.data = append(append(out.data, ca.data...), cb.data...)
		return out
	case *ListColumn:
		cb := b.(*ListColumn)
		out := &ListColumn{name: ca.name, nulls: append(append([]bool{}, ca.nulls...), cb.nulls...)}
		out.data = append(append(out.data, ca.data...), cb.data...)
		return out
	}
	panic("unknown column type")
}
