package clean

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/argentumzz/movie/pkg/frame"
)

// Cast converts Column to kind To. A value that does not convert fails the
// step with the offending row; nulls fail Int and Bool targets.
type Cast struct {
	Column string
	To     frame.Kind
}

func (t *Cast) Name() string { return "cast" }

func (t *Cast) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, err := f.Lookup(t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	if col.Kind() == t.To {
		return f, nil
	}
	out, err := frame.NewColumn(t.Column, t.To, col.Len())
	if err != nil {
		return nil, &frame.Error{Op: t.Name(), Column: t.Column, Err: frame.ErrTypeCastFailure, Detail: err.Error()}
	}
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			if t.To == frame.KindInt || t.To == frame.KindBool {
				return nil, &frame.Error{Op: t.Name(), Column: t.Column, Row: i + 1, Err: frame.ErrTypeCastFailure, Detail: "null value"}
			}
			continue
		}
		v, err := convert(col.Value(i), t.To)
		if err != nil {
			return nil, &frame.Error{Op: t.Name(), Column: t.Column, Row: i + 1, Err: frame.ErrTypeCastFailure, Detail: fmt.Sprintf("%q: %v", frame.Text(col, i), err)}
		}
		if err := setCell(out, i, v); err != nil {
			return nil, err
		}
	}
	return f.WithColumn(out)
}

func convert(v any, to frame.Kind) (any, error) {
	switch to {
	case frame.KindInt:
		if s, ok := v.(string); ok {
			return parseInt(s)
		}
		return cast.ToInt64E(v)
	case frame.KindFloat:
		if s, ok := v.(string); ok {
			v = strings.TrimSpace(s)
		}
		return cast.ToFloat64E(v)
	case frame.KindBool:
		if s, ok := v.(string); ok {
			v = strings.ToLower(strings.TrimSpace(s))
		}
		return cast.ToBoolE(v)
	case frame.KindString:
		if l, ok := v.([]string); ok {
			return "[" + strings.Join(l, ", ") + "]", nil
		}
		if tm, ok := v.(time.Time); ok {
			return tm.Format(frame.DateLayout), nil
		}
		return cast.ToStringE(v)
	case frame.KindTime:
		return toTime(v)
	}
	return nil, fmt.Errorf("unsupported target kind %s", to)
}

// parseInt reads base-10 integers; "862.0" is accepted, "862.5" is not.
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	x, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, err
	}
	if x != math.Trunc(x) || math.Abs(x) >= 1<<63 {
		return 0, fmt.Errorf("not an integer")
	}
	return int64(x), nil
}

func toTime(v any) (time.Time, error) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	return cast.ToTimeInDefaultLocationE(v, time.UTC)
}

func setCell(c frame.Column, i int, v any) error {
	switch col := c.(type) {
	case *frame.IntColumn:
		col.Set(i, v.(int64))
	case *frame.FloatColumn:
		col.Set(i, v.(float64))
	case *frame.BoolColumn:
		col.Set(i, v.(bool))
	case *frame.StringColumn:
		col.Set(i, v.(string))
	case *frame.TimeColumn:
		col.Set(i, v.(time.Time))
	default:
		return &frame.Error{Op: "cast", Column: c.Name(), Err: frame.ErrTypeCastFailure, Detail: "unsupported target " + c.Kind().String()}
	}
	return nil
}

// ExtractYear replaces a date column (time or date text) with its calendar
// year as an int column. Nulls stay null.
type ExtractYear struct{ Column string }

func (t *ExtractYear) Name() string { return "extract_year" }

func (t *ExtractYear) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, err := f.Lookup(t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	out := frame.NewIntColumn(t.Column, col.Len())
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		tm, err := toTime(col.Value(i))
		if err != nil {
			return nil, &frame.Error{Op: t.Name(), Column: t.Column, Row: i + 1, Err: frame.ErrTypeCastFailure, Detail: fmt.Sprintf("%q: %v", frame.Text(col, i), err)}
		}
		out.Set(i, int64(tm.Year()))
	}
	return f.WithColumn(out)
}
