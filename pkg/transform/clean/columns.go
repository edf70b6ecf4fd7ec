package clean

import (
	"context"

	"github.com/argentumzz/movie/pkg/frame"
)

type Rename struct{ From, To string }

func (t *Rename) Name() string { return "rename" }

func (t *Rename) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return f.Rename(t.From, t.To)
}

// Select keeps only Columns, in that order.
type Select struct{ Columns []string }

func (t *Select) Name() string { return "select" }

func (t *Select) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return f.Select(t.Columns...)
}

// DropNulls removes rows holding a null in any of Columns, or in any column
// when Columns is empty.
type DropNulls struct{ Columns []string }

func (t *DropNulls) Name() string { return "drop_nulls" }

func (t *DropNulls) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	cols := f.Columns()
	if len(t.Columns) > 0 {
		cols = cols[:0]
		for _, n := range t.Columns {
			c, err := f.Lookup(t.Name(), n)
			if err != nil {
				return nil, err
			}
			cols = append(cols, c)
		}
	}
	return f.Filter(func(r int) bool {
		for _, c := range cols {
			if c.IsNull(r) {
				return false
			}
		}
		return true
	}), nil
}
