package explode

import (
	"github.com/argentumzz/movie/pkg/frame"
)

type Options struct {
	// IndexColumn, when set, prepends an int column holding each output row's
	// source row position.
	IndexColumn string
}

// Explode emits one row per element of list column, replacing it with a
// string column of the same name. Other cells repeat. A row whose list is
// empty or null is kept once with a null element.
func Explode(f *frame.Frame, column string, opt Options) (*frame.Frame, error) {
	col, err := f.Lookup("explode", column)
	if err != nil {
		return nil, err
	}
	lc, ok := col.(*frame.ListColumn)
	if !ok {
		return nil, &frame.Error{Op: "explode", Column: column, Err: frame.ErrTypeCastFailure, Detail: "not a list column: " + col.Kind().String()}
	}
	var rows []int
	var elems []*string
	for i := 0; i < lc.Len(); i++ {
		list, ok := lc.Get(i)
		if !ok || len(list) == 0 {
			rows = append(rows, i)
			elems = append(elems, nil)
			continue
		}
		for k := range list {
			rows = append(rows, i)
			elems = append(elems, &list[k])
		}
	}

	taken := f.Take(rows)
	flat := frame.NewStringColumn(column, len(rows))
	for k, e := range elems {
		if e != nil {
			flat.Set(k, *e)
		}
	}
	var cols []frame.Column
	if opt.IndexColumn != "" {
		idx := frame.NewIntColumn(opt.IndexColumn, len(rows))
		for k, r := range rows {
			idx.Set(k, int64(r))
		}
		cols = append(cols, idx)
	}
	for _, c := range taken.Columns() {
		if c.Name() == column {
			cols = append(cols, flat)
			continue
		}
		cols = append(cols, c)
	}
	return frame.FromColumns(cols...)
}
