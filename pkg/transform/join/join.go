// Package join combines two frames on a shared key column.
package join

import (
	"fmt"
	"strings"

	"github.com/argentumzz/movie/pkg/frame"
)

type Mode int

const (
	Inner Mode = iota
	Left
	Right
	Outer
)

func (m Mode) String() string {
	switch m {
	case Inner:
		return "inner"
	case Left:
		return "left"
	case Right:
		return "right"
	case Outer:
		return "outer"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps "inner", "left", "right" or "outer" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inner":
		return Inner, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "outer", "full":
		return Outer, nil
	}
	return Inner, &frame.Error{Op: "join", Detail: fmt.Sprintf("%q", s), Err: frame.ErrInvalidJoinMode}
}

// Join merges left and right on key. Output columns are the left columns in
// order followed by the right columns other than key; clashing names get _x
// and _y suffixes. Rows follow left order with each left row's matches in
// right order; unmatched right rows (Right, Outer) come last. Null keys never
// match.
func Join(left, right *frame.Frame, mode Mode, key string) (*frame.Frame, error) {
	if mode < Inner || mode > Outer {
		return nil, &frame.Error{Op: "join", Detail: mode.String(), Err: frame.ErrInvalidJoinMode}
	}
	lk, err := left.Lookup("join", key)
	if err != nil {
		return nil, err
	}
	rk, err := right.Lookup("join", key)
	if err != nil {
		return nil, err
	}
	if lk.Kind().Numeric() != rk.Kind().Numeric() || (!lk.Kind().Numeric() && lk.Kind() != rk.Kind()) {
		return nil, &frame.Error{Op: "join", Column: key, Err: frame.ErrIncompatibleKeys,
			Detail: lk.Kind().String() + " vs " + rk.Kind().String()}
	}

	index := make(map[any][]int)
	for i := 0; i < rk.Len(); i++ {
		if k, ok := frame.Key(rk, i); ok {
			index[k] = append(index[k], i)
		}
	}

	var lrows, rrows []int
	matched := make([]bool, right.Rows())
	for i := 0; i < lk.Len(); i++ {
		var hits []int
		if k, ok := frame.Key(lk, i); ok {
			hits = index[k]
		}
		for _, j := range hits {
			lrows = append(lrows, i)
			rrows = append(rrows, j)
			matched[j] = true
		}
		if len(hits) == 0 && (mode == Left || mode == Outer) {
			lrows = append(lrows, i)
			rrows = append(rrows, -1)
		}
	}
	if mode == Right || mode == Outer {
		for j, m := range matched {
			if !m {
				lrows = append(lrows, -1)
				rrows = append(rrows, j)
			}
		}
	}
	return assemble(left, right, key, lrows, rrows)
}

func assemble(left, right *frame.Frame, key string, lrows, rrows []int) (*frame.Frame, error) {
	lt := left.Take(lrows)
	rt := right.Take(rrows)
	rnames := make(map[string]bool, right.Cols())
	for _, n := range right.Schema().Names() {
		rnames[n] = true
	}
	lnames := make(map[string]bool, left.Cols())
	for _, n := range left.Schema().Names() {
		lnames[n] = true
	}

	var cols []frame.Column
	for _, c := range lt.Columns() {
		switch {
		case c.Name() == key:
			rc, _ := rt.ColumnByName(key)
			k, err := coalesce(c, rc)
			if err != nil {
				return nil, err
			}
			cols = append(cols, k)
		case rnames[c.Name()]:
			cols = append(cols, frame.WithName(c, c.Name()+"_x"))
		default:
			cols = append(cols, c)
		}
	}
	for _, c := range rt.Columns() {
		switch {
		case c.Name() == key:
		case lnames[c.Name()]:
			cols = append(cols, frame.WithName(c, c.Name()+"_y"))
		default:
			cols = append(cols, c)
		}
	}
	out, err := frame.FromColumns(cols...)
	if err != nil {
		return nil, fmt.Errorf("join on %q: %w", key, err)
	}
	return out, nil
}

// coalesce fills the null cells of l (unmatched right rows) from r. An int
// key meeting a float key widens to float.
func coalesce(l, r frame.Column) (frame.Column, error) {
	k := frame.Widen(l.Kind(), r.Kind())
	l, err := frame.Convert(l, k)
	if err != nil {
		return nil, err
	}
	r, err = frame.Convert(r, k)
	if err != nil {
		return nil, err
	}
	out, err := frame.NewColumn(l.Name(), k, l.Len())
	if err != nil {
		return nil, err
	}
	g, err := frame.FromColumns(out)
	if err != nil {
		return nil, err
	}
	for i := 0; i < l.Len(); i++ {
		v := l.Value(i)
		if v == nil {
			v = r.Value(i)
		}
		if err := g.SetCell(i, l.Name(), v); err != nil {
			return nil, err
		}
	}
	return out, nil
}
