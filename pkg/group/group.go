// Package group partitions a frame by a key column and summarizes each
// partition.
package group

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/argentumzz/movie/pkg/frame"
	"github.com/argentumzz/movie/pkg/stats"
)

// Group is one partition's summary. Key holds the partition's value as read
// from the frame (int64, float64, string, ...).
type Group struct {
	Key   any     `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Groups is an ordered key -> value mapping.
type Groups []Group

// GroupAndSort partitions f by groupKey and reports the rounded mean of
// valueColumn per partition, highest first. Ties are ordered by key. Rows
// with a null key are dropped.
func GroupAndSort(f *frame.Frame, groupKey, valueColumn string) (Groups, error) {
	kc, err := f.Lookup("group", groupKey)
	if err != nil {
		return nil, err
	}
	vc, err := f.Lookup("group", valueColumn)
	if err != nil {
		return nil, err
	}
	if !vc.Kind().Numeric() {
		return nil, &frame.Error{Op: "group", Column: valueColumn, Err: frame.ErrNotNumeric, Detail: vc.Kind().String()}
	}
	type acc struct {
		key   any
		xs    []float64
		count int
	}
	var order []*acc
	byKey := make(map[any]*acc)
	for i := 0; i < kc.Len(); i++ {
		k, ok := frame.Key(kc, i)
		if !ok {
			continue
		}
		a := byKey[k]
		if a == nil {
			a = &acc{key: kc.Value(i)}
			byKey[k] = a
			order = append(order, a)
		}
		a.count++
		if v, ok := frame.Float(vc, i); ok {
			a.xs = append(a.xs, v)
		}
	}
	out := make(Groups, 0, len(order))
	for _, a := range order {
		// partitions without values have no mean and are not ranked
		if len(a.xs) == 0 {
			continue
		}
		out = append(out, Group{Key: a.key, Value: stats.Round2(stat.Mean(a.xs, nil)), Count: a.count})
	}
	out.SortByValueDesc()
	return out, nil
}

// Count reports, per groupKey value, how many rows have a non-null column
// value. Groups come back in ascending key order.
func Count(f *frame.Frame, groupKey, column string) (Groups, error) {
	kc, err := f.Lookup("count", groupKey)
	if err != nil {
		return nil, err
	}
	vc, err := f.Lookup("count", column)
	if err != nil {
		return nil, err
	}
	idx := make(map[any]int)
	var out Groups
	for i := 0; i < kc.Len(); i++ {
		k, ok := frame.Key(kc, i)
		if !ok {
			continue
		}
		j, seen := idx[k]
		if !seen {
			j = len(out)
			idx[k] = j
			out = append(out, Group{Key: kc.Value(i)})
		}
		if !vc.IsNull(i) {
			out[j].Count++
			out[j].Value++
		}
	}
	out.SortByKey()
	return out, nil
}

// SortByKey orders g by key, ascending.
func (g Groups) SortByKey() {
	sort.SliceStable(g, func(a, b int) bool { return less(g[a].Key, g[b].Key) })
}

// SortByValueDesc orders g by Value, highest first, breaking ties by key.
func (g Groups) SortByValueDesc() {
	sort.SliceStable(g, func(a, b int) bool {
		if g[a].Value != g[b].Value {
			return g[a].Value > g[b].Value
		}
		return less(g[a].Key, g[b].Key)
	})
}

// Top returns the first n groups, or all of them when n <= 0 or exceeds len(g).
func (g Groups) Top(n int) Groups {
	if n <= 0 || n > len(g) {
		return g
	}
	return g[:n]
}

// less orders keys numerically when both are numbers and by text otherwise.
func less(a, b any) bool {
	fa, aNum := number(a)
	fb, bNum := number(b)
	switch {
	case aNum && bNum:
		return fa < fb
	case aNum != bNum:
		return aNum
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}
