// Package stats computes the scalar summaries reported for a frame.
package stats

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/argentumzz/movie/pkg/frame"
)

// UniqueCount returns the number of distinct non-null values in column.
func UniqueCount(f *frame.Frame, column string) (int, error) {
	col, err := f.Lookup("unique_count", column)
	if err != nil {
		return 0, err
	}
	seen := make(map[any]struct{})
	for i := 0; i < col.Len(); i++ {
		if k, ok := frame.Key(col, i); ok {
			seen[k] = struct{}{}
		}
	}
	return len(seen), nil
}

// Mean returns the mean of the non-null values of a numeric column, rounded
// to two places.
func Mean(f *frame.Frame, column string) (float64, error) {
	col, err := f.Lookup("mean", column)
	if err != nil {
		return 0, err
	}
	return MeanOf(col)
}

// MeanOf is Mean for a column already in hand.
func MeanOf(col frame.Column) (float64, error) {
	xs, ok := frame.Floats(col)
	if !ok {
		return 0, &frame.Error{Op: "mean", Column: col.Name(), Err: frame.ErrNotNumeric, Detail: col.Kind().String()}
	}
	if len(xs) == 0 {
		return 0, &frame.Error{Op: "mean", Column: col.Name(), Err: frame.ErrNoValues}
	}
	return Round2(stat.Mean(xs, nil)), nil
}

// Round2 rounds x to two decimal places, halves to even, working on the
// shortest decimal form of x so 2.675 rounds to 2.68.
func Round2(x float64) float64 {
	return decimal.NewFromFloat(x).RoundBank(2).InexactFloat64()
}

type ColumnCount struct {
	Column string `json:"column"`
	Nulls  int    `json:"nulls"`
}

// NullCounts reports the null count of every column in schema order.
func NullCounts(f *frame.Frame) []ColumnCount {
	cols := f.Columns()
	out := make([]ColumnCount, len(cols))
	for i, c := range cols {
		out[i] = ColumnCount{Column: c.Name(), Nulls: frame.NullCount(c)}
	}
	return out
}
