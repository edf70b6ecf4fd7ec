package stats

import (
	"errors"
	"testing"

	"github.com/argentumzz/movie/pkg/frame"
)

func abFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "A", Type: frame.KindInt},
		{Name: "B", Type: frame.KindInt},
		{Name: "S", Type: frame.KindString},
	}})
	for _, r := range [][]any{{10, 1, "x"}, {10, 1, nil}, {30, 2, "y"}, {40, 2, "x"}} {
		if err := f.AppendRow(r...); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestUniqueCount(t *testing.T) {
	f := abFrame(t)
	if n, err := UniqueCount(f, "A"); err != nil || n != 3 {
		t.Fatalf("UniqueCount(A) = %d, %v", n, err)
	}
	if n, err := UniqueCount(f, "S"); err != nil || n != 2 {
		t.Fatalf("UniqueCount(S) = %d, %v; nulls must not count", n, err)
	}
	if _, err := UniqueCount(f, "C"); !errors.Is(err, frame.ErrColumnNotFound) {
		t.Fatalf("expected column not found, got %v", err)
	}
}

func TestMean(t *testing.T) {
	f := abFrame(t)
	if m, err := Mean(f, "A"); err != nil || m != 22.5 {
		t.Fatalf("Mean(A) = %v, %v", m, err)
	}
	if _, err := Mean(f, "S"); !errors.Is(err, frame.ErrNotNumeric) {
		t.Fatalf("expected not numeric, got %v", err)
	}
	if _, err := Mean(f, "C"); !errors.Is(err, frame.ErrColumnNotFound) {
		t.Fatalf("expected column not found, got %v", err)
	}

	r := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{{Name: "rating", Type: frame.KindFloat}}})
	for _, v := range []any{4.0, nil, 3.5, 3.0} {
		_ = r.AppendRow(v)
	}
	if m, err := Mean(r, "rating"); err != nil || m != 3.5 {
		t.Fatalf("Mean(rating) = %v, %v", m, err)
	}

	empty := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{{Name: "rating", Type: frame.KindFloat}}})
	empty.AppendNullRow()
	if _, err := Mean(empty, "rating"); !errors.Is(err, frame.ErrNoValues) {
		t.Fatalf("expected no values, got %v", err)
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		3.14159: 3.14,
		2.675:   2.68,
		2.665:   2.66,
		0.125:   0.12,
		-1.005:  -1,
		10:      10,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Fatalf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestNullCounts(t *testing.T) {
	got := NullCounts(abFrame(t))
	if len(got) != 3 || got[2].Column != "S" || got[2].Nulls != 1 || got[0].Nulls != 0 {
		t.Fatalf("NullCounts = %+v", got)
	}
}
