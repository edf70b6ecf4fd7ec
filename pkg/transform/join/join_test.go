package join

import (
	"errors"
	"testing"

	"github.com/argentumzz/movie/pkg/frame"
)

func build(t *testing.T, cols []frame.ColumnSchema, rows ...[]any) *frame.Frame {
	t.Helper()
	f := frame.NewFrame(frame.Schema{Columns: cols})
	for _, r := range rows {
		if err := f.AppendRow(r...); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func fixtures(t *testing.T) (*frame.Frame, *frame.Frame) {
	ratings := build(t, []frame.ColumnSchema{
		{Name: "movieId", Type: frame.KindInt},
		{Name: "rating", Type: frame.KindFloat},
		{Name: "title", Type: frame.KindString},
	},
		[]any{1, 4.0, "A"},
		[]any{2, 3.0, "B"},
		[]any{2, 5.0, "B"},
		[]any{4, 1.0, "D"},
	)
	links := build(t, []frame.ColumnSchema{
		{Name: "movieId", Type: frame.KindInt},
		{Name: "tmdbId", Type: frame.KindInt},
		{Name: "title", Type: frame.KindString},
	},
		[]any{2, 20, "b"},
		[]any{1, 10, "a"},
		[]any{2, 21, "b2"},
		[]any{5, 50, "e"},
	)
	return ratings, links
}

func TestJoinModes(t *testing.T) {
	l, r := fixtures(t)
	cases := []struct {
		mode Mode
		rows int
	}{{Inner, 5}, {Left, 6}, {Right, 6}, {Outer, 7}}
	for _, c := range cases {
		out, err := Join(l, r, c.mode, "movieId")
		if err != nil {
			t.Fatalf("%s: %v", c.mode, err)
		}
		if out.Rows() != c.rows {
			t.Fatalf("%s: got %d rows, want %d", c.mode, out.Rows(), c.rows)
		}
		names := out.Schema().Names()
		want := []string{"movieId", "rating", "title_x", "tmdbId", "title_y"}
		for i := range want {
			if names[i] != want[i] {
				t.Fatalf("%s: columns %v", c.mode, names)
			}
		}
	}
}

func TestInnerJoinOrder(t *testing.T) {
	l, r := fixtures(t)
	out, err := Join(l, r, Inner, "movieId")
	if err != nil {
		t.Fatal(err)
	}
	tm, _ := out.ColumnByName("tmdbId")
	want := []int64{10, 20, 21, 20, 21}
	for i, w := range want {
		if tm.Value(i) != w {
			t.Fatalf("row %d tmdbId = %v, want %d", i, tm.Value(i), w)
		}
	}
}

func TestUnmatchedRowsAreNullFilled(t *testing.T) {
	l, r := fixtures(t)
	out, err := Join(l, r, Outer, "movieId")
	if err != nil {
		t.Fatal(err)
	}
	id, _ := out.ColumnByName("movieId")
	tm, _ := out.ColumnByName("tmdbId")
	rating, _ := out.ColumnByName("rating")
	if id.Value(5) != int64(4) || !tm.IsNull(5) {
		t.Fatalf("left-only row: %v", out.Row(5))
	}
	if id.Value(6) != int64(5) || !rating.IsNull(6) || tm.Value(6) != int64(50) {
		t.Fatalf("right-only row: %v", out.Row(6))
	}
}

func TestNullKeysNeverMatch(t *testing.T) {
	cols := []frame.ColumnSchema{{Name: "k", Type: frame.KindFloat}, {Name: "v", Type: frame.KindString}}
	l := build(t, cols, []any{nil, "l0"}, []any{1.0, "l1"})
	r := build(t, cols, []any{nil, "r0"}, []any{1.0, "r1"})
	out, err := Join(l, r, Inner, "k")
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 1 {
		t.Fatalf("inner rows %d", out.Rows())
	}
	out, err = Join(l, r, Outer, "k")
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 3 {
		t.Fatalf("outer rows %d", out.Rows())
	}
}

func TestMixedNumericKeys(t *testing.T) {
	l := build(t, []frame.ColumnSchema{{Name: "tmdbId", Type: frame.KindFloat}}, []any{862.0})
	r := build(t, []frame.ColumnSchema{{Name: "tmdbId", Type: frame.KindInt}, {Name: "title", Type: frame.KindString}}, []any{862, "Toy Story"})
	out, err := Join(l, r, Inner, "tmdbId")
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 1 {
		t.Fatalf("rows %d", out.Rows())
	}
	k, _ := out.ColumnByName("tmdbId")
	if k.Kind() != frame.KindFloat {
		t.Fatalf("key kind %s", k.Kind())
	}
}

func TestJoinErrors(t *testing.T) {
	l, r := fixtures(t)
	if _, err := Join(l, r, Inner, "imdbId"); !errors.Is(err, frame.ErrColumnNotFound) {
		t.Fatalf("expected column not found, got %v", err)
	}
	s := build(t, []frame.ColumnSchema{{Name: "movieId", Type: frame.KindString}}, []any{"1"})
	if _, err := Join(s, r, Inner, "movieId"); !errors.Is(err, frame.ErrIncompatibleKeys) {
		t.Fatalf("expected incompatible keys, got %v", err)
	}
	if _, err := Join(l, r, Mode(9), "movieId"); !errors.Is(err, frame.ErrInvalidJoinMode) {
		t.Fatalf("expected invalid mode, got %v", err)
	}
	if _, err := ParseMode("sideways"); !errors.Is(err, frame.ErrInvalidJoinMode) {
		t.Fatalf("expected invalid mode, got %v", err)
	}
	if m, err := ParseMode("LEFT"); err != nil || m != Left {
		t.Fatalf("ParseMode(LEFT) = %v, %v", m, err)
	}
}
