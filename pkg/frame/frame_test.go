package frame

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func makeFrame(rows int) *Frame {
	s := Schema{Columns: []ColumnSchema{{Name: "a", Type: KindFloat, Nullable: true}, {Name: "b", Type: KindInt, Nullable: true}, {Name: "s", Type: KindString, Nullable: true}}}
	f := NewFrame(s)
	for i := 0; i < rows; i++ {
		f.AppendNullRow()
		_ = f.SetCell(i, "a", float64(i%100))
		_ = f.SetCell(i, "b", int64(i%10))
		_ = f.SetCell(i, "s", "x")
	}
	return f
}

type dropLast struct{ calls *int }

func (u dropLast) Name() string { return "drop_last" }
func (u dropLast) Apply(ctx context.Context, f *Frame) (*Frame, error) {
	*u.calls++
	return f.Head(f.Rows() - 1), nil
}

type failing struct{}

func (failing) Name() string { return "failing" }
func (failing) Apply(ctx context.Context, f *Frame) (*Frame, error) {
	return nil, &Error{Op: "failing", Column: "s", Err: ErrColumnNotFound}
}

func TestPipelineStopsAtFirstFailure(t *testing.T) {
	calls := 0
	p := NewPipeline(dropLast{&calls}).Add(failing{}).Add(dropLast{&calls})
	_, err := p.Run(context.Background(), makeFrame(4))
	if !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected column not found, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call before failure, got %d", calls)
	}
	if got := p.Steps(); len(got) != 3 || got[1] != "failing" {
		t.Fatalf("steps = %v", got)
	}
}

func TestPipelineRejectsNilFrame(t *testing.T) {
	if _, err := NewPipeline().Run(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil frame")
	}
}

func TestPipelineHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	if _, err := NewPipeline(dropLast{&calls}).Run(ctx, makeFrame(2)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestOpsDoNotMutate(t *testing.T) {
	f := makeFrame(5)
	g := f.Filter(func(r int) bool { return r%2 == 0 })
	if g.Rows() != 3 || f.Rows() != 5 {
		t.Fatalf("filter rows %d, source rows %d", g.Rows(), f.Rows())
	}
	r, err := f.Rename("b", "c")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.ColumnByName("b"); !ok {
		t.Fatal("rename mutated the source")
	}
	if got := r.Schema().Names(); got[1] != "c" {
		t.Fatalf("renamed schema %v", got)
	}
	if _, err := f.Rename("nope", "x"); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected column not found, got %v", err)
	}
	if _, err := f.Rename("a", "s"); err == nil {
		t.Fatal("expected duplicate name error")
	}
	sel, err := f.Select("s", "a")
	if err != nil {
		t.Fatal(err)
	}
	if got := sel.Schema().Names(); len(got) != 2 || got[0] != "s" || sel.Rows() != 5 {
		t.Fatalf("select schema %v rows %d", got, sel.Rows())
	}
	if d := f.Drop("a", "zzz"); d.Cols() != 2 || d.Rows() != 5 {
		t.Fatalf("drop shape %dx%d", d.Rows(), d.Cols())
	}
}

func TestTakeNullRow(t *testing.T) {
	f := makeFrame(2).Take([]int{1, -1})
	b, _ := f.ColumnByName("b")
	if b.Value(0) != int64(1) || !b.IsNull(1) {
		t.Fatalf("take: %v %v", b.Value(0), b.Value(1))
	}
}

func TestKeyAndText(t *testing.T) {
	fc := NewFloatColumn("f", 2)
	fc.Set(0, 862)
	fc.Set(1, 2.5)
	if k, _ := Key(fc, 0); k != int64(862) {
		t.Fatalf("integral float key %v", k)
	}
	if k, ok := Key(NewIntColumn("i", 1), 0); ok || k != nil {
		t.Fatal("null key should not be ok")
	}
	tc := NewTimeColumn("t", 1)
	tc.Set(0, time.Date(1995, 10, 30, 0, 0, 0, 0, time.UTC))
	if got := Text(tc, 0); got != "1995-10-30" {
		t.Fatalf("time text %q", got)
	}
	lc := NewListColumn("l", 1)
	lc.Set(0, []string{"Animation", "Comedy"})
	if got := Text(lc, 0); got != "[Animation, Comedy]" {
		t.Fatalf("list text %q", got)
	}
}

type chunks []*Frame

func (c *chunks) Next() (*Frame, error) {
	if len(*c) == 0 {
		return nil, io.EOF
	}
	f := (*c)[0]
	*c = (*c)[1:]
	return f, nil
}

func TestCollectWidens(t *testing.T) {
	a := NewFrame(Schema{Columns: []ColumnSchema{{Name: "v", Type: KindInt}}})
	_ = a.AppendRow(int64(1))
	b := NewFrame(Schema{Columns: []ColumnSchema{{Name: "v", Type: KindFloat}}})
	_ = b.AppendRow(2.5)
	c := NewFrame(Schema{Columns: []ColumnSchema{{Name: "v", Type: KindString}}})
	_ = c.AppendRow("n/a?")

	src := chunks{a, b}
	got, err := Collect(&src)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := got.ColumnByName("v")
	if v.Kind() != KindFloat || v.Value(0) != 1.0 || got.Rows() != 2 {
		t.Fatalf("widened to %s: %v", v.Kind(), got.Row(0))
	}

	src = chunks{a, b, c}
	got, err = Collect(&src)
	if err != nil {
		t.Fatal(err)
	}
	v, _ = got.ColumnByName("v")
	if v.Kind() != KindString || v.Value(0) != "1" || v.Value(1) != "2.5" {
		t.Fatalf("widened to %s: %v %v", v.Kind(), v.Value(0), v.Value(1))
	}

	empty := chunks{}
	if _, err := Collect(&empty); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestCollectAllNullChunkKeepsKind(t *testing.T) {
	schema := func(k Kind, b Kind) Schema {
		return Schema{Columns: []ColumnSchema{{Name: "a", Type: k}, {Name: "b", Type: b}}}
	}
	first := NewFrame(schema(KindInt, KindBool))
	_ = first.AppendRow(int64(1), true)
	middle := NewFrame(schema(KindFloat, KindFloat))
	middle.AppendNullRow()
	middle.AppendNullRow()
	last := NewFrame(schema(KindInt, KindBool))
	_ = last.AppendRow(int64(3), true)

	for _, src := range []chunks{{first, middle, last}, {middle, first, last}} {
		got, err := Collect(&src)
		if err != nil {
			t.Fatal(err)
		}
		a, _ := got.ColumnByName("a")
		b, _ := got.ColumnByName("b")
		if a.Kind() != KindInt || b.Kind() != KindBool || got.Rows() != 4 {
			t.Fatalf("kinds %s/%s rows %d", a.Kind(), b.Kind(), got.Rows())
		}
		if NullCount(a) != 2 || NullCount(b) != 2 {
			t.Fatalf("nulls %d/%d", NullCount(a), NullCount(b))
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Op: "cast", Column: "tmdbId", Row: 3, Err: ErrTypeCastFailure, Detail: `"1997-08-20"`}
	want := `cast "tmdbId" row 3: type cast failure: "1997-08-20"`
	if err.Error() != want {
		t.Fatalf("got %q", err.Error())
	}
}
