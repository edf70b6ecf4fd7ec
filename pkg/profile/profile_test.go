package profile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/argentumzz/movie/pkg/frame"
)

func chunk(t *testing.T, rows ...[]any) *frame.Frame {
	t.Helper()
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "rating", Type: frame.KindFloat},
		{Name: "title", Type: frame.KindString},
		{Name: "seen", Type: frame.KindBool},
	}})
	for _, r := range rows {
		if err := f.AppendRow(r...); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestCollectorAcrossChunks(t *testing.T) {
	a := chunk(t, []any{4.0, "Heat", true}, []any{nil, "Heat", nil})
	b := chunk(t, []any{2.0, "Casino", false}, []any{3.0, nil, true})
	c := NewCollector(a.Schema(), 1)
	c.ConsumeFrame(a)
	c.ConsumeFrame(b)
	if c.Rows() != 4 {
		t.Fatalf("rows %d", c.Rows())
	}
	cols := c.Columns()
	r := cols[0]
	if r.Count != 3 || r.Nulls != 1 || r.Num.Min != 2 || r.Num.Max != 4 || r.Num.Mean != 3 {
		t.Fatalf("rating profile %+v %+v", r, r.Num)
	}
	s := cols[1]
	if s.Nulls != 1 || s.Str.Distinct != 2 || s.Str.Top["Heat"] != 2 || len(s.Str.Top) != 1 {
		t.Fatalf("title profile %+v %+v", s, s.Str)
	}
	if cols[2].Nulls != 1 || cols[2].Num != nil || cols[2].Str != nil {
		t.Fatalf("bool profile %+v", cols[2])
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	Of(chunk(t, []any{4.0, "Heat", true}), 0).WriteText(&buf)
	out := buf.String()
	for _, want := range []string{"1 rows, 3 columns", "COLUMN", "rating", "float64", "distinct=1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
}

func TestChart(t *testing.T) {
	if Chart(nil, "x") != "" {
		t.Fatal("empty series should render nothing")
	}
	out := Chart([]float64{1, 5, 3}, "releases per year")
	if !strings.Contains(out, "releases per year") {
		t.Fatalf("caption missing:\n%s", out)
	}
}
