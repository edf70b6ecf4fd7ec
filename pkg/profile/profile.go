// Package profile summarizes the columns of a frame (the info/isnull view of
// a loaded table) and renders summaries as text tables and charts.
package profile

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/argentumzz/movie/pkg/frame"
)

type NumStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Sum  float64 `json:"sum"`
	Mean float64 `json:"mean"`
}

type StringStats struct {
	Distinct int            `json:"distinct"`
	Top      map[string]int `json:"top,omitempty"`
	freqs    map[string]int
}

type ColumnProfile struct {
	Name  string       `json:"name"`
	Kind  string       `json:"kind"`
	Count int          `json:"count"`
	Nulls int          `json:"nulls"`
	Num   *NumStats    `json:"num,omitempty"`
	Str   *StringStats `json:"str,omitempty"`
}

// Collector accumulates column profiles over one or more frames sharing a
// schema, so chunked reads can be profiled as they arrive.
type Collector struct {
	cols  []ColumnProfile
	index map[string]int
	topK  int
	rows  int
}

func NewCollector(schema frame.Schema, topK int) *Collector {
	c := &Collector{index: make(map[string]int), topK: topK}
	c.cols = make([]ColumnProfile, len(schema.Columns))
	for i, cs := range schema.Columns {
		cp := ColumnProfile{Name: cs.Name, Kind: cs.Type.String()}
		switch {
		case cs.Type.Numeric():
			cp.Num = &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
		case cs.Type == frame.KindString || cs.Type == frame.KindTime || cs.Type == frame.KindList:
			cp.Str = &StringStats{freqs: make(map[string]int)}
		}
		c.cols[i] = cp
		c.index[cs.Name] = i
	}
	return c
}

// Of profiles a single frame.
func Of(f *frame.Frame, topK int) *Collector {
	c := NewCollector(f.Schema(), topK)
	c.ConsumeFrame(f)
	return c
}

// ConsumeFrame folds f into the running profile. Columns not in the
// collector's schema are ignored.
func (c *Collector) ConsumeFrame(f *frame.Frame) {
	c.rows += f.Rows()
	for _, col := range f.Columns() {
		idx, ok := c.index[col.Name()]
		if !ok {
			continue
		}
		cp := &c.cols[idx]
		for i := 0; i < col.Len(); i++ {
			if col.IsNull(i) {
				cp.Nulls++
				continue
			}
			cp.Count++
			switch {
			case cp.Num != nil:
				v, _ := frame.Float(col, i)
				if v < cp.Num.Min {
					cp.Num.Min = v
				}
				if v > cp.Num.Max {
					cp.Num.Max = v
				}
				cp.Num.Sum += v
			case cp.Str != nil:
				cp.Str.freqs[frame.Text(col, i)]++
			}
		}
	}
}

func (c *Collector) Rows() int { return c.rows }

// Columns returns the finished profiles in schema order.
func (c *Collector) Columns() []ColumnProfile {
	out := make([]ColumnProfile, len(c.cols))
	for i, cp := range c.cols {
		if cp.Num != nil {
			n := *cp.Num
			if cp.Count > 0 {
				n.Mean = n.Sum / float64(cp.Count)
			} else {
				n.Min, n.Max = 0, 0
			}
			cp.Num = &n
		}
		if cp.Str != nil {
			s := StringStats{Distinct: len(cp.Str.freqs), Top: c.top(cp.Str.freqs)}
			cp.Str = &s
		}
		out[i] = cp
	}
	return out
}

func (c *Collector) top(freqs map[string]int) map[string]int {
	if c.topK <= 0 || len(freqs) == 0 {
		return nil
	}
	type kv struct {
		k string
		v int
	}
	arr := make([]kv, 0, len(freqs))
	for k, v := range freqs {
		arr = append(arr, kv{k, v})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].v != arr[j].v {
			return arr[i].v > arr[j].v
		}
		return arr[i].k < arr[j].k
	})
	n := c.topK
	if n > len(arr) {
		n = len(arr)
	}
	out := make(map[string]int, n)
	for _, e := range arr[:n] {
		out[e.k] = e.v
	}
	return out
}

// WriteText renders the profile as a table: one row per column.
func (c *Collector) WriteText(w io.Writer) {
	rows := make([][]string, 0, len(c.cols))
	for _, cp := range c.Columns() {
		summary := ""
		switch {
		case cp.Num != nil && cp.Count > 0:
			summary = fmt.Sprintf("min=%.6g max=%.6g mean=%.6g", cp.Num.Min, cp.Num.Max, cp.Num.Mean)
		case cp.Str != nil:
			summary = fmt.Sprintf("distinct=%d", cp.Str.Distinct)
		}
		rows = append(rows, []string{cp.Name, cp.Kind, fmt.Sprint(cp.Count), fmt.Sprint(cp.Nulls), summary})
	}
	fmt.Fprintf(w, "%d rows, %d columns\n", c.rows, len(c.cols))
	Table(w, []string{"column", "kind", "non-null", "nulls", "summary"}, rows)
}
