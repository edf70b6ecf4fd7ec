package frame

import (
	"fmt"
	"math"
	"time"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Numeric reports whether values of the kind support arithmetic.
func (k Kind) Numeric() bool { return k == KindInt || k == KindFloat }

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	// Value returns the cell as a Go value, or nil when null.
	Value(i int) any

	// take builds a new column from the given row positions; -1 yields a null.
	take(name string, rows []int) Column
}

type BoolColumn struct {
	name  string
	data  []bool
	nulls []bool
}

func NewBoolColumn(name string, n int) *BoolColumn {
	return &BoolColumn{name: name, data: make([]bool, n), nulls: allNull(n)}
}
func (c *BoolColumn) Name() string           { return c.name }
func (c *BoolColumn) Kind() Kind             { return KindBool }
func (c *BoolColumn) Len() int               { return len(c.data) }
func (c *BoolColumn) IsNull(i int) bool      { return c.nulls[i] }
func (c *BoolColumn) SetNull(i int)          { c.nulls[i] = true }
func (c *BoolColumn) Get(i int) (bool, bool) { return c.data[i], !c.nulls[i] }
func (c *BoolColumn) Set(i int, v bool)      { c.data[i] = v; c.nulls[i] = false }
func (c *BoolColumn) AppendNull()            { c.data = append(c.data, false); c.nulls = append(c.nulls, true) }
func (c *BoolColumn) Append(v bool)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *BoolColumn) Value(i int) any        { return valueAt(c.data, c.nulls, i) }
func (c *BoolColumn) take(name string, rows []int) Column {
	d, n := pick(c.data, c.nulls, rows)
	return &BoolColumn{name: name, data: d, nulls: n}
}

type IntColumn struct {
	name  string
	data  []int64
	nulls []bool
}

func NewIntColumn(name string, n int) *IntColumn {
	return &IntColumn{name: name, data: make([]int64, n), nulls: allNull(n)}
}
func (c *IntColumn) Name() string            { return c.name }
func (c *IntColumn) Kind() Kind              { return KindInt }
func (c *IntColumn) Len() int                { return len(c.data) }
func (c *IntColumn) IsNull(i int) bool       { return c.nulls[i] }
func (c *IntColumn) SetNull(i int)           { c.nulls[i] = true }
func (c *IntColumn) Get(i int) (int64, bool) { return c.data[i], !c.nulls[i] }
func (c *IntColumn) Set(i int, v int64)      { c.data[i] = v; c.nulls[i] = false }
func (c *IntColumn) AppendNull()             { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *IntColumn) Append(v int64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *IntColumn) Value(i int) any         { return valueAt(c.data, c.nulls, i) }
func (c *IntColumn) take(name string, rows []int) Column {
	d, n := pick(c.data, c.nulls, rows)
	return &IntColumn{name: name, data: d, nulls: n}
}

type FloatColumn struct {
	name  string
	data  []float64
	nulls []bool
}

func NewFloatColumn(name string, n int) *FloatColumn {
	return &FloatColumn{name: name, data: make([]float64, n), nulls: allNull(n)}
}
func (c *FloatColumn) Name() string { return c.name }
func (c *FloatColumn) Kind() Kind   { return KindFloat }
func (c *FloatColumn) Len() int     { return len(c.data) }

// IsNull treats NaN as missing, the way the source data encodes gaps in numeric columns.
func (c *FloatColumn) IsNull(i int) bool         { return c.nulls[i] || math.IsNaN(c.data[i]) }
func (c *FloatColumn) SetNull(i int)             { c.nulls[i] = true }
func (c *FloatColumn) Get(i int) (float64, bool) { return c.data[i], !c.IsNull(i) }
func (c *FloatColumn) Set(i int, v float64)      { c.data[i] = v; c.nulls[i] = false }
func (c *FloatColumn) AppendNull()               { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *FloatColumn) Append(v float64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *FloatColumn) Value(i int) any {
	if c.IsNull(i) {
		return nil
	}
	return c.data[i]
}
func (c *FloatColumn) take(name string, rows []int) Column {
	d, n := pick(c.data, c.nulls, rows)
	return &FloatColumn{name: name, data: d, nulls: n}
}

type StringColumn struct {
	name  string
	data  []string
	nulls []bool
}

func NewStringColumn(name string, n int) *StringColumn {
	return &StringColumn{name: name, data: make([]string, n), nulls: allNull(n)}
}
func (c *StringColumn) Name() string             { return c.name }
func (c *StringColumn) Kind() Kind               { return KindString }
func (c *StringColumn) Len() int                 { return len(c.data) }
func (c *StringColumn) IsNull(i int) bool        { return c.nulls[i] }
func (c *StringColumn) SetNull(i int)            { c.nulls[i] = true }
func (c *StringColumn) Get(i int) (string, bool) { return c.data[i], !c.nulls[i] }
func (c *StringColumn) Set(i int, v string)      { c.data[i] = v; c.nulls[i] = false }
func (c *StringColumn) AppendNull()              { c.data = append(c.data, ""); c.nulls = append(c.nulls, true) }
func (c *StringColumn) Append(v string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *StringColumn) Value(i int) any          { return valueAt(c.data, c.nulls, i) }
func (c *StringColumn) take(name string, rows []int) Column {
	d, n := pick(c.data, c.nulls, rows)
	return &StringColumn{name: name, data: d, nulls: n}
}

type TimeColumn struct {
	name  string
	data  []time.Time
	nulls []bool
}

func NewTimeColumn(name string, n int) *TimeColumn {
	return &TimeColumn{name: name, data: make([]time.Time, n), nulls: allNull(n)}
}
func (c *TimeColumn) Name() string                { return c.name }
func (c *TimeColumn) Kind() Kind                  { return KindTime }
func (c *TimeColumn) Len() int                    { return len(c.data) }
func (c *TimeColumn) IsNull(i int) bool           { return c.nulls[i] }
func (c *TimeColumn) SetNull(i int)               { c.nulls[i] = true }
func (c *TimeColumn) Get(i int) (time.Time, bool) { return c.data[i], !c.nulls[i] }
func (c *TimeColumn) Set(i int, v time.Time)      { c.data[i] = v; c.nulls[i] = false }
func (c *TimeColumn) Value(i int) any             { return valueAt(c.data, c.nulls, i) }
func (c *TimeColumn) AppendNull() {
	c.data = append(c.data, time.Time{})
	c.nulls = append(c.nulls, true)
}
func (c *TimeColumn) Append(v time.Time) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}
func (c *TimeColumn) take(name string, rows []int) Column {
	d, n := pick(c.data, c.nulls, rows)
	return &TimeColumn{name: name, data: d, nulls: n}
}

// ListColumn holds string lists, e.g. genre names extracted from an encoded cell.
// A non-null cell may hold an empty list.
type ListColumn struct {
	name  string
	data  [][]string
	nulls []bool
}

func NewListColumn(name string, n int) *ListColumn {
	return &ListColumn{name: name, data: make([][]string, n), nulls: allNull(n)}
}
func (c *ListColumn) Name() string               { return c.name }
func (c *ListColumn) Kind() Kind                 { return KindList }
func (c *ListColumn) Len() int                   { return len(c.data) }
func (c *ListColumn) IsNull(i int) bool          { return c.nulls[i] }
func (c *ListColumn) SetNull(i int)              { c.nulls[i] = true }
func (c *ListColumn) Get(i int) ([]string, bool) { return c.data[i], !c.nulls[i] }
func (c *ListColumn) Set(i int, v []string)      { c.data[i] = v; c.nulls[i] = false }
func (c *ListColumn) AppendNull()                { c.data = append(c.data, nil); c.nulls = append(c.nulls, true) }
func (c *ListColumn) Append(v []string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *ListColumn) Value(i int) any            { return valueAt(c.data, c.nulls, i) }
func (c *ListColumn) take(name string, rows []int) Column {
	d, n := pick(c.data, c.nulls, rows)
	return &ListColumn{name: name, data: d, nulls: n}
}

// NewColumn returns an all-null column of the given kind with n rows.
func NewColumn(name string, k Kind, n int) (Column, error) {
	switch k {
	case KindBool:
		return NewBoolColumn(name, n), nil
	case KindInt:
		return NewIntColumn(name, n), nil
	case KindFloat:
		return NewFloatColumn(name, n), nil
	case KindString:
		return NewStringColumn(name, n), nil
	case KindTime:
		return NewTimeColumn(name, n), nil
	case KindList:
		return NewListColumn(name, n), nil
	}
	return nil, fmt.Errorf("column %s: invalid kind %d", name, k)
}

func allNull(n int) []bool {
	nulls := make([]bool, n)
	for i := range nulls {
		nulls[i] = true
	}
	return nulls
}

func valueAt[T any](data []T, nulls []bool, i int) any {
	if nulls[i] {
		return nil
	}
	return data[i]
}

func pick[T any](data []T, nulls []bool, rows []int) ([]T, []bool) {
	d := make([]T, len(rows))
	n := make([]bool, len(rows))
	for k, r := range rows {
		if r < 0 {
			n[k] = true
			continue
		}
		d[k], n[k] = data[r], nulls[r]
	}
	return d, n
}

// Frame is a columnar container for tabular data.
//
// Operations in this package never mutate their receiver's shape; each returns a
// new Frame. Cell setters exist for builders (readers, transforms) that own the
// Frame they are filling.
type Frame struct {
	cols  []Column
	index map[string]int // name -> col index
	nrows int
}

func NewFrame(s Schema) *Frame {
	f := &Frame{cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		col, err := NewColumn(cs.Name, cs.Type, 0)
		if err != nil {
			panic(err)
		}
		f.cols[i] = col
		f.index[cs.Name] = i
	}
	return f
}

// FromColumns assembles a Frame from equally long, uniquely named columns.
func FromColumns(cols ...Column) (*Frame, error) {
	f := &Frame{cols: make([]Column, 0, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if i == 0 {
			f.nrows = c.Len()
		} else if c.Len() != f.nrows {
			return nil, fmt.Errorf("column %s has %d rows, want %d", c.Name(), c.Len(), f.nrows)
		}
		if _, dup := f.index[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name())
		}
		f.index[c.Name()] = len(f.cols)
		f.cols = append(f.cols, c)
	}
	return f, nil
}

func (f *Frame) Schema() Schema {
	s := Schema{Columns: make([]ColumnSchema, len(f.cols))}
	for i, c := range f.cols {
		s.Columns[i] = ColumnSchema{Name: c.Name(), Type: c.Kind(), Nullable: true}
	}
	return s
}

func (f *Frame) Rows() int { return f.nrows }
func (f *Frame) Cols() int { return len(f.cols) }

// Columns returns the columns in schema order.
func (f *Frame) Columns() []Column {
	out := make([]Column, len(f.cols))
	copy(out, f.cols)
	return out
}

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Lookup is ColumnByName for operations: a missing column yields ErrColumnNotFound tagged with op.
func (f *Frame) Lookup(op, name string) (Column, error) {
	c, ok := f.ColumnByName(name)
	if !ok {
		return nil, &Error{Op: op, Column: name, Err: ErrColumnNotFound}
	}
	return c, nil
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		switch col := c.(type) {
		case *BoolColumn:
			col.AppendNull()
		case *IntColumn:
			col.AppendNull()
		case *FloatColumn:
			col.AppendNull()
		case *StringColumn:
			col.AppendNull()
		case *TimeColumn:
			col.AppendNull()
		case *ListColumn:
			col.AppendNull()
		default:
			panic("unknown column type")
		}
	}
	f.nrows++
}

// AppendRow appends one row given values in schema order; nil means null.
func (f *Frame) AppendRow(values ...any) error {
	if len(values) != len(f.cols) {
		return fmt.Errorf("append row: got %d values for %d columns", len(values), len(f.cols))
	}
	f.AppendNullRow()
	row := f.nrows - 1
	for i, v := range values {
		if err := f.SetCell(row, f.cols[i].Name(), v); err != nil {
			return err
		}
	}
	return nil
}

// SetCell sets a single cell value by name (row must exist).
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	c := f.cols[i]
	if v == nil {
		c.SetNull(row)
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("column %s expects bool", name)
		}
		col.Set(row, b)
	case *IntColumn:
		switch t := v.(type) {
		case int:
			col.Set(row, int64(t))
		case int32:
			col.Set(row, int64(t))
		case int64:
			col.Set(row, t)
		case float64:
			col.Set(row, int64(t))
		default:
			return fmt.Errorf("column %s expects int/int64", name)
		}
	case *FloatColumn:
		switch t := v.(type) {
		case float32:
			col.Set(row, float64(t))
		case float64:
			col.Set(row, t)
		case int:
			col.Set(row, float64(t))
		case int64:
			col.Set(row, float64(t))
		default:
			return fmt.Errorf("column %s expects float64", name)
		}
	case *StringColumn:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string", name)
		}
		col.Set(row, s)
	case *TimeColumn:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("column %s expects time.Time", name)
		}
		col.Set(row, t)
	case *ListColumn:
		l, ok := v.([]string)
		if !ok {
			return fmt.Errorf("column %s expects []string", name)
		}
		col.Set(row, l)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}
