// Package parquetio moves Frames in and out of Parquet files. Reading uses
// segmentio/parquet-go's row API; writing goes through xitongsys/parquet-go's
// JSON writer.
package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"

	parquet "github.com/segmentio/parquet-go"

	"github.com/argentumzz/movie/pkg/frame"
)

type Reader struct {
	file   *os.File
	pf     *parquet.File
	schema frame.Schema
	leaves []int // frame column -> parquet leaf column index
}

// OpenReader opens a flat Parquet file. Nested fields are skipped.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &frame.Error{Op: "open", Detail: path, Err: frame.ErrNotFound}
		}
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		_ = f.Close()
		return nil, &frame.Error{Op: "read parquet", Detail: err.Error(), Err: frame.ErrParseFailure}
	}
	r := &Reader{file: f, pf: pf}
	for i, fld := range pf.Schema().Fields() {
		if !fld.Leaf() {
			continue
		}
		r.schema.Columns = append(r.schema.Columns, frame.ColumnSchema{Name: fld.Name(), Type: kindOf(fld.Type()), Nullable: fld.Optional()})
		r.leaves = append(r.leaves, i)
	}
	return r, nil
}

func (r *Reader) Close() error { return r.file.Close() }

func (r *Reader) Schema() frame.Schema { return r.schema }

// ReadAll reads every row group into one Frame.
func (r *Reader) ReadAll() (*frame.Frame, error) {
	out := frame.NewFrame(r.schema)
	byLeaf := make(map[int]string, len(r.leaves))
	for i, leaf := range r.leaves {
		byLeaf[leaf] = r.schema.Columns[i].Name
	}
	buf := make([]parquet.Row, 256)
	for _, rg := range r.pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				out.AppendNullRow()
				if err := setRow(out, out.Rows()-1, buf[i], byLeaf); err != nil {
					_ = rows.Close()
					return nil, err
				}
			}
			if err != nil {
				_ = rows.Close()
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, &frame.Error{Op: "read parquet", Detail: err.Error(), Err: frame.ErrParseFailure}
			}
			if n == 0 {
				_ = rows.Close()
				break
			}
		}
	}
	return out, nil
}

// ReadFile opens path, reads it fully and closes it.
func ReadFile(path string) (*frame.Frame, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return r.ReadAll()
}

func kindOf(t parquet.Type) frame.Kind {
	switch t.Kind() {
	case parquet.Boolean:
		return frame.KindBool
	case parquet.Int32, parquet.Int64:
		return frame.KindInt
	case parquet.Float, parquet.Double:
		return frame.KindFloat
	default:
		return frame.KindString
	}
}

func setRow(f *frame.Frame, row int, values parquet.Row, byLeaf map[int]string) error {
	for _, v := range values {
		name, ok := byLeaf[v.Column()]
		if !ok || v.IsNull() {
			continue
		}
		var cell any
		switch v.Kind() {
		case parquet.Boolean:
			cell = v.Boolean()
		case parquet.Int32:
			cell = int64(v.Int32())
		case parquet.Int64:
			cell = v.Int64()
		case parquet.Float:
			cell = float64(v.Float())
		case parquet.Double:
			cell = v.Double()
		default:
			cell = string(v.ByteArray())
		}
		if err := f.SetCell(row, name, cell); err != nil {
			return &frame.Error{Op: "read parquet", Column: name, Row: row + 1, Err: frame.ErrParseFailure, Detail: fmt.Sprint(err)}
		}
	}
	return nil
}
