// Package jsonio reads and writes Frames as JSON lines, and writes the
// index-keyed JSON document produced at the end of an analysis run.
package jsonio

import (
	"bufio"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/argentumzz/movie/pkg/frame"
	iox "github.com/argentumzz/movie/pkg/io/ioutils"
)

type ReaderOptions struct {
	// SampleRows bounds inference; <= 0 infers from every record.
	SampleRows int
}

type Reader struct {
	dec *json.Decoder
	opt ReaderOptions
}

// Open opens a JSON-lines file (optionally gzip compressed).
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	return NewReaderFrom(rc, opt), rc, nil
}

// ReadLines opens path, reads every record and closes it.
func ReadLines(path string, opt ReaderOptions) (*frame.Frame, error) {
	r, c, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()
	return r.ReadAll()
}

func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	dec := json.NewDecoder(bufio.NewReader(r))
	dec.UseNumber()
	return &Reader{dec: dec, opt: opt}
}

// ReadAll decodes every record. Columns are the union of keys, sorted by name;
// absent keys and JSON null become null cells.
func (r *Reader) ReadAll() (*frame.Frame, error) {
	var recs []map[string]any
	for line := 1; ; line++ {
		var m map[string]any
		if err := r.dec.Decode(&m); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &frame.Error{Op: "read jsonl", Row: line, Err: frame.ErrParseFailure, Detail: err.Error()}
		}
		recs = append(recs, m)
	}
	keysSet := map[string]struct{}{}
	for _, m := range recs {
		for k := range m {
			keysSet[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keysSet))
	for k := range keysSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sample := recs
	if r.opt.SampleRows > 0 && len(sample) > r.opt.SampleRows {
		sample = sample[:r.opt.SampleRows]
	}
	kinds := inferKinds(sample, keys)
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(keys))}
	for i, k := range keys {
		schema.Columns[i] = frame.ColumnSchema{Name: k, Type: kinds[i], Nullable: true}
	}
	f := frame.NewFrame(schema)
	for _, m := range recs {
		f.AppendNullRow()
		if err := setRowFromMap(f, f.Rows()-1, m); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func setRowFromMap(f *frame.Frame, row int, m map[string]any) error {
	for _, cs := range f.Schema().Columns {
		v, ok := m[cs.Name]
		if !ok || v == nil {
			continue
		}
		cell, err := coerce(v, cs.Type)
		if err != nil {
			return &frame.Error{Op: "read jsonl", Column: cs.Name, Row: row + 1, Err: frame.ErrParseFailure, Detail: err.Error()}
		}
		if err := f.SetCell(row, cs.Name, cell); err != nil {
			return &frame.Error{Op: "read jsonl", Column: cs.Name, Row: row + 1, Err: frame.ErrParseFailure, Detail: err.Error()}
		}
	}
	return nil
}

func coerce(v any, k frame.Kind) (any, error) {
	switch k {
	case frame.KindInt:
		if n, ok := v.(json.Number); ok {
			return n.Int64()
		}
	case frame.KindFloat:
		if n, ok := v.(json.Number); ok {
			return n.Float64()
		}
	case frame.KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case frame.KindTime:
		if s, ok := v.(string); ok {
			return time.Parse(frame.DateLayout, s)
		}
	case frame.KindList:
		if arr, ok := v.([]any); ok {
			out := make([]string, 0, len(arr))
			for _, e := range arr {
				s, _ := e.(string)
				out = append(out, s)
			}
			return out, nil
		}
	default:
		switch t := v.(type) {
		case string:
			return t, nil
		case json.Number:
			return t.String(), nil
		default:
			b, err := json.Marshal(t)
			return string(b), err
		}
	}
	return nil, errors.New("value does not match column kind " + k.String())
}

// inferKinds mirrors csvio: a column takes the narrowest kind all of its
// non-null values share.
func inferKinds(sample []map[string]any, keys []string) []frame.Kind {
	kinds := make([]frame.Kind, len(keys))
	for i, k := range keys {
		nInt, nNum, nBool, nList, nStr, seen := 0, 0, 0, 0, 0, 0
		for _, m := range sample {
			v, ok := m[k]
			if !ok || v == nil {
				continue
			}
			seen++
			switch t := v.(type) {
			case json.Number:
				nNum++
				if !strings.ContainsAny(t.String(), ".eE") {
					nInt++
				}
			case bool:
				nBool++
			case []any:
				if stringsOnly(t) {
					nList++
				} else {
					nStr++
				}
			default:
				nStr++
			}
		}
		switch {
		case seen == 0:
			kinds[i] = frame.KindFloat
		case nInt == seen:
			kinds[i] = frame.KindInt
		case nNum == seen:
			kinds[i] = frame.KindFloat
		case nBool == seen:
			kinds[i] = frame.KindBool
		case nList == seen:
			kinds[i] = frame.KindList
		default:
			kinds[i] = frame.KindString
		}
	}
	return kinds
}

func stringsOnly(arr []any) bool {
	for _, e := range arr {
		if _, ok := e.(string); !ok {
			return false
		}
	}
	return true
}
