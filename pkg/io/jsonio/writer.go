package jsonio

import (
	"bufio"
	"io"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/argentumzz/movie/pkg/frame"
	iox "github.com/argentumzz/movie/pkg/io/ioutils"
)

// WriteIndexed writes f as one JSON object keyed by row position:
//
//	{"0":{"col":v,...},"1":{...}}
//
// Columns appear in schema order. Nulls are written as null, times as
// 2006-01-02 dates and list cells as arrays.
func WriteIndexed(path string, f *frame.Frame) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := EncodeIndexed(out, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// EncodeIndexed is WriteIndexed against an arbitrary writer.
func EncodeIndexed(w io.Writer, f *frame.Frame) error {
	bw := bufio.NewWriter(w)
	cols := f.Columns()
	names := make([][]byte, len(cols))
	for i, c := range cols {
		b, err := json.Marshal(c.Name())
		if err != nil {
			return err
		}
		names[i] = b
	}
	_ = bw.WriteByte('{')
	for r := 0; r < f.Rows(); r++ {
		if r > 0 {
			_ = bw.WriteByte(',')
		}
		_, _ = bw.WriteString(`"` + strconv.Itoa(r) + `":{`)
		if err := writeRow(bw, cols, names, r); err != nil {
			return err
		}
		_ = bw.WriteByte('}')
	}
	_ = bw.WriteByte('}')
	return bw.Flush()
}

// WriteLines writes one JSON object per row, columns in schema order.
func WriteLines(path string, f *frame.Frame) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	cols := f.Columns()
	names := make([][]byte, len(cols))
	for i, c := range cols {
		names[i], _ = json.Marshal(c.Name())
	}
	for r := 0; r < f.Rows(); r++ {
		_ = bw.WriteByte('{')
		if err := writeRow(bw, cols, names, r); err != nil {
			_ = out.Close()
			return err
		}
		_, _ = bw.WriteString("}\n")
	}
	if err := bw.Flush(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func writeRow(bw *bufio.Writer, cols []frame.Column, names [][]byte, r int) error {
	for c, col := range cols {
		if c > 0 {
			_ = bw.WriteByte(',')
		}
		_, _ = bw.Write(names[c])
		_ = bw.WriteByte(':')
		b, err := json.Marshal(cellValue(col, r))
		if err != nil {
			return err
		}
		_, _ = bw.Write(b)
	}
	return nil
}

func cellValue(c frame.Column, r int) any {
	v := c.Value(r)
	if _, ok := v.(time.Time); ok {
		return frame.Text(c, r)
	}
	return v
}
