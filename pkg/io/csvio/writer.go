package csvio

import (
	"encoding/csv"

	"github.com/argentumzz/movie/pkg/frame"
	iox "github.com/argentumzz/movie/pkg/io/ioutils"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// WriteAll writes a Frame to a CSV file with headers. Nulls are written as
// empty fields and list cells in their bracketed text form.
func WriteAll(path string, f *frame.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}

	cols := f.Columns()
	if err := w.Write(f.Schema().Names()); err != nil {
		_ = out.Close()
		return err
	}
	row := make([]string, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			row[c] = frame.Text(col, r)
		}
		if err := w.Write(row); err != nil {
			_ = out.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
