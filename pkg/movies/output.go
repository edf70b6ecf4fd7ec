package movies

import (
	"context"
	"fmt"

	"github.com/argentumzz/movie/adapters/golearn"
	"github.com/argentumzz/movie/pkg/frame"
	"github.com/argentumzz/movie/pkg/io/csvio"
	"github.com/argentumzz/movie/pkg/io/jsonio"
	"github.com/argentumzz/movie/pkg/io/parquetio"
	"github.com/argentumzz/movie/pkg/io/sqliteio"
)

// Write stores f as described by out.
func Write(ctx context.Context, out Output, f *frame.Frame) error {
	switch out.Format {
	case "", FormatJSON:
		return jsonio.WriteIndexed(out.Path, f)
	case FormatJSONL:
		return jsonio.WriteLines(out.Path, f)
	case FormatCSV:
		return csvio.WriteAll(out.Path, f, csvio.WriterOptions{})
	case FormatParquet:
		return parquetio.WriteAll(out.Path, f)
	case FormatSQLite:
		_, err := sqliteio.WriteTable(ctx, out.Path, tableName(out), f)
		return err
	case FormatARFF:
		return golearn.WriteARFF(out.Path, tableName(out), f)
	}
	return fmt.Errorf("unknown output format %q", out.Format)
}

func tableName(out Output) string {
	if out.Table == "" {
		return "exploded"
	}
	return out.Table
}
