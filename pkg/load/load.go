// Package load reads a data file into a Frame, choosing the reader from the
// file extension.
package load

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/argentumzz/movie/adapters/golearn"
	"github.com/argentumzz/movie/pkg/frame"
	"github.com/argentumzz/movie/pkg/io/csvio"
	iox "github.com/argentumzz/movie/pkg/io/ioutils"
	"github.com/argentumzz/movie/pkg/io/jsonio"
	"github.com/argentumzz/movie/pkg/io/parquetio"
)

// DefaultChunkRows is the chunk size for LowMemory reads when SampleRows is unset.
const DefaultChunkRows = 10000

type Options struct {
	// LowMemory reads delimited files in chunks, inferring each chunk on its
	// own and widening kinds as chunks are combined.
	LowMemory bool
	Delimiter rune // 0 sniffs the header
	// SampleRows is the chunk size in LowMemory mode and the inference sample
	// for JSON lines.
	SampleRows int
	Logger     *log.Logger // nil logs to the standard logger
}

// File loads path into a Frame. Missing files fail with frame.ErrNotFound and
// unreadable content with frame.ErrParseFailure; both are logged before
// being returned.
func File(path string, opt Options) (*frame.Frame, error) {
	logger := opt.Logger
	if logger == nil {
		logger = log.Default()
	}
	f, err := read(path, opt, logger)
	if err != nil {
		if errors.Is(err, frame.ErrNotFound) {
			logger.Printf("File not found at %s", path)
		} else {
			logger.Printf("An error occurred while reading the file: %v", err)
		}
		return nil, err
	}
	if f == nil {
		return nil, &frame.Error{Op: "load", Detail: path, Err: frame.ErrParseFailure}
	}
	return f, nil
}

func read(path string, opt Options, logger *log.Logger) (*frame.Frame, error) {
	if path != "-" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, &frame.Error{Op: "load", Detail: path, Err: frame.ErrNotFound}
			}
			return nil, err
		}
	}
	switch ext := iox.BaseExt(path); ext {
	case ".jsonl", ".ndjson":
		return jsonio.ReadLines(path, jsonio.ReaderOptions{SampleRows: opt.SampleRows})
	case ".parquet":
		return parquetio.ReadFile(path)
	case ".arff":
		return golearn.ReadARFF(path)
	case ".csv", ".tsv", ".txt", "":
		return readDelimited(path, opt, logger)
	default:
		return nil, &frame.Error{Op: "load", Detail: fmt.Sprintf("unsupported file type %q", ext), Err: frame.ErrParseFailure}
	}
}

func readDelimited(path string, opt Options, logger *log.Logger) (*frame.Frame, error) {
	ro := csvio.ReaderOptions{Delimiter: opt.Delimiter}
	if ro.Delimiter == 0 && iox.BaseExt(path) == ".tsv" {
		ro.Delimiter = '\t'
	}
	if opt.LowMemory {
		chunk := opt.SampleRows
		if chunk <= 0 {
			chunk = DefaultChunkRows
		}
		sr, c, err := csvio.NewStreamReader(path, ro, chunk)
		if err != nil {
			return nil, err
		}
		defer func() { _ = c.Close() }()
		f, err := frame.Collect(sr)
		logRepairs(logger, path, sr.Warnings())
		if errors.Is(err, io.EOF) {
			return emptyFrame(sr.Names()), nil
		}
		return f, err
	}
	r, c, err := csvio.Open(path, ro)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()
	f, err := r.ReadAll()
	logRepairs(logger, path, r.Warnings())
	return f, err
}

func logRepairs(logger *log.Logger, path, warnings string) {
	if warnings != "" {
		logger.Printf("%s: repaired records (%s)", path, warnings)
	}
}

// emptyFrame is the header-only result: float columns, as a full read infers.
func emptyFrame(names []string) *frame.Frame {
	s := frame.Schema{Columns: make([]frame.ColumnSchema, len(names))}
	for i, n := range names {
		s.Columns[i] = frame.ColumnSchema{Name: n, Type: frame.KindFloat, Nullable: true}
	}
	return frame.NewFrame(s)
}
