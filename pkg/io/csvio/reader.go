// Package csvio reads delimited text into Frames with per-column type
// inference, and writes Frames back out.
package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/argentumzz/movie/pkg/frame"
	iox "github.com/argentumzz/movie/pkg/io/ioutils"
)

// DefaultNAValues are the cell spellings read as null.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

type ReaderOptions struct {
	Delimiter  rune // 0 = sniff, default ','
	Strict     bool // if true, error on short records too (long records always fail)
	LazyQuotes bool
	NAValues   []string // nil = DefaultNAValues
}

type Reader struct {
	r     *csv.Reader
	opt   ReaderOptions
	na    map[string]struct{}
	names []string
	line  int
	// repair/warning counters
	shortRecords int
}

// Open opens a delimited file (optionally gzip compressed) and returns a Reader
// plus the closer for the underlying file.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	return NewReaderFrom(rc, opt), rc, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	br := bufio.NewReader(r)
	if opt.Delimiter == 0 {
		sample, _ := br.Peek(4096)
		opt.Delimiter = sniffDelimiter(sample)
	}
	rr := csv.NewReader(br)
	rr.Comma = opt.Delimiter
	rr.FieldsPerRecord = -1
	rr.LazyQuotes = opt.LazyQuotes
	na := opt.NAValues
	if na == nil {
		na = DefaultNAValues
	}
	set := make(map[string]struct{}, len(na))
	for _, v := range na {
		set[v] = struct{}{}
	}
	return &Reader{r: rr, opt: opt, na: set}
}

// Header reads the header row once and returns the column names. Duplicate
// names get ".1", ".2", ... suffixes, skipping any suffixed name already in use.
func (r *Reader) Header() ([]string, error) {
	if r.names != nil {
		return r.names, nil
	}
	rec, err := r.r.Read()
	if err == io.EOF {
		return nil, &frame.Error{Op: "read csv", Detail: "no header row", Err: frame.ErrParseFailure}
	}
	if err != nil {
		return nil, parseErr(err)
	}
	r.line++
	names := make([]string, len(rec))
	seen := map[string]int{}
	for i := range rec {
		n := strings.ToValidUTF8(rec[i], "?")
		if i == 0 {
			n = strings.TrimPrefix(n, "\ufeff")
		}
		if k, dup := seen[n]; dup {
			base := n
			for {
				k++
				n = base + "." + strconv.Itoa(k)
				if _, taken := seen[n]; !taken {
					break
				}
			}
			seen[base] = k
		}
		seen[n] = 0
		names[i] = n
	}
	r.names = names
	return names, nil
}

// ReadAll loads the rest of the file into a Frame, inferring column kinds
// from every row.
func (r *Reader) ReadAll() (*frame.Frame, error) {
	names, err := r.Header()
	if err != nil {
		return nil, err
	}
	var recs [][]string
	for {
		rec, err := r.next(len(names))
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return r.build(names, recs)
}

// next reads one record, normalized to n fields.
func (r *Reader) next(n int) ([]string, error) {
	rec, err := r.r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, parseErr(err)
	}
	r.line++
	switch {
	case len(rec) > n:
		return nil, &frame.Error{Op: "read csv", Row: r.line, Err: frame.ErrParseFailure,
			Detail: fmt.Sprintf("expected %d fields, saw %d", n, len(rec))}
	case len(rec) < n:
		if r.opt.Strict {
			return nil, &frame.Error{Op: "read csv", Row: r.line, Err: frame.ErrParseFailure,
				Detail: fmt.Sprintf("expected %d fields, saw %d", n, len(rec))}
		}
		r.shortRecords++
		rec = append(rec, make([]string, n-len(rec))...)
	}
	return rec, nil
}

func (r *Reader) isNA(v string) bool {
	_, ok := r.na[v]
	return ok
}

func (r *Reader) build(names []string, recs [][]string) (*frame.Frame, error) {
	kinds := r.inferKinds(recs, len(names))
	cols := make([]frame.Column, len(names))
	for c, name := range names {
		col, err := frame.NewColumn(name, kinds[c], len(recs))
		if err != nil {
			return nil, err
		}
		for i, rec := range recs {
			v := rec[c]
			if r.isNA(v) {
				continue
			}
			if err := setParsed(col, i, v); err != nil {
				return nil, &frame.Error{Op: "read csv", Column: name, Err: frame.ErrParseFailure, Detail: err.Error()}
			}
		}
		cols[c] = col
	}
	if len(cols) == 0 {
		return frame.NewFrame(frame.Schema{}), nil
	}
	f, err := frame.FromColumns(cols...)
	if err != nil {
		return nil, &frame.Error{Op: "read csv", Err: frame.ErrParseFailure, Detail: err.Error()}
	}
	return f, nil
}

func setParsed(col frame.Column, i int, v string) error {
	switch c := col.(type) {
	case *frame.IntColumn:
		x, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return err
		}
		c.Set(i, x)
	case *frame.FloatColumn:
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return err
		}
		c.Set(i, x)
	case *frame.BoolColumn:
		x, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v)))
		if err != nil {
			return err
		}
		c.Set(i, x)
	case *frame.StringColumn:
		c.Set(i, strings.ToValidUTF8(v, "?"))
	default:
		return fmt.Errorf("unsupported kind %s", col.Kind())
	}
	return nil
}

var (
	intRe   = regexp.MustCompile(`^[-+]?[0-9]+$`)
	floatRe = regexp.MustCompile(`^[-+]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][-+]?[0-9]+)?$`)
)

// inferKinds picks, per column, the narrowest kind every non-null value fits:
// int, then float, then bool, else string. Columns with no values are float,
// since they can only hold nulls.
func (r *Reader) inferKinds(rows [][]string, ncol int) []frame.Kind {
	kinds := make([]frame.Kind, ncol)
	for c := 0; c < ncol; c++ {
		isInt, isFloat, isBool, seen := true, true, true, false
		for _, row := range rows {
			v := row[c]
			if r.isNA(v) {
				continue
			}
			seen = true
			t := strings.TrimSpace(v)
			if isInt && !intRe.MatchString(t) {
				isInt = false
			} else if isInt {
				if _, err := strconv.ParseInt(t, 10, 64); err != nil {
					isInt = false
				}
			}
			if isFloat && !floatRe.MatchString(t) {
				isFloat = false
			}
			if isBool {
				lv := strings.ToLower(t)
				isBool = lv == "true" || lv == "false"
			}
			if !isInt && !isFloat && !isBool {
				break
			}
		}
		switch {
		case !seen:
			kinds[c] = frame.KindFloat
		case isInt:
			kinds[c] = frame.KindInt
		case isFloat:
			kinds[c] = frame.KindFloat
		case isBool:
			kinds[c] = frame.KindBool
		default:
			kinds[c] = frame.KindString
		}
	}
	return kinds
}

func sniffDelimiter(sample []byte) rune {
	if len(sample) == 0 {
		return ','
	}
	// only look at the header line, outside quotes
	candidates := []byte{',', '\t', ';', '|'}
	counts := make(map[byte]int, len(candidates))
	inQuote := false
	for _, b := range sample {
		if b == '"' {
			inQuote = !inQuote
			continue
		}
		if b == '\n' && !inQuote {
			break
		}
		if !inQuote {
			counts[b]++
		}
	}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		if counts[c] > bestCount {
			bestCount = counts[c]
			best = c
		}
	}
	return rune(best)
}

func parseErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &frame.Error{Op: "read csv", Row: pe.Line, Err: frame.ErrParseFailure, Detail: pe.Err.Error()}
	}
	return &frame.Error{Op: "read csv", Err: frame.ErrParseFailure, Detail: err.Error()}
}

// Warnings returns a summary string of any repairs encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 {
		return ""
	}
	return fmt.Sprintf("short_records=%d", r.shortRecords)
}
