// Package clean holds the row and column cleaning steps applied to freshly
// loaded frames. Every step is a frame.Transform and returns a new Frame.
package clean

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/argentumzz/movie/pkg/frame"
)

// DropMatching removes rows whose Column text contains a match of Pattern.
// Null cells never match, so their rows are kept.
type DropMatching struct {
	Column  string
	Pattern string
	re      *regexp.Regexp
}

func (t *DropMatching) Name() string { return "drop_matching" }

func (t *DropMatching) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if t.re == nil {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			return nil, &frame.Error{Op: t.Name(), Column: t.Column, Err: frame.ErrParseFailure, Detail: err.Error()}
		}
		t.re = re
	}
	col, err := f.Lookup(t.Name(), t.Column)
	if err != nil {
		return nil, err
	}
	return f.Filter(func(r int) bool {
		if col.IsNull(r) {
			return true
		}
		return !t.re.MatchString(frame.Text(col, r))
	}), nil
}

// Trim strips surrounding whitespace from a string column.
type Trim struct{ Column string }

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return mapStrings(f, t.Name(), t.Column, strings.TrimSpace)
}

// Normalize rewrites a string column to Unicode NFC so that titles compare
// equal regardless of how their accents were encoded.
type Normalize struct{ Column string }

func (t *Normalize) Name() string { return "normalize" }

func (t *Normalize) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return mapStrings(f, t.Name(), t.Column, norm.NFC.String)
}

func mapStrings(f *frame.Frame, op, name string, fn func(string) string) (*frame.Frame, error) {
	col, err := f.Lookup(op, name)
	if err != nil {
		return nil, err
	}
	sc, ok := col.(*frame.StringColumn)
	if !ok {
		return nil, &frame.Error{Op: op, Column: name, Err: frame.ErrTypeCastFailure, Detail: "not a string column: " + col.Kind().String()}
	}
	out := frame.NewStringColumn(name, sc.Len())
	for i := 0; i < sc.Len(); i++ {
		if v, ok := sc.Get(i); ok {
			out.Set(i, fn(v))
		}
	}
	return f.WithColumn(out)
}
