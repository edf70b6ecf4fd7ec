// Package ioutils opens and creates data files, transparently handling gzip.
package ioutils

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/argentumzz/movie/pkg/frame"
)

// OpenMaybeCompressed opens a file path or stdin ("-") and returns a reader.
// If the input appears to be gzip (by extension or magic), it wraps with gzip.
// A path that does not exist yields an error wrapping frame.ErrNotFound.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	if path == "-" {
		return sniffGzip(bufio.NewReader(os.Stdin), func() error { return nil })
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, classifyOpen(path, err)
	}
	if IsGzipPath(path) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, &frame.Error{Op: "open", Detail: path, Err: frame.ErrParseFailure}
		}
		return readCloser{Reader: zr, closeFn: func() error { _ = zr.Close(); return f.Close() }}, nil
	}
	return sniffGzip(bufio.NewReader(f), f.Close)
}

func sniffGzip(br *bufio.Reader, closeFn func() error) (io.ReadCloser, error) {
	b, err := br.Peek(2)
	if err == nil && b[0] == 0x1f && b[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = closeFn()
			return nil, fmt.Errorf("gzip: %w", frame.ErrParseFailure)
		}
		return readCloser{Reader: zr, closeFn: func() error { _ = zr.Close(); return closeFn() }}, nil
	}
	return readCloser{Reader: br, closeFn: closeFn}, nil
}

// CreateMaybeCompressed creates a file (or stdout if path is "-") and
// returns a writer. If the path ends in .gz, the writer is gzip compressed.
func CreateMaybeCompressed(path string) (io.WriteCloser, error) {
	if path == "-" {
		return writeCloser{Writer: bufio.NewWriter(os.Stdout)}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if IsGzipPath(path) {
		zw := gzip.NewWriter(f)
		return writeCloser{Writer: zw, closeFn: func() error {
			if err := zw.Close(); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		}}, nil
	}
	return writeCloser{Writer: bufio.NewWriter(f), closeFn: f.Close}, nil
}

// IsGzipPath reports whether path names a gzip file by extension.
func IsGzipPath(path string) bool { return strings.HasSuffix(strings.ToLower(path), ".gz") }

// BaseExt returns the lower-cased extension of path ignoring a trailing ".gz".
func BaseExt(path string) string {
	p := strings.ToLower(path)
	p = strings.TrimSuffix(p, ".gz")
	return filepath.Ext(p)
}

func classifyOpen(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &frame.Error{Op: "open", Detail: path, Err: frame.ErrNotFound}
	}
	return err
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error {
	if r.closeFn != nil {
		return r.closeFn()
	}
	return errors.New("no closeFn")
}

type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (w writeCloser) Close() error {
	if bw, ok := w.Writer.(*bufio.Writer); ok {
		if err := bw.Flush(); err != nil {
			if w.closeFn != nil {
				_ = w.closeFn()
			}
			return err
		}
	}
	if w.closeFn != nil {
		return w.closeFn()
	}
	return nil
}
