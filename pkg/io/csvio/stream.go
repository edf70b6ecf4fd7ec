package csvio

import (
	"io"

	"github.com/argentumzz/movie/pkg/frame"
)

// StreamReader reads CSV into Frame chunks of up to chunkSize rows. Each chunk
// infers its own column kinds; frame.Collect reconciles them.
type StreamReader struct {
	r         *Reader
	names     []string
	chunkSize int
}

// NewStreamReader opens the file, reads the header, and returns a StreamReader.
func NewStreamReader(path string, opt ReaderOptions, chunkSize int) (*StreamReader, io.Closer, error) {
	rr, c, err := Open(path, opt)
	if err != nil {
		return nil, nil, err
	}
	names, err := rr.Header()
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	if chunkSize <= 0 {
		chunkSize = 10000
	}
	return &StreamReader{r: rr, names: names, chunkSize: chunkSize}, c, nil
}

// Next returns the next chunk frame or io.EOF when complete.
func (s *StreamReader) Next() (*frame.Frame, error) {
	recs := make([][]string, 0, s.chunkSize)
	for len(recs) < s.chunkSize {
		rec, err := s.r.next(len(s.names))
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return nil, io.EOF
	}
	return s.r.build(s.names, recs)
}

// Names returns the header column names.
func (s *StreamReader) Names() []string { return s.names }

// Warnings reports repairs made so far.
func (s *StreamReader) Warnings() string { return s.r.Warnings() }
