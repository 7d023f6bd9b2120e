// Package stream reads records out of large JSON array files one at a time.
// Source exports can run to hundreds of megabytes, so the whole array is
// never materialized; the decoder walks the token stream and yields one
// record per call.
package stream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// ErrMalformed marks a byte stream that is not valid JSON or whose top-level
// value is not an array. Distinct from I/O failures so callers can report
// "bad file" separately from "unreadable file".
var ErrMalformed = errors.New("malformed json document")

// Record is one decoded entry of a source array. Field shapes are
// polymorphic upstream, so values stay untyped until an extractor pulls
// them apart.
type Record = map[string]any

// Reader yields the records of a single top-level JSON array. It is a
// single-pass, forward-only cursor: once consumed it cannot be rewound,
// reopen the file to iterate again.
type Reader struct {
	c   io.Closer // nil when the source is not closeable
	dec *json.Decoder
}

// Open opens the file at path and positions the reader inside the top-level
// array. The returned error wraps ErrMalformed when the document does not
// start with '['.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r, err := newReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.c = f
	return r, nil
}

func newReader(src io.Reader) (*Reader, error) {
	dec := json.NewDecoder(src)
	tok, err := dec.Token()
	if err != nil {
		return nil, classify(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrMalformed)
	}
	return &Reader{dec: dec}, nil
}

// Next returns the next record. It returns io.EOF after the closing bracket,
// an error wrapping ErrMalformed on a syntax failure mid-stream, and the
// underlying error unchanged when the source itself fails to read.
func (r *Reader) Next() (Record, error) {
	if !r.dec.More() {
		if _, err := r.dec.Token(); err != nil {
			return nil, classify(err)
		}
		return nil, io.EOF
	}

	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		return nil, classify(err)
	}
	return rec, nil
}

// classify wraps JSON-shape failures in ErrMalformed. A truncated stream
// surfaces as EOF from the decoder and counts as malformed; anything else is
// a read failure and passes through untouched, keeping the bad-file versus
// unreadable-file distinction intact past Open.
func classify(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return err
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	if r.c == nil {
		return nil
	}
	return r.c.Close()
}

// EachRecord streams every record of the array at path through fn. The first
// error from fn stops iteration and is returned unchanged.
func EachRecord(path string, fn func(Record) error) error {
	r, err := Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
