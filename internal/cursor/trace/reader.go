package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
)

// maxRecordBytes bounds a single record line.
const maxRecordBytes = 1 << 20

// Reader reads a trace stream. The header is parsed eagerly; samples are
// streamed on demand and can be iterated more than once.
type Reader struct {
	src    io.ReadSeeker
	header Header
	// headerLine is the line number of the header record.
	headerLine int
}

// NewReader parses the header of src. A stream with no header, or whose
// first record is not a valid header, yields a *FormatError.
func NewReader(src io.ReadSeeker) (*Reader, error) {
	r := &Reader{src: src}
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

// Open opens the trace file at path. The caller must Close the Reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Header returns the parsed header record.
func (r *Reader) Header() Header { return r.header }

// Close closes the underlying stream when it supports closing.
func (r *Reader) Close() error {
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Samples streams tick records in file order. Iteration stops after the
// first error, which is yielded with a zero Sample. Each call rewinds the
// stream, so the sequence may be ranged over again.
func (r *Reader) Samples() iter.Seq2[Sample, error] {
	return func(yield func(Sample, error) bool) {
		sc, err := r.rewind()
		if err != nil {
			yield(Sample{}, err)
			return
		}
		line := 0
		for line < r.headerLine && sc.Scan() {
			line++
		}

		var (
			last Sample
			seen bool
		)
		for sc.Scan() {
			line++
			raw := bytes.TrimSpace(sc.Bytes())
			if len(raw) == 0 {
				continue
			}
			s, err := decodeSample(raw, line)
			if err == nil && seen && s.Tick < last.Tick {
				err = &FormatError{Line: line, Reason: fmt.Sprintf("tick %d after %d", s.Tick, last.Tick)}
			}
			if err != nil {
				yield(Sample{}, err)
				return
			}
			last, seen = s, true
			if !yield(s, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(Sample{}, scanError(err, line+1))
		}
	}
}

// ReadAll collects every sample.
func (r *Reader) ReadAll() ([]Sample, error) {
	var out []Sample
	for s, err := range r.Samples() {
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *Reader) readHeader() error {
	sc, err := r.rewind()
	if err != nil {
		return err
	}
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec headerRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return &FormatError{Line: line, Reason: "malformed header", Err: err}
		}
		if rec.Type != recordHeader {
			return &FormatError{Line: line, Reason: fmt.Sprintf("first record has type %q, want %q", rec.Type, recordHeader)}
		}
		if err := rec.Header.Validate(); err != nil {
			return &FormatError{Line: line, Reason: "invalid header", Err: err}
		}
		r.header = rec.Header
		r.headerLine = line
		return nil
	}
	if err := sc.Err(); err != nil {
		return scanError(err, line+1)
	}
	return &FormatError{Line: 0, Reason: "missing header"}
}

func (r *Reader) rewind() (*bufio.Scanner, error) {
	if _, err := r.src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("trace: rewind: %w", err)
	}
	sc := bufio.NewScanner(r.src)
	sc.Buffer(make([]byte, 0, 64<<10), maxRecordBytes)
	return sc, nil
}

func decodeSample(raw []byte, line int) (Sample, error) {
	var w sampleWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Sample{}, &FormatError{Line: line, Reason: "unparseable record", Err: err}
	}
	switch w.Type {
	case recordTick:
	case recordHeader:
		return Sample{}, &FormatError{Line: line, Reason: "duplicate header"}
	default:
		return Sample{}, &FormatError{Line: line, Reason: fmt.Sprintf("unknown record type %q", w.Type)}
	}
	s, err := w.sample()
	if err != nil {
		return Sample{}, &FormatError{Line: line, Reason: "incomplete tick record", Err: err}
	}
	return s, nil
}

func scanError(err error, line int) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return &FormatError{Line: line, Reason: "record exceeds line limit", Err: err}
	}
	return fmt.Errorf("trace: read: %w", err)
}
