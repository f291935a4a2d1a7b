package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Writer appends records to a trace stream. It is safe for concurrent use;
// each record is encoded before the lock is taken and written as one
// complete line, so records never interleave. Ordering between goroutines
// is the caller's concern.
type Writer struct {
	mu         sync.Mutex
	dst        io.Writer
	bw         *bufio.Writer
	headerDone bool
	lastTick   uint64
	samples    uint64
	err        error // sticky write error
	closed     bool
}

// NewWriter wraps dst. Close flushes and, when dst supports it, syncs and
// closes dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst, bw: bufio.NewWriterSize(dst, 64<<10)}
}

// Create truncates or creates the file at path and returns a Writer on it.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("trace: create %s: %w", path, err)
	}
	return NewWriter(f), nil
}

// Record creates path, writes h, runs fn and closes the writer even when fn
// fails or panics.
func Record(path string, h Header, fn func(*Writer) error) (err error) {
	w, err := Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	if err := w.WriteHeader(h); err != nil {
		return err
	}
	return fn(w)
}

// WriteHeader writes the header record. It must be the first write.
func (w *Writer) WriteHeader(h Header) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("trace: invalid header: %w", err)
	}
	if !h.CreatedUTC.IsZero() {
		h.CreatedUTC = h.CreatedUTC.UTC()
	}
	line, err := encodeLine(headerRecord{Type: recordHeader, Header: h})
	if err != nil {
		return fmt.Errorf("trace: encode header: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.usable(); err != nil {
		return err
	}
	if w.headerDone {
		return ErrHeaderWritten
	}
	if err := w.writeLocked(line); err != nil {
		return err
	}
	w.headerDone = true
	return nil
}

// WriteSample appends one tick record.
func (w *Writer) WriteSample(s Sample) error {
	line, err := encodeLine(sampleRecord{Type: recordTick, Sample: s})
	if err != nil {
		return fmt.Errorf("trace: encode tick %d: %w", s.Tick, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.usable(); err != nil {
		return err
	}
	if !w.headerDone {
		return ErrNoHeader
	}
	if w.samples > 0 && s.Tick < w.lastTick {
		return fmt.Errorf("%w: tick %d after %d", ErrTickOrder, s.Tick, w.lastTick)
	}
	if err := w.writeLocked(line); err != nil {
		return err
	}
	w.lastTick = s.Tick
	w.samples++
	return nil
}

// Samples returns the number of tick records written so far.
func (w *Writer) Samples() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.samples
}

// Flush pushes buffered records to the underlying stream.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.usable(); err != nil {
		return err
	}
	if err := w.bw.Flush(); err != nil {
		w.err = fmt.Errorf("trace: flush: %w", err)
		return w.err
	}
	return nil
}

// Close flushes, syncs and closes the underlying stream. Calling Close more
// than once is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if w.err != nil {
		errs = append(errs, w.err)
	} else if err := w.bw.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("trace: flush: %w", err))
	}
	if s, ok := w.dst.(interface{ Sync() error }); ok {
		if err := s.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("trace: sync: %w", err))
		}
	}
	if c, ok := w.dst.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace: close: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (w *Writer) usable() error {
	if w.closed {
		return ErrClosed
	}
	return w.err
}

func (w *Writer) writeLocked(line []byte) error {
	if _, err := w.bw.Write(line); err != nil {
		w.err = fmt.Errorf("trace: write: %w", err)
		return w.err
	}
	return nil
}

func encodeLine(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
