package trace

import (
	"errors"
	"fmt"
)

// FormatError reports a trace stream that does not follow the record
// layout: a missing or malformed header, an unparseable or unknown record,
// or ticks out of order. Replay aborts on it.
type FormatError struct {
	Line   int // 1-based; 0 when the stream ended before the problem line
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("trace: line %d: %s", e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

var (
	// ErrHeaderWritten is returned by a second WriteHeader call.
	ErrHeaderWritten = errors.New("trace: header already written")
	// ErrNoHeader is returned when a sample is written before the header.
	ErrNoHeader = errors.New("trace: sample written before header")
	// ErrTickOrder is returned when a sample's tick is lower than the last one written.
	ErrTickOrder = errors.New("trace: tick out of order")
	// ErrClosed is returned by writes after Close.
	ErrClosed = errors.New("trace: writer closed")
)
