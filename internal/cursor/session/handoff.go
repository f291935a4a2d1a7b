package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/banshee-data/steadycursor/internal/cursor/engine"
	"github.com/banshee-data/steadycursor/internal/monitoring"
)

// Capture is one raw sample and the targets under the pointer when it was
// taken.
type Capture struct {
	Sample  engine.InputSample
	Targets []engine.TargetInfo
}

// Handoff moves captures from an OS input goroutine to the tick goroutine.
// Offer never blocks: when the queue is full the capture is dropped and
// counted. Dropped captures never reach the engine or the trace, so replay
// stays consistent with what was hashed.
type Handoff struct {
	ch       chan Capture
	mu       sync.RWMutex
	closed   bool
	offered  atomic.Uint64
	dropped  atomic.Uint64
	consumed atomic.Uint64
}

// NewHandoff returns a Handoff buffering up to capacity captures.
func NewHandoff(capacity int) *Handoff {
	if capacity < 1 {
		capacity = 1
	}
	return &Handoff{ch: make(chan Capture, capacity)}
}

// Offer queues c without blocking and reports whether it was accepted.
// The target slice is copied. Offers after Close are dropped.
func (h *Handoff) Offer(c Capture) bool {
	c.Targets = slices.Clone(c.Targets)

	h.mu.RLock()
	defer h.mu.RUnlock()
	h.offered.Add(1)
	if h.closed {
		h.dropped.Add(1)
		return false
	}
	select {
	case h.ch <- c:
		return true
	default:
		h.dropped.Add(1)
		return false
	}
}

// Close stops accepting captures. Run drains what is queued and returns.
func (h *Handoff) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.ch)
	}
}

// Dropped returns the number of rejected captures.
func (h *Handoff) Dropped() uint64 { return h.dropped.Load() }

// Consumed returns the number of captures handed to Run's callback.
func (h *Handoff) Consumed() uint64 { return h.consumed.Load() }

// Run calls fn for each capture in arrival order until ctx is cancelled,
// the handoff is closed and drained, or fn fails. It returns fn's error or
// ctx.Err().
func (h *Handoff) Run(ctx context.Context, fn func(Capture) error) error {
	defer func() {
		if d := h.dropped.Load(); d > 0 {
			monitoring.Logf("handoff: dropped %d of %d captures", d, h.offered.Load())
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-h.ch:
			if !ok {
				return nil
			}
			h.consumed.Add(1)
			if err := fn(c); err != nil {
				return err
			}
		}
	}
}

// Drive runs s from h until h is closed or ctx is cancelled. Samples the
// engine rejects are logged and skipped; trace I/O errors stop the loop.
func Drive(ctx context.Context, h *Handoff, s *Session) error {
	return h.Run(ctx, func(c Capture) error {
		_, err := s.Step(c.Sample, c.Targets)
		var pv *engine.PreconditionViolation
		if errors.As(err, &pv) {
			monitoring.Logf("session %s: skipped tick %d: %v", s.RunID(), c.Sample.Tick, pv)
			return nil
		}
		return err
	})
}
