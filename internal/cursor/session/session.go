package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/steadycursor/internal/cursor/engine"
	"github.com/banshee-data/steadycursor/internal/cursor/profile"
	"github.com/banshee-data/steadycursor/internal/cursor/trace"
	"github.com/banshee-data/steadycursor/internal/timeutil"
	"github.com/banshee-data/steadycursor/internal/version"
)

// ErrClosed is returned by Step after Close.
var ErrClosed = errors.New("session: closed")

// Options configures a live session.
type Options struct {
	FixedHz       int     // defaults to engine.DefaultFixedHz
	VirtualWidth  float64 // zero disables edge resistance
	VirtualHeight float64
	DPI           float64 // recorded in the trace header when non-zero
	RunSeed       *uint64 // recorded in the trace header when set
	RunID         string  // defaults to a random UUID

	// Trace, when non-nil, receives the header and every accepted sample.
	// The session takes ownership and closes it.
	Trace *trace.Writer
	// FlushEvery flushes Trace every so many ticks. Zero leaves flushing
	// to Close.
	FlushEvery uint64

	Sink   engine.Sink    // nil discards telemetry
	Stages []engine.Stage // nil selects the canonical stages
	Clock  timeutil.Clock // nil selects the real clock
}

func (o Options) fixedHz() int {
	if o.FixedHz <= 0 {
		return engine.DefaultFixedHz
	}
	return o.FixedHz
}

func (o Options) pipeline() *engine.Pipeline {
	if o.Stages == nil {
		return engine.NewCanonicalPipeline()
	}
	return engine.NewPipeline(o.Stages...)
}

// Summary is the outcome of a live session or a replay.
type Summary struct {
	RunID         string
	Ticks         uint64
	Hash          uint64
	PolicyVersion int
	SchemaVersion int
}

func (s Summary) String() string {
	return fmt.Sprintf("run=%s ticks=%d hash=%016x policy=v%d schema=v%d",
		s.RunID, s.Ticks, s.Hash, s.PolicyVersion, s.SchemaVersion)
}

// Session drives the engine from live input. A Session is owned by the
// single tick goroutine.
type Session struct {
	runID      string
	hz         int
	wrapper    *engine.Wrapper
	writer     *trace.Writer
	flushEvery uint64
	closed     bool
	summary    Summary
}

// Start maps p to an engine config and opens a session on it. When
// opts.Trace is set the header is written before Start returns.
func Start(p profile.MotorProfile, opts Options) (*Session, error) {
	hdr := newHeader(opts)
	cfg := profile.Map(p).WithBounds(hdr.Bounds())

	w, err := engine.NewWrapper(opts.pipeline(), cfg, opts.Sink)
	if err != nil {
		if opts.Trace != nil {
			opts.Trace.Close()
		}
		return nil, fmt.Errorf("session: %w", err)
	}
	s := &Session{
		runID:      hdr.RunID,
		hz:         hdr.FixedHz,
		wrapper:    w,
		writer:     opts.Trace,
		flushEvery: opts.FlushEvery,
	}
	if s.writer != nil {
		if err := s.writer.WriteHeader(hdr); err != nil {
			s.writer.Close()
			return nil, fmt.Errorf("session: %w", err)
		}
	}
	return s, nil
}

func newHeader(opts Options) trace.Header {
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	h := trace.NewHeader(version.SourceApp, opts.fixedHz(), clock.Now())
	h.SourceVersion = version.Version
	h.RunSeed = opts.RunSeed
	h.RunID = opts.RunID
	if h.RunID == "" {
		h.RunID = uuid.NewString()
	}
	if opts.DPI > 0 {
		dpi := opts.DPI
		h.DPI = &dpi
	}
	h.VirtualWidth = opts.VirtualWidth
	h.VirtualHeight = opts.VirtualHeight
	return h
}

// RunID identifies the session in its trace header and in baselines.
func (s *Session) RunID() string { return s.runID }

// Config returns the engine config the session runs under.
func (s *Session) Config() engine.EngineConfig { return s.wrapper.Config() }

// Step records in and advances the engine by one fixed tick. A sample the
// engine would reject is neither recorded nor hashed, so the trace holds
// exactly the ticks that fed the hash.
func (s *Session) Step(in engine.InputSample, targets []engine.TargetInfo) (engine.TransformResult, error) {
	if s.closed {
		return engine.TransformResult{}, ErrClosed
	}
	ctx := engine.NewTransformContext(in.Tick, s.hz)
	if err := s.wrapper.Check(in, ctx, targets); err != nil {
		return engine.TransformResult{}, err
	}
	if s.writer != nil {
		if err := s.writer.WriteSample(trace.SampleFromInput(in)); err != nil {
			return engine.TransformResult{}, fmt.Errorf("session: record tick %d: %w", in.Tick, err)
		}
	}
	out, err := s.wrapper.FixedStep(in, ctx, targets)
	if err != nil {
		return engine.TransformResult{}, err
	}
	if s.writer != nil && s.flushEvery > 0 && s.wrapper.Ticks()%s.flushEvery == 0 {
		if err := s.writer.Flush(); err != nil {
			return out, fmt.Errorf("session: %w", err)
		}
	}
	return out, nil
}

// Summary reports progress so far without closing.
func (s *Session) Summary() Summary {
	if s.closed {
		return s.summary
	}
	return Summary{
		RunID:         s.runID,
		Ticks:         s.wrapper.Ticks(),
		Hash:          s.wrapper.Hash(),
		PolicyVersion: s.wrapper.Config().MappingPolicyVersion,
		SchemaVersion: engine.HashSchemaVersion,
	}
}

// Close closes the trace, if any, and returns the final summary. Close is
// idempotent.
func (s *Session) Close() (Summary, error) {
	if s.closed {
		return s.summary, nil
	}
	s.summary = s.Summary()
	s.closed = true
	if s.writer != nil {
		if err := s.writer.Close(); err != nil {
			return s.summary, fmt.Errorf("session: %w", err)
		}
	}
	return s.summary, nil
}
