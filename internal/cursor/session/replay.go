package session

import (
	"errors"
	"fmt"

	"github.com/banshee-data/steadycursor/internal/cursor/baseline"
	"github.com/banshee-data/steadycursor/internal/cursor/engine"
	"github.com/banshee-data/steadycursor/internal/cursor/trace"
)

var (
	// ErrTickCountMismatch means the replay processed a different number of
	// ticks than the baseline, typically a truncated or partial trace.
	ErrTickCountMismatch = errors.New("session: tick count mismatch")
	// ErrHashMismatch means the tick counts agree but the output diverged.
	ErrHashMismatch = errors.New("session: hash mismatch")
	// ErrPolicyMismatch means the baseline was captured under another
	// mapping policy, so its hash cannot be compared.
	ErrPolicyMismatch = errors.New("session: mapping policy mismatch")
	// ErrSchemaMismatch means the trace or baseline uses another hash schema.
	ErrSchemaMismatch = errors.New("session: hash schema mismatch")
)

// TargetSource supplies the target list for a replayed tick. Traces hold raw
// input only, so the source must reproduce what the live session saw.
type TargetSource interface {
	TargetsAt(tick uint64) []engine.TargetInfo
}

// StaticTargets is a TargetSource whose targets never change.
type StaticTargets []engine.TargetInfo

func (t StaticTargets) TargetsAt(uint64) []engine.TargetInfo { return t }

// ReplayOptions configures Replay. The zero value replays through the
// canonical stages with no targets and no telemetry.
type ReplayOptions struct {
	Targets TargetSource
	Sink    engine.Sink
	Stages  []engine.Stage
}

// Replay feeds every sample of r through a fresh wrapper configured with cfg
// and the header's fixed rate and virtual bounds. It aborts on the first
// format error or rejected sample.
func Replay(r *trace.Reader, cfg engine.EngineConfig, opts ReplayOptions) (Summary, error) {
	h := r.Header()
	if h.SchemaVersion != engine.HashSchemaVersion {
		return Summary{}, fmt.Errorf("%w: trace v%d, engine v%d", ErrSchemaMismatch, h.SchemaVersion, engine.HashSchemaVersion)
	}
	cfg = cfg.WithBounds(h.Bounds())

	pipeline := engine.NewCanonicalPipeline()
	if opts.Stages != nil {
		pipeline = engine.NewPipeline(opts.Stages...)
	}
	w, err := engine.NewWrapper(pipeline, cfg, opts.Sink)
	if err != nil {
		return Summary{}, fmt.Errorf("session: replay: %w", err)
	}

	for s, err := range r.Samples() {
		if err != nil {
			return Summary{}, fmt.Errorf("session: replay: %w", err)
		}
		var targets []engine.TargetInfo
		if opts.Targets != nil {
			targets = opts.Targets.TargetsAt(s.Tick)
		}
		ctx := engine.NewTransformContext(s.Tick, h.FixedHz)
		if _, err := w.FixedStep(s.Input(), ctx, targets); err != nil {
			return Summary{}, fmt.Errorf("session: replay tick %d: %w", s.Tick, err)
		}
	}

	return Summary{
		RunID:         h.RunID,
		Ticks:         w.Ticks(),
		Hash:          w.Hash(),
		PolicyVersion: cfg.MappingPolicyVersion,
		SchemaVersion: h.SchemaVersion,
	}, nil
}

// ReplayFile opens path and replays it.
func ReplayFile(path string, cfg engine.EngineConfig, opts ReplayOptions) (Summary, error) {
	r, err := trace.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer r.Close()
	return Replay(r, cfg, opts)
}

// Verify compares a replay summary with a stored baseline. Tick count is
// checked before the hash so a partial trace is reported as such rather
// than as divergence.
func Verify(got Summary, want baseline.Baseline) error {
	if want.SchemaVersion != 0 && got.SchemaVersion != want.SchemaVersion {
		return fmt.Errorf("%w: replay v%d, baseline v%d", ErrSchemaMismatch, got.SchemaVersion, want.SchemaVersion)
	}
	if got.Ticks != want.Ticks {
		return fmt.Errorf("%w: replay %d, baseline %d", ErrTickCountMismatch, got.Ticks, want.Ticks)
	}
	if got.PolicyVersion != want.PolicyVersion {
		return fmt.Errorf("%w: replay v%d, baseline v%d", ErrPolicyMismatch, got.PolicyVersion, want.PolicyVersion)
	}
	if got.Hash != want.Hash {
		return fmt.Errorf("%w: replay %016x, baseline %016x", ErrHashMismatch, got.Hash, want.Hash)
	}
	return nil
}

// Baseline converts s into a baseline record for tracePath.
func (s Summary) Baseline(tracePath string, fixedHz int, sourceVersion string) baseline.Baseline {
	return baseline.Baseline{
		RunID:         s.RunID,
		TracePath:     tracePath,
		Ticks:         s.Ticks,
		Hash:          s.Hash,
		SchemaVersion: s.SchemaVersion,
		PolicyVersion: s.PolicyVersion,
		FixedHz:       fixedHz,
		SourceVersion: sourceVersion,
	}
}
