package engine

import "fmt"

// Wrapper drives a Pipeline one fixed step at a time and owns the running
// determinism hash. Two wrappers fed the same ordered samples under configs
// that produce the same stage outputs hold equal hashes after every tick.
//
// A Wrapper is not safe for concurrent use.
type Wrapper struct {
	pipeline *Pipeline
	cfg      EngineConfig
	sink     Sink

	hash     uint64
	ticks    uint64
	lastTick uint64
}

// NewWrapper validates cfg and returns a wrapper at the initial hash. A nil
// sink is replaced by NopSink.
func NewWrapper(p *Pipeline, cfg EngineConfig, sink Sink) (*Wrapper, error) {
	if p == nil {
		return nil, fmt.Errorf("engine: nil pipeline")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Wrapper{
		pipeline: p,
		cfg:      cfg,
		sink:     sink,
		hash:     HashOffsetBasis,
	}, nil
}

// FixedStep runs the pipeline once, folds the tick into the hash and
// reports it to the sink. Non-finite sample or target fields, a sample
// stamped with another tick than ctx, a non-positive or non-finite tick
// duration and a tick lower than the previous one are rejected with a
// *PreconditionViolation before any state changes.
func (w *Wrapper) FixedStep(in InputSample, ctx TransformContext, targets []TargetInfo) (TransformResult, error) {
	if err := w.Check(in, ctx, targets); err != nil {
		return TransformResult{}, err
	}

	st, events := w.pipeline.Step(in, ctx, &w.cfg, targets)
	out := TransformResult{
		Tick:     ctx.Tick,
		Position: st.Position,
		Buttons:  in.Buttons(),
	}
	w.hash = FoldTick(w.hash, ctx.Tick, in, out)
	out.Hash = w.hash
	w.ticks++
	w.lastTick = ctx.Tick

	w.sink.RecordTick(ctx.Tick, in, out, targets)
	for _, ev := range events {
		w.sink.RecordEvent(ev)
	}
	return out, nil
}

// Check reports whether FixedStep would accept in, ctx and targets, without
// stepping.
func (w *Wrapper) Check(in InputSample, ctx TransformContext, targets []TargetInfo) error {
	fields := [...]struct {
		name string
		v    float64
	}{
		{"InputSample.Position.X", in.Position.X},
		{"InputSample.Position.Y", in.Position.Y},
		{"InputSample.Delta.X", in.Delta.X},
		{"InputSample.Delta.Y", in.Delta.Y},
		{"TransformContext.DeltaSeconds", ctx.DeltaSeconds},
	}
	for _, f := range fields {
		if err := checkFinite(f.name, f.v); err != nil {
			return err
		}
	}
	if ctx.DeltaSeconds <= 0 {
		return &PreconditionViolation{Field: "TransformContext.DeltaSeconds", Value: ctx.DeltaSeconds, Reason: "must be positive"}
	}
	if in.Tick != ctx.Tick {
		return &PreconditionViolation{
			Field:  "InputSample.Tick",
			Value:  float64(in.Tick),
			Reason: fmt.Sprintf("sample stamped for another tick than %d", ctx.Tick),
		}
	}
	for i, t := range targets {
		if err := checkTarget(i, t); err != nil {
			return err
		}
	}
	if w.ticks > 0 && ctx.Tick < w.lastTick {
		return &PreconditionViolation{
			Field:  "TransformContext.Tick",
			Value:  float64(ctx.Tick),
			Reason: fmt.Sprintf("tick regressed below %d", w.lastTick),
		}
	}
	return nil
}

func checkTarget(i int, t TargetInfo) error {
	fields := [...]struct {
		name string
		v    float64
	}{
		{"Center.X", t.Center.X},
		{"Center.Y", t.Center.Y},
		{"RadiusVpx", t.RadiusVpx},
		{"Weight", t.Weight},
	}
	for _, f := range fields {
		if err := checkFinite(fmt.Sprintf("TargetInfo[%d].%s", i, f.name), f.v); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns the wrapper to the state of a freshly constructed one: the
// hash goes back to HashOffsetBasis, the tick count to zero, the pipeline
// forgets its stage state and the sink is reset.
func (w *Wrapper) Reset() {
	w.hash = HashOffsetBasis
	w.ticks = 0
	w.lastTick = 0
	w.pipeline.Reset()
	w.sink.Reset()
}

// SetConfig replaces the config wholesale, for example after a profile
// change. The hash and stage state carry on.
func (w *Wrapper) SetConfig(cfg EngineConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	w.cfg = cfg
	return nil
}

// Config returns the config in force.
func (w *Wrapper) Config() EngineConfig { return w.cfg }

// Hash returns the running determinism hash.
func (w *Wrapper) Hash() uint64 { return w.hash }

// Ticks returns the number of ticks folded since construction or Reset.
func (w *Wrapper) Ticks() uint64 { return w.ticks }
