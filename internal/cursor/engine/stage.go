package engine

import "math"

// Stage is one corrective transform. Apply receives the cursor state and the
// target list produced by the previous stage and returns the updated pair.
// Stages never fail: every parameter they read was range-checked when the
// EngineConfig was validated.
//
// The returned target slice may alias storage owned by the stage and is only
// valid until the next Apply call.
type Stage interface {
	Name() string
	Apply(f *Frame, state CursorState, targets []TargetInfo) (CursorState, []TargetInfo)
}

// Resetter is implemented by stages that carry state across ticks.
type Resetter interface {
	Reset()
}

// Frame is the read-only tick context shared by all stages of one Step.
type Frame struct {
	Input   InputSample
	Context TransformContext
	Config  *EngineConfig

	events *[]EngineEvent
}

// Emit queues ev for the sink, stamped with the current tick.
func (f *Frame) Emit(ev EngineEvent) {
	if f.events == nil {
		return
	}
	ev.Tick = f.Context.Tick
	*f.events = append(*f.events, ev)
}

// DeltaSeconds returns the tick duration, falling back to the nominal rate
// when the context carries none.
func (f *Frame) DeltaSeconds() float64 {
	if f.Context.DeltaSeconds > 0 {
		return f.Context.DeltaSeconds
	}
	return 1.0 / DefaultFixedHz
}

// CanonicalStages returns fresh instances of the standard stage set in
// pipeline order. Smoothing runs before magnetism and magnetism before edge
// and overshoot correction; recorded baselines depend on this order.
func CanonicalStages() []Stage {
	return []Stage{
		&Smoothing{},
		&Magnetism{},
		&EdgeResistance{},
		&Overshoot{},
	}
}

// clamp01 limits v to [0,1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
