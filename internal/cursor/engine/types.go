package engine

import "math"

// Vec2 is a point or displacement in virtual pixels.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale returns v*k. The explicit conversions round each product so the
// compiler cannot fuse it into a following add on FMA-capable targets; the
// determinism hash depends on identical rounding across architectures.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{X: float64(v.X * k), Y: float64(v.Y * k)} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return float64(v.X*o.X) + float64(v.Y*o.Y) }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Button bits used in InputSample.Buttons and the trace btn field.
const (
	ButtonPrimary   uint8 = 1 << 0
	ButtonSecondary uint8 = 1 << 1
)

// InputSample is the raw pointer state captured for one tick.
type InputSample struct {
	Tick      uint64
	Position  Vec2
	Delta     Vec2
	Primary   bool
	Secondary bool
}

// Buttons returns the button bitmask for the sample.
func (s InputSample) Buttons() uint8 {
	var b uint8
	if s.Primary {
		b |= ButtonPrimary
	}
	if s.Secondary {
		b |= ButtonSecondary
	}
	return b
}

// SampleFromButtons builds an InputSample decoding a button bitmask.
// Bits other than ButtonPrimary and ButtonSecondary are ignored.
func SampleFromButtons(tick uint64, pos, delta Vec2, buttons uint8) InputSample {
	return InputSample{
		Tick:      tick,
		Position:  pos,
		Delta:     delta,
		Primary:   buttons&ButtonPrimary != 0,
		Secondary: buttons&ButtonSecondary != 0,
	}
}

// TransformContext carries the per-tick invocation parameters.
type TransformContext struct {
	Tick         uint64
	DeltaSeconds float64
}

// DefaultFixedHz is the nominal tick rate when none is configured.
const DefaultFixedHz = 60

// NewTransformContext returns the context for tick at a fixed rate of hz.
// A non-positive hz falls back to DefaultFixedHz.
func NewTransformContext(tick uint64, hz int) TransformContext {
	if hz <= 0 {
		hz = DefaultFixedHz
	}
	return TransformContext{Tick: tick, DeltaSeconds: 1 / float64(hz)}
}

// TargetInfo is a candidate magnetism/snap target supplied by the host.
type TargetInfo struct {
	ID        uint64
	Center    Vec2
	RadiusVpx float64 // capture radius around Center
	Weight    float64 // attraction weight, nominally [0,1]
}

// CursorState is the cursor as it flows through the stages. Origin is the
// position emitted on the previous tick and stays fixed for the whole tick;
// stages move Position.
type CursorState struct {
	Origin   Vec2
	Position Vec2
}

// Velocity returns the displacement of this step.
func (c CursorState) Velocity() Vec2 { return c.Position.Sub(c.Origin) }

// WithVelocity keeps the origin and replaces the step displacement.
func (c CursorState) WithVelocity(v Vec2) CursorState {
	return CursorState{Origin: c.Origin, Position: c.Origin.Add(v)}
}

// WithPosition keeps the origin and moves the cursor to p.
func (c CursorState) WithPosition(p Vec2) CursorState {
	return CursorState{Origin: c.Origin, Position: p}
}

// TransformResult is what the injector applies for one tick.
type TransformResult struct {
	Tick     uint64
	Position Vec2
	Buttons  uint8
	Hash     uint64
}
