package engine

import "math"

// EdgeResistance damps the outward velocity component inside a band along
// the edges of EngineConfig.Bounds and keeps the cursor inside Bounds. The
// damping factor ramps linearly from 1 at the inner edge of the band to
// 1-EdgeResistance at the boundary itself.
type EdgeResistance struct{}

func (EdgeResistance) Name() string { return "edge_resistance" }

func (EdgeResistance) Apply(f *Frame, st CursorState, targets []TargetInfo) (CursorState, []TargetInfo) {
	cfg := f.Config
	if cfg.Bounds.Empty() {
		return st, targets
	}
	lo, hi := cfg.Bounds.Min, cfg.Bounds.Max()
	v := st.Velocity()
	before := v

	if cfg.EdgeResistance > 0 && cfg.EdgeBandVpx > 0 {
		v.X = resistAxis(v.X, st.Position.X, lo.X, hi.X, cfg.EdgeBandVpx, cfg.EdgeResistance)
		v.Y = resistAxis(v.Y, st.Position.Y, lo.Y, hi.Y, cfg.EdgeBandVpx, cfg.EdgeResistance)
	}

	out := st.WithVelocity(v)
	out.Position.X = math.Min(math.Max(out.Position.X, lo.X), hi.X)
	out.Position.Y = math.Min(math.Max(out.Position.Y, lo.Y), hi.Y)

	if removed := before.Sub(v).Len(); removed > 0 {
		f.Emit(EngineEvent{Kind: EventEdgeResisted, Value: removed})
	}
	return out, targets
}

// resistAxis scales an outward velocity component v at position p by the
// band proximity to whichever edge it is heading for.
func resistAxis(v, p, lo, hi, band, resistance float64) float64 {
	var gap float64
	switch {
	case v < 0:
		gap = p - lo
	case v > 0:
		gap = hi - p
	default:
		return v
	}
	if gap >= band {
		return v
	}
	proximity := 1 - clamp01(gap/band)
	return v * (1 - float64(resistance*proximity))
}
