package engine

// Overshoot damps the terminal approach toward the preferred target. It acts
// on the first entry of the target list, which after Magnetism is the
// nearest candidate within reach, and only while the cursor is moving toward
// it faster than OvershootSpeedVpxPerSec; the step need not pass the center.
// A cursor already snapped to the center is left alone.
type Overshoot struct{}

func (Overshoot) Name() string { return "overshoot" }

func (Overshoot) Apply(f *Frame, st CursorState, targets []TargetInfo) (CursorState, []TargetInfo) {
	cfg := f.Config
	if cfg.OvershootDamping == 0 || len(targets) == 0 {
		return st, targets
	}
	t := targets[0]
	if st.Position == t.Center {
		return st, targets
	}

	v := st.Velocity()
	if v.Len()/f.DeltaSeconds() <= cfg.OvershootSpeedVpxPerSec {
		return st, targets
	}
	if v.Dot(t.Center.Sub(st.Origin)) <= 0 {
		return st, targets
	}

	damped := v.Scale(1 - cfg.OvershootDamping)
	f.Emit(EngineEvent{Kind: EventOvershootCorrected, TargetID: t.ID, Value: v.Len() - damped.Len()})
	return st.WithVelocity(damped), targets
}
