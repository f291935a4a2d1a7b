package engine

// maxSmoothingAlpha bounds the filter memory so that full strength still
// converges on the raw position.
const maxSmoothingAlpha = 0.9

// Smoothing blends the raw step with the previous emitted step:
//
//	v' = (1-a)*v + a*v_prev,  a = SmoothingStrength*maxSmoothingAlpha
//
// Because v is measured from the last emitted position rather than the last
// raw position, lag is folded back in on later ticks and the cursor settles
// on the raw position once the hand stops.
type Smoothing struct {
	prev   Vec2
	primed bool
}

func (s *Smoothing) Name() string { return "smoothing" }

func (s *Smoothing) Apply(f *Frame, st CursorState, targets []TargetInfo) (CursorState, []TargetInfo) {
	v := st.Velocity()
	if f.Config.SmoothingStrength == 0 || !s.primed {
		s.prev, s.primed = v, true
		return st, targets
	}
	a := f.Config.SmoothingStrength * maxSmoothingAlpha
	blended := v.Scale(1 - a).Add(s.prev.Scale(a))
	s.prev = blended
	return st.WithVelocity(blended), targets
}

func (s *Smoothing) Reset() {
	s.prev, s.primed = Vec2{}, false
}
