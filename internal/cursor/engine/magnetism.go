package engine

import (
	"cmp"
	"slices"
)

// Magnetism pulls the cursor toward the preferred nearby target and snaps it
// to the target center inside SnapRadiusVpx.
//
// A target is a candidate when the cursor lies within its capture radius
// plus MagnetismRadiusVpx, or within SnapRadiusVpx of its center. The
// preferred candidate is the nearest one; equal distances prefer the higher
// weight, then the lower ID. The candidates, in preference order, become the
// target list handed to later stages, whether or not pull and snap are
// enabled.
type Magnetism struct {
	engaged bool
	current uint64
	snapped bool

	candidates []candidate
	out        []TargetInfo
}

type candidate struct {
	target TargetInfo
	dist   float64
	reach  float64
}

func (m *Magnetism) Name() string { return "magnetism" }

func (m *Magnetism) Apply(f *Frame, st CursorState, targets []TargetInfo) (CursorState, []TargetInfo) {
	cfg := f.Config
	m.candidates = m.candidates[:0]
	for _, t := range targets {
		d := st.Position.Sub(t.Center).Len()
		reach := cfg.MagnetismRadiusVpx + max(t.RadiusVpx, 0)
		if d <= reach || d <= cfg.SnapRadiusVpx {
			m.candidates = append(m.candidates, candidate{target: t, dist: d, reach: reach})
		}
	}
	slices.SortStableFunc(m.candidates, compareCandidates)

	m.out = m.out[:0]
	for _, c := range m.candidates {
		m.out = append(m.out, c.target)
	}

	// With no pull and no snap the filtered list still feeds later stages.
	if len(m.candidates) == 0 || (cfg.MagnetismStrength == 0 && cfg.SnapRadiusVpx == 0) {
		m.release(f)
		return st, m.out
	}

	best := m.candidates[0]
	if !m.engaged || m.current != best.target.ID {
		if m.engaged {
			m.release(f)
		}
		m.engaged, m.current = true, best.target.ID
		f.Emit(EngineEvent{Kind: EventTargetAcquired, TargetID: best.target.ID, Value: best.dist})
	}

	if best.dist <= cfg.SnapRadiusVpx {
		if !m.snapped {
			m.snapped = true
			f.Emit(EngineEvent{Kind: EventTargetSnapped, TargetID: best.target.ID, Value: best.dist})
		}
		return st.WithPosition(best.target.Center), m.out
	}
	m.snapped = false

	if best.reach <= 0 {
		return st, m.out
	}
	k := clamp01(cfg.MagnetismStrength * clamp01(best.target.Weight) * (1 - best.dist/best.reach))
	if k == 0 {
		return st, m.out
	}
	pull := best.target.Center.Sub(st.Position).Scale(k)
	return st.WithPosition(st.Position.Add(pull)), m.out
}

// release ends the current engagement, if any.
func (m *Magnetism) release(f *Frame) {
	if !m.engaged {
		return
	}
	f.Emit(EngineEvent{Kind: EventTargetReleased, TargetID: m.current})
	m.engaged, m.current, m.snapped = false, 0, false
}

func (m *Magnetism) Reset() {
	m.engaged, m.current, m.snapped = false, 0, false
	m.candidates = m.candidates[:0]
	m.out = m.out[:0]
}

func compareCandidates(a, b candidate) int {
	if c := cmp.Compare(a.dist, b.dist); c != 0 {
		return c
	}
	if c := cmp.Compare(b.target.Weight, a.target.Weight); c != 0 {
		return c
	}
	return cmp.Compare(a.target.ID, b.target.ID)
}
