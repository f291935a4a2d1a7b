package profile

import (
	"math"

	"github.com/banshee-data/steadycursor/internal/cursor/engine"
)

// PolicyVersion identifies the mapping implemented by Map and is stamped on
// every EngineConfig it returns.
const PolicyVersion = 1

// MinConfidentSamples is the sample count at which a profile is trusted in
// full. Below it the profile is blended toward NeutralProfile.
const MinConfidentSamples = 30

// Documented input ranges. Inputs outside them are clamped and non-finite
// inputs are treated as zero, so Map is total.
const (
	maxTremorVpx      = 12.0
	maxOvershootVpx   = 80.0
	maxTimeToTargetS  = 10.0
	tremorFullScale   = 8.0 // amplitude giving full smoothing
	overshootFullVpx  = 40.0
	slowTargetSeconds = 2.0
)

// Output coefficients.
const (
	smoothingCeiling    = 0.85
	magnetismBaseVpx    = 16.0
	magnetismSpanVpx    = 96.0
	magnetismFloor      = 0.1
	magnetismCeiling    = 0.9
	edgeCeiling         = 0.8
	edgeBandBaseVpx     = 8.0
	edgeBandMaxVpx      = 64.0
	snapBaseVpx         = 2.0
	snapSpanVpx         = 14.0
	overshootSpeedFast  = 1500.0
	overshootSpeedSlow  = 450.0
	overshootDampingMax = 0.6
)

// Map turns a profile into an engine config. It is deterministic and total:
// the same profile always yields the same config and no input makes it fail.
//
//	smoothing      ∝ tremor amplitude
//	magnetism      ∝ (1 - path efficiency) and overshoot rate, stronger for slow acquisitions
//	edge           ∝ overshoot magnitude
//	snap radius    ∝ (1 - click stability)
//	overshoot      damping ∝ overshoot rate, threshold falls as overshoot rate rises
func Map(p MotorProfile) engine.EngineConfig {
	p = blend(sanitize(p))

	tremor := clamp01(p.TremorAmplitudeVpx / tremorFullScale)
	inefficiency := 1 - p.PathEfficiency
	overshoot := p.OvershootRate
	magnitude := clamp01(p.OvershootMagnitude / overshootFullVpx)
	slowness := clamp01(p.TimeToTargetMean / slowTargetSeconds)
	instability := 1 - p.ClickStability

	// Products are converted explicitly so they round before the following
	// add on every architecture; see engine.Vec2.Scale.
	need := clamp01(float64(0.6*inefficiency) + float64(0.4*overshoot))
	strength := magnetismFloor + float64(0.6*inefficiency) + float64(0.25*overshoot) + float64(0.05*slowness)

	return engine.EngineConfig{
		SmoothingStrength:       smoothingCeiling * tremor,
		MagnetismRadiusVpx:      magnetismBaseVpx + float64(magnetismSpanVpx*need),
		MagnetismStrength:       clampRange(strength, 0, magnetismCeiling),
		EdgeResistance:          edgeCeiling * magnitude,
		SnapRadiusVpx:           snapBaseVpx + float64(snapSpanVpx*instability),
		EdgeBandVpx:             math.Min(edgeBandBaseVpx+float64(0.5*p.OvershootMagnitude), edgeBandMaxVpx),
		OvershootSpeedVpxPerSec: overshootSpeedFast - float64((overshootSpeedFast-overshootSpeedSlow)*overshoot),
		OvershootDamping:        overshootDampingMax * overshoot,
		MappingPolicyVersion:    PolicyVersion,
	}
}

// sanitize clamps every field into its documented range.
func sanitize(p MotorProfile) MotorProfile {
	return MotorProfile{
		TremorAmplitudeVpx: clampRange(finite(p.TremorAmplitudeVpx), 0, maxTremorVpx),
		TremorFrequencyHz:  math.Max(finite(p.TremorFrequencyHz), 0),
		PathEfficiency:     clamp01(finite(p.PathEfficiency)),
		OvershootRate:      clamp01(finite(p.OvershootRate)),
		OvershootMagnitude: clampRange(finite(p.OvershootMagnitude), 0, maxOvershootVpx),
		TimeToTargetMean:   clampRange(finite(p.TimeToTargetMean), 0, maxTimeToTargetS),
		TimeToTargetStdDev: clampRange(finite(p.TimeToTargetStdDev), 0, maxTimeToTargetS),
		ClickStability:     clamp01(finite(p.ClickStability)),
		SampleCount:        max(p.SampleCount, 0),
	}
}

// blend mixes a thinly sampled profile with NeutralProfile by SampleCount /
// MinConfidentSamples.
func blend(p MotorProfile) MotorProfile {
	if p.SampleCount >= MinConfidentSamples {
		return p
	}
	w := float64(p.SampleCount) / MinConfidentSamples
	mix := func(v, neutral float64) float64 { return neutral + float64(w*(v-neutral)) }
	n := NeutralProfile()
	return MotorProfile{
		TremorAmplitudeVpx: mix(p.TremorAmplitudeVpx, n.TremorAmplitudeVpx),
		TremorFrequencyHz:  mix(p.TremorFrequencyHz, n.TremorFrequencyHz),
		PathEfficiency:     mix(p.PathEfficiency, n.PathEfficiency),
		OvershootRate:      mix(p.OvershootRate, n.OvershootRate),
		OvershootMagnitude: mix(p.OvershootMagnitude, n.OvershootMagnitude),
		TimeToTargetMean:   mix(p.TimeToTargetMean, n.TimeToTargetMean),
		TimeToTargetStdDev: mix(p.TimeToTargetStdDev, n.TimeToTargetStdDev),
		ClickStability:     mix(p.ClickStability, n.ClickStability),
		SampleCount:        p.SampleCount,
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp01(v float64) float64 { return clampRange(v, 0, 1) }

func clampRange(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
