// Package profile maps a statistical motor profile onto engine tuning.
//
// Map is the single canonical mapping. Live sessions and trace replay both
// call it, so a config reproduced at replay time is byte-identical to the one
// the session ran under. Any change to the formulas must bump PolicyVersion
// and add a golden fixture for the new version.
package profile

// MotorProfile summarises a user's pointing behaviour. It is produced
// upstream from recorded sessions; this package only consumes it.
type MotorProfile struct {
	TremorAmplitudeVpx float64 // RMS tremor displacement
	TremorFrequencyHz  float64
	PathEfficiency     float64 // straight-line / travelled distance, (0,1]
	OvershootRate      float64 // fraction of acquisitions that overshoot, [0,1]
	OvershootMagnitude float64 // mean overshoot distance in vpx
	TimeToTargetMean   float64 // seconds
	TimeToTargetStdDev float64 // seconds
	ClickStability     float64 // 1 = no drift during clicks, [0,1]
	SampleCount        int
}

// NeutralProfile returns the profile of a user who needs no assistance.
// Low-confidence profiles are blended toward it. Each call returns a fresh
// value so no caller can alter what the mapper blends with.
func NeutralProfile() MotorProfile {
	return MotorProfile{
		TremorAmplitudeVpx: 0,
		TremorFrequencyHz:  0,
		PathEfficiency:     1,
		OvershootRate:      0,
		OvershootMagnitude: 0,
		TimeToTargetMean:   0.8,
		TimeToTargetStdDev: 0.2,
		ClickStability:     1,
		SampleCount:        MinConfidentSamples,
	}
}
