package session

import (
	"time"

	"github.com/banshee-data/steadycursor/internal/config"
	"github.com/banshee-data/steadycursor/internal/cursor/profile"
)

// ProfileFromTuning builds the motor profile described by the tuning
// file. A file with no profile fields yields the neutral profile.
func ProfileFromTuning(c *config.TuningConfig) profile.MotorProfile {
	if !c.HasProfile() {
		return profile.NeutralProfile()
	}
	return profile.MotorProfile{
		TremorAmplitudeVpx: c.GetTremorAmplitudeVpx(),
		TremorFrequencyHz:  c.GetTremorFrequencyHz(),
		PathEfficiency:     c.GetPathEfficiency(),
		OvershootRate:      c.GetOvershootRate(),
		OvershootMagnitude: c.GetOvershootMagnitude(),
		TimeToTargetMean:   c.GetTimeToTargetMean(),
		TimeToTargetStdDev: c.GetTimeToTargetStdDev(),
		ClickStability:     c.GetClickStability(),
		SampleCount:        c.GetProfileSamples(),
	}
}

// OptionsFromTuning fills the session geometry and flush cadence from the
// tuning file. Trace, sinks and clock are left for the caller.
func OptionsFromTuning(c *config.TuningConfig) Options {
	hz := c.GetFixedHz()
	return Options{
		FixedHz:       hz,
		VirtualWidth:  c.GetVirtualWidth(),
		VirtualHeight: c.GetVirtualHeight(),
		DPI:           c.GetDPI(),
		FlushEvery:    flushTicks(c.GetFlushInterval(), hz),
	}
}

// flushTicks converts a wall-clock flush interval to a tick count at hz.
func flushTicks(d time.Duration, hz int) uint64 {
	if d <= 0 || hz <= 0 {
		return 0
	}
	n := uint64(d * time.Duration(hz) / time.Second)
	if n == 0 {
		n = 1
	}
	return n
}
