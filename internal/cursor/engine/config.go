package engine

// Rect is an axis-aligned region in virtual pixels anchored at Min.
type Rect struct {
	Min    Vec2
	Width  float64
	Height float64
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Max returns the corner opposite Min.
func (r Rect) Max() Vec2 { return Vec2{X: r.Min.X + r.Width, Y: r.Min.Y + r.Height} }

// EngineConfig holds the tuning parameters one session runs under. It is a
// value: the pipeline reads it and never writes it, and a profile change
// produces a new config rather than editing this one.
type EngineConfig struct {
	SmoothingStrength  float64 // [0,1]; 0 disables smoothing
	MagnetismRadiusVpx float64 // reach added to each target's capture radius
	MagnetismStrength  float64 // [0,1]
	EdgeResistance     float64 // [0,1]; fraction of outward velocity removed at the edge
	SnapRadiusVpx      float64 // hard snap distance to a target center

	// Overshoot and edge geometry baked in by the mapper.
	EdgeBandVpx             float64 // width of the resistive band along Bounds
	OvershootSpeedVpxPerSec float64 // approach speed above which damping applies
	OvershootDamping        float64 // [0,1]

	// Bounds is the virtual screen. An empty rect disables edge resistance.
	Bounds Rect

	// MappingPolicyVersion identifies the profile mapping that produced
	// this config. Zero means hand-built.
	MappingPolicyVersion int
}

// Validate checks every field against its documented range. The returned
// error is a *PreconditionViolation.
func (c EngineConfig) Validate() error {
	checks := []error{
		checkUnit("SmoothingStrength", c.SmoothingStrength),
		checkNonNegative("MagnetismRadiusVpx", c.MagnetismRadiusVpx),
		checkUnit("MagnetismStrength", c.MagnetismStrength),
		checkUnit("EdgeResistance", c.EdgeResistance),
		checkNonNegative("SnapRadiusVpx", c.SnapRadiusVpx),
		checkNonNegative("EdgeBandVpx", c.EdgeBandVpx),
		checkNonNegative("OvershootSpeedVpxPerSec", c.OvershootSpeedVpxPerSec),
		checkUnit("OvershootDamping", c.OvershootDamping),
		checkFinite("Bounds.Min.X", c.Bounds.Min.X),
		checkFinite("Bounds.Min.Y", c.Bounds.Min.Y),
		checkNonNegative("Bounds.Width", c.Bounds.Width),
		checkNonNegative("Bounds.Height", c.Bounds.Height),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if c.MappingPolicyVersion < 0 {
		return &PreconditionViolation{
			Field:  "MappingPolicyVersion",
			Value:  float64(c.MappingPolicyVersion),
			Reason: "must be non-negative",
		}
	}
	return nil
}

// WithBounds returns a copy of c with the given virtual screen.
func (c EngineConfig) WithBounds(r Rect) EngineConfig {
	c.Bounds = r
	return c
}
