package profile

import (
	"encoding/json"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type goldenFile struct {
	PolicyVersion int          `json:"policy_version"`
	Cases         []goldenCase `json:"cases"`
}

type goldenCase struct {
	Name    string `json:"name"`
	Profile struct {
		TremorAmplitudeVpx float64 `json:"tremor_amplitude_vpx"`
		TremorFrequencyHz  float64 `json:"tremor_frequency_hz"`
		PathEfficiency     float64 `json:"path_efficiency"`
		OvershootRate      float64 `json:"overshoot_rate"`
		OvershootMagnitude float64 `json:"overshoot_magnitude"`
		TimeToTargetMean   float64 `json:"time_to_target_mean"`
		TimeToTargetStdDev float64 `json:"time_to_target_stddev"`
		ClickStability     float64 `json:"click_stability"`
		SampleCount        int     `json:"sample_count"`
	} `json:"profile"`
	Config struct {
		SmoothingStrength       float64 `json:"smoothing_strength"`
		MagnetismRadiusVpx      float64 `json:"magnetism_radius_vpx"`
		MagnetismStrength       float64 `json:"magnetism_strength"`
		EdgeResistance          float64 `json:"edge_resistance"`
		SnapRadiusVpx           float64 `json:"snap_radius_vpx"`
		EdgeBandVpx             float64 `json:"edge_band_vpx"`
		OvershootSpeedVpxPerSec float64 `json:"overshoot_speed_vpx_per_sec"`
		OvershootDamping        float64 `json:"overshoot_damping"`
		MappingPolicyVersion    int     `json:"mapping_policy_version"`
	} `json:"config"`
}

func (g goldenCase) profile() MotorProfile {
	p := g.Profile
	return MotorProfile{
		TremorAmplitudeVpx: p.TremorAmplitudeVpx,
		TremorFrequencyHz:  p.TremorFrequencyHz,
		PathEfficiency:     p.PathEfficiency,
		OvershootRate:      p.OvershootRate,
		OvershootMagnitude: p.OvershootMagnitude,
		TimeToTargetMean:   p.TimeToTargetMean,
		TimeToTargetStdDev: p.TimeToTargetStdDev,
		ClickStability:     p.ClickStability,
		SampleCount:        p.SampleCount,
	}
}

func loadGolden(t *testing.T) goldenFile {
	t.Helper()
	data, err := os.ReadFile("testdata/mapping_v1.json")
	require.NoError(t, err)
	var g goldenFile
	require.NoError(t, json.Unmarshal(data, &g))
	require.NotEmpty(t, g.Cases)
	return g
}

func TestMapMatchesGoldenFixture(t *testing.T) {
	g := loadGolden(t)
	require.Equal(t, PolicyVersion, g.PolicyVersion, "golden fixture belongs to a different policy version")

	const tol = 1e-12
	for _, c := range g.Cases {
		t.Run(c.Name, func(t *testing.T) {
			got := Map(c.profile())
			want := c.Config
			assert.InDelta(t, want.SmoothingStrength, got.SmoothingStrength, tol, "SmoothingStrength")
			assert.InDelta(t, want.MagnetismRadiusVpx, got.MagnetismRadiusVpx, tol, "MagnetismRadiusVpx")
			assert.InDelta(t, want.MagnetismStrength, got.MagnetismStrength, tol, "MagnetismStrength")
			assert.InDelta(t, want.EdgeResistance, got.EdgeResistance, tol, "EdgeResistance")
			assert.InDelta(t, want.SnapRadiusVpx, got.SnapRadiusVpx, tol, "SnapRadiusVpx")
			assert.InDelta(t, want.EdgeBandVpx, got.EdgeBandVpx, tol, "EdgeBandVpx")
			assert.InDelta(t, want.OvershootSpeedVpxPerSec, got.OvershootSpeedVpxPerSec, tol, "OvershootSpeedVpxPerSec")
			assert.InDelta(t, want.OvershootDamping, got.OvershootDamping, tol, "OvershootDamping")
			assert.Equal(t, want.MappingPolicyVersion, got.MappingPolicyVersion)
		})
	}
}

func TestMapIsDeterministic(t *testing.T) {
	for _, c := range loadGolden(t).Cases {
		p := c.profile()
		a, b := Map(p), Map(p)
		assert.Equal(t, a, b, c.Name)
		assert.Equal(t, PolicyVersion, a.MappingPolicyVersion)
	}
}

func TestMapOutputAlwaysValidates(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	profiles := []MotorProfile{
		{},
		NeutralProfile(),
		{TremorAmplitudeVpx: nan, PathEfficiency: inf, OvershootRate: -inf, ClickStability: nan, SampleCount: 1000},
		{TremorAmplitudeVpx: 1e9, OvershootMagnitude: 1e9, TimeToTargetMean: 1e9, SampleCount: -5},
	}
	for _, p := range profiles {
		cfg := Map(p)
		require.NoError(t, cfg.Validate(), "profile %+v", p)
	}
}

func TestMapMonotonicity(t *testing.T) {
	base := MotorProfile{
		TremorAmplitudeVpx: 3,
		PathEfficiency:     0.8,
		OvershootRate:      0.2,
		OvershootMagnitude: 10,
		TimeToTargetMean:   1.2,
		ClickStability:     0.9,
		SampleCount:        100,
	}
	ref := Map(base)

	more := base
	more.TremorAmplitudeVpx = 6
	assert.Greater(t, Map(more).SmoothingStrength, ref.SmoothingStrength, "smoothing follows tremor")

	less := base
	less.PathEfficiency = 0.5
	assert.Greater(t, Map(less).MagnetismRadiusVpx, ref.MagnetismRadiusVpx, "radius follows inefficiency")
	assert.Greater(t, Map(less).MagnetismStrength, ref.MagnetismStrength, "strength follows inefficiency")

	over := base
	over.OvershootRate = 0.6
	assert.Greater(t, Map(over).MagnetismRadiusVpx, ref.MagnetismRadiusVpx, "radius follows overshoot rate")
	assert.Greater(t, Map(over).OvershootDamping, ref.OvershootDamping)
	assert.Less(t, Map(over).OvershootSpeedVpxPerSec, ref.OvershootSpeedVpxPerSec)

	far := base
	far.OvershootMagnitude = 30
	assert.Greater(t, Map(far).EdgeResistance, ref.EdgeResistance, "edge follows overshoot magnitude")

	shaky := base
	shaky.ClickStability = 0.4
	assert.Greater(t, Map(shaky).SnapRadiusVpx, ref.SnapRadiusVpx, "snap follows click instability")
}

func TestMapBlendsThinProfilesTowardNeutral(t *testing.T) {
	thin := MotorProfile{TremorAmplitudeVpx: 9, PathEfficiency: 0.4, OvershootRate: 0.7, SampleCount: 0}
	assert.Equal(t, Map(NeutralProfile()), Map(thin), "zero samples carry no weight")

	half := thin
	half.SampleCount = MinConfidentSamples / 2
	full := thin
	full.SampleCount = MinConfidentSamples

	h, f, n := Map(half), Map(full), Map(NeutralProfile())
	assert.Greater(t, h.SmoothingStrength, n.SmoothingStrength)
	assert.Less(t, h.SmoothingStrength, f.SmoothingStrength)
}

func TestNeutralNeedsLittleAssistance(t *testing.T) {
	cfg := Map(NeutralProfile())
	assert.Zero(t, cfg.SmoothingStrength)
	assert.Zero(t, cfg.EdgeResistance)
	assert.Zero(t, cfg.OvershootDamping)
	assert.True(t, cfg.Bounds.Empty(), "the mapper never sets screen bounds")
}

func TestNeutralProfileCannotBeAltered(t *testing.T) {
	thin := MotorProfile{TremorAmplitudeVpx: 9, SampleCount: MinConfidentSamples / 2}
	before := Map(thin)

	n := NeutralProfile()
	n.TremorAmplitudeVpx = 50
	n.PathEfficiency = 0.1

	assert.Equal(t, before, Map(thin), "blend must not see caller edits")
	assert.NotEqual(t, n, NeutralProfile())
}
