// Package config loads the JSON tuning file shared by sessions and tools.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for a correction session.
// Every field is optional; Get* methods supply defaults for omitted ones.
type TuningConfig struct {
	// Session params
	FixedHz         *int     `json:"fixed_hz,omitempty"`
	VirtualWidth    *float64 `json:"virtual_width,omitempty"`
	VirtualHeight   *float64 `json:"virtual_height,omitempty"`
	DPI             *float64 `json:"dpi,omitempty"`
	HandoffCapacity *int     `json:"handoff_capacity,omitempty"`

	// Trace params
	TraceDir      *string `json:"trace_dir,omitempty"`
	FlushInterval *string `json:"flush_interval,omitempty"` // duration string like "1s"

	// Baseline registry
	BaselineDB *string `json:"baseline_db,omitempty"`

	// Motor profile fed to the mapper (optional)
	TremorAmplitudeVpx *float64 `json:"tremor_amplitude_vpx,omitempty"`
	TremorFrequencyHz  *float64 `json:"tremor_frequency_hz,omitempty"`
	PathEfficiency     *float64 `json:"path_efficiency,omitempty"`
	OvershootRate      *float64 `json:"overshoot_rate,omitempty"`
	OvershootMagnitude *float64 `json:"overshoot_magnitude,omitempty"`
	TimeToTargetMean   *float64 `json:"time_to_target_mean,omitempty"`
	TimeToTargetStdDev *float64 `json:"time_to_target_stddev,omitempty"`
	ClickStability     *float64 `json:"click_stability,omitempty"`
	ProfileSamples     *int     `json:"profile_samples,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be under the max file size.
// Fields omitted from the JSON file fall back to Get* defaults, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/cursor/session/
		"../../../../" + DefaultConfigPath, // from cmd/tools/<tool>/
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.FixedHz != nil && (*c.FixedHz <= 0 || *c.FixedHz > 1000) {
		return fmt.Errorf("fixed_hz must be between 1 and 1000, got %d", *c.FixedHz)
	}
	if c.HandoffCapacity != nil && *c.HandoffCapacity <= 0 {
		return fmt.Errorf("handoff_capacity must be positive, got %d", *c.HandoffCapacity)
	}
	if c.ProfileSamples != nil && *c.ProfileSamples < 0 {
		return fmt.Errorf("profile_samples must be non-negative, got %d", *c.ProfileSamples)
	}

	nonNegative := []struct {
		name string
		v    *float64
	}{
		{"virtual_width", c.VirtualWidth},
		{"virtual_height", c.VirtualHeight},
		{"dpi", c.DPI},
		{"tremor_amplitude_vpx", c.TremorAmplitudeVpx},
		{"tremor_frequency_hz", c.TremorFrequencyHz},
		{"overshoot_magnitude", c.OvershootMagnitude},
		{"time_to_target_mean", c.TimeToTargetMean},
		{"time_to_target_stddev", c.TimeToTargetStdDev},
	}
	for _, f := range nonNegative {
		if f.v == nil {
			continue
		}
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) || *f.v < 0 {
			return fmt.Errorf("%s must be a non-negative number, got %v", f.name, *f.v)
		}
	}

	unit := []struct {
		name string
		v    *float64
	}{
		{"path_efficiency", c.PathEfficiency},
		{"overshoot_rate", c.OvershootRate},
		{"click_stability", c.ClickStability},
	}
	for _, f := range unit {
		if f.v != nil && !(*f.v >= 0 && *f.v <= 1) {
			return fmt.Errorf("%s must be between 0 and 1, got %v", f.name, *f.v)
		}
	}

	if c.FlushInterval != nil && *c.FlushInterval != "" {
		d, err := time.ParseDuration(*c.FlushInterval)
		if err != nil {
			return fmt.Errorf("invalid flush_interval '%s': %w", *c.FlushInterval, err)
		}
		if d < 0 {
			return fmt.Errorf("flush_interval must be non-negative, got %s", d)
		}
	}
	return nil
}

// HasProfile reports whether any motor profile field is set.
func (c *TuningConfig) HasProfile() bool {
	return c.TremorAmplitudeVpx != nil || c.TremorFrequencyHz != nil ||
		c.PathEfficiency != nil || c.OvershootRate != nil ||
		c.OvershootMagnitude != nil || c.TimeToTargetMean != nil ||
		c.TimeToTargetStdDev != nil || c.ClickStability != nil ||
		c.ProfileSamples != nil
}

// GetFixedHz returns the fixed_hz value or the default.
func (c *TuningConfig) GetFixedHz() int {
	if c.FixedHz == nil {
		return 60
	}
	return *c.FixedHz
}

// GetVirtualWidth returns the virtual_width value or the default.
func (c *TuningConfig) GetVirtualWidth() float64 {
	if c.VirtualWidth == nil {
		return 1920
	}
	return *c.VirtualWidth
}

// GetVirtualHeight returns the virtual_height value or the default.
func (c *TuningConfig) GetVirtualHeight() float64 {
	if c.VirtualHeight == nil {
		return 1080
	}
	return *c.VirtualHeight
}

// GetDPI returns the dpi value, or 0 when unknown.
func (c *TuningConfig) GetDPI() float64 {
	if c.DPI == nil {
		return 0
	}
	return *c.DPI
}

// GetHandoffCapacity returns the handoff_capacity value or the default.
func (c *TuningConfig) GetHandoffCapacity() int {
	if c.HandoffCapacity == nil {
		return 256
	}
	return *c.HandoffCapacity
}

// GetTraceDir returns the trace_dir value or the default.
func (c *TuningConfig) GetTraceDir() string {
	if c.TraceDir == nil || *c.TraceDir == "" {
		return "traces"
	}
	return *c.TraceDir
}

// GetFlushInterval parses and returns the FlushInterval as a time.Duration.
func (c *TuningConfig) GetFlushInterval() time.Duration {
	if c.FlushInterval == nil || *c.FlushInterval == "" {
		return time.Second // default
	}
	d, err := time.ParseDuration(*c.FlushInterval)
	if err != nil {
		return time.Second // default on parse error
	}
	return d
}

// GetBaselineDB returns the baseline_db path or the default.
func (c *TuningConfig) GetBaselineDB() string {
	if c.BaselineDB == nil || *c.BaselineDB == "" {
		return "baselines.db"
	}
	return *c.BaselineDB
}

// GetTremorAmplitudeVpx returns the tremor_amplitude_vpx value or the default.
func (c *TuningConfig) GetTremorAmplitudeVpx() float64 {
	if c.TremorAmplitudeVpx == nil {
		return 0
	}
	return *c.TremorAmplitudeVpx
}

// GetTremorFrequencyHz returns the tremor_frequency_hz value or the default.
func (c *TuningConfig) GetTremorFrequencyHz() float64 {
	if c.TremorFrequencyHz == nil {
		return 0
	}
	return *c.TremorFrequencyHz
}

// GetPathEfficiency returns the path_efficiency value or the default.
func (c *TuningConfig) GetPathEfficiency() float64 {
	if c.PathEfficiency == nil {
		return 1
	}
	return *c.PathEfficiency
}

// GetOvershootRate returns the overshoot_rate value or the default.
func (c *TuningConfig) GetOvershootRate() float64 {
	if c.OvershootRate == nil {
		return 0
	}
	return *c.OvershootRate
}

// GetOvershootMagnitude returns the overshoot_magnitude value or the default.
func (c *TuningConfig) GetOvershootMagnitude() float64 {
	if c.OvershootMagnitude == nil {
		return 0
	}
	return *c.OvershootMagnitude
}

// GetTimeToTargetMean returns the time_to_target_mean value or the default.
func (c *TuningConfig) GetTimeToTargetMean() float64 {
	if c.TimeToTargetMean == nil {
		return 0.8
	}
	return *c.TimeToTargetMean
}

// GetTimeToTargetStdDev returns the time_to_target_stddev value or the default.
func (c *TuningConfig) GetTimeToTargetStdDev() float64 {
	if c.TimeToTargetStdDev == nil {
		return 0.2
	}
	return *c.TimeToTargetStdDev
}

// GetClickStability returns the click_stability value or the default.
func (c *TuningConfig) GetClickStability() float64 {
	if c.ClickStability == nil {
		return 1
	}
	return *c.ClickStability
}

// GetProfileSamples returns the profile_samples value or the default.
// Zero means the profile carries no evidence and maps to neutral tuning.
func (c *TuningConfig) GetProfileSamples() int {
	if c.ProfileSamples == nil {
		return 0
	}
	return *c.ProfileSamples
}
