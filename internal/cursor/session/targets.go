package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/banshee-data/steadycursor/internal/cursor/engine"
)

// TargetsSuffix is appended to a trace path to name its target sidecar.
const TargetsSuffix = ".targets.json"

// targetRecord is the sidecar form of engine.TargetInfo.
type targetRecord struct {
	ID     uint64  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Weight float64 `json:"weight"`
}

// SaveTargets writes a static target list next to a trace. Traces carry raw
// input only; the sidecar lets a replay reproduce the targets the live
// session saw.
func SaveTargets(path string, targets []engine.TargetInfo) error {
	recs := make([]targetRecord, len(targets))
	for i, t := range targets {
		recs[i] = targetRecord{ID: t.ID, X: t.Center.X, Y: t.Center.Y, Radius: t.RadiusVpx, Weight: t.Weight}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode targets: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("session: write targets: %w", err)
	}
	return nil
}

// LoadTargets reads a sidecar written by SaveTargets.
func LoadTargets(path string) (StaticTargets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: read targets: %w", err)
	}
	var recs []targetRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("session: parse targets %s: %w", path, err)
	}
	out := make(StaticTargets, len(recs))
	for i, r := range recs {
		out[i] = engine.TargetInfo{ID: r.ID, Center: engine.Vec2{X: r.X, Y: r.Y}, RadiusVpx: r.Radius, Weight: r.Weight}
	}
	return out, nil
}
