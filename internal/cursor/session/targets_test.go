package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/steadycursor/internal/cursor/engine"
)

func TestTargetsSidecarRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run"+TargetsSuffix)
	want := []engine.TargetInfo{
		{ID: 1, Center: engine.Vec2{X: 0.1, Y: 1.0 / 3.0}, RadiusVpx: 24, Weight: 0.9},
		{ID: 7, Center: engine.Vec2{X: 1900, Y: 5}, RadiusVpx: 0, Weight: 1},
	}
	require.NoError(t, SaveTargets(path, want))

	got, err := LoadTargets(path)
	require.NoError(t, err)
	assert.Equal(t, StaticTargets(want), got)
	assert.Equal(t, want, got.TargetsAt(12345))
}

func TestLoadTargetsErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadTargets(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"id":1}`), 0o644))
	_, err = LoadTargets(bad)
	assert.Error(t, err)
}
