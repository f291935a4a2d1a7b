package plot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/steadycursor/internal/cursor/engine"
	"github.com/banshee-data/steadycursor/internal/cursor/metrics"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func zigzag(n int) (raw, corrected []engine.Vec2) {
	for i := range n {
		x := float64(i * 8)
		jitter := float64(i%2*6 - 3)
		raw = append(raw, engine.Vec2{X: x, Y: 200 + jitter})
		corrected = append(corrected, engine.Vec2{X: x, Y: 200 + jitter/4})
	}
	return raw, corrected
}

func TestTrajectoryPNG(t *testing.T) {
	raw, corrected := zigzag(50)
	targets := []engine.TargetInfo{{ID: 1, Center: engine.Vec2{X: 240, Y: 200}, RadiusVpx: 12, Weight: 1}}

	wt, err := Trajectory("zigzag", raw, corrected, targets)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = wt.WriteTo(&buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "output should be a PNG")
}

func TestTrajectoryNoData(t *testing.T) {
	_, err := Trajectory("empty", nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSaveTrajectory(t *testing.T) {
	raw, corrected := zigzag(10)
	path := filepath.Join(t.TempDir(), "trajectory.png")
	require.NoError(t, SaveTrajectory(path, "saved", raw, corrected, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestCorrectionChart(t *testing.T) {
	raw, corrected := zigzag(20)
	ticks := make([]metrics.TickRecord, len(raw))
	for i := range raw {
		ticks[i] = metrics.TickRecord{
			Raw: engine.InputSample{Tick: uint64(i), Position: raw[i]},
			Out: engine.TransformResult{Tick: uint64(i), Position: corrected[i]},
		}
	}
	events := []engine.EngineEvent{
		{Kind: engine.EventTargetAcquired, Tick: 3, TargetID: 1},
		{Kind: engine.EventTargetSnapped, Tick: 4, TargetID: 1},
		{Kind: engine.EventTargetAcquired, Tick: 9, TargetID: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, CorrectionChart(&buf, "corrections for run-x", ticks, events))
	html := buf.String()
	assert.True(t, strings.Contains(html, "<html"), "output should be an HTML page")
	assert.Contains(t, html, "corrections for run-x")
	assert.Contains(t, html, string(engine.EventOvershootCorrected), "every event kind gets a bar")
	assert.Contains(t, html, "total=3")
}

func TestCorrectionChartNoData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, CorrectionChart(&buf, "empty", nil, nil), ErrNoData)
	assert.Zero(t, buf.Len())
}
