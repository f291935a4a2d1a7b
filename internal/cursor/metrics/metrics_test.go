package metrics

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/steadycursor/internal/cursor/engine"
	"github.com/banshee-data/steadycursor/internal/monitoring"
)

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, CorrectionStats{}, Summarize(nil))
	})

	t.Run("single value", func(t *testing.T) {
		s := Summarize([]float64{2.5})
		assert.Equal(t, CorrectionStats{Ticks: 1, Mean: 2.5, P95: 2.5, Max: 2.5, Corrected: 1}, s)
	})

	t.Run("spread", func(t *testing.T) {
		in := []float64{4, 0, 3, 1, 2}
		s := Summarize(in)
		assert.Equal(t, 5, s.Ticks)
		assert.Equal(t, 4, s.Corrected)
		assert.InDelta(t, 2.0, s.Mean, 1e-12)
		assert.InDelta(t, math.Sqrt(2.5), s.StdDev, 1e-12)
		assert.Equal(t, 4.0, s.P95)
		assert.Equal(t, 4.0, s.Max)
		// Input order is untouched.
		assert.Equal(t, []float64{4, 0, 3, 1, 2}, in)
	})

	t.Run("p95 of twenty", func(t *testing.T) {
		in := make([]float64, 20)
		for i := range in {
			in[i] = float64(20 - i)
		}
		assert.Equal(t, 19.0, Summarize(in).P95)
	})
}

func runEngine(t *testing.T, sink engine.Sink, cfg engine.EngineConfig, targets []engine.TargetInfo, n int) {
	t.Helper()
	w, err := engine.NewWrapper(engine.NewCanonicalPipeline(), cfg, sink)
	require.NoError(t, err)
	for i := range n {
		in := engine.InputSample{
			Tick:     uint64(i),
			Position: engine.Vec2{X: float64(100 + i*4), Y: 100},
			Delta:    engine.Vec2{X: 4},
		}
		_, err := w.FixedStep(in, engine.NewTransformContext(uint64(i), engine.DefaultFixedHz), targets)
		require.NoError(t, err)
	}
}

func TestCollectorPassthrough(t *testing.T) {
	c := NewCollector()
	runEngine(t, c, engine.EngineConfig{}, nil, 10)

	ticks := c.Ticks()
	require.Len(t, ticks, 10)
	for i, r := range ticks {
		assert.Equal(t, uint64(i), r.Raw.Tick)
		assert.Equal(t, r.Raw.Position, r.Out.Position)
	}
	assert.Empty(t, c.Events())
	assert.Equal(t, 0, c.Stats().Corrected)

	raw, corrected := c.Paths()
	assert.Equal(t, raw, corrected)
}

func TestCollectorRecordsEventsAndCorrections(t *testing.T) {
	cfg := engine.EngineConfig{MagnetismRadiusVpx: 40, MagnetismStrength: 0.5, SnapRadiusVpx: 6}
	targets := []engine.TargetInfo{{ID: 9, Center: engine.Vec2{X: 130, Y: 110}, RadiusVpx: 10, Weight: 1}}
	c := NewCollector()
	runEngine(t, c, cfg, targets, 20)

	counts := c.EventCounts()
	assert.Positive(t, counts[engine.EventTargetAcquired])
	assert.Contains(t, c.EventKinds(), engine.EventTargetAcquired)
	assert.Positive(t, c.Stats().Max)

	// Target slices are copied, not aliased.
	targets[0].ID = 1
	assert.Equal(t, uint64(9), c.Ticks()[0].Targets[0].ID)

	c.Reset()
	assert.Empty(t, c.Ticks())
	assert.Empty(t, c.Events())
}

func TestMultiFansOutInOrder(t *testing.T) {
	var order []string
	a, b := &orderSink{name: "a", log: &order}, &orderSink{name: "b", log: &order}
	m := NewMulti(a, nil, b)
	require.Len(t, m, 2)

	m.RecordTick(0, engine.InputSample{}, engine.TransformResult{}, nil)
	m.RecordEvent(engine.EngineEvent{Kind: engine.EventTargetSnapped})
	m.Reset()
	assert.Equal(t, []string{"a.tick", "b.tick", "a.event", "b.event", "a.reset", "b.reset"}, order)
}

func TestLogSink(t *testing.T) {
	original := monitoring.Logf
	defer func() { monitoring.Logf = original }()

	var lines []string
	monitoring.SetLogger(func(format string, v ...any) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	s := NewLogSink("[test] ", 5)
	for tick := range uint64(11) {
		s.RecordTick(tick, engine.InputSample{}, engine.TransformResult{Tick: tick}, nil)
	}
	s.RecordEvent(engine.EngineEvent{Kind: engine.EventEdgeResisted, Tick: 3, Value: 1.5})
	s.Reset()

	require.Len(t, lines, 5, "ticks 0, 5, 10, one event, one reset")
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "[test] "), l)
	}
	assert.Contains(t, lines[3], "edge_resisted")
	assert.Equal(t, "[test] reset", lines[4])
}

type orderSink struct {
	name string
	log  *[]string
}

func (s *orderSink) RecordTick(uint64, engine.InputSample, engine.TransformResult, []engine.TargetInfo) {
	*s.log = append(*s.log, s.name+".tick")
}
func (s *orderSink) RecordEvent(engine.EngineEvent) { *s.log = append(*s.log, s.name+".event") }
func (s *orderSink) Reset()                         { *s.log = append(*s.log, s.name+".reset") }
