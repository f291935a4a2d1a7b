package metrics

import (
	"github.com/banshee-data/steadycursor/internal/cursor/engine"
	"github.com/banshee-data/steadycursor/internal/monitoring"
)

// LogSink reports events through monitoring.Logf. When Every is non-zero it
// also logs one position line every Every ticks.
type LogSink struct {
	logf  func(format string, v ...any)
	Every uint64
}

// NewLogSink returns a LogSink whose lines start with prefix.
func NewLogSink(prefix string, every uint64) *LogSink {
	return &LogSink{logf: monitoring.Prefixed(prefix), Every: every}
}

func (s *LogSink) RecordTick(tick uint64, raw engine.InputSample, out engine.TransformResult, targets []engine.TargetInfo) {
	if s.Every == 0 || tick%s.Every != 0 {
		return
	}
	s.logf("tick %d raw=(%.2f,%.2f) out=(%.2f,%.2f) targets=%d hash=%016x",
		tick, raw.Position.X, raw.Position.Y, out.Position.X, out.Position.Y, len(targets), out.Hash)
}

func (s *LogSink) RecordEvent(ev engine.EngineEvent) {
	s.logf("tick %d %s target=%d value=%.3f", ev.Tick, ev.Kind, ev.TargetID, ev.Value)
}

func (s *LogSink) Reset() { s.logf("reset") }

// Multi fans every call out to each sink in order.
type Multi []engine.Sink

// NewMulti drops nil sinks.
func NewMulti(sinks ...engine.Sink) Multi {
	m := make(Multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m Multi) RecordTick(tick uint64, raw engine.InputSample, out engine.TransformResult, targets []engine.TargetInfo) {
	for _, s := range m {
		s.RecordTick(tick, raw, out, targets)
	}
}

func (m Multi) RecordEvent(ev engine.EngineEvent) {
	for _, s := range m {
		s.RecordEvent(ev)
	}
}

func (m Multi) Reset() {
	for _, s := range m {
		s.Reset()
	}
}

var (
	_ engine.Sink = (*Collector)(nil)
	_ engine.Sink = (*LogSink)(nil)
	_ engine.Sink = Multi(nil)
)
