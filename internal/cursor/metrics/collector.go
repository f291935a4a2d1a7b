package metrics

import (
	"maps"
	"slices"
	"sync"

	"github.com/banshee-data/steadycursor/internal/cursor/engine"
)

// TickRecord is one processed tick as seen by a sink.
type TickRecord struct {
	Raw     engine.InputSample
	Out     engine.TransformResult
	Targets []engine.TargetInfo
}

// Correction is the distance between the raw and the emitted position.
func (r TickRecord) Correction() float64 {
	return r.Out.Position.Sub(r.Raw.Position).Len()
}

// Collector keeps every tick and event in arrival order. Reads are safe
// from other goroutines while the engine is running.
type Collector struct {
	mu     sync.Mutex
	ticks  []TickRecord
	events []engine.EngineEvent
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector { return &Collector{} }

func (c *Collector) RecordTick(_ uint64, raw engine.InputSample, out engine.TransformResult, targets []engine.TargetInfo) {
	c.mu.Lock()
	c.ticks = append(c.ticks, TickRecord{Raw: raw, Out: out, Targets: slices.Clone(targets)})
	c.mu.Unlock()
}

func (c *Collector) RecordEvent(ev engine.EngineEvent) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

// Reset drops everything recorded so far.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.ticks = nil
	c.events = nil
	c.mu.Unlock()
}

// Ticks returns a copy of the recorded ticks.
func (c *Collector) Ticks() []TickRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.ticks)
}

// Events returns a copy of the recorded events.
func (c *Collector) Events() []engine.EngineEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

// EventCounts tallies events by kind.
func (c *Collector) EventCounts() map[engine.EventKind]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts := make(map[engine.EventKind]int)
	for _, ev := range c.events {
		counts[ev.Kind]++
	}
	return counts
}

// EventKinds returns the kinds seen, sorted.
func (c *Collector) EventKinds() []engine.EventKind {
	return slices.Sorted(maps.Keys(c.EventCounts()))
}

// Corrections returns the per-tick correction distances in tick order.
func (c *Collector) Corrections() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]float64, len(c.ticks))
	for i, r := range c.ticks {
		out[i] = r.Correction()
	}
	return out
}

// Paths returns the raw and corrected trajectories.
func (c *Collector) Paths() (raw, corrected []engine.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw = make([]engine.Vec2, len(c.ticks))
	corrected = make([]engine.Vec2, len(c.ticks))
	for i, r := range c.ticks {
		raw[i] = r.Raw.Position
		corrected[i] = r.Out.Position
	}
	return raw, corrected
}

// Stats summarises the recorded corrections.
func (c *Collector) Stats() CorrectionStats {
	return Summarize(c.Corrections())
}
