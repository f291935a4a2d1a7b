package engine

// EventKind names a discrete engine occurrence.
type EventKind string

const (
	EventTargetAcquired     EventKind = "target_acquired"
	EventTargetReleased     EventKind = "target_released"
	EventTargetSnapped      EventKind = "target_snapped"
	EventEdgeResisted       EventKind = "edge_resisted"
	EventOvershootCorrected EventKind = "overshoot_corrected"
)

// EngineEvent is emitted to the Sink during FixedStep. The core does not
// persist events. Value carries a kind-specific magnitude in virtual
// pixels: the distance to the target for target events, the step
// displacement removed for edge and overshoot corrections.
type EngineEvent struct {
	Kind     EventKind
	Tick     uint64
	TargetID uint64
	Value    float64
}

// Sink receives per-tick telemetry. Calls happen synchronously on the
// goroutine running FixedStep; implementations must not retain the targets
// slice past the call.
type Sink interface {
	RecordTick(tick uint64, raw InputSample, out TransformResult, targets []TargetInfo)
	RecordEvent(ev EngineEvent)
	Reset()
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordTick(uint64, InputSample, TransformResult, []TargetInfo) {}
func (NopSink) RecordEvent(EngineEvent)                                       {}
func (NopSink) Reset()                                                        {}
