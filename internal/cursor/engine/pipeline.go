package engine

// Pipeline runs an ordered stage list once per tick. It remembers the
// position it emitted last so each tick's CursorState has a stable origin.
// An empty stage list is a strict passthrough.
type Pipeline struct {
	stages []Stage

	last   Vec2
	primed bool
	events []EngineEvent
}

// NewPipeline returns a pipeline running stages in the given order.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: append([]Stage(nil), stages...)}
}

// NewCanonicalPipeline returns a pipeline over CanonicalStages.
func NewCanonicalPipeline() *Pipeline {
	return NewPipeline(CanonicalStages()...)
}

// StageNames lists the stages in run order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Step transforms one sample. On the first tick after construction or Reset
// the origin is the raw position minus the raw delta. The returned events
// slice is reused by the next Step.
func (p *Pipeline) Step(in InputSample, ctx TransformContext, cfg *EngineConfig, targets []TargetInfo) (CursorState, []EngineEvent) {
	origin := p.last
	if !p.primed {
		origin = in.Position.Sub(in.Delta)
	}
	st := CursorState{Origin: origin, Position: in.Position}

	p.events = p.events[:0]
	f := &Frame{Input: in, Context: ctx, Config: cfg, events: &p.events}
	for _, s := range p.stages {
		st, targets = s.Apply(f, st, targets)
	}

	p.last, p.primed = st.Position, true
	return st, p.events
}

// Reset forgets the last emitted position and resets every stateful stage.
func (p *Pipeline) Reset() {
	p.last, p.primed = Vec2{}, false
	p.events = p.events[:0]
	for _, s := range p.stages {
		if r, ok := s.(Resetter); ok {
			r.Reset()
		}
	}
}
