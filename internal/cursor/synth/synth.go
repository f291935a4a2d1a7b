// Package synth generates deterministic synthetic pointer input: a cursor
// travelling between targets with physiological tremor, overshoot and
// click drift. The same Params always yield the same samples.
package synth

import (
	"math"
	"math/rand/v2"

	"github.com/banshee-data/steadycursor/internal/cursor/engine"
)

// Params configures a Generator.
type Params struct {
	Seed    uint64
	FixedHz int

	Width  float64 // virtual screen, vpx
	Height float64

	TremorAmplitudeVpx float64
	TremorFrequencyHz  float64
	NoiseVpx           float64 // white positional noise, one sigma
	Gain               float64 // fraction of remaining distance covered per tick
	OvershootRate      float64 // probability an approach overshoots, [0,1]
	DwellTicks         int     // ticks spent on a target before clicking
	ClickTicks         int     // ticks the primary button stays down

	// Targets are visited in order, then the tour repeats. Nil selects
	// DefaultTargets for the screen size.
	Targets []engine.TargetInfo
}

// DefaultParams returns a moderate-tremor tour of a 1920x1080 screen.
func DefaultParams(seed uint64) Params {
	return Params{
		Seed:               seed,
		FixedHz:            engine.DefaultFixedHz,
		Width:              1920,
		Height:             1080,
		TremorAmplitudeVpx: 4,
		TremorFrequencyHz:  6,
		NoiseVpx:           0.8,
		Gain:               0.08,
		OvershootRate:      0.3,
		DwellTicks:         12,
		ClickTicks:         4,
	}
}

// DefaultTargets lays out a 3x2 grid of buttons inset from the edges.
func DefaultTargets(width, height float64) []engine.TargetInfo {
	var out []engine.TargetInfo
	id := uint64(1)
	for row := range 2 {
		for col := range 3 {
			out = append(out, engine.TargetInfo{
				ID:        id,
				Center:    engine.Vec2{X: width * (0.2 + 0.3*float64(col)), Y: height * (0.3 + 0.4*float64(row))},
				RadiusVpx: 24,
				Weight:    1 - 0.1*float64(col),
			})
			id++
		}
	}
	return out
}

type phase int

const (
	travelling phase = iota
	dwelling
	clicking
)

// Generator produces one sample per call to Next. It is not safe for
// concurrent use.
type Generator struct {
	p       Params
	rng     *rand.Rand
	tick    uint64
	ideal   engine.Vec2 // tremor-free hand position
	last    engine.Vec2 // last emitted position
	target  int
	aim     engine.Vec2 // current aim point, possibly past the target
	phase   phase
	counter int
	tremorX float64 // per-axis tremor phase offsets
	tremorY float64
}

// NewGenerator returns a Generator starting at the screen centre.
func NewGenerator(p Params) *Generator {
	if p.FixedHz <= 0 {
		p.FixedHz = engine.DefaultFixedHz
	}
	if p.Targets == nil {
		p.Targets = DefaultTargets(p.Width, p.Height)
	}
	if p.Gain <= 0 || p.Gain > 1 {
		p.Gain = 0.08
	}
	rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))
	centre := engine.Vec2{X: p.Width / 2, Y: p.Height / 2}
	g := &Generator{
		p:       p,
		rng:     rng,
		ideal:   centre,
		last:    centre,
		tremorX: rng.Float64() * 2 * math.Pi,
		tremorY: rng.Float64() * 2 * math.Pi,
	}
	g.retarget()
	return g
}

// Targets returns the targets the generator tours.
func (g *Generator) Targets() []engine.TargetInfo { return g.p.Targets }

// Next returns the next sample.
func (g *Generator) Next() engine.InputSample {
	g.advance()

	t := float64(g.tick) / float64(g.p.FixedHz)
	w := 2 * math.Pi * g.p.TremorFrequencyHz * t
	pos := engine.Vec2{
		X: g.ideal.X + g.p.TremorAmplitudeVpx*math.Sin(w+g.tremorX) + g.p.NoiseVpx*g.rng.NormFloat64(),
		Y: g.ideal.Y + g.p.TremorAmplitudeVpx*math.Sin(w+g.tremorY) + g.p.NoiseVpx*g.rng.NormFloat64(),
	}
	pos = g.clamp(pos)

	in := engine.InputSample{
		Tick:     g.tick,
		Position: pos,
		Delta:    pos.Sub(g.last),
		Primary:  g.phase == clicking,
	}
	g.last = pos
	g.tick++
	return in
}

// Samples returns the next n samples.
func (g *Generator) Samples(n int) []engine.InputSample {
	out := make([]engine.InputSample, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

func (g *Generator) advance() {
	if len(g.p.Targets) == 0 {
		return
	}
	tgt := g.p.Targets[g.target]
	switch g.phase {
	case travelling:
		g.ideal = g.ideal.Add(g.aim.Sub(g.ideal).Scale(g.p.Gain))
		if g.aim.Sub(g.ideal).Len() < 1 {
			// Past the target on an overshoot: correct back onto it.
			if g.aim != tgt.Center {
				g.aim = tgt.Center
				return
			}
			g.phase, g.counter = dwelling, 0
		}
	case dwelling:
		g.counter++
		if g.counter >= g.p.DwellTicks {
			g.phase, g.counter = clicking, 0
		}
	case clicking:
		g.counter++
		if g.counter >= g.p.ClickTicks {
			g.target = (g.target + 1) % len(g.p.Targets)
			g.retarget()
		}
	}
}

// retarget starts an approach to the current target, overshooting it by
// up to its radius with probability OvershootRate.
func (g *Generator) retarget() {
	g.phase, g.counter = travelling, 0
	if len(g.p.Targets) == 0 {
		return
	}
	tgt := g.p.Targets[g.target]
	g.aim = tgt.Center
	if g.rng.Float64() < g.p.OvershootRate {
		dir := tgt.Center.Sub(g.ideal)
		if l := dir.Len(); l > 0 {
			extra := tgt.RadiusVpx * (0.5 + g.rng.Float64())
			g.aim = tgt.Center.Add(dir.Scale(extra / l))
		}
	}
}

func (g *Generator) clamp(v engine.Vec2) engine.Vec2 {
	if g.p.Width > 0 {
		v.X = math.Min(math.Max(v.X, 0), g.p.Width)
	}
	if g.p.Height > 0 {
		v.Y = math.Min(math.Max(v.Y, 0), g.p.Height)
	}
	return v
}
