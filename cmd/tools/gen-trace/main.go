// Command gen-trace records a synthetic tremor session as an NDJSON trace,
// with a target sidecar, and optionally registers its baseline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/banshee-data/steadycursor/internal/config"
	"github.com/banshee-data/steadycursor/internal/cursor/baseline"
	"github.com/banshee-data/steadycursor/internal/cursor/engine"
	"github.com/banshee-data/steadycursor/internal/cursor/metrics"
	"github.com/banshee-data/steadycursor/internal/cursor/session"
	"github.com/banshee-data/steadycursor/internal/cursor/synth"
	"github.com/banshee-data/steadycursor/internal/cursor/trace"
	"github.com/banshee-data/steadycursor/internal/security"
	"github.com/banshee-data/steadycursor/internal/timeutil"
	"github.com/banshee-data/steadycursor/internal/version"
)

func main() {
	output := flag.String("o", "", "output trace path; relative names land in trace_dir (default seed-<seed>.ndjson)")
	ticks := flag.Int("n", 1800, "number of ticks")
	seed := flag.Uint64("seed", 0xC0FFEE, "generator seed, recorded as runSeed")
	configPath := flag.String("config", "", "tuning config JSON (defaults apply when empty)")
	tremor := flag.Float64("tremor", 4, "synthetic tremor amplitude in vpx")
	freq := flag.Float64("freq", 6, "synthetic tremor frequency in Hz")
	realtime := flag.Bool("realtime", false, "pace samples at the fixed rate through a capture handoff")
	dbPath := flag.String("db", "", "baseline database; records the live summary when set")
	logEvery := flag.Uint64("log-every", 0, "log one position line every N ticks (0 = events only)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		log.Print(version.String())
		return
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadTuningConfig(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	name := *output
	if name == "" {
		name = security.SanitizeFilename(fmt.Sprintf("seed-%x", *seed)) + trace.FileExtension
	}
	path, err := security.TracePath(cfg.GetTraceDir(), name)
	if err != nil {
		log.Fatalf("output: %v", err)
	}
	*output = path

	params := synth.DefaultParams(*seed)
	params.FixedHz = cfg.GetFixedHz()
	params.Width = cfg.GetVirtualWidth()
	params.Height = cfg.GetVirtualHeight()
	params.TremorAmplitudeVpx = *tremor
	params.TremorFrequencyHz = *freq
	gen := synth.NewGenerator(params)
	targets := gen.Targets()

	w, err := trace.Create(*output)
	if err != nil {
		log.Fatal(err)
	}
	collector := metrics.NewCollector()
	opts := session.OptionsFromTuning(cfg)
	opts.RunSeed = seed
	opts.Trace = w
	opts.Sink = metrics.NewMulti(collector, metrics.NewLogSink("[gen-trace] ", *logEvery))

	s, err := session.Start(session.ProfileFromTuning(cfg), opts)
	if err != nil {
		log.Fatal(err)
	}

	if *realtime {
		err = runRealtime(s, gen, targets, *ticks, opts.FixedHz, cfg.GetHandoffCapacity())
	} else {
		for i := 0; i < *ticks && err == nil; i++ {
			_, err = s.Step(gen.Next(), targets)
		}
	}
	if err != nil {
		s.Close()
		log.Fatal(err)
	}

	sum, err := s.Close()
	if err != nil {
		log.Fatal(err)
	}
	if err := session.SaveTargets(*output+session.TargetsSuffix, targets); err != nil {
		log.Fatal(err)
	}
	log.Printf("%s", sum)
	log.Printf("corrections: %s", collector.Stats())

	if *dbPath != "" {
		store, err := baseline.Open(*dbPath)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()
		b, err := store.Record(context.Background(), sum.Baseline(*output, opts.FixedHz, version.Version))
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("baseline %s recorded for run %s", b.ID, b.RunID)
	}
	log.Printf("✓ Created: %s", *output)
}

// runRealtime produces samples on a ticker goroutine, the way an OS hook
// would, and drives the session from the handoff.
func runRealtime(s *session.Session, gen *synth.Generator, targets []engine.TargetInfo, ticks, hz, capacity int) error {
	h := session.NewHandoff(capacity)
	clock := timeutil.RealClock{}

	go func() {
		defer h.Close()
		ticker := clock.NewTicker(time.Second / time.Duration(hz))
		defer ticker.Stop()
		for i := 0; i < ticks; i++ {
			<-ticker.C()
			h.Offer(session.Capture{Sample: gen.Next(), Targets: targets})
			if (i+1)%hz == 0 {
				log.Printf("%d/%d ticks", i+1, ticks)
			}
		}
	}()

	err := session.Drive(context.Background(), h, s)
	if d := h.Dropped(); d > 0 {
		log.Printf("dropped %d captures", d)
	}
	return err
}
