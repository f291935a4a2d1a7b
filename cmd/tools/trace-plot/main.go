// Command trace-plot replays a trace and renders a trajectory PNG and a
// per-tick correction chart.
package main

import (
	"bytes"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/steadycursor/internal/config"
	"github.com/banshee-data/steadycursor/internal/cursor/engine"
	"github.com/banshee-data/steadycursor/internal/cursor/metrics"
	"github.com/banshee-data/steadycursor/internal/cursor/plot"
	"github.com/banshee-data/steadycursor/internal/cursor/profile"
	"github.com/banshee-data/steadycursor/internal/cursor/session"
	"github.com/banshee-data/steadycursor/internal/cursor/trace"
	"github.com/banshee-data/steadycursor/internal/monitoring"
)

func main() {
	tracePath := flag.String("trace", "", "trace to plot (required)")
	configPath := flag.String("config", "", "tuning config JSON")
	outDir := flag.String("out", ".", "output directory")
	flag.Parse()

	if *tracePath == "" {
		log.Fatal("-trace is required")
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadTuningConfig(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	var targets session.StaticTargets
	sidecar := *tracePath + session.TargetsSuffix
	if _, err := os.Stat(sidecar); err == nil {
		if targets, err = session.LoadTargets(sidecar); err != nil {
			log.Fatal(err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Fatal(err)
	}

	// Events go to the collector; keep replay quiet.
	monitoring.SetLogger(nil)

	collector := metrics.NewCollector()
	sum, err := session.ReplayFile(*tracePath, profile.Map(session.ProfileFromTuning(cfg)), session.ReplayOptions{
		Targets: targets,
		Sink:    collector,
	})
	if err != nil {
		log.Fatal(err)
	}

	stem := strings.TrimSuffix(filepath.Base(*tracePath), trace.FileExtension)
	raw, corrected := collector.Paths()
	pngPath := filepath.Join(*outDir, stem+"_trajectory.png")
	if err := plot.SaveTrajectory(pngPath, stem, raw, corrected, []engine.TargetInfo(targets)); err != nil {
		log.Fatal(err)
	}
	log.Printf("✓ Created: %s", pngPath)

	var buf bytes.Buffer
	if err := plot.CorrectionChart(&buf, stem+" corrections", collector.Ticks(), collector.Events()); err != nil {
		log.Fatal(err)
	}
	htmlPath := filepath.Join(*outDir, stem+"_corrections.html")
	if err := os.WriteFile(htmlPath, buf.Bytes(), 0644); err != nil {
		log.Fatal(err)
	}
	log.Printf("✓ Created: %s", htmlPath)
	log.Printf("%s", sum)
}
