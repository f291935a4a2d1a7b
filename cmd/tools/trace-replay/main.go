// Command trace-replay replays an NDJSON trace through the correction
// engine, prints the tick count and determinism hash, and records or
// verifies a baseline.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/steadycursor/internal/config"
	"github.com/banshee-data/steadycursor/internal/cursor/baseline"
	"github.com/banshee-data/steadycursor/internal/cursor/engine"
	"github.com/banshee-data/steadycursor/internal/cursor/metrics"
	"github.com/banshee-data/steadycursor/internal/cursor/profile"
	"github.com/banshee-data/steadycursor/internal/cursor/session"
	"github.com/banshee-data/steadycursor/internal/cursor/trace"
	"github.com/banshee-data/steadycursor/internal/version"
)

func main() {
	tracePath := flag.String("trace", "", "trace to replay (required)")
	configPath := flag.String("config", "", "tuning config JSON the trace was captured with")
	targetsPath := flag.String("targets", "", "target sidecar (defaults to <trace>"+session.TargetsSuffix+" when present)")
	dbPath := flag.String("db", "", "baseline database")
	record := flag.Bool("record", false, "store the replay result as a new baseline")
	verify := flag.Bool("verify", false, "compare against the latest baseline for the trace's run")
	logEvery := flag.Uint64("log-every", 0, "log one position line every N ticks")
	quiet := flag.Bool("quiet", false, "suppress engine event logging")
	flag.Parse()

	if *tracePath == "" {
		log.Fatal("-trace is required")
	}
	if (*record || *verify) && *dbPath == "" {
		log.Fatal("-record and -verify need -db")
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadTuningConfig(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	engineCfg := profile.Map(session.ProfileFromTuning(cfg))

	targets, err := loadTargets(*tracePath, *targetsPath)
	if err != nil {
		log.Fatal(err)
	}

	r, err := trace.Open(*tracePath)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	collector := metrics.NewCollector()
	sinks := []engine.Sink{collector}
	if !*quiet {
		sinks = append(sinks, metrics.NewLogSink("[replay] ", *logEvery))
	}
	sum, err := session.Replay(r, engineCfg, session.ReplayOptions{
		Targets: targets,
		Sink:    metrics.NewMulti(sinks...),
	})
	if err != nil {
		var fe *trace.FormatError
		if errors.As(err, &fe) {
			log.Fatalf("malformed trace: %v", err)
		}
		log.Fatal(err)
	}
	fmt.Printf("ticks=%d hash=%016x policy=v%d\n", sum.Ticks, sum.Hash, sum.PolicyVersion)
	log.Printf("corrections: %s", collector.Stats())

	if *dbPath == "" {
		return
	}
	store, err := baseline.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	if *verify {
		want, err := store.Latest(ctx, sum.RunID)
		if err != nil {
			log.Fatal(err)
		}
		if err := session.Verify(sum, want); err != nil {
			log.Printf("✗ %v", err)
			store.Close()
			r.Close()
			os.Exit(1)
		}
		log.Printf("✓ matches baseline %s", want.ID)
	}
	if *record {
		b, err := store.Record(ctx, sum.Baseline(*tracePath, r.Header().FixedHz, version.Version))
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("baseline %s recorded for run %s", b.ID, b.RunID)
	}
}

// loadTargets reads the explicit sidecar, or the default one next to the
// trace if it exists. No sidecar means no targets.
func loadTargets(tracePath, explicit string) (session.TargetSource, error) {
	path := explicit
	if path == "" {
		path = tracePath + session.TargetsSuffix
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
	}
	return session.LoadTargets(path)
}
