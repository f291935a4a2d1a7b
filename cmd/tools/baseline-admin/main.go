// Command baseline-admin serves the debug console for a baseline registry.
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/banshee-data/steadycursor/internal/config"
	"github.com/banshee-data/steadycursor/internal/cursor/baseline"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:8089", "HTTP listen address")
	dbPath := flag.String("db", "", "baseline database (defaults to the tuning config's baseline_db)")
	configPath := flag.String("config", "", "tuning config JSON")
	flag.Parse()

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadTuningConfig(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	path := *dbPath
	if path == "" {
		path = cfg.GetBaselineDB()
	}

	store, err := baseline.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	mux := http.NewServeMux()
	if err := store.AttachAdminRoutes(mux); err != nil {
		log.Fatal(err)
	}
	log.Printf("serving %s on http://%s/debug/", path, *listen)
	if err := http.ListenAndServe(*listen, mux); err != nil {
		log.Fatal(err)
	}
}
