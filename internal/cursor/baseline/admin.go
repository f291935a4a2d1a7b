package baseline

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"
)

// baselineJSON is the wire form served by the debug listing. Hashes are hex
// so JSON consumers do not lose precision.
type baselineJSON struct {
	ID            string `json:"id"`
	RunID         string `json:"run_id"`
	TracePath     string `json:"trace_path,omitempty"`
	Ticks         uint64 `json:"ticks"`
	Hash          string `json:"hash"`
	SchemaVersion int    `json:"schema_version"`
	PolicyVersion int    `json:"policy_version"`
	FixedHz       int    `json:"fixed_hz"`
	SourceVersion string `json:"source_version,omitempty"`
	CreatedUTC    string `json:"created_utc"`
}

// AttachAdminRoutes mounts debug handlers under /debug/: a tailsql console
// over the registry and a JSON listing of every baseline.
func (s *Store) AttachAdminRoutes(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("baseline: create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://baselines.db", s.db, &tailsql.DBOptions{
		Label: "Baseline registry",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("baselines", "Recorded replay baselines (JSON)", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		list, err := s.List(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]baselineJSON, len(list))
		for i, b := range list {
			out[i] = baselineJSON{
				ID:            b.ID,
				RunID:         b.RunID,
				TracePath:     b.TracePath,
				Ticks:         b.Ticks,
				Hash:          formatHash(b.Hash),
				SchemaVersion: b.SchemaVersion,
				PolicyVersion: b.PolicyVersion,
				FixedHz:       b.FixedHz,
				SourceVersion: b.SourceVersion,
				CreatedUTC:    b.CreatedUTC.Format(time.RFC3339Nano),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	return nil
}
