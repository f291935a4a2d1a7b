// Package baseline is the registry of known-good replay results. A baseline
// pins the tick count and determinism hash a trace produced when it was
// captured, so later replays can be checked against it.
//
// Storage is SQLite (modernc.org/sqlite, no cgo) with the schema managed by
// embedded golang-migrate migrations.
package baseline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/steadycursor/internal/timeutil"
)

// ErrNotFound is returned by Latest when no baseline exists for a run.
var ErrNotFound = errors.New("baseline: not found")

// Baseline is one recorded replay result.
type Baseline struct {
	ID            string
	RunID         string
	TracePath     string
	Ticks         uint64
	Hash          uint64
	SchemaVersion int // trace/hash schema the hash was computed under
	PolicyVersion int // mapping policy of the config replayed
	FixedHz       int
	SourceVersion string
	CreatedUTC    time.Time
}

// Store is a baseline registry backed by one SQLite file.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock
}

// Open opens or creates the database at path and applies migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("baseline: open %s: %w", path, err)
	}
	// A single connection keeps the migrate driver and queries on one
	// SQLite handle.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("baseline: configure %s: %w", path, err)
	}

	s := &Store{db: db, clock: timeutil.RealClock{}}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// SetClock replaces the clock used to stamp new baselines.
func (s *Store) SetClock(c timeutil.Clock) { s.clock = c }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Record stores b. A missing ID is filled with a random UUID and a zero
// CreatedUTC with the store clock. The stored value is returned.
func (s *Store) Record(ctx context.Context, b Baseline) (Baseline, error) {
	if b.RunID == "" {
		return Baseline{}, fmt.Errorf("baseline: run id is required")
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedUTC.IsZero() {
		b.CreatedUTC = s.clock.Now()
	}
	b.CreatedUTC = b.CreatedUTC.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO baselines (
			baseline_id, run_id, trace_path, tick_count, hash_hex,
			schema_version, policy_version, fixed_hz, source_version, created_unix_nanos
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.RunID, b.TracePath, int64(b.Ticks), formatHash(b.Hash),
		b.SchemaVersion, b.PolicyVersion, b.FixedHz, b.SourceVersion, b.CreatedUTC.UnixNano(),
	)
	if err != nil {
		return Baseline{}, fmt.Errorf("baseline: record %s: %w", b.RunID, err)
	}
	return b, nil
}

// Latest returns the most recently created baseline for runID.
func (s *Store) Latest(ctx context.Context, runID string) (Baseline, error) {
	row := s.db.QueryRowContext(ctx, selectBaselines+`
		WHERE run_id = ?
		ORDER BY created_unix_nanos DESC, rowid DESC
		LIMIT 1`, runID)
	b, err := scanBaseline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Baseline{}, fmt.Errorf("%w: run %s", ErrNotFound, runID)
	}
	if err != nil {
		return Baseline{}, fmt.Errorf("baseline: latest %s: %w", runID, err)
	}
	return b, nil
}

// List returns every baseline, oldest first.
func (s *Store) List(ctx context.Context) ([]Baseline, error) {
	rows, err := s.db.QueryContext(ctx, selectBaselines+`
		ORDER BY created_unix_nanos ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("baseline: list: %w", err)
	}
	defer rows.Close()

	var out []Baseline
	for rows.Next() {
		b, err := scanBaseline(rows)
		if err != nil {
			return nil, fmt.Errorf("baseline: list: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("baseline: list: %w", err)
	}
	return out, nil
}

const selectBaselines = `
	SELECT baseline_id, run_id, trace_path, tick_count, hash_hex,
	       schema_version, policy_version, fixed_hz, source_version, created_unix_nanos
	FROM baselines`

type scanner interface {
	Scan(dest ...any) error
}

func scanBaseline(sc scanner) (Baseline, error) {
	var (
		b       Baseline
		ticks   int64
		hashHex string
		created int64
	)
	if err := sc.Scan(&b.ID, &b.RunID, &b.TracePath, &ticks, &hashHex,
		&b.SchemaVersion, &b.PolicyVersion, &b.FixedHz, &b.SourceVersion, &created); err != nil {
		return Baseline{}, err
	}
	h, err := parseHash(hashHex)
	if err != nil {
		return Baseline{}, fmt.Errorf("baseline %s: %w", b.ID, err)
	}
	b.Ticks = uint64(ticks)
	b.Hash = h
	b.CreatedUTC = time.Unix(0, created).UTC()
	return b, nil
}

// Hashes are stored as fixed-width hex since SQLite integers are signed.
func formatHash(h uint64) string { return fmt.Sprintf("%016x", h) }

func parseHash(s string) (uint64, error) {
	h, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return h, nil
}
