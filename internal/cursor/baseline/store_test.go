package baseline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/steadycursor/internal/monitoring"
	"github.com/banshee-data/steadycursor/internal/timeutil"
)

var epoch = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) (*Store, *timeutil.MockClock, string) {
	t.Helper()
	monitoring.SetLogger(t.Logf)
	t.Cleanup(func() { monitoring.SetLogger(nil) })

	path := filepath.Join(t.TempDir(), "baselines.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := timeutil.NewMockClock(epoch)
	s.SetClock(clock)
	return s, clock, path
}

func TestOpenAppliesMigrations(t *testing.T) {
	s, _, _ := openTestStore(t)
	version, dirty, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(LatestSchemaVersion), version)
}

func TestRecordAndLatest(t *testing.T) {
	s, clock, _ := openTestStore(t)
	ctx := context.Background()

	first, err := s.Record(ctx, Baseline{
		RunID:         "run-a",
		TracePath:     "traces/run-a.ndjson",
		Ticks:         600,
		Hash:          0xfedcba9876543210, // high bit set
		SchemaVersion: 1,
		PolicyVersion: 1,
		FixedHz:       60,
		SourceVersion: "dev",
	})
	require.NoError(t, err)
	_, err = uuid.Parse(first.ID)
	assert.NoError(t, err, "generated id should be a uuid")
	assert.Equal(t, epoch, first.CreatedUTC)

	clock.Advance(time.Minute)
	second, err := s.Record(ctx, Baseline{RunID: "run-a", Ticks: 601, Hash: 1, SchemaVersion: 1, PolicyVersion: 1, FixedHz: 60})
	require.NoError(t, err)

	got, err := s.Latest(ctx, "run-a")
	require.NoError(t, err)
	if diff := cmp.Diff(second, got); diff != "" {
		t.Errorf("latest mismatch (-want +got):\n%s", diff)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	if diff := cmp.Diff(first, all[0]); diff != "" {
		t.Errorf("first baseline mismatch (-want +got):\n%s", diff)
	}
}

func TestLatestNotFound(t *testing.T) {
	s, _, _ := openTestStore(t)
	_, err := s.Latest(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordValidation(t *testing.T) {
	s, _, _ := openTestStore(t)
	ctx := context.Background()

	_, err := s.Record(ctx, Baseline{Ticks: 1})
	assert.Error(t, err, "run id is required")

	b, err := s.Record(ctx, Baseline{ID: "fixed-id", RunID: "run-b"})
	require.NoError(t, err)
	_, err = s.Record(ctx, b)
	assert.Error(t, err, "duplicate id")
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	s, _, path := openTestStore(t)
	ctx := context.Background()
	want, err := s.Record(ctx, Baseline{RunID: "run-c", Ticks: 42, Hash: 0xcbf29ce484222325})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Latest(ctx, "run-c")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHashEncoding(t *testing.T) {
	for _, h := range []uint64{0, 1, 0x8000000000000000, ^uint64(0)} {
		s := formatHash(h)
		assert.Len(t, s, 16)
		got, err := parseHash(s)
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}
	_, err := parseHash("not-hex")
	assert.Error(t, err)
}
