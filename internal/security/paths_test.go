package security

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWithinDir(t *testing.T) {
	root := t.TempDir()
	safe := filepath.Join(root, "safe")
	outside := filepath.Join(root, "outside")
	for _, d := range []string{safe, outside} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Symlink(outside, filepath.Join(safe, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"direct child", filepath.Join(safe, "a.ndjson"), false},
		{"missing nested", filepath.Join(safe, "x", "y", "a.ndjson"), false},
		{"dot dot", filepath.Join(safe, "..", "a.ndjson"), true},
		{"sibling", filepath.Join(outside, "a.ndjson"), true},
		{"through symlink", filepath.Join(safe, "link", "a.ndjson"), true},
		{"dir itself", safe, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WithinDir(tt.path, safe)
			if (err != nil) != tt.wantErr {
				t.Fatalf("WithinDir(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrEscapesDir) {
				t.Errorf("error %v is not ErrEscapesDir", err)
			}
		})
	}
}

func TestWithinDirMissingDir(t *testing.T) {
	if err := WithinDir("a", filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}

func TestTracePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "traces")

	p, err := TracePath(dir, "run.ndjson")
	if err != nil {
		t.Fatalf("TracePath: %v", err)
	}
	if want := filepath.Join(dir, "run.ndjson"); p != want {
		t.Errorf("TracePath = %q, want %q", p, want)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("trace dir not created: %v", err)
	}

	if _, err := TracePath(dir, "../escape.ndjson"); !errors.Is(err, ErrEscapesDir) {
		t.Errorf("TracePath(../escape) error = %v, want ErrEscapesDir", err)
	}

	abs := filepath.Join(t.TempDir(), "elsewhere.ndjson")
	if p, err := TracePath(dir, abs); err != nil || p != abs {
		t.Errorf("TracePath(abs) = %q, %v", p, err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"":           "unknown",
		"run-42":     "run-42",
		"a b//c":     "a_b_c",
		"..hidden":   "hidden",
		"seed_12":    "seed_12",
		"9f0c:ab?*":  "9f0c_ab",
		"tremor.6hz": "tremor.6hz",
		"___":        "unknown",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
