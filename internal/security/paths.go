// Package security confines tool output paths to their configured
// directories.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEscapesDir is returned when a path resolves outside its directory.
var ErrEscapesDir = errors.New("path escapes directory")

// WithinDir reports an error when path, after symlink resolution, lies
// outside dir. The path itself need not exist; its deepest existing
// ancestor is resolved instead.
func WithinDir(path, dir string) error {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	canonDir, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	canonPath, err := resolveExisting(absPath)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(canonDir, canonPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrEscapesDir, path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s is outside %s", ErrEscapesDir, path, dir)
	}
	return nil
}

// resolveExisting walks up from p to the first ancestor that exists,
// resolves its symlinks and re-attaches the remainder.
func resolveExisting(p string) (string, error) {
	for cur := p; ; {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			rest, err := filepath.Rel(cur, p)
			if err != nil {
				return "", err
			}
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p, nil
		}
		cur = parent
	}
}

// TracePath places name under dir, creating dir if needed. Relative names
// must stay inside dir; absolute names are used as given.
func TracePath(dir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	p := filepath.Join(dir, name)
	if err := WithinDir(p, dir); err != nil {
		return "", err
	}
	return p, nil
}

// SanitizeFilename maps s onto ASCII letters, digits, dot, underscore and
// dash, collapsing runs of anything else into one underscore.
func SanitizeFilename(s string) string {
	const maxLen = 128
	var b strings.Builder
	under := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
			under = false
		default:
			if !under {
				b.WriteByte('_')
				under = true
			}
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
