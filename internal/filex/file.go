// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold path, owner-only.
// In-memory SQLite names and bare file names need nothing.
func EnsureParentDir(path string) error {
	if path == "" || strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// DefaultDataPath returns name inside the user's config directory
// (e.g. ~/.config/soldctl/name), falling back to name in the working directory.
func DefaultDataPath(app, name string) string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return name
	}
	return filepath.Join(base, app, name)
}
