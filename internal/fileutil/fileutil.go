package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ReplaceExt swaps the extension of path for ext. ext must include the
// leading dot.
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// HasExtension reports whether path carries one of the given extensions,
// compared case-insensitively. Extensions include the leading dot.
func HasExtension(path string, exts ...string) bool {
	got := strings.ToLower(filepath.Ext(path))
	for _, ext := range exts {
		if got == strings.ToLower(ext) {
			return true
		}
	}
	return false
}

// ListByExtension returns the sorted basenames of regular files in dir that
// carry one of the given extensions. The listing is non-recursive.
func ListByExtension(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if HasExtension(entry.Name(), exts...) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// TempWorkFile returns a unique scratch path under the system temp directory.
// The file is not created; callers hand the path to an external tool.
func TempWorkFile(prefix, ext string) string {
	return filepath.Join(os.TempDir(), prefix+"-"+uuid.NewString()+ext)
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
