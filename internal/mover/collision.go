package mover

import (
	"context"
	"strings"

	"github.com/kyle95wm/audiovault-tools/internal/services/rclone"
)

// destinationExists reports whether the destination parent already holds an
// object with the job's leaf name and type. A directory only collides with a
// directory, a file only with a file. Listing failures count as an absent
// parent, not an error.
func destinationExists(ctx context.Context, backend rclone.Backend, dst string, isDir bool) bool {
	parent, leaf := splitParent(dst)
	if parent == "" || leaf == "" {
		return false
	}
	entries, err := backend.List(ctx, parent, false)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.Rel == leaf && entry.IsDir == isDir {
			return true
		}
	}
	return false
}

// splitParent splits a resolved location into the parent root to list and
// the leaf name to compare. Items sitting directly on a remote keep the bare
// remote as their parent.
func splitParent(location string) (parent, leaf string) {
	if idx := strings.LastIndex(location, "/"); idx >= 0 {
		return location[:idx], location[idx+1:]
	}
	if idx := strings.Index(location, ":"); idx >= 0 {
		return location[:idx+1], location[idx+1:]
	}
	return "", location
}
