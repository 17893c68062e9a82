package mover

import "strings"

// Join resolves rel against a storage root. Remote-style roots ending in a
// colon join with no separator; everything else gets exactly one slash.
// Trailing slash runs on the root collapse first, so joining onto an
// already-joined path never doubles separators.
func Join(root, rel string) string {
	root = strings.TrimRight(root, "/")
	if rel == "" {
		return root
	}
	if root == "" {
		return "/" + rel
	}
	if strings.HasSuffix(root, ":") {
		return root + rel
	}
	return root + "/" + rel
}
