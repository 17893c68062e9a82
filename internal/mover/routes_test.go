package mover

import (
	"strings"
	"testing"
)

func stripRemote(name string) string {
	name = strings.TrimPrefix(name, RemoteCrypt)
	return strings.TrimPrefix(name, RemotePlain)
}

func TestRoutesFlipOnlyTheRemote(t *testing.T) {
	routes := Routes()
	if len(routes) != 8 {
		t.Fatalf("expected 8 routes, got %d", len(routes))
	}

	encrypts := 0
	labels := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		if _, dup := labels[route.Label]; dup {
			t.Fatalf("duplicate route label %q", route.Label)
		}
		labels[route.Label] = struct{}{}

		if route.Encrypt {
			encrypts++
			if !strings.HasPrefix(route.Source, RemotePlain) || !strings.HasPrefix(route.Destination, RemoteCrypt) {
				t.Fatalf("encrypt route %q has wrong remotes: %s -> %s", route.Label, route.Source, route.Destination)
			}
		} else {
			if !strings.HasPrefix(route.Source, RemoteCrypt) || !strings.HasPrefix(route.Destination, RemotePlain) {
				t.Fatalf("decrypt route %q has wrong remotes: %s -> %s", route.Label, route.Source, route.Destination)
			}
		}

		if stripRemote(route.Source) != stripRemote(route.Destination) {
			t.Fatalf("route %q changes the shelf: %s -> %s", route.Label, route.Source, route.Destination)
		}
	}
	if encrypts != 4 {
		t.Fatalf("expected 4 encrypt routes, got %d", encrypts)
	}
}

func TestUploadDestinationsCoverBothRemotes(t *testing.T) {
	roots := UploadDestinations()
	if len(roots) != 8 {
		t.Fatalf("expected 8 destinations, got %d", len(roots))
	}

	plain, crypt := 0, 0
	names := make(map[string]struct{}, len(roots))
	labels := make(map[string]struct{}, len(roots))
	for _, root := range roots {
		if _, dup := names[root.Name]; dup {
			t.Fatalf("duplicate destination %q", root.Name)
		}
		names[root.Name] = struct{}{}
		if _, dup := labels[root.Label]; dup {
			t.Fatalf("duplicate destination label %q", root.Label)
		}
		labels[root.Label] = struct{}{}

		switch {
		case strings.HasPrefix(root.Name, RemoteCrypt):
			crypt++
		case strings.HasPrefix(root.Name, RemotePlain):
			plain++
		default:
			t.Fatalf("destination %q on unknown remote", root.Name)
		}
	}
	if plain != 4 || crypt != 4 {
		t.Fatalf("expected 4 destinations per remote, got %d plain and %d crypt", plain, crypt)
	}
}
