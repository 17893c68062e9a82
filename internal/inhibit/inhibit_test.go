package inhibit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeStubInhibitor(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "stub-caffeinate")
	script := "#!/bin/sh\nsleep 60\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub inhibitor: %v", err)
	}
	return path
}

func TestStartRequiresBinary(t *testing.T) {
	if _, err := Start(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestStartAndStop(t *testing.T) {
	handle, err := Start(context.Background(), writeStubInhibitor(t), nil)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if handle.cmd.Process == nil {
		t.Fatal("expected running process")
	}
	handle.Stop()
	if handle.cmd.ProcessState == nil {
		t.Fatal("expected process to be reaped after Stop")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	handle, err := Start(context.Background(), writeStubInhibitor(t), nil)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	handle.Stop()
	handle.Stop()
}

func TestStopOnNilHandle(t *testing.T) {
	var handle *Handle
	handle.Stop()
}
