package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kyle95wm/audiovault-tools/internal/services"
	"github.com/kyle95wm/audiovault-tools/internal/testsupport"
)

func TestUnknownFlagClassifiedAsUsage(t *testing.T) {
	_, _, err := runCLI(t, []string{"mover", "--bogus"}, missingConfig(t))
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestUnknownCommandClassifiedAsUsage(t *testing.T) {
	_, _, err := runCLI(t, []string{"frobnicate"}, missingConfig(t))
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	requireContains(t, err.Error(), "frobnicate")
}

func TestMoverMoveRequiresFromLocal(t *testing.T) {
	_, _, err := runCLI(t, []string{"mover", "--move"}, missingConfig(t))
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	requireContains(t, err.Error(), "--move requires --from-local")
}

func TestMoverRejectsBadJunkPolicy(t *testing.T) {
	_, _, err := runCLI(t, []string{"mover", "--junk-filter", "sometimes"}, missingConfig(t))
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestMoverMissingLocalSourceExitsTwo(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, _, err := runCLI(t, []string{"mover", "--from-local", missing}, missingConfig(t))
	if !errors.Is(err, services.ErrSourceNotFound) {
		t.Fatalf("expected source-not-found error, got %v", err)
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestMoverRefusesWithoutTerminal(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runCLI(t, []string{"mover", "--from-local", dir}, missingConfig(t))
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	requireContains(t, err.Error(), "terminal")
}

func TestMasterArgumentCountClassified(t *testing.T) {
	_, _, err := runCLI(t, []string{"master", "only.wav"}, missingConfig(t))
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestMasterMissingInputExitsTwo(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	path := writeConfigFor(t, cfg)

	in := filepath.Join(t.TempDir(), "ghost.wav")
	out := filepath.Join(t.TempDir(), "out.mp3")
	_, _, err := runCLI(t, []string{"master", in, out}, path)
	if !errors.Is(err, services.ErrSourceNotFound) {
		t.Fatalf("expected source-not-found error, got %v", err)
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestBumperRejectsNonMp3Input(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	path := writeConfigFor(t, cfg)

	_, _, err := runCLI(t, []string{"bumper", "in.wav", "out.mp3"}, path)
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestBumperMissingAssetsReportsConfiguration(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	path := writeConfigFor(t, cfg)

	// The stub ffprobe must emit a parseable report so the run gets past the
	// input probe and fails on the absent assets directory.
	script := `#!/bin/sh
echo '{"streams":[{"index":0,"codec_type":"audio"}],"format":{"duration":"60"}}'
`
	probe := filepath.Join(testsupport.BaseDir(cfg), "bin", "ffprobe")
	if err := os.WriteFile(probe, []byte(script), 0o755); err != nil {
		t.Fatalf("write ffprobe stub: %v", err)
	}

	input := filepath.Join(testsupport.BaseDir(cfg), "show.mp3")
	testsupport.WriteFile(t, input, 64)

	_, _, err := runCLI(t, []string{"bumper", input, filepath.Join(t.TempDir(), "out.mp3")}, path)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, err.Error(), "avo_head.mp3")
}

func TestInspectMissingFileExitsTwo(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	path := writeConfigFor(t, cfg)

	ghost := filepath.Join(t.TempDir(), "ghost.mp3")
	_, _, err := runCLI(t, []string{"inspect", ghost}, path)
	if !errors.Is(err, services.ErrSourceNotFound) {
		t.Fatalf("expected source-not-found error, got %v", err)
	}
}

func TestStatusReportsMissingDependencies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tools.Rclone = "avtools-test-missing-rclone"
	cfg.Tools.Fzf = "avtools-test-missing-fzf"
	cfg.Tools.FFmpeg = "avtools-test-missing-ffmpeg"
	cfg.Tools.FFprobe = "avtools-test-missing-ffprobe"
	cfg.Tools.Caffeinate = "avtools-test-missing-caffeinate"
	path := writeConfigFor(t, cfg)

	stdout, _, err := runCLI(t, []string{"status"}, path)
	if err != nil {
		t.Fatalf("status should report, not fail: %v", err)
	}
	requireContains(t, stdout, "== Dependencies ==")
	requireContains(t, stdout, "Missing dependencies")
	requireContains(t, stdout, "rclone")
	requireContains(t, stdout, "Assets directory")
	requireContains(t, stdout, "== Transfer Routes ==")
	requireContains(t, stdout, "Encrypt movies/available")
}

func TestStatusWithStubbedBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithBumperAssets())
	path := writeConfigFor(t, cfg)

	stdout, _, err := runCLI(t, []string{"status"}, path)
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	requireContains(t, stdout, "Ready (command: rclone)")
	requireContains(t, stdout, "read/write ok")
}

func TestStatusReportsRelocatedAssetsDir(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "station-assets")
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(),
		testsupport.WithAssetsDir(custom), testsupport.WithBumperAssets())
	path := writeConfigFor(t, cfg)

	stdout, _, err := runCLI(t, []string{"status"}, path)
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	requireContains(t, stdout, custom+" (read/write ok)")
}
