package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kyle95wm/audiovault-tools/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp assets directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Mastering.AssetsDir = filepath.Join(base, "assets")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAssetsDir overrides the bumper assets directory on the test config.
func WithAssetsDir(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mastering.AssetsDir = path
	}
}

// WithBumperAssets creates the assets directory and fills it with placeholder
// head, tail, and silence clips.
func WithBumperAssets() ConfigOption {
	return func(b *configBuilder) {
		dir := b.cfg.Mastering.AssetsDir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.t.Fatalf("mkdir assets dir: %v", err)
		}
		for _, name := range []string{"avo_head.mp3", "avo_tail.mp3", "silence_1s.mp3"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("mp3"), 0o644); err != nil {
				b.t.Fatalf("write asset %s: %v", name, err)
			}
		}
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, every external binary the tools
// shell out to is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"rclone", "fzf", "ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Mastering.AssetsDir)
}
