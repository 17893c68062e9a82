package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"
)

//go:embed sample_config.toml
var sampleConfig string

// Tools names the external binaries the commands shell out to. Values may be
// bare names (resolved via PATH) or absolute paths.
type Tools struct {
	Rclone     string `toml:"rclone" env:"AVTOOLS_RCLONE"`
	Fzf        string `toml:"fzf" env:"AVTOOLS_FZF"`
	FFmpeg     string `toml:"ffmpeg" env:"AVTOOLS_FFMPEG"`
	FFprobe    string `toml:"ffprobe" env:"AVTOOLS_FFPROBE"`
	Caffeinate string `toml:"caffeinate" env:"AVTOOLS_CAFFEINATE"`
}

// Mastering contains the loudness profile and bumper asset location used by
// the master and bumper commands.
type Mastering struct {
	AssetsDir     string  `toml:"assets_dir" env:"AVTOOLS_ASSETS_DIR"`
	TargetLUFS    float64 `toml:"target_lufs"`
	TruePeak      float64 `toml:"true_peak"`
	LoudnessRange float64 `toml:"loudness_range"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" env:"AVTOOLS_LOG_FORMAT"`
	Level  string `toml:"level" env:"AVTOOLS_LOG_LEVEL"`
}

// Config encapsulates all configuration values for the tools. The file is
// optional; defaults cover a stock install and AVTOOLS_* environment
// variables override both defaults and file values.
type Config struct {
	Tools     Tools     `toml:"tools"`
	Mastering Mastering `toml:"mastering"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/avtools/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has the environment overlay applied and all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, "", false, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("avtools.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// LockDir returns the directory for session lock files, creating it on first
// use. Lock files carry no state; the directory just has to exist.
func LockDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	dir := filepath.Join(base, "avtools")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create lock directory %q: %w", dir, err)
	}
	return dir, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
