package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateMastering(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTools() error {
	named := []struct {
		key   string
		value string
	}{
		{"tools.rclone", c.Tools.Rclone},
		{"tools.fzf", c.Tools.Fzf},
		{"tools.ffmpeg", c.Tools.FFmpeg},
		{"tools.ffprobe", c.Tools.FFprobe},
		{"tools.caffeinate", c.Tools.Caffeinate},
	}
	for _, tool := range named {
		if tool.value == "" {
			return fmt.Errorf("%s must not be empty", tool.key)
		}
	}
	return nil
}

func (c *Config) validateMastering() error {
	if c.Mastering.AssetsDir == "" {
		return errors.New("mastering.assets_dir must be set")
	}
	if c.Mastering.TargetLUFS >= 0 {
		return fmt.Errorf("mastering.target_lufs must be negative, got %v", c.Mastering.TargetLUFS)
	}
	if c.Mastering.TruePeak > 0 {
		return fmt.Errorf("mastering.true_peak must not be positive, got %v", c.Mastering.TruePeak)
	}
	if c.Mastering.LoudnessRange <= 0 {
		return fmt.Errorf("mastering.loudness_range must be positive, got %v", c.Mastering.LoudnessRange)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
