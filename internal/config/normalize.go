package config

import "strings"

func (c *Config) normalize() error {
	if err := c.normalizeTools(); err != nil {
		return err
	}
	if err := c.normalizeMastering(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeTools() error {
	c.Tools.Rclone = strings.TrimSpace(c.Tools.Rclone)
	c.Tools.Fzf = strings.TrimSpace(c.Tools.Fzf)
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	c.Tools.Caffeinate = strings.TrimSpace(c.Tools.Caffeinate)
	return nil
}

func (c *Config) normalizeMastering() error {
	expanded, err := expandPath(strings.TrimSpace(c.Mastering.AssetsDir))
	if err != nil {
		return err
	}
	c.Mastering.AssetsDir = expanded
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
