// Package config loads, normalizes, and validates the tools' configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads the optional TOML file, and applies AVTOOLS_*
// environment overrides. The Config type centralizes every knob the
// commands need: external binary names, the mastering loudness profile,
// the bumper assets directory, and log output settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
