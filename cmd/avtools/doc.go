// Package main hosts the avtools CLI entrypoint and command graph.
//
// The Cobra-based command tree fronts the vault transfer workflow, the
// mastering and bumper pipelines, media inspection, and configuration
// scaffolding. It centralizes configuration resolution and logging setup so
// subcommands can focus on flag parsing and wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
