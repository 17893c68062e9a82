// Package services defines shared utilities consumed by the command
// implementations and external tool integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag failures with a
//     category (usage, missing dependency, cancellation, tool failure) so the
//     entry point can pick the right exit status.
//   - Thin abstractions that make command execution and output streaming from
//     external tools testable.
//
// Use these helpers when wiring new command logic so operational behaviour
// (error handling, exit codes, observability) stays uniform across the tools.
package services
