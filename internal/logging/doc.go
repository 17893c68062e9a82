// Package logging builds the slog loggers used across the tools.
//
// It provides a console handler that renders compact single-line output with
// the component name folded into the prefix, a JSON handler for
// machine-readable logs, and small attribute helpers so call sites stay
// terse. Logs go to stderr by default; stdout is reserved for tool output
// and interactive prompts.
package logging
