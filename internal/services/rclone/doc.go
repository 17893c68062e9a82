// Package rclone mediates access to the rclone CLI that moves vault content
// between the plaintext and encrypted remotes.
//
// It normalizes command invocation for the handful of verbs the mover uses
// (lsf, copy, move, copyto, moveto, rmdirs), parses listings into typed
// entries, and exposes a testable Backend interface so the session logic can
// run against a fake in tests.
//
// Prefer this package over ad-hoc exec.Command usage when interacting with
// rclone so dry-run propagation and output streaming remain consistent.
package rclone
