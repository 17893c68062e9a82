// Package fzf mediates access to the fzf fuzzy finder used for every
// interactive selection in the mover.
//
// Choices go to fzf on stdin, the selection comes back on stdout, and the
// finder itself draws on the controlling terminal. Cancellation (ESC,
// ctrl-c, or an empty selection) is surfaced as a distinguished cancelled
// error rather than a failure, since backing out of a prompt is a normal
// way to end a session.
package fzf
