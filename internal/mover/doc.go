// Package mover drives the interactive selection-and-transfer workflow
// between the plaintext and encrypted vault remotes.
//
// A session runs one fixed workflow: resolve the mode from flags, pick a
// route or upload destination, pick items from a recursive listing, confirm,
// then execute one transfer job per item with per-item collision checks and
// empty-directory cleanup. Dry-run sessions produce the same prompts and
// resolved paths but only ever invoke the backend with its dry-run flag.
package mover
