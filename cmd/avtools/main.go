package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kyle95wm/audiovault-tools/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		switch {
		case errors.Is(err, services.ErrCancelled):
			fmt.Println("Cancelled.")
		case errors.Is(err, context.Canceled):
			// Interrupted; deferred cleanups already ran.
		default:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(services.ExitCode(err))
	}
}
