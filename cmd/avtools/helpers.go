package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kyle95wm/audiovault-tools/internal/services"
)

// exactArgs mirrors cobra.ExactArgs but classifies the mistake so the shell
// sees exit status 2.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		return services.Wrap(services.ErrUsage, "cli", "args",
			fmt.Sprintf("%s requires exactly %d argument(s), got %d", cmd.Name(), n, len(args)), nil)
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return services.Wrap(services.ErrUsage, "cli", "args",
		fmt.Sprintf("%s takes no arguments (got %q)", cmd.Name(), strings.Join(args, " ")), nil)
}

func isTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
