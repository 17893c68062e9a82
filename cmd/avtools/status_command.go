package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kyle95wm/audiovault-tools/internal/deps"
	"github.com/kyle95wm/audiovault-tools/internal/mover"
	"github.com/kyle95wm/audiovault-tools/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report external tool and configuration health",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout, configStatusLine(ctx, colorize))
			for _, result := range preflight.RunAll(cfg) {
				kind := statusWarn
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(stdout, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range dependencyLines(preflight.CheckSystemDeps(cfg), colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Transfer Routes", colorize) {
				fmt.Fprintln(stdout, line)
			}
			rows := make([][]string, 0, len(mover.Routes()))
			for _, route := range mover.Routes() {
				rows = append(rows, []string{route.Label, route.Source, route.Destination})
			}
			headers := []string{"Route", "Source", "Destination"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft}
			fmt.Fprintln(stdout, renderTable(headers, rows, aligns))
			return nil
		},
	}
}

func configStatusLine(ctx *commandContext, colorize bool) string {
	path, exists := ctx.configSource()
	if exists {
		return renderStatusLine("Config", statusOK, path, colorize)
	}
	return renderStatusLine("Config", statusInfo, fmt.Sprintf("defaults in use (%s not found)", path), colorize)
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses)+1)
	missing := make([]string, 0)
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Command != "" {
				message = fmt.Sprintf("Ready (command: %s)", dep.Command)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}

		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
		if !dep.Optional {
			missing = append(missing, dep.Name)
		}
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing dependencies", statusWarn, strings.Join(missing, ", "), colorize))
	}
	return lines
}
