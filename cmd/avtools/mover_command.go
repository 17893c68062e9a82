package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kyle95wm/audiovault-tools/internal/config"
	"github.com/kyle95wm/audiovault-tools/internal/inhibit"
	"github.com/kyle95wm/audiovault-tools/internal/logging"
	"github.com/kyle95wm/audiovault-tools/internal/mover"
	"github.com/kyle95wm/audiovault-tools/internal/preflight"
	"github.com/kyle95wm/audiovault-tools/internal/services"
	"github.com/kyle95wm/audiovault-tools/internal/services/fzf"
	"github.com/kyle95wm/audiovault-tools/internal/services/rclone"
)

func newMoverCommand(ctx *commandContext) *cobra.Command {
	var commit bool
	var fromLocal string
	var move bool
	var junkFilter string

	cmd := &cobra.Command{
		Use:   "mover",
		Short: "Interactively move items between the vault remotes",
		Long: `Mover runs one interactive transfer session: pick a route (or an upload
destination with --from-local), pick items with fzf, confirm, transfer.
Without --commit every backend call is a dry run.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts, err := mover.ResolveOptions(commit, fromLocal, move, junkFilter)
			if err != nil {
				return err
			}
			if opts.LocalPath != "" {
				expanded, err := config.ExpandPath(opts.LocalPath)
				if err != nil {
					return err
				}
				opts.LocalPath = expanded
			}
			if err := opts.CheckSource(); err != nil {
				return err
			}

			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return services.Wrap(services.ErrUsage, "mover", "tty",
					"interactive selection needs a terminal", nil)
			}

			if err := preflight.RequireBinaries("mover", preflight.MoverRequirements(cfg)); err != nil {
				return err
			}

			// One commit session at a time; dry runs never contend.
			if opts.Commit {
				lockDir, err := config.LockDir()
				if err != nil {
					return err
				}
				release, err := mover.AcquireLock(filepath.Join(lockDir, "mover.lock"))
				if err != nil {
					return err
				}
				defer release()
			}

			backend, err := rclone.New(cfg.Tools.Rclone, rclone.WithOutput(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			picker, err := fzf.New(cfg.Tools.Fzf)
			if err != nil {
				return err
			}

			sessionLogger := logger.With(logging.String("session_id", uuid.NewString()))
			sessionOpts := []mover.SessionOption{mover.WithOutput(cmd.OutOrStdout())}
			if inhibit.Supported() {
				caffeinate := cfg.Tools.Caffeinate
				sessionOpts = append(sessionOpts, mover.WithInhibitor(func(runCtx context.Context) (func(), error) {
					handle, err := inhibit.Start(runCtx, caffeinate, sessionLogger)
					if err != nil {
						return nil, err
					}
					return handle.Stop, nil
				}))
			}

			session, err := mover.NewSession(opts, backend, picker, sessionLogger, sessionOpts...)
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return session.Run(runCtx)
		},
	}

	cmd.Flags().BoolVar(&commit, "commit", false, "Execute transfers instead of the default dry run")
	cmd.Flags().StringVar(&fromLocal, "from-local", "", "Upload from a local file or directory")
	cmd.Flags().BoolVar(&move, "move", false, "Erase local originals after upload (requires --from-local)")
	cmd.Flags().StringVar(&junkFilter, "junk-filter", "auto", "Exclude Finder metadata from directory transfers (on, off, auto)")
	return cmd
}
