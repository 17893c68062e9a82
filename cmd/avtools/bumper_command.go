package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kyle95wm/audiovault-tools/internal/config"
	"github.com/kyle95wm/audiovault-tools/internal/preflight"
)

func newBumperCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var batch bool

	cmd := &cobra.Command{
		Use:   "bumper <input.mp3> <output.mp3>",
		Short: "Wrap an already-mastered MP3 with the project bumpers",
		Long: `Bumper concatenates the head bumper, the program, and the tail bumper
(with a second of silence between sections) into a new MP3. With --batch
the arguments are an input and an output directory.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := preflight.RequireBinaries("bumper", preflight.MasteringRequirements(cfg)); err != nil {
				return err
			}

			pipeline, err := newMasteringPipeline(cmd, cfg, logger)
			if err != nil {
				return err
			}
			input, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			output, err := config.ExpandPath(args[1])
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			if batch {
				return pipeline.BumperBatch(runCtx, input, output, force)
			}
			return pipeline.AddBumpers(runCtx, input, output, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing outputs")
	cmd.Flags().BoolVar(&batch, "batch", false, "Treat the arguments as input and output directories")
	return cmd
}
