package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kyle95wm/audiovault-tools/internal/config"
	"github.com/kyle95wm/audiovault-tools/internal/master"
	"github.com/kyle95wm/audiovault-tools/internal/media/ffprobe"
	"github.com/kyle95wm/audiovault-tools/internal/preflight"
	"github.com/kyle95wm/audiovault-tools/internal/services/ffmpeg"
)

func newMasterCommand(ctx *commandContext) *cobra.Command {
	var aggressive bool
	var noBumper bool
	var force bool
	var batch bool

	cmd := &cobra.Command{
		Use:   "master <input.wav> <output.mp3>",
		Short: "Master a narration WAV into the house MP3 format",
		Long: `Master compresses and loudness-normalizes a WAV recording, encodes it to
192 kbps CBR MP3 at 48 kHz stereo, and wraps it with the project bumpers.
With --batch the arguments are an input and an output directory.`,
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
			if err := preflight.RequireBinaries("master", preflight.MasteringRequirements(cfg)); err != nil {
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

			opts := master.Options{Aggressive: aggressive, NoBumper: noBumper, Force: force}
			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			if batch {
				return pipeline.MasterBatch(runCtx, input, output, opts)
			}
			return pipeline.Master(runCtx, input, output, opts)
		},
	}

	cmd.Flags().BoolVar(&aggressive, "aggressive", false, "Prepend the heavier compression stage for rough recordings")
	cmd.Flags().BoolVar(&noBumper, "no-bumper", false, "Skip bumper attachment after mastering")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing outputs")
	cmd.Flags().BoolVar(&batch, "batch", false, "Treat the arguments as input and output directories")
	return cmd
}

// newMasteringPipeline wires the ffmpeg encoder, the ffprobe prober, and the
// configured loudness profile. Shared by the master and bumper commands.
func newMasteringPipeline(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*master.Pipeline, error) {
	encoder, err := ffmpeg.New(cfg.Tools.FFmpeg, ffmpeg.WithOutput(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	ffprobeBinary := cfg.Tools.FFprobe
	probe := func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, ffprobeBinary, path)
	}
	profile := master.Profile{
		TargetLUFS:    cfg.Mastering.TargetLUFS,
		TruePeak:      cfg.Mastering.TruePeak,
		LoudnessRange: cfg.Mastering.LoudnessRange,
	}
	return master.NewPipeline(encoder, probe, profile, cfg.Mastering.AssetsDir, logger,
		master.WithOutput(cmd.OutOrStdout()))
}
