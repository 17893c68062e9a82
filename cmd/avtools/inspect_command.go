package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kyle95wm/audiovault-tools/internal/config"
	"github.com/kyle95wm/audiovault-tools/internal/media/ffprobe"
	"github.com/kyle95wm/audiovault-tools/internal/preflight"
	"github.com/kyle95wm/audiovault-tools/internal/services"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Probe a media file and report its container and streams",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := preflight.RequireBinaries("inspect", preflight.InspectRequirements(cfg)); err != nil {
				return err
			}

			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return services.Wrap(services.ErrSourceNotFound, "inspect", "input", path, err)
			}

			result, err := ffprobe.Inspect(cmd.Context(), cfg.Tools.FFprobe, path)
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "inspect", "probe", path, err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				fmt.Fprintf(out, "%s\n", result.RawJSON())
				return nil
			}

			fmt.Fprintf(out, "File:      %s\n", filepath.Base(path))
			fmt.Fprintf(out, "Container: %s\n", result.Format.FormatName)
			fmt.Fprintf(out, "Duration:  %s\n", formatClock(result.DurationSeconds()))
			if size := result.SizeBytes(); size > 0 {
				fmt.Fprintf(out, "Size:      %s\n", formatBytes(size))
			}
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(result.Streams))
			for _, stream := range result.Streams {
				rows = append(rows, streamRow(stream))
			}
			headers := []string{"#", "Type", "Codec", "Sample Rate", "Channels", "Bitrate"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the raw ffprobe JSON instead of a table")
	return cmd
}

func streamRow(stream ffprobe.Stream) []string {
	sampleRate := ""
	if hz := stream.SampleRateHz(); hz > 0 {
		sampleRate = fmt.Sprintf("%d Hz", hz)
	}
	channels := ""
	if stream.Channels > 0 {
		channels = strconv.Itoa(stream.Channels)
		if stream.Layout != "" {
			channels = fmt.Sprintf("%d (%s)", stream.Channels, stream.Layout)
		}
	}
	bitrate := ""
	if bps := stream.BitRateBPS(); bps > 0 {
		bitrate = fmt.Sprintf("%d kb/s", bps/1000)
	}
	return []string{
		strconv.Itoa(stream.Index),
		stream.CodecType,
		stream.CodecName,
		sampleRate,
		channels,
		bitrate,
	}
}

func formatClock(seconds float64) string {
	if seconds <= 0 {
		return "unknown"
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
