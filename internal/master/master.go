package master

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kyle95wm/audiovault-tools/internal/fileutil"
	"github.com/kyle95wm/audiovault-tools/internal/logging"
	"github.com/kyle95wm/audiovault-tools/internal/media/ffprobe"
	"github.com/kyle95wm/audiovault-tools/internal/services"
	"github.com/kyle95wm/audiovault-tools/internal/services/ffmpeg"
)

// ProbeFunc inspects a media file. Wired to ffprobe.Inspect outside tests.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Options adjust one mastering run.
type Options struct {
	Aggressive bool
	NoBumper   bool
	Force      bool
}

// Pipeline runs the mastering and bumper workflows.
type Pipeline struct {
	encoder ffmpeg.Encoder
	probe   ProbeFunc
	profile Profile
	assets  string
	logger  *slog.Logger
	out     io.Writer
}

// PipelineOption adjusts pipeline wiring.
type PipelineOption func(*Pipeline)

// WithOutput redirects progress lines. Defaults to stdout.
func WithOutput(w io.Writer) PipelineOption {
	return func(p *Pipeline) {
		if w != nil {
			p.out = w
		}
	}
}

// NewPipeline wires a mastering pipeline. Encoder, probe, and the bumper
// assets directory are required.
func NewPipeline(encoder ffmpeg.Encoder, probe ProbeFunc, profile Profile, assetsDir string, logger *slog.Logger, opts ...PipelineOption) (*Pipeline, error) {
	if encoder == nil {
		return nil, errors.New("pipeline requires an encoder")
	}
	if probe == nil {
		return nil, errors.New("pipeline requires a probe")
	}
	if strings.TrimSpace(assetsDir) == "" {
		return nil, errors.New("pipeline requires an assets directory")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	pipeline := &Pipeline{
		encoder: encoder,
		probe:   probe,
		profile: profile,
		assets:  assetsDir,
		logger:  logging.NewComponentLogger(logger, "master"),
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(pipeline)
	}
	return pipeline, nil
}

// Master normalizes one WAV into the house format, wrapping it in bumpers
// unless opts.NoBumper is set. Existing outputs are skipped unless opts.Force.
func (p *Pipeline) Master(ctx context.Context, input, output string, opts Options) error {
	if !fileutil.HasExtension(input, ".wav") {
		return services.Wrap(services.ErrUsage, "master", "input",
			fmt.Sprintf("%s: input must be a WAV file", input), nil)
	}
	if _, err := os.Stat(input); err != nil {
		return services.Wrap(services.ErrSourceNotFound, "master", "input", input, err)
	}
	if p.skipExisting(output, opts.Force) {
		return nil
	}

	result, err := p.probe(ctx, input)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "master", "probe", input, err)
	}
	if result.AudioStreamCount() == 0 {
		return fmt.Errorf("no audio stream in %s", input)
	}
	duration := result.DurationSeconds()

	chain := p.profile.FilterChain(opts.Aggressive)
	p.logger.Debug("mastering",
		logging.String("input", input),
		logging.String("filter", chain))

	if opts.NoBumper {
		if err := p.encoder.Transcode(ctx, input, output, chain); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Finished: %s (%s)\n", output, formatDuration(duration))
		return nil
	}

	intermediate := fileutil.TempWorkFile("avtools-master", ".mp3")
	defer removeQuietly(intermediate)
	if err := p.encoder.Transcode(ctx, input, intermediate, chain); err != nil {
		return err
	}
	if err := p.assemble(ctx, intermediate, output); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Finished: %s (%s)\n", output, formatDuration(duration))
	return nil
}

// MasterBatch masters every WAV in inDir into outDir. The listing is sorted
// and non-recursive; per-file failures are reported and the batch continues.
func (p *Pipeline) MasterBatch(ctx context.Context, inDir, outDir string, opts Options) error {
	names, err := fileutil.ListByExtension(inDir, ".wav")
	if err != nil {
		return services.Wrap(services.ErrSourceNotFound, "master", "batch", inDir, err)
	}
	if err := fileutil.EnsureDir(outDir); err != nil {
		return err
	}

	failures := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		input := filepath.Join(inDir, name)
		output := filepath.Join(outDir, fileutil.ReplaceExt(name, ".mp3"))
		if err := p.Master(ctx, input, output, opts); err != nil {
			failures++
			fmt.Fprintf(p.out, "error: %s: %v\n", name, err)
		}
	}
	if failures > 0 {
		fmt.Fprintf(p.out, "%d of %d file(s) failed\n", failures, len(names))
	}
	fmt.Fprintln(p.out, "Batch complete.")
	return nil
}

func (p *Pipeline) skipExisting(output string, force bool) bool {
	if force {
		return false
	}
	if _, err := os.Stat(output); err == nil {
		fmt.Fprintf(p.out, "Skipping %s (already exists)\n", output)
		return true
	}
	return false
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "unknown length"
	}
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}
