package master

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kyle95wm/audiovault-tools/internal/fileutil"
	"github.com/kyle95wm/audiovault-tools/internal/services"
)

// Asset file names the bumper pipeline expects under the assets directory.
const (
	HeadAsset    = "avo_head.mp3"
	TailAsset    = "avo_tail.mp3"
	SilenceAsset = "silence_1s.mp3"
)

// AddBumpers wraps an already-mastered MP3 with the head and tail bumpers.
// Existing outputs are skipped unless force.
func (p *Pipeline) AddBumpers(ctx context.Context, input, output string, force bool) error {
	if !fileutil.HasExtension(input, ".mp3") {
		return services.Wrap(services.ErrUsage, "bumper", "input",
			fmt.Sprintf("%s: input must be an MP3 file", input), nil)
	}
	if _, err := os.Stat(input); err != nil {
		return services.Wrap(services.ErrSourceNotFound, "bumper", "input", input, err)
	}
	if p.skipExisting(output, force) {
		return nil
	}

	result, err := p.probe(ctx, input)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "bumper", "probe", input, err)
	}
	if result.AudioStreamCount() == 0 {
		return fmt.Errorf("no audio stream in %s", input)
	}

	if err := p.assemble(ctx, input, output); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Finished: %s\n", output)
	return nil
}

// BumperBatch adds bumpers to every MP3 in inDir. Same listing and
// continue-on-failure semantics as MasterBatch.
func (p *Pipeline) BumperBatch(ctx context.Context, inDir, outDir string, force bool) error {
	names, err := fileutil.ListByExtension(inDir, ".mp3")
	if err != nil {
		return services.Wrap(services.ErrSourceNotFound, "bumper", "batch", inDir, err)
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
		output := filepath.Join(outDir, name)
		if err := p.AddBumpers(ctx, input, output, force); err != nil {
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

// assemble re-encodes the bumper parts to the house format and concatenates
// head, program, silence, tail, silence into the output. Temp parts are
// removed whether or not the concat succeeds.
func (p *Pipeline) assemble(ctx context.Context, program, output string) error {
	head := filepath.Join(p.assets, HeadAsset)
	tail := filepath.Join(p.assets, TailAsset)
	silence := filepath.Join(p.assets, SilenceAsset)

	for _, asset := range []string{head, tail} {
		if _, err := os.Stat(asset); err != nil {
			return services.Wrap(services.ErrConfiguration, "bumper", "assets",
				fmt.Sprintf("%s not found under %s", filepath.Base(asset), p.assets), err)
		}
	}
	if _, err := os.Stat(silence); err != nil {
		fmt.Fprintln(p.out, "Generating 1s silence...")
		if err := fileutil.EnsureDir(p.assets); err != nil {
			return err
		}
		if err := p.encoder.GenerateSilence(ctx, silence, 1); err != nil {
			return err
		}
	}

	encodedHead := fileutil.TempWorkFile("avtools-bumper", ".mp3")
	encodedTail := fileutil.TempWorkFile("avtools-bumper", ".mp3")
	encodedSilence := fileutil.TempWorkFile("avtools-bumper", ".mp3")
	defer removeQuietly(encodedHead)
	defer removeQuietly(encodedTail)
	defer removeQuietly(encodedSilence)

	if err := p.encoder.EncodeHouseFormat(ctx, head, encodedHead); err != nil {
		return err
	}
	if err := p.encoder.EncodeHouseFormat(ctx, tail, encodedTail); err != nil {
		return err
	}
	if err := p.encoder.EncodeHouseFormat(ctx, silence, encodedSilence); err != nil {
		return err
	}

	list, err := writeConcatList([]string{encodedHead, program, encodedSilence, encodedTail, encodedSilence})
	if err != nil {
		return err
	}
	defer removeQuietly(list)

	return p.encoder.ConcatCopy(ctx, list, output)
}

// writeConcatList writes a concat-demuxer list file naming each part in play
// order. Single quotes in paths use the demuxer's escape form.
func writeConcatList(parts []string) (string, error) {
	var builder strings.Builder
	for _, part := range parts {
		builder.WriteString("file '")
		builder.WriteString(strings.ReplaceAll(part, "'", `'\''`))
		builder.WriteString("'\n")
	}
	path := fileutil.TempWorkFile("avtools-concat", ".txt")
	if err := os.WriteFile(path, []byte(builder.String()), 0o644); err != nil {
		return "", fmt.Errorf("write concat list: %w", err)
	}
	return path, nil
}
