package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// House format for everything the vault publishes: 192 kbps CBR MP3,
// 48 kHz stereo.
const (
	SampleRate = 48000
	Channels   = 2
	Bitrate    = "192k"
	Codec      = "libmp3lame"
)

// Encoder defines the operations the mastering pipeline needs.
type Encoder interface {
	Transcode(ctx context.Context, input, output, filter string) error
	EncodeHouseFormat(ctx context.Context, input, output string) error
	GenerateSilence(ctx context.Context, output string, seconds float64) error
	ConcatCopy(ctx context.Context, listPath, output string) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithOutput redirects streamed ffmpeg output. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(c *Client) {
		if w != nil {
			c.output = w
		}
	}
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary string
	exec   Executor
	output io.Writer
}

// New constructs an ffmpeg client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
		output: os.Stderr,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Transcode runs input through the given audio filter chain and encodes the
// result in the house format.
func (c *Client) Transcode(ctx context.Context, input, output, filter string) error {
	args := []string{"-y", "-hide_banner", "-i", input, "-af", filter}
	args = append(args, houseFormatArgs()...)
	args = append(args, output)
	return c.run(ctx, "transcode", args)
}

// EncodeHouseFormat re-encodes input to the house format without filtering.
// Bumper parts go through this so the concat demuxer sees uniform streams.
func (c *Client) EncodeHouseFormat(ctx context.Context, input, output string) error {
	args := []string{"-y", "-hide_banner", "-i", input}
	args = append(args, houseFormatArgs()...)
	args = append(args, output)
	return c.run(ctx, "encode", args)
}

// GenerateSilence synthesizes a silent clip of the given length in the house
// format.
func (c *Client) GenerateSilence(ctx context.Context, output string, seconds float64) error {
	source := fmt.Sprintf("anullsrc=r=%d:cl=stereo", SampleRate)
	args := []string{
		"-y", "-hide_banner",
		"-f", "lavfi", "-i", source,
		"-t", strconv.FormatFloat(seconds, 'f', -1, 64),
	}
	args = append(args, houseFormatArgs()...)
	args = append(args, output)
	return c.run(ctx, "silence", args)
}

// ConcatCopy joins the parts named in a concat-demuxer list file without
// re-encoding. All parts must already share the house format.
func (c *Client) ConcatCopy(ctx context.Context, listPath, output string) error {
	args := []string{
		"-y", "-hide_banner",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c", "copy",
		output,
	}
	return c.run(ctx, "concat", args)
}

func houseFormatArgs() []string {
	return []string{
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		"-c:a", Codec,
		"-b:a", Bitrate,
	}
}

func (c *Client) run(ctx context.Context, operation string, args []string) error {
	var tail []string
	err := c.exec.Run(ctx, c.binary, args, func(line string) {
		fmt.Fprintln(c.output, line)
		tail = append(tail, line)
		if len(tail) > 5 {
			tail = tail[1:]
		}
	})
	if err != nil {
		if detail := strings.TrimSpace(strings.Join(tail, "; ")); detail != "" {
			return fmt.Errorf("ffmpeg %s: %s: %w", operation, detail, err)
		}
		return fmt.Errorf("ffmpeg %s: %w", operation, err)
	}
	return nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
