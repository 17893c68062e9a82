package rclone

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Entry is one row of an lsf listing. Rel is the path relative to the listed
// root with no trailing slash; IsDir records the trailing-slash marker rclone
// prints for directories.
type Entry struct {
	Rel   string
	IsDir bool
}

// Label renders the entry the way rclone listed it, directory marker included.
func (e Entry) Label() string {
	if e.IsDir {
		return e.Rel + "/"
	}
	return e.Rel
}

// TransferOptions adjust a single transfer invocation.
type TransferOptions struct {
	DryRun   bool
	Excludes []string
}

// Backend defines the storage operations the transfer session needs.
type Backend interface {
	List(ctx context.Context, root string, recursive bool) ([]Entry, error)
	Copy(ctx context.Context, src, dst string, opts TransferOptions) error
	Move(ctx context.Context, src, dst string, opts TransferOptions) error
	CopyTo(ctx context.Context, src, dst string, opts TransferOptions) error
	MoveTo(ctx context.Context, src, dst string, opts TransferOptions) error
	RemoveEmptyDirs(ctx context.Context, root string, leaveRoot bool) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error
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

// WithOutput redirects streamed rclone output. Defaults to stderr so
// transfer progress never mixes with selection output on stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Client) {
		if w != nil {
			c.output = w
		}
	}
}

// Client wraps rclone CLI interactions.
type Client struct {
	binary string
	exec   Executor
	output io.Writer
}

// New constructs an rclone client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("rclone binary required")
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

// List runs lsf against root and parses the listing. Order is preserved and
// exact duplicate rows are dropped.
func (c *Client) List(ctx context.Context, root string, recursive bool) ([]Entry, error) {
	args := []string{"lsf"}
	if recursive {
		args = append(args, "-R")
	}
	args = append(args, "--", root)

	var lines []string
	var errLines []string
	err := c.exec.Run(ctx, c.binary, args,
		func(line string) { lines = append(lines, line) },
		func(line string) { errLines = append(errLines, line) },
	)
	if err != nil {
		detail := strings.TrimSpace(strings.Join(errLines, "; "))
		if detail != "" {
			return nil, fmt.Errorf("rclone lsf %s: %s: %w", root, detail, err)
		}
		return nil, fmt.Errorf("rclone lsf %s: %w", root, err)
	}
	return parseListing(lines), nil
}

// Copy transfers a directory tree without touching the source.
func (c *Client) Copy(ctx context.Context, src, dst string, opts TransferOptions) error {
	return c.transfer(ctx, "copy", src, dst, opts)
}

// Move transfers a directory tree and deletes transferred source files.
// rclone leaves the emptied directory skeleton behind; RemoveEmptyDirs
// handles that.
func (c *Client) Move(ctx context.Context, src, dst string, opts TransferOptions) error {
	return c.transfer(ctx, "move", src, dst, opts)
}

// CopyTo transfers a single file to an exact destination path. Filter flags
// do not apply to single-file transfers, so excludes are ignored.
func (c *Client) CopyTo(ctx context.Context, src, dst string, opts TransferOptions) error {
	return c.transfer(ctx, "copyto", src, dst, TransferOptions{DryRun: opts.DryRun})
}

// MoveTo is CopyTo with move semantics.
func (c *Client) MoveTo(ctx context.Context, src, dst string, opts TransferOptions) error {
	return c.transfer(ctx, "moveto", src, dst, TransferOptions{DryRun: opts.DryRun})
}

// RemoveEmptyDirs prunes empty directories under root. With leaveRoot the
// root itself survives even when empty.
func (c *Client) RemoveEmptyDirs(ctx context.Context, root string, leaveRoot bool) error {
	args := []string{"rmdirs"}
	if leaveRoot {
		args = append(args, "--leave-root")
	}
	args = append(args, "--", root)
	if err := c.run(ctx, args); err != nil {
		return fmt.Errorf("rclone rmdirs %s: %w", root, err)
	}
	return nil
}

func (c *Client) transfer(ctx context.Context, verb, src, dst string, opts TransferOptions) error {
	args := []string{verb, "--verbose"}
	if opts.DryRun {
		args = append(args, "--dry-run")
	}
	for _, pattern := range opts.Excludes {
		args = append(args, "--exclude", pattern)
	}
	args = append(args, "--", src, dst)
	if err := c.run(ctx, args); err != nil {
		return fmt.Errorf("rclone %s %s: %w", verb, src, err)
	}
	return nil
}

func (c *Client) run(ctx context.Context, args []string) error {
	stream := func(line string) {
		fmt.Fprintln(c.output, line)
	}
	return c.exec.Run(ctx, c.binary, args, stream, stream)
}

func parseListing(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		entries = append(entries, Entry{
			Rel:   strings.TrimSuffix(line, "/"),
			IsDir: strings.HasSuffix(line, "/"),
		})
	}
	return entries
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error {
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

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if forward != nil {
				forward(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout, onStdout)
	go scan(stderr, onStderr)

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
