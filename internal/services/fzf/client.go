package fzf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kyle95wm/audiovault-tools/internal/services"
)

// Interrupt is the exit status fzf reports when the user presses ESC or
// ctrl-c. Exit status 1 means the selection came back empty; both collapse
// into the cancelled result.
const (
	exitNoMatch   = 1
	exitInterrupt = 130
)

// Picker defines the interactive selection behaviour the session needs.
type Picker interface {
	Pick(ctx context.Context, prompt string, choices []string) (string, error)
	PickMany(ctx context.Context, prompt string, choices []string) ([]string, error)
	Confirm(ctx context.Context, prompt, yes, no string) (bool, error)
}

// Executor abstracts command execution for testability. It returns captured
// stdout and the process exit status; err is reserved for failures to run
// the binary at all.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, input string) (string, int, error)
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

// Client wraps fzf invocations. fzf draws its finder on the controlling
// terminal, reads choices from stdin, and writes the selection to stdout.
type Client struct {
	binary string
	exec   Executor
}

// New constructs an fzf client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("fzf binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Pick shows choices and returns the single selected line.
func (c *Client) Pick(ctx context.Context, prompt string, choices []string) (string, error) {
	lines, err := c.pick(ctx, prompt, choices, false)
	if err != nil {
		return "", err
	}
	return lines[0], nil
}

// PickMany shows choices with multi-select enabled. The returned lines keep
// the order fzf emitted them in; callers needing listing order re-sort.
func (c *Client) PickMany(ctx context.Context, prompt string, choices []string) ([]string, error) {
	return c.pick(ctx, prompt, choices, true)
}

// Confirm presents a two-entry pick. It returns true only when the user
// selects the affirmative label; cancellation counts as the safe answer.
func (c *Client) Confirm(ctx context.Context, prompt, yes, no string) (bool, error) {
	choice, err := c.Pick(ctx, prompt, []string{yes, no})
	if err != nil {
		if errors.Is(err, services.ErrCancelled) {
			return false, nil
		}
		return false, err
	}
	return choice == yes, nil
}

func (c *Client) pick(ctx context.Context, prompt string, choices []string, multi bool) ([]string, error) {
	if len(choices) == 0 {
		return nil, cancelled("pick", "no choices to present")
	}

	args := []string{"--prompt", prompt + " ", "--height", "40%", "--layout", "reverse"}
	if multi {
		args = append(args, "--multi")
	}

	input := strings.Join(choices, "\n") + "\n"
	stdout, exitCode, err := c.exec.Run(ctx, c.binary, args, input)
	if err != nil {
		return nil, fmt.Errorf("run fzf: %w", err)
	}

	switch exitCode {
	case 0:
	case exitNoMatch, exitInterrupt:
		return nil, cancelled("pick", "selection aborted")
	default:
		return nil, services.Wrap(services.ErrExternalTool, "fzf", "pick", fmt.Sprintf("exit status %d", exitCode), nil)
	}

	trimmed := strings.TrimRight(stdout, "\n")
	if trimmed == "" {
		return nil, cancelled("pick", "empty selection")
	}
	return strings.Split(trimmed, "\n"), nil
}

func cancelled(operation, message string) error {
	return services.Wrap(services.ErrCancelled, "fzf", operation, message, nil)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, input string) (string, int, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdin = strings.NewReader(input)
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), exitErr.ExitCode(), nil
		}
		return "", 0, err
	}
	return stdout.String(), 0, nil
}
