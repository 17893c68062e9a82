package inhibit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/kyle95wm/audiovault-tools/internal/logging"
)

// Supported reports whether a sleep inhibitor is available on this platform.
// macOS ships caffeinate; other platforms run transfers uninhibited.
func Supported() bool {
	return runtime.GOOS == "darwin"
}

// Handle tracks a running inhibitor process until Stop releases it.
type Handle struct {
	cmd    *exec.Cmd
	logger *slog.Logger
	once   sync.Once
}

// Start launches the inhibitor binary in the background. The caller must
// invoke Stop when the guarded work completes. Callers should gate on
// Supported before starting.
func Start(ctx context.Context, binary string, logger *slog.Logger) (*Handle, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("inhibitor binary required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	// -d display, -i idle, -m disk, -s system sleep.
	cmd := exec.CommandContext(ctx, binary, "-dims") //nolint:gosec
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start sleep inhibitor: %w", err)
	}
	logger.Debug("sleep inhibitor started",
		logging.String("binary", binary),
		logging.Int("pid", cmd.Process.Pid))
	return &Handle{cmd: cmd, logger: logger}, nil
}

// Stop terminates the inhibitor process. Safe to call multiple times.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		if h.cmd == nil || h.cmd.Process == nil {
			return
		}
		if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			h.logger.Debug("sleep inhibitor kill", logging.Error(err))
		}
		_ = h.cmd.Wait()
		h.logger.Debug("sleep inhibitor stopped")
	})
}
