package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/kyle95wm/audiovault-tools/internal/config"
	"github.com/kyle95wm/audiovault-tools/internal/deps"
	"github.com/kyle95wm/audiovault-tools/internal/services"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// MoverRequirements lists the binaries a transfer session shells out to.
// caffeinate is optional: sleep inhibition is best-effort and macOS-only.
func MoverRequirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "rclone",
			Command:     cfg.Tools.Rclone,
			Description: "Required for listing and transferring vault items",
		},
		{
			Name:        "fzf",
			Command:     cfg.Tools.Fzf,
			Description: "Required for interactive selection",
		},
		{
			Name:        "caffeinate",
			Command:     cfg.Tools.Caffeinate,
			Description: "Keeps the machine awake during commit transfers (macOS)",
			Optional:    true,
		},
	}
}

// MasteringRequirements lists the binaries the master and bumper commands need.
func MasteringRequirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "ffmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Required for loudness mastering and bumper assembly",
		},
		{
			Name:        "ffprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Required for input validation and duration reporting",
		},
	}
}

// InspectRequirements lists the binaries the inspect command needs.
func InspectRequirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "ffprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Required for media inspection",
		},
	}
}

// CheckSystemDeps evaluates every external binary the tools can use. The
// status command uses this; the per-command preflights use the narrower
// requirement lists above.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := MoverRequirements(cfg)
	requirements = append(requirements, MasteringRequirements(cfg)...)
	return deps.CheckBinaries(requirements)
}

// RequireBinaries fails with a missing-dependency error when any non-optional
// requirement cannot be resolved. Commands run this before showing a prompt.
func RequireBinaries(component string, requirements []deps.Requirement) error {
	missing := deps.MissingRequired(deps.CheckBinaries(requirements))
	if len(missing) == 0 {
		return nil
	}
	parts := make([]string, 0, len(missing))
	for _, status := range missing {
		parts = append(parts, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
	}
	return services.Wrap(services.ErrMissingDependency, component, "preflight", strings.Join(parts, "; "), nil)
}
