package preflight

import (
	"github.com/kyle95wm/audiovault-tools/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Bumper assets live here; the master and bumper commands need it.
	results = append(results, CheckDirectoryAccess("Assets directory", cfg.Mastering.AssetsDir))

	return results
}
