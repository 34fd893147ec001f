package preflight

import (
	"context"
	"os"

	"stemsplit/internal/config"
	"stemsplit/internal/device"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the path and device checks for cfg. Tool availability is
// reported separately by CheckSystemDeps.
func RunAll(ctx context.Context, cfg *config.Config, prober device.Prober) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckCreatableDirectory("Output directory", cfg.Output.Dir),
	}
	if cfg.Separator.WorkDir != "" {
		results = append(results, CheckCreatableDirectory("Work directory", cfg.Separator.WorkDir))
	} else {
		results = append(results, CheckDirectoryAccess("Work directory", os.TempDir()))
	}
	results = append(results, CheckDevice(ctx, cfg, prober))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
