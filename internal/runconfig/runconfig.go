// Package runconfig turns parsed command-line values into the immutable
// configuration of a single separation run.
package runconfig

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"stemsplit/internal/device"
	"stemsplit/internal/media/audio"
	"stemsplit/internal/services"
)

// TwoStemTarget names the stem kept in two-stem mode. The zero value means
// full mode.
type TwoStemTarget string

const (
	TargetNone   TwoStemTarget = ""
	TargetVocals TwoStemTarget = "vocals"
	TargetDrums  TwoStemTarget = "drums"
	TargetBass   TwoStemTarget = "bass"
	TargetOther  TwoStemTarget = "other"
)

// TwoStemTargets lists the accepted two-stem values in display order.
var TwoStemTargets = []TwoStemTarget{TargetVocals, TargetDrums, TargetBass, TargetOther}

// ParseTwoStemTarget validates value against the fixed target set. Empty
// selects full mode.
func ParseTwoStemTarget(value string) (TwoStemTarget, error) {
	if value == "" {
		return TargetNone, nil
	}
	for _, target := range TwoStemTargets {
		if value == string(target) {
			return target, nil
		}
	}
	return TargetNone, services.NewValidationError("two-stems", "invalid choice for --two-stems: '%s' (choose from %s)", value, choices())
}

func choices() string {
	quoted := make([]string, len(TwoStemTargets))
	for i, target := range TwoStemTargets {
		quoted[i] = "'" + string(target) + "'"
	}
	return strings.Join(quoted, ", ")
}

// RunConfig is the resolved, read-only description of one run.
type RunConfig struct {
	InputPath string
	OutputDir string
	Model     string
	Device    string
	Format    audio.Format
	TwoStems  TwoStemTarget
}

// TwoStemMode reports whether a two-stem target is set.
func (c RunConfig) TwoStemMode() bool {
	return c.TwoStems != TargetNone
}

// Options carries raw values gathered from flags and the config file.
type Options struct {
	Input     string
	OutputDir string
	Model     string
	Device    string
	MP3       bool
	TwoStems  string
}

// Resolve validates opts and produces a RunConfig. Checks run in order:
// two-stem target, input existence, device selection, output directory.
// The output directory is created only after every check passes.
func Resolve(ctx context.Context, opts Options, prober device.Prober, logger *slog.Logger) (RunConfig, error) {
	target, err := ParseTwoStemTarget(opts.TwoStems)
	if err != nil {
		return RunConfig{}, err
	}
	if opts.Input == "" {
		return RunConfig{}, services.NewValidationError("input", "an input file is required")
	}
	if _, err := os.Stat(opts.Input); err != nil {
		return RunConfig{}, services.NewValidationError("input", "Input file '%s' not found", opts.Input)
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		return RunConfig{}, services.NewValidationError("model", "model must not be empty")
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return RunConfig{}, services.NewValidationError("output", "output directory must not be empty")
	}

	dev := device.Select(ctx, opts.Device, prober, logger)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return RunConfig{}, fmt.Errorf("create output directory %s: %w", opts.OutputDir, err)
	}

	return RunConfig{
		InputPath: opts.Input,
		OutputDir: opts.OutputDir,
		Model:     model,
		Device:    dev,
		Format:    audio.FormatFor(opts.MP3),
		TwoStems:  target,
	}, nil
}
