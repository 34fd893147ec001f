package separator

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"stemsplit/internal/logging"
	"stemsplit/internal/media/audio"
	"stemsplit/internal/services"
)

//go:embed separate.py
var helperScript string

// ManifestName is the file the helper writes next to the decoded stems.
const ManifestName = "manifest.json"

// Manifest describes the helper's output directory.
type Manifest struct {
	SampleRate    int            `json:"samplerate"`
	AudioChannels int            `json:"audio_channels"`
	Origin        ManifestFile   `json:"origin"`
	Stems         []ManifestStem `json:"stems"`
}

// ManifestFile is one WAV written by the helper. Samples were divided by
// Gain before quantisation.
type ManifestFile struct {
	File string  `json:"file"`
	Gain float64 `json:"gain"`
}

// ManifestStem is a named stem file.
type ManifestStem struct {
	Name string `json:"name"`
	ManifestFile
}

// DemucsConfig configures the Demucs separator.
type DemucsConfig struct {
	// Python is the interpreter with demucs installed.
	Python string
	// WorkDir is the parent for per-run scratch directories. Empty uses os.TempDir.
	WorkDir string
}

// Demucs runs the demucs Python package through an embedded helper script.
type Demucs struct {
	cfg           DemucsConfig
	logger        *slog.Logger
	commandRunner services.CommandRunner
}

// NewDemucs builds a Demucs separator.
func NewDemucs(cfg DemucsConfig, logger *slog.Logger) *Demucs {
	if strings.TrimSpace(cfg.Python) == "" {
		cfg.Python = "python3"
	}
	return &Demucs{cfg: cfg, logger: logging.NewComponentLogger(logger, "demucs")}
}

// WithCommandRunner sets a custom command runner (for testing).
func (d *Demucs) WithCommandRunner(runner services.CommandRunner) {
	d.commandRunner = runner
}

// Separate implements Separator.
func (d *Demucs) Separate(ctx context.Context, req Request) (Result, error) {
	input, err := filepath.Abs(req.InputPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve input path: %w", err)
	}
	if d.cfg.WorkDir != "" {
		if err := os.MkdirAll(d.cfg.WorkDir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create work dir: %w", err)
		}
	}
	workDir, err := os.MkdirTemp(d.cfg.WorkDir, "stemsplit-")
	if err != nil {
		return Result{}, fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			d.logger.Warn("failed to remove scratch dir", logging.Path(workDir), logging.Error(err))
		}
	}()

	args := BuildHelperArgs(req.Model, req.Device, input, workDir)
	d.logger.Debug("running demucs helper", logging.String("python", d.cfg.Python), logging.String("work_dir", workDir))
	if err := d.run(ctx, d.cfg.Python, args...); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "separate", "demucs", "", err)
	}
	return LoadResult(workDir)
}

func (d *Demucs) run(ctx context.Context, name string, args ...string) error {
	if d.commandRunner != nil {
		return d.commandRunner(ctx, name, args...)
	}
	return services.RunCommand(ctx, name, args...)
}

// BuildHelperArgs returns the interpreter arguments for one helper run.
func BuildHelperArgs(model, device, input, workDir string) []string {
	return []string{
		"-c", helperScript,
		"--model", model,
		"--device", device,
		"--input", input,
		"--workdir", workDir,
	}
}

// LoadResult reads the manifest in dir and decodes every file it lists.
func LoadResult(dir string) (Result, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return Result{}, fmt.Errorf("read separation manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Result{}, fmt.Errorf("parse separation manifest: %w", err)
	}

	result := Result{SampleRate: manifest.SampleRate}
	if manifest.Origin.File != "" {
		origin, err := loadFile(dir, manifest.Origin)
		if err != nil {
			return Result{}, fmt.Errorf("origin: %w", err)
		}
		result.Origin = origin
	}
	result.Stems = make(StemMap, 0, len(manifest.Stems))
	for _, entry := range manifest.Stems {
		sig, err := loadFile(dir, entry.ManifestFile)
		if err != nil {
			return Result{}, fmt.Errorf("stem %s: %w", entry.Name, err)
		}
		result.Stems = append(result.Stems, Stem{Name: entry.Name, Signal: sig})
	}
	return result, nil
}

func loadFile(dir string, file ManifestFile) (audio.Signal, error) {
	if file.File != filepath.Base(file.File) {
		return audio.Signal{}, fmt.Errorf("manifest entry %q escapes scratch dir", file.File)
	}
	sig, err := audio.DecodeWAVFile(filepath.Join(dir, file.File))
	if err != nil {
		return audio.Signal{}, err
	}
	if file.Gain > 1 {
		for i := range sig.Frames {
			sig.Frames[i][0] *= file.Gain
			sig.Frames[i][1] *= file.Gain
		}
	}
	return sig, nil
}
