package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Separator contains settings for the external source-separation engine.
type Separator struct {
	// Model is the Demucs model name (e.g., "htdemucs", "htdemucs_ft", "mdx_extra").
	Model string `toml:"model"`
	// Device pins the execution device ("cuda", "cpu", "cuda:1"). Empty probes for an accelerator.
	Device string `toml:"device"`
	// Python is the interpreter that has the demucs package installed.
	Python string `toml:"python"`
	// WorkDir is the parent for per-run scratch directories. Empty uses the OS temp dir.
	WorkDir string `toml:"work_dir"`
}

// Output contains settings for written stems.
type Output struct {
	Dir         string `toml:"dir"`
	MP3         bool   `toml:"mp3"`
	MP3Bitrate  int    `toml:"mp3_bitrate"`
	WAVBitDepth int    `toml:"wav_bit_depth"`
	ClipMode    string `toml:"clip_mode"`
}

// Tools names external binaries used outside the separator.
type Tools struct {
	FFmpeg string `toml:"ffmpeg"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for stemsplit.
//
// Configuration sections:
//   - Separator: model, device and Python interpreter for Demucs
//   - Output: destination directory and encoding options
//   - Tools: external encoder binaries
//   - Logging: log format and level
//
// Command-line flags take precedence over every value here.
type Config struct {
	Separator Separator `toml:"separator"`
	Output    Output    `toml:"output"`
	Tools     Tools     `toml:"tools"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file is not an error; defaults are used.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// PythonBinary returns the interpreter used to drive Demucs.
func (c *Config) PythonBinary() string {
	if python := strings.TrimSpace(c.Separator.Python); python != "" {
		return python
	}
	return defaultPython
}

// FFmpegBinary returns the FFmpeg executable used for compressed output.
func (c *Config) FFmpegBinary() string {
	if ffmpeg := strings.TrimSpace(c.Tools.FFmpeg); ffmpeg != "" {
		return ffmpeg
	}
	return defaultFFmpeg
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
