package testsupport

import (
	"path/filepath"
	"testing"

	"stemsplit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose output and work directories live under
// a per-test temp directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Output.Dir = filepath.Join(base, "output")
	cfgVal.Separator.WorkDir = filepath.Join(base, "work")
	cfgVal.Separator.Device = "cpu"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMP3 switches output to MP3.
func WithMP3() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.MP3 = true
	}
}

// WithModel overrides the separator model.
func WithModel(model string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Separator.Model = model
	}
}

// WithOutputSubdir points the output directory at a not-yet-created subdirectory.
func WithOutputSubdir(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Dir = filepath.Join(b.baseDir, name)
	}
}
