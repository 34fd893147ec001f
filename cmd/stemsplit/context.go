package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"stemsplit/internal/config"
	"stemsplit/internal/device"
	"stemsplit/internal/logging"
	"stemsplit/internal/media/audio"
	"stemsplit/internal/separator"
	"stemsplit/internal/services"
)

// collaborators builds the external pieces a run talks to. Tests replace them.
type collaborators struct {
	newSeparator func(cfg *config.Config, logger *slog.Logger) separator.Separator
	newEncoder   func(cfg *config.Config) (audio.Encoder, error)
	newProber    func(cfg *config.Config) device.Prober
}

func defaultCollaborators() collaborators {
	return collaborators{
		newSeparator: func(cfg *config.Config, logger *slog.Logger) separator.Separator {
			return separator.NewDemucs(separator.DemucsConfig{
				Python:  cfg.PythonBinary(),
				WorkDir: cfg.Separator.WorkDir,
			}, logger)
		},
		newEncoder: func(cfg *config.Config) (audio.Encoder, error) {
			clip, err := audio.ParseClipMode(cfg.Output.ClipMode)
			if err != nil {
				return nil, err
			}
			return audio.NewFileEncoder(audio.EncoderConfig{
				FFmpegBinary:   cfg.FFmpegBinary(),
				MP3BitrateKbps: cfg.Output.MP3Bitrate,
				WAVBitDepth:    cfg.Output.WAVBitDepth,
				Clip:           clip,
				TempDir:        cfg.Separator.WorkDir,
			}), nil
		},
		newProber: func(cfg *config.Config) device.Prober {
			return device.NewTorchProber(cfg.PythonBinary())
		},
	}
}

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string
	collab        collaborators

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string, collab collaborators) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
		collab:        collab,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "", "load config", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// logger builds a logger writing to w, letting the log flags override the
// configured level and format.
func (c *commandContext) logger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: w,
	}
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		opts.Level = *c.logLevelFlag
	}
	if c.logFormatFlag != nil && strings.TrimSpace(*c.logFormatFlag) != "" {
		opts.Format = *c.logFormatFlag
	}
	return logging.New(opts)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
