package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeSeparator(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeSeparator() error {
	c.Separator.Model = strings.TrimSpace(c.Separator.Model)
	if c.Separator.Model == "" {
		c.Separator.Model = defaultModel
	}
	c.Separator.Device = strings.ToLower(strings.TrimSpace(c.Separator.Device))
	c.Separator.Python = strings.TrimSpace(c.Separator.Python)
	if c.Separator.Python == "" {
		c.Separator.Python = defaultPython
	}
	var err error
	if c.Separator.WorkDir, err = expandPath(strings.TrimSpace(c.Separator.WorkDir)); err != nil {
		return fmt.Errorf("separator.work_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOutput() error {
	dir := strings.TrimSpace(c.Output.Dir)
	if dir == "" {
		dir = defaultOutputDir
	}
	var err error
	if c.Output.Dir, err = expandPath(dir); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	if c.Output.MP3Bitrate == 0 {
		c.Output.MP3Bitrate = defaultMP3Bitrate
	}
	if c.Output.WAVBitDepth == 0 {
		c.Output.WAVBitDepth = defaultWAVBitDepth
	}
	c.Output.ClipMode = strings.ToLower(strings.TrimSpace(c.Output.ClipMode))
	if c.Output.ClipMode == "" {
		c.Output.ClipMode = defaultClipMode
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpeg
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "text":
		c.Logging.Format = "console"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
