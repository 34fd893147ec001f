package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSeparator(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSeparator() error {
	if strings.TrimSpace(c.Separator.Model) == "" {
		return errors.New("separator.model must be set")
	}
	if strings.ContainsAny(c.Separator.Model, " \t\n") {
		return fmt.Errorf("separator.model %q must not contain whitespace", c.Separator.Model)
	}
	if strings.TrimSpace(c.Separator.Python) == "" {
		return errors.New("separator.python must be set")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.MP3Bitrate < 32 || c.Output.MP3Bitrate > 320 {
		return fmt.Errorf("output.mp3_bitrate must be between 32 and 320 kbps, got %d", c.Output.MP3Bitrate)
	}
	switch c.Output.WAVBitDepth {
	case 16, 24:
	default:
		return fmt.Errorf("output.wav_bit_depth must be 16 or 24, got %d", c.Output.WAVBitDepth)
	}
	switch c.Output.ClipMode {
	case "rescale", "clamp", "none":
	default:
		return fmt.Errorf("output.clip_mode must be one of rescale, clamp, none; got %q", c.Output.ClipMode)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
