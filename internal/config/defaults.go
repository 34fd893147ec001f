package config

const (
	defaultConfigPath  = "~/.config/stemsplit/config.toml"
	projectConfigName  = "stemsplit.toml"
	defaultModel       = "htdemucs"
	defaultPython      = "python3"
	defaultFFmpeg      = "ffmpeg"
	defaultOutputDir   = "/app/output"
	defaultMP3Bitrate  = 320
	defaultWAVBitDepth = 16
	defaultClipMode    = "rescale"
	defaultLogFormat   = "console"
	defaultLogLevel    = "warn"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Separator: Separator{
			Model:  defaultModel,
			Python: defaultPython,
		},
		Output: Output{
			Dir:         defaultOutputDir,
			MP3Bitrate:  defaultMP3Bitrate,
			WAVBitDepth: defaultWAVBitDepth,
			ClipMode:    defaultClipMode,
		},
		Tools: Tools{
			FFmpeg: defaultFFmpeg,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
