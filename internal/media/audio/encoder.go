package audio

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"stemsplit/internal/services"
)

// Encoder persists a signal to path in the given format at sampleRate.
type Encoder interface {
	Encode(ctx context.Context, sig Signal, path string, sampleRate int, format Format) error
}

// EncoderConfig configures FileEncoder.
type EncoderConfig struct {
	FFmpegBinary   string
	MP3BitrateKbps int
	WAVBitDepth    int
	Clip           ClipMode
	// TempDir holds the intermediate WAV for MP3 output. Empty uses os.TempDir.
	TempDir string
}

// FileEncoder writes WAV directly and MP3 through ffmpeg's libmp3lame.
type FileEncoder struct {
	cfg           EncoderConfig
	commandRunner services.CommandRunner
}

// NewFileEncoder applies defaults to cfg and returns an encoder.
func NewFileEncoder(cfg EncoderConfig) *FileEncoder {
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	if cfg.MP3BitrateKbps <= 0 {
		cfg.MP3BitrateKbps = 320
	}
	if cfg.WAVBitDepth == 0 {
		cfg.WAVBitDepth = 16
	}
	if cfg.Clip == "" {
		cfg.Clip = ClipRescale
	}
	return &FileEncoder{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *FileEncoder) WithCommandRunner(runner services.CommandRunner) {
	e.commandRunner = runner
}

// Encode implements Encoder.
func (e *FileEncoder) Encode(ctx context.Context, sig Signal, path string, sampleRate int, format Format) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clipped := Clip(sig, e.cfg.Clip)

	switch format {
	case FormatWAV:
		return WriteWAVFile(path, clipped, sampleRate, e.cfg.WAVBitDepth)
	case FormatMP3:
		return e.encodeMP3(ctx, clipped, path, sampleRate)
	default:
		return fmt.Errorf("unsupported output format %d", int(format))
	}
}

func (e *FileEncoder) encodeMP3(ctx context.Context, sig Signal, path string, sampleRate int) error {
	tmp, err := os.CreateTemp(e.cfg.TempDir, "stemsplit-*.wav")
	if err != nil {
		return fmt.Errorf("create intermediate wav: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := EncodeWAV(tmp, sig, sampleRate, 24); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close intermediate wav: %w", err)
	}

	args := BuildMP3Args(tmpPath, path, e.cfg.MP3BitrateKbps)
	if err := e.run(ctx, e.cfg.FFmpegBinary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "write", "ffmpeg", "encode "+path, err)
	}
	return nil
}

func (e *FileEncoder) run(ctx context.Context, name string, args ...string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	return services.RunCommand(ctx, name, args...)
}

// BuildMP3Args returns the ffmpeg arguments that transcode src to a CBR MP3 at dest.
func BuildMP3Args(src, dest string, bitrateKbps int) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-codec:a", "libmp3lame",
		"-b:a", strconv.Itoa(bitrateKbps) + "k",
		dest,
	}
}
