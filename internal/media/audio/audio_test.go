package audio_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"stemsplit/internal/media/audio"
)

func stereo(rate int, samples ...float64) audio.Signal {
	sig := audio.NewSignal(2, rate, len(samples))
	for i, v := range samples {
		sig.Frames[i] = [2]float64{v, -v}
	}
	return sig
}

func TestSumElementwise(t *testing.T) {
	a := stereo(44100, 0.1, 0.2, 0.3)
	b := stereo(44100, 0.4, 0.5, 0.6)

	got, err := audio.Sum(a, b)
	if err != nil {
		t.Fatalf("Sum returned error: %v", err)
	}
	want := []float64{0.5, 0.7, 0.9}
	for i, w := range want {
		if math.Abs(got.Frames[i][0]-w) > 1e-12 || math.Abs(got.Frames[i][1]+w) > 1e-12 {
			t.Fatalf("frame %d: got %v want %v", i, got.Frames[i], w)
		}
	}
	if a.Frames[0][0] != 0.1 {
		t.Fatal("Sum must not modify its inputs")
	}
}

func TestSumRejectsMismatch(t *testing.T) {
	if _, err := audio.Sum(); err == nil {
		t.Fatal("expected error for no inputs")
	}
	cases := map[string]audio.Signal{
		"rate":     stereo(48000, 0, 0),
		"length":   stereo(44100, 0),
		"channels": audio.NewSignal(1, 44100, 2),
	}
	for name, other := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := audio.Sum(stereo(44100, 0, 0), other); err == nil {
				t.Fatalf("expected %s mismatch to be rejected", name)
			}
		})
	}
}

func TestClipModes(t *testing.T) {
	loud := stereo(44100, 0.5, 2.0)

	rescaled := audio.Clip(loud, audio.ClipRescale)
	if peak := rescaled.Peak(); peak >= 1 {
		t.Fatalf("expected rescaled peak below 1, got %v", peak)
	}
	if ratio := rescaled.Frames[1][0] / rescaled.Frames[0][0]; math.Abs(ratio-4) > 1e-12 {
		t.Fatalf("rescale must keep relative levels, got ratio %v", ratio)
	}

	clamped := audio.Clip(loud, audio.ClipClamp)
	if clamped.Frames[0][0] != 0.5 || clamped.Frames[1][0] != 1 || clamped.Frames[1][1] != -1 {
		t.Fatalf("unexpected clamp result %v", clamped.Frames)
	}

	if untouched := audio.Clip(loud, audio.ClipNone); untouched.Frames[1][0] != 2.0 {
		t.Fatalf("none must leave samples alone, got %v", untouched.Frames)
	}
	if loud.Frames[1][0] != 2.0 {
		t.Fatal("Clip must not modify its input")
	}

	quiet := stereo(44100, 0.25)
	if got := audio.Clip(quiet, audio.ClipRescale); !got.Equal(quiet) {
		t.Fatal("rescale must not touch signals with headroom")
	}

	nearFull := stereo(44100, 0.995)
	got := audio.Clip(nearFull, audio.ClipRescale)
	if want := 0.995 / (1.01 * 0.995); math.Abs(got.Frames[0][0]-want) > 1e-12 {
		t.Fatalf("expected peaks above 1/1.01 to be rescaled, got %v want %v", got.Frames[0][0], want)
	}
}

func TestParseClipMode(t *testing.T) {
	if mode, err := audio.ParseClipMode(""); err != nil || mode != audio.ClipRescale {
		t.Fatalf("expected rescale default, got %q %v", mode, err)
	}
	if mode, err := audio.ParseClipMode(" Clamp "); err != nil || mode != audio.ClipClamp {
		t.Fatalf("expected clamp, got %q %v", mode, err)
	}
	if _, err := audio.ParseClipMode("soft"); err == nil {
		t.Fatal("expected unknown mode to be rejected")
	}
}

func TestFormatExtension(t *testing.T) {
	if audio.FormatFor(true).Extension() != "mp3" {
		t.Fatal("compressed output must use mp3")
	}
	if audio.FormatFor(false).Extension() != "wav" {
		t.Fatal("uncompressed output must use wav")
	}
}

func TestWAVRoundTrip(t *testing.T) {
	for _, depth := range []int{16, 24} {
		path := filepath.Join(t.TempDir(), "tone.wav")
		src := stereo(44100, 0, 0.25, -0.5, 0.75)

		if err := audio.WriteWAVFile(path, src, 22050, depth); err != nil {
			t.Fatalf("%d-bit write: %v", depth, err)
		}
		got, err := audio.DecodeWAVFile(path)
		if err != nil {
			t.Fatalf("%d-bit decode: %v", depth, err)
		}
		if got.SampleRate != 22050 {
			t.Fatalf("expected the sample rate passed to the writer, got %d", got.SampleRate)
		}
		if got.Channels != 2 || got.Len() != src.Len() {
			t.Fatalf("unexpected shape: channels=%d len=%d", got.Channels, got.Len())
		}
		for i := range src.Frames {
			for c := 0; c < 2; c++ {
				if diff := math.Abs(got.Frames[i][c] - src.Frames[i][c]); diff > 1e-3 {
					t.Fatalf("%d-bit frame %d channel %d: got %v want %v", depth, i, c, got.Frames[i][c], src.Frames[i][c])
				}
			}
		}
	}
}

// pcmWAV builds a plain format-1 PCM file holding one stereo frame per pair
// of samples, each stored in width bytes little-endian.
func pcmWAV(t *testing.T, width int, samples ...int32) string {
	t.Helper()
	var data bytes.Buffer
	for _, v := range samples {
		for b := 0; b < width; b++ {
			data.WriteByte(byte(v >> (8 * b)))
		}
	}
	var buf bytes.Buffer
	le := binary.LittleEndian
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, le, uint32(36+data.Len()))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, le, uint32(16))
	_ = binary.Write(&buf, le, uint16(1))
	_ = binary.Write(&buf, le, uint16(2))
	_ = binary.Write(&buf, le, uint32(44100))
	_ = binary.Write(&buf, le, uint32(44100*2*width))
	_ = binary.Write(&buf, le, uint16(2*width))
	_ = binary.Write(&buf, le, uint16(8*width))
	buf.WriteString("data")
	_ = binary.Write(&buf, le, uint32(data.Len()))
	buf.Write(data.Bytes())

	path := filepath.Join(t.TempDir(), "pcm.wav")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	return path
}

func TestDecodeWAVFullScale(t *testing.T) {
	cases := []struct {
		name    string
		width   int
		samples []int32
	}{
		{"16-bit", 2, []int32{1 << 14, -1 << 15}},
		{"24-bit", 3, []int32{1 << 22, -1 << 23}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := audio.DecodeWAVFile(pcmWAV(t, tc.width, tc.samples...))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Len() != 1 || got.SampleRate != 44100 {
				t.Fatalf("unexpected shape: len=%d rate=%d", got.Len(), got.SampleRate)
			}
			if math.Abs(got.Frames[0][0]-0.5) > 1e-6 || math.Abs(got.Frames[0][1]+1) > 1e-6 {
				t.Fatalf("expected half and negative full scale, got %v", got.Frames[0])
			}
		})
	}
}

func TestWriteWAVRejectsBadParameters(t *testing.T) {
	dir := t.TempDir()
	if err := audio.WriteWAVFile(filepath.Join(dir, "a.wav"), stereo(44100, 0), 44100, 32); err == nil {
		t.Fatal("expected unsupported bit depth to fail")
	}
	if err := audio.WriteWAVFile(filepath.Join(dir, "b.wav"), stereo(44100, 0), 0, 16); err == nil {
		t.Fatal("expected zero sample rate to fail")
	}
}

func TestDecodeWAVFileMissing(t *testing.T) {
	if _, err := audio.DecodeWAVFile(filepath.Join(t.TempDir(), "absent.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileEncoderWritesWAV(t *testing.T) {
	enc := audio.NewFileEncoder(audio.EncoderConfig{WAVBitDepth: 24})
	path := filepath.Join(t.TempDir(), "song_vocals.wav")

	if err := enc.Encode(context.Background(), stereo(44100, 0.1, 0.2), path, 44100, audio.FormatWAV); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	got, err := audio.DecodeWAVFile(path)
	if err != nil {
		t.Fatalf("decode written file: %v", err)
	}
	if got.Len() != 2 || got.SampleRate != 44100 {
		t.Fatalf("unexpected written signal: len=%d rate=%d", got.Len(), got.SampleRate)
	}
}

func TestFileEncoderMP3UsesFFmpeg(t *testing.T) {
	tempDir := t.TempDir()
	enc := audio.NewFileEncoder(audio.EncoderConfig{FFmpegBinary: "/opt/ffmpeg", MP3BitrateKbps: 192, TempDir: tempDir})

	var gotName string
	var gotArgs []string
	var intermediate audio.Signal
	enc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		src := args[slices.Index(args, "-i")+1]
		sig, err := audio.DecodeWAVFile(src)
		if err != nil {
			return err
		}
		intermediate = sig
		return os.WriteFile(args[len(args)-1], []byte("mp3"), 0o644)
	})

	dest := filepath.Join(t.TempDir(), "song_drums.mp3")
	if err := enc.Encode(context.Background(), stereo(32000, 0.1, 0.2, 0.3), dest, 32000, audio.FormatMP3); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	if gotName != "/opt/ffmpeg" {
		t.Fatalf("unexpected binary %q", gotName)
	}
	if !slices.Contains(gotArgs, "libmp3lame") || !slices.Contains(gotArgs, "192k") || gotArgs[len(gotArgs)-1] != dest {
		t.Fatalf("unexpected ffmpeg args %v", gotArgs)
	}
	if intermediate.SampleRate != 32000 || intermediate.Len() != 3 {
		t.Fatalf("unexpected intermediate wav: rate=%d len=%d", intermediate.SampleRate, intermediate.Len())
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected mp3 output: %v", err)
	}
	leftovers, _ := os.ReadDir(tempDir)
	if len(leftovers) != 0 {
		t.Fatalf("expected intermediate wav to be removed, found %d entries", len(leftovers))
	}
}

func TestFileEncoderMP3Failure(t *testing.T) {
	enc := audio.NewFileEncoder(audio.EncoderConfig{TempDir: t.TempDir()})
	boom := errors.New("libmp3lame missing")
	enc.WithCommandRunner(func(context.Context, string, ...string) error { return boom })

	err := enc.Encode(context.Background(), stereo(44100, 0), filepath.Join(t.TempDir(), "x.mp3"), 44100, audio.FormatMP3)
	if !errors.Is(err, boom) {
		t.Fatalf("expected runner error to propagate, got %v", err)
	}
}

func TestBuildMP3Args(t *testing.T) {
	args := audio.BuildMP3Args("in.wav", "out.mp3", 320)
	want := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", "in.wav", "-codec:a", "libmp3lame", "-b:a", "320k", "out.mp3"}
	if !slices.Equal(args, want) {
		t.Fatalf("unexpected args %v", args)
	}
}
