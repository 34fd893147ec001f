package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"stemsplit/internal/media/audio"
	"stemsplit/internal/pipeline"
	"stemsplit/internal/runconfig"
	"stemsplit/internal/separator"
	"stemsplit/internal/services"
	"stemsplit/internal/testsupport"
)

func newRunConfig(t *testing.T, format audio.Format, target runconfig.TwoStemTarget) runconfig.RunConfig {
	t.Helper()
	input := filepath.Join(t.TempDir(), "track01.flac")
	testsupport.WriteFile(t, input, 16)
	return runconfig.RunConfig{
		InputPath: input,
		OutputDir: t.TempDir(),
		Model:     "htdemucs",
		Device:    "cpu",
		Format:    format,
		TwoStems:  target,
	}
}

func fakeResult(rate int, names ...string) separator.Result {
	return separator.Result{
		Origin:     testsupport.Ramp(rate, 8, 0),
		Stems:      testsupport.Stems(rate, 8, names...),
		SampleRate: rate,
	}
}

func TestRunFullMode(t *testing.T) {
	cfg := newRunConfig(t, audio.FormatWAV, runconfig.TargetNone)
	sep := &testsupport.FakeSeparator{Result: fakeResult(44100, "drums", "bass", "other", "vocals")}
	enc := &testsupport.FakeEncoder{}
	var out bytes.Buffer

	summary, err := pipeline.New(sep, enc, &out, nil).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := []string{"track01_bass.wav", "track01_drums.wav", "track01_other.wav", "track01_vocals.wav"}
	if got := testsupport.ListDir(t, cfg.OutputDir); !slices.Equal(got, want) {
		t.Fatalf("unexpected outputs %v", got)
	}
	if len(summary.Outputs) != 4 || summary.SampleRate != 44100 || summary.RunID == "" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if sep.Calls() != 1 || sep.Requests[0].Model != "htdemucs" || sep.Requests[0].Device != "cpu" {
		t.Fatalf("unexpected separator requests %+v", sep.Requests)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	header := []string{
		"Processing: " + cfg.InputPath,
		"Model: htdemucs",
		"Device: cpu",
		"Output directory: " + cfg.OutputDir,
		"Saved: " + filepath.Join(cfg.OutputDir, "track01_drums.wav"),
	}
	if !slices.Equal(lines[:5], header) {
		t.Fatalf("unexpected progress lines:\n%s", out.String())
	}
	if lines[len(lines)-1] != "Processing complete!" {
		t.Fatalf("expected completion line, got %q", lines[len(lines)-1])
	}
}

func TestRunTwoStemModeUsesReportedRate(t *testing.T) {
	cfg := newRunConfig(t, audio.FormatMP3, runconfig.TargetDrums)
	sep := &testsupport.FakeSeparator{Result: fakeResult(32000, "drums", "bass", "other", "vocals")}
	enc := &testsupport.FakeEncoder{}

	summary, err := pipeline.New(sep, enc, nil, nil).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := []string{
		filepath.Join(cfg.OutputDir, "track01_drums.mp3"),
		filepath.Join(cfg.OutputDir, "track01_no_drums.mp3"),
	}
	if !slices.Equal(summary.Outputs, want) {
		t.Fatalf("unexpected outputs %v", summary.Outputs)
	}
	for _, call := range enc.Calls {
		if call.SampleRate != 32000 || call.Format != audio.FormatMP3 {
			t.Fatalf("unexpected encode call rate=%d format=%v", call.SampleRate, call.Format)
		}
	}
}

func TestRunWrapsSeparatorFailure(t *testing.T) {
	cfg := newRunConfig(t, audio.FormatWAV, runconfig.TargetNone)
	sep := &testsupport.FakeSeparator{Err: errors.New("Model htdemucs_x not found")}
	enc := &testsupport.FakeEncoder{}
	var out bytes.Buffer

	_, err := pipeline.New(sep, enc, &out, nil).Run(context.Background(), cfg)
	var perr *services.ProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProcessingError, got %T %v", err, err)
	}
	if err.Error() != "Model htdemucs_x not found" {
		t.Fatalf("expected underlying message, got %q", err.Error())
	}
	if len(enc.Calls) != 0 || len(testsupport.ListDir(t, cfg.OutputDir)) != 0 {
		t.Fatal("no files should be written when separation fails")
	}
	if strings.Contains(out.String(), "Processing complete!") {
		t.Fatal("completion line must not be printed on failure")
	}
}

func TestRunWrapsEncoderFailure(t *testing.T) {
	cfg := newRunConfig(t, audio.FormatWAV, runconfig.TargetNone)
	boom := errors.New("ffmpeg: exit status 1")
	sep := &testsupport.FakeSeparator{Result: fakeResult(44100, "drums", "bass")}
	enc := &testsupport.FakeEncoder{FailOn: filepath.Join(cfg.OutputDir, "track01_bass.wav"), Err: boom}

	summary, err := pipeline.New(sep, enc, nil, nil).Run(context.Background(), cfg)
	if !errors.Is(err, services.ErrProcessing) || !errors.Is(err, boom) {
		t.Fatalf("expected processing error wrapping cause, got %v", err)
	}
	if len(summary.Outputs) != 1 {
		t.Fatalf("expected the first file to be reported, got %v", summary.Outputs)
	}
}

func TestRunRejectsInconsistentSeparatorOutput(t *testing.T) {
	cfg := newRunConfig(t, audio.FormatWAV, runconfig.TargetNone)
	result := fakeResult(44100, "drums", "bass")
	result.SampleRate = 48000
	sep := &testsupport.FakeSeparator{Result: result}

	if _, err := pipeline.New(sep, &testsupport.FakeEncoder{}, nil, nil).Run(context.Background(), cfg); !errors.Is(err, services.ErrProcessing) {
		t.Fatalf("expected processing error, got %v", err)
	}
}
