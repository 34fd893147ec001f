package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"stemsplit/internal/compose"
	"stemsplit/internal/logging"
	"stemsplit/internal/media/audio"
	"stemsplit/internal/runconfig"
	"stemsplit/internal/separator"
	"stemsplit/internal/services"
	"stemsplit/internal/writer"
)

const (
	stageSeparate = "separate"
	stageCompose  = "compose"
	stageWrite    = "write"
)

// Pipeline wires a separator and an encoder together.
type Pipeline struct {
	separator separator.Separator
	encoder   audio.Encoder
	out       io.Writer
	logger    *slog.Logger
}

// New constructs a Pipeline. A nil out discards progress lines.
func New(sep separator.Separator, enc audio.Encoder, out io.Writer, logger *slog.Logger) *Pipeline {
	if out == nil {
		out = io.Discard
	}
	return &Pipeline{
		separator: sep,
		encoder:   enc,
		out:       out,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Summary reports what a successful run produced.
type Summary struct {
	RunID      string
	SampleRate int
	Outputs    []string
	Elapsed    time.Duration
}

// Run separates cfg.InputPath and writes the planned stems. Any failure is
// returned as a *services.ProcessingError.
func (p *Pipeline) Run(ctx context.Context, cfg runconfig.RunConfig) (Summary, error) {
	ctx, runID := services.WithNewRunID(ctx)
	logger := logging.WithContext(ctx, p.logger)
	start := time.Now()

	p.printf("Processing: %s\n", cfg.InputPath)
	p.printf("Model: %s\n", cfg.Model)
	p.printf("Device: %s\n", cfg.Device)
	p.printf("Output directory: %s\n", cfg.OutputDir)

	summary := Summary{RunID: runID}
	if err := p.process(ctx, cfg, logger, &summary); err != nil {
		logger.Error("run failed", logging.Event("run_failure"), logging.Error(err))
		return summary, services.Processing(err)
	}

	summary.Elapsed = time.Since(start)
	p.printf("Processing complete!\n")
	logger.Info("run completed",
		logging.Event("run_complete"),
		logging.Int("outputs", len(summary.Outputs)),
		logging.Elapsed(summary.Elapsed),
	)
	return summary, nil
}

func (p *Pipeline) process(ctx context.Context, cfg runconfig.RunConfig, logger *slog.Logger, summary *Summary) error {
	if p.separator == nil || p.encoder == nil {
		return fmt.Errorf("pipeline is missing a separator or encoder")
	}

	var result separator.Result
	err := p.stage(ctx, logger, stageSeparate, func(ctx context.Context, stageLogger *slog.Logger) error {
		var err error
		result, err = separator.Invoke(ctx, p.separator, separator.Request{
			InputPath: cfg.InputPath,
			Model:     cfg.Model,
			Device:    cfg.Device,
		}, stageLogger)
		return err
	})
	if err != nil {
		return err
	}
	summary.SampleRate = result.SampleRate

	var plan compose.OutputPlan
	err = p.stage(ctx, logger, stageCompose, func(_ context.Context, stageLogger *slog.Logger) error {
		var err error
		plan, err = compose.Build(result.Stems, cfg)
		if err == nil {
			stageLogger.Debug("output plan ready", logging.Int("entries", len(plan)))
		}
		return err
	})
	if err != nil {
		return err
	}

	return p.stage(ctx, logger, stageWrite, func(ctx context.Context, stageLogger *slog.Logger) error {
		written, err := writer.Write(ctx, p.encoder, plan, result.SampleRate, cfg.Format, stageLogger, func(path string) {
			p.printf("Saved: %s\n", path)
		})
		summary.Outputs = written
		return err
	})
}

func (p *Pipeline) stage(ctx context.Context, logger *slog.Logger, name string, fn func(context.Context, *slog.Logger) error) error {
	stageCtx := services.WithStage(ctx, name)
	stageLogger := logger.With(logging.String(logging.FieldStage, name))
	started := time.Now()
	stageLogger.Debug("stage started", logging.Event("stage_start"))

	if err := fn(stageCtx, stageLogger); err != nil {
		stageLogger.Debug("stage failed",
			logging.Event("stage_failure"),
			logging.Error(err),
		)
		return err
	}

	stageLogger.Debug("stage completed",
		logging.Event("stage_complete"),
		logging.Elapsed(time.Since(started)),
	)
	return nil
}

func (p *Pipeline) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}
