package device

import (
	"context"
	"log/slog"
	"strings"

	"stemsplit/internal/logging"
	"stemsplit/internal/services"
)

const (
	// CPU is the generic compute device.
	CPU = "cpu"
	// CUDA is the accelerator device used when available.
	CUDA = "cuda"
)

// Prober reports whether an accelerator is usable.
type Prober interface {
	AcceleratorAvailable(ctx context.Context) (bool, error)
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) (bool, error)

// AcceleratorAvailable implements Prober.
func (f ProberFunc) AcceleratorAvailable(ctx context.Context) (bool, error) {
	return f(ctx)
}

// Fixed is a Prober with a constant answer.
type Fixed bool

// AcceleratorAvailable implements Prober.
func (f Fixed) AcceleratorAvailable(context.Context) (bool, error) {
	return bool(f), nil
}

const torchProbeScript = "import sys, torch; sys.exit(0 if torch.cuda.is_available() else 3)"

// TorchProber asks the Python interpreter's torch install whether CUDA is usable.
type TorchProber struct {
	python        string
	commandRunner services.CommandRunner
}

// NewTorchProber returns a prober that runs python.
func NewTorchProber(python string) *TorchProber {
	if strings.TrimSpace(python) == "" {
		python = "python3"
	}
	return &TorchProber{python: python}
}

// WithCommandRunner sets a custom command runner (for testing).
func (p *TorchProber) WithCommandRunner(runner services.CommandRunner) {
	p.commandRunner = runner
}

// AcceleratorAvailable implements Prober. A clean exit means CUDA is usable.
func (p *TorchProber) AcceleratorAvailable(ctx context.Context) (bool, error) {
	run := p.commandRunner
	if run == nil {
		run = services.RunCommand
	}
	if err := run(ctx, p.python, "-c", torchProbeScript); err != nil {
		return false, err
	}
	return true, nil
}

// Select returns explicit when set, otherwise asks prober. Probe failures
// are logged and resolve to CPU.
func Select(ctx context.Context, explicit string, prober Prober, logger *slog.Logger) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if prober == nil {
		return CPU
	}
	logger = logging.NewComponentLogger(logger, "device")
	ok, err := prober.AcceleratorAvailable(ctx)
	if err != nil {
		logger.Debug("accelerator probe failed; using cpu", logging.Error(err))
		return CPU
	}
	if ok {
		return CUDA
	}
	return CPU
}
