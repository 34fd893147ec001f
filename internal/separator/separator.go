package separator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stemsplit/internal/logging"
)

// Request names the input and the model/device pair to run it on.
type Request struct {
	InputPath string
	Model     string
	Device    string
}

// Separator splits an audio file into stems.
type Separator interface {
	Separate(ctx context.Context, req Request) (Result, error)
}

// SeparatorFunc adapts a function to Separator.
type SeparatorFunc func(ctx context.Context, req Request) (Result, error)

// Separate implements Separator.
func (f SeparatorFunc) Separate(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// Invoke runs sep and checks the result is usable: at least one stem, a
// positive sample rate, and every stem sharing the reported rate.
func Invoke(ctx context.Context, sep Separator, req Request, logger *slog.Logger) (Result, error) {
	logger = logging.NewComponentLogger(logger, "separator")
	start := time.Now()
	logger.Info("separation started",
		logging.String("input", req.InputPath),
		logging.String("model", req.Model),
		logging.String("device", req.Device),
	)

	result, err := sep.Separate(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if err := validate(result); err != nil {
		return Result{}, err
	}

	logger.Info("separation finished",
		logging.Int("stems", len(result.Stems)),
		logging.Int("sample_rate", result.SampleRate),
		logging.Elapsed(time.Since(start)),
	)
	return result, nil
}

func validate(result Result) error {
	if result.SampleRate <= 0 {
		return fmt.Errorf("separator reported invalid sample rate %d", result.SampleRate)
	}
	if len(result.Stems) == 0 {
		return fmt.Errorf("separator returned no stems")
	}
	seen := make(map[string]struct{}, len(result.Stems))
	for _, stem := range result.Stems {
		if stem.Name == "" {
			return fmt.Errorf("separator returned an unnamed stem")
		}
		if _, dup := seen[stem.Name]; dup {
			return fmt.Errorf("separator returned stem %q twice", stem.Name)
		}
		seen[stem.Name] = struct{}{}
		if stem.Signal.SampleRate != result.SampleRate {
			return fmt.Errorf("stem %q sample rate %d does not match reported %d", stem.Name, stem.Signal.SampleRate, result.SampleRate)
		}
	}
	return nil
}
