// Package writer persists an output plan through an audio encoder.
package writer

import (
	"context"
	"fmt"
	"log/slog"

	"stemsplit/internal/compose"
	"stemsplit/internal/logging"
	"stemsplit/internal/media/audio"
)

// Write encodes each plan entry in order at sampleRate and calls saved with
// the path after each file is written. Files are written in place; a failure
// can leave a partial file behind and stops the remaining entries.
func Write(ctx context.Context, enc audio.Encoder, plan compose.OutputPlan, sampleRate int, format audio.Format, logger *slog.Logger, saved func(path string)) ([]string, error) {
	logger = logging.NewComponentLogger(logger, "writer")
	written := make([]string, 0, len(plan))
	for _, entry := range plan {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if err := enc.Encode(ctx, entry.Signal, entry.Path, sampleRate, format); err != nil {
			return written, fmt.Errorf("write %s: %w", entry.Path, err)
		}
		logger.Debug("stem written",
			logging.Stem(entry.Stem),
			logging.Path(entry.Path),
			logging.Int("frames", entry.Signal.Len()),
		)
		written = append(written, entry.Path)
		if saved != nil {
			saved(entry.Path)
		}
	}
	return written, nil
}
