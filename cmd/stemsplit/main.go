package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stemsplit/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, formatError(err))
		}
		os.Exit(exitCode(err))
	}
}

// formatError renders err the way users see it: processing failures get
// their own prefix, everything else is a plain error.
func formatError(err error) string {
	var perr *services.ProcessingError
	if errors.As(err, &perr) {
		return "Error during processing: " + perr.Error()
	}
	return "Error: " + err.Error()
}

// exitCode maps any failure to 1. Input and processing errors are not
// distinguished.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
