// Package logging assembles structured slog loggers and formatting helpers used
// across stemsplit.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers that tag log lines with the run
// identifier and pipeline stage. Logs default to stderr; stdout belongs to the
// progress lines the CLI prints.
package logging
