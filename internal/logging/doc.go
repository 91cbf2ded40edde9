// Package logging assembles structured slog loggers and formatting helpers used
// across clipdeck.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can automatically
// tag log lines with run IDs, stages, and the media source. Per-stage level
// overrides from configuration are applied through Logger.ForStage. The
// package also provides a no-op logger for tests and wiring code that cannot fail.
package logging
