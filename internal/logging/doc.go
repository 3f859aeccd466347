// Package logging assembles structured slog loggers and formatting helpers used
// across audiosrt.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so conversion code can tag log
// lines with run identifiers, source files, and batch positions. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
