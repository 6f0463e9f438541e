// Package logging assembles structured slog loggers and formatting helpers used
// across gamelxrd.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so catalog and HTTP code can
// tag log lines with request correlation IDs and upstream sources. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
