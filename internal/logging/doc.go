// Package logging assembles structured slog loggers and formatting helpers used
// across sirsphoto.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so relocation code tags log lines
// with segments, source and destination paths, and operator decisions in a
// consistent shape. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
