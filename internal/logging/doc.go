// Package logging provides structured logging helpers built on log/slog.
//
// It defines the attribute-key constants used across the codebase so that
// log output stays consistent and greppable, plus small helpers for the
// most common attributes (operation, service, error).
package logging
