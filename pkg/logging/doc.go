// Package logging configures structured logging for pkgbump.
//
// It wraps the standard library slog package with a JSON handler on stderr,
// attaches the module name and version to every record, and reads the level
// from the LOG_LEVEL environment variable unless an explicit level is given.
//
// Supported levels (case-insensitive): debug, info, warn/warning, error.
// Debug records include the source location.
//
// Usage:
//
//	logging.SetDefaultStructuredLoggerWithLevel("pkgbump", version, "warn")
//	slog.Debug("manifest loaded", "path", path)
package logging
