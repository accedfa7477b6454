// Package logging builds slog loggers for the daemon and CLI and carries the
// standardized structured field names used across livecap components.
package logging
