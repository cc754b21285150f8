// Package logging constructs the slog loggers used across streambox and
// provides shared attribute helpers so field names stay consistent between
// components.
package logging
