// Package logging assembles the structured slog loggers used across subrec.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides component-tagged and no-op loggers so capture,
// replay, and CLI code all emit data with the same shape. Prefer these
// constructors over hand-rolled slog setup.
package logging
