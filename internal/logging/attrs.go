package logging

import (
	"context"
	"log/slog"
)

// Standardized structured logging keys shared by all components.
const (
	// FieldComponent names the subsystem emitting the record.
	FieldComponent = "component"
	// FieldScraper carries the scraper identifier driving a capture.
	FieldScraper = "scraper"
	// FieldURL carries the request or media URL a record refers to.
	FieldURL = "url"
	// FieldRunID carries the capture-run identifier.
	FieldRunID = "run_id"
)

// Error wraps an error as the conventional "error" attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// noopHandler discards all log output.
type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopHandler) Handle(context.Context, slog.Record) error { return nil }
func (noopHandler) WithAttrs([]slog.Attr) slog.Handler        { return noopHandler{} }
func (noopHandler) WithGroup(string) slog.Handler             { return noopHandler{} }
