package app

import (
	"context"

	"github.com/hylla/tierlist/internal/domain"
)

// ExportRequest carries one captured board for rendering.
type ExportRequest struct {
	Title string
	Topic string
	Board domain.Board
}

// ExportResult describes one written document.
type ExportResult struct {
	Path  string
	Bytes int
}

// Exporter renders a board into a downloadable document.
type Exporter interface {
	ExportBoard(context.Context, ExportRequest) (ExportResult, error)
}

// Logger receives structured diagnostics from the service.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// nopLogger discards all events.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
