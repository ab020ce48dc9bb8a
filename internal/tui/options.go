package tui

import (
	"context"

	"github.com/hylla/tierlist/internal/app"
)

// ClipboardFunc writes text to the system clipboard.
type ClipboardFunc func(string) error

type Option func(*Model)

// WithClipboard replaces the clipboard writer used by the copy command.
func WithClipboard(fn ClipboardFunc) Option {
	return func(m *Model) {
		if fn != nil {
			m.copyText = fn
		}
	}
}

func WithLogger(logger app.Logger) Option {
	return func(m *Model) {
		m.log = logger
	}
}

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithExportContext sets the context passed to board exports.
func WithExportContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.exportCtx = ctx
		}
	}
}
