package app

import "errors"

// ErrNoExporter and ErrExportInProgress are the export failures callers can match.
var (
	ErrNoExporter       = errors.New("no exporter configured")
	ErrExportInProgress = errors.New("export already in progress")
)
