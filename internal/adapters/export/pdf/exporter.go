package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylla/tierlist/internal/app"
)

// DefaultFileName is the name of every exported document.
const DefaultFileName = "Rainbow-Alliance-Tier-List.pdf"

// DefaultScale matches the 2x capture density of the board export.
const DefaultScale = 2

// Config holds configuration for exporter.
type Config struct {
	Dir      string
	FileName string
	Scale    int
	// Fonts are font files (or system font file names) tried before the
	// bundled fonts when drawing text.
	Fonts []string
	Clock func() time.Time
}

// Exporter writes board PDFs into one directory.
type Exporter struct {
	dir      string
	fileName string
	scale    int
	fonts    []string
	clock    func() time.Time
}

// NewExporter constructs a new value for this package.
func NewExporter(cfg Config) *Exporter {
	fileName := strings.TrimSpace(cfg.FileName)
	if fileName == "" {
		fileName = DefaultFileName
	}
	scale := cfg.Scale
	if scale < 1 {
		scale = DefaultScale
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		dir = "."
	}
	return &Exporter{
		dir:      dir,
		fileName: fileName,
		scale:    scale,
		fonts:    append([]string(nil), cfg.Fonts...),
		clock:    clock,
	}
}

// Path returns the destination file path.
func (e *Exporter) Path() string {
	return filepath.Join(e.dir, e.fileName)
}

// ExportBoard renders req and replaces the destination file.
func (e *Exporter) ExportBoard(ctx context.Context, req app.ExportRequest) (app.ExportResult, error) {
	if err := ctx.Err(); err != nil {
		return app.ExportResult{}, err
	}
	tf, err := LoadTypeface(e.fonts)
	if err != nil {
		return app.ExportResult{}, fmt.Errorf("load export fonts: %w", err)
	}
	var buf bytes.Buffer
	if err := render(req, e.scale, e.clock(), tf, &buf); err != nil {
		return app.ExportResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return app.ExportResult{}, err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return app.ExportResult{}, fmt.Errorf("create export dir: %w", err)
	}

	path := e.Path()
	tmp, err := os.CreateTemp(e.dir, ".tierlist-*.pdf")
	if err != nil {
		return app.ExportResult{}, fmt.Errorf("create temp export file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return app.ExportResult{}, fmt.Errorf("write export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return app.ExportResult{}, fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return app.ExportResult{}, fmt.Errorf("replace export file: %w", err)
	}
	return app.ExportResult{Path: path, Bytes: buf.Len()}, nil
}
