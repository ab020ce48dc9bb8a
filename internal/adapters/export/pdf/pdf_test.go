package pdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/go-fonts/dejavu/dejavusans"
	"github.com/google/go-cmp/cmp"
	"github.com/hylla/tierlist/internal/app"
	"github.com/hylla/tierlist/internal/domain"
)

func testRequest(t *testing.T) app.ExportRequest {
	t.Helper()
	red, err := domain.NewColumn(domain.ColumnInput{ID: "red", Title: "Red", Color: "#ef4444", Meaning: "Core allies", Strategy: "Keep close"})
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	red.Items = append(red.Items, domain.Item{ID: "item-1", Content: "Tenants union"}, domain.Item{ID: "item-2", Content: "Bike coalition"})
	blue, err := domain.NewColumn(domain.ColumnInput{ID: "blue", Title: "Blue", Color: "not-a-color"})
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	board, err := domain.NewBoard([]domain.Column{red, blue})
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	return app.ExportRequest{Title: "Rainbow Alliance Tier List", Topic: "Transit equity", Board: board}
}

func mustRasterize(t *testing.T, req app.ExportRequest, scale int) *image.RGBA {
	t.Helper()
	img, err := Rasterize(req, scale)
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	return img
}

func TestRasterizeScalesAndUsesLightPalette(t *testing.T) {
	req := testRequest(t)
	one := mustRasterize(t, req, 1)
	two := mustRasterize(t, req, 2)
	if one.Bounds().Dx() != baseWidth {
		t.Fatalf("unexpected 1x width %d", one.Bounds().Dx())
	}
	if two.Bounds().Dx() != 2*one.Bounds().Dx() || two.Bounds().Dy() != 2*one.Bounds().Dy() {
		t.Fatalf("expected 2x raster, got %v vs %v", two.Bounds(), one.Bounds())
	}
	if got := one.RGBAAt(0, 0); got != paperColor {
		t.Fatalf("expected white paper at origin, got %#v", got)
	}
	if got := color.RGBAModel.Convert(one.At(margin+1, margin+1)).(color.RGBA); got != chromeColor {
		t.Fatalf("expected header chrome, got %#v", got)
	}
}

func TestRasterizeGrowsWithItems(t *testing.T) {
	req := testRequest(t)
	before := mustRasterize(t, req, 1).Bounds().Dy()
	next, ok := req.Board.AppendItems("blue", []domain.Item{{ID: "item-3", Content: "Faith leaders"}})
	if !ok {
		t.Fatal("expected append")
	}
	req.Board = next
	if after := mustRasterize(t, req, 1).Bounds().Dy(); after <= before {
		t.Fatalf("expected taller raster, got %d <= %d", after, before)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	req := testRequest(t)
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	var first, second bytes.Buffer
	if err := Render(req, 2, now, &first); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := Render(req, 2, now, &second); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(first.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected pdf header, got %q", first.Bytes()[:8])
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("expected identical documents for an unchanged board")
	}
}

func TestExporterWritesNamedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	exp := NewExporter(Config{Dir: dir, Clock: func() time.Time { return time.Unix(0, 0) }})
	res, err := exp.ExportBoard(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("ExportBoard() error = %v", err)
	}
	if filepath.Base(res.Path) != DefaultFileName {
		t.Fatalf("unexpected file name %q", res.Path)
	}
	content, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(content) != res.Bytes {
		t.Fatalf("expected %d bytes, got %d", res.Bytes, len(content))
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the export file, got %d entries", len(entries))
	}
}

func TestExporterHonorsCanceledContext(t *testing.T) {
	exp := NewExporter(Config{Dir: t.TempDir()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := exp.ExportBoard(ctx, testRequest(t)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWrapText(t *testing.T) {
	runes := func(s string) int { return utf8.RuneCountInString(s) }
	cases := []struct {
		in    string
		width int
		want  []string
	}{
		{in: "one two three", width: 7, want: []string{"one two", "three"}},
		{in: "abcdefghij", width: 4, want: []string{"abcd", "efgh", "ij"}},
		{in: "   ", width: 5, want: []string{""}},
		{in: "a bb ccc", width: 20, want: []string{"a bb ccc"}},
		{in: "กขคง จ", width: 3, want: []string{"กขค", "ง จ"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, wrapText(tc.in, tc.width, runes)); diff != "" {
			t.Fatalf("wrapText(%q, %d) mismatch (-want +got):\n%s", tc.in, tc.width, diff)
		}
	}
}

func TestWrapTextUsesMeasuredWidth(t *testing.T) {
	wide := func(s string) int {
		width := 0
		for _, r := range s {
			if r == 'W' {
				width += 3
				continue
			}
			width++
		}
		return width
	}
	want := []string{"WW", "ii iii"}
	if diff := cmp.Diff(want, wrapText("WW ii iii", 6, wide)); diff != "" {
		t.Fatalf("wrapText mismatch (-want +got):\n%s", diff)
	}
}

func singleItemRequest(t *testing.T, content string) app.ExportRequest {
	t.Helper()
	column, err := domain.NewColumn(domain.ColumnInput{ID: "red", Title: "Red", Color: "#ef4444"})
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	column.Items = append(column.Items, domain.Item{ID: "item-1", Content: content})
	board, err := domain.NewBoard([]domain.Column{column})
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	return app.ExportRequest{Title: "Tier List", Topic: "Topic", Board: board}
}

func TestRasterizeDrawsNonASCIIText(t *testing.T) {
	pairs := [][2]string{
		{"abc", "xyz"},
		{"Ärger", "Örger"},
		{"กขค", "ฉชซ"},
		{"日本語", "中文字"},
		{"한국어", "조선말"},
		{"Привет", "Пока"},
		{"שלום", "עולם"},
	}
	for _, pair := range pairs {
		first := mustRasterize(t, singleItemRequest(t, pair[0]), 1)
		second := mustRasterize(t, singleItemRequest(t, pair[1]), 1)
		if bytes.Equal(first.Pix, second.Pix) {
			t.Fatalf("expected %q and %q to rasterize differently", pair[0], pair[1])
		}
	}
}

func TestTypefacePicksCoveringFace(t *testing.T) {
	tf, err := DefaultTypeface()
	if err != nil {
		t.Fatalf("DefaultTypeface() error = %v", err)
	}
	faces, err := tf.newFaceSet()
	if err != nil {
		t.Fatalf("newFaceSet() error = %v", err)
	}
	if len(faces.faces) != 4 {
		t.Fatalf("expected three bundled fonts plus the bitmap face, got %d", len(faces.faces))
	}
	cases := map[rune]int{'A': 0, 'Ö': 0, 'Ж': 0, 'ש': 1, 'ก': 2, '日': 3, '한': 3}
	for r, want := range cases {
		got := faces.faceFor(r)
		if got != faces.faces[want] {
			t.Fatalf("faceFor(%q) picked the wrong face, want index %d", r, want)
		}
		if _, ok := got.GlyphAdvance(r); !ok {
			t.Fatalf("faceFor(%q) returned a face without the glyph", r)
		}
	}
	if faces.measure("กขค") <= 0 {
		t.Fatal("expected Thai text to have a width")
	}
}

func TestLoadTypefaceConfiguredFonts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.ttf")
	if err := os.WriteFile(path, dejavusans.TTF, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	tf, err := LoadTypeface([]string{path, "  "})
	if err != nil {
		t.Fatalf("LoadTypeface() error = %v", err)
	}
	if len(tf.fonts) != 4 {
		t.Fatalf("expected configured font ahead of three bundled fonts, got %d", len(tf.fonts))
	}

	if _, err := LoadTypeface([]string{filepath.Join(t.TempDir(), "no-such-font-tierlist.ttf")}); err == nil {
		t.Fatal("expected error for a missing font")
	}
	bad := filepath.Join(t.TempDir(), "bad.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadTypeface([]string{bad}); err == nil {
		t.Fatal("expected parse error for a corrupt font")
	}
}

func TestExporterRejectsMissingFont(t *testing.T) {
	exp := NewExporter(Config{Dir: t.TempDir(), Fonts: []string{"no-such-font-tierlist.ttf"}})
	if _, err := exp.ExportBoard(context.Background(), testRequest(t)); err == nil {
		t.Fatal("expected missing font error")
	}
}
