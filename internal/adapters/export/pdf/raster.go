package pdf

import (
	"image"
	"image/color"
	"strings"

	"github.com/hylla/tierlist/internal/app"
	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// Layout constants at 1x; the raster is upscaled afterwards.
const (
	baseWidth   = 720
	margin      = 16
	padding     = 8
	lineHeight  = 16
	glyphAscent = 12
	cardGap     = 4
	columnGap   = 12
)

// Light export palette. The board is always exported on white regardless of terminal theme.
var (
	paperColor   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	inkColor     = color.RGBA{A: 0xff}
	cardColor    = color.RGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff}
	chromeColor  = color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	mutedInk     = color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	fallbackBand = colorful.Color{R: 0x9c / 255.0, G: 0xa3 / 255.0, B: 0xaf / 255.0}
)

// block is one filled rectangle with optional text lines, positioned at 1x.
type block struct {
	rect  image.Rectangle
	fill  color.Color
	lines []string
	ink   color.Color
}

// Rasterize draws the export container for req with the bundled fonts and
// returns it scaled by scale.
func Rasterize(req app.ExportRequest, scale int) (*image.RGBA, error) {
	tf, err := DefaultTypeface()
	if err != nil {
		return nil, err
	}
	return rasterize(req, scale, tf)
}

func rasterize(req app.ExportRequest, scale int, tf *Typeface) (*image.RGBA, error) {
	if scale < 1 {
		scale = 1
	}
	faces, err := tf.newFaceSet()
	if err != nil {
		return nil, err
	}
	blocks, height := layout(req, faces.measure)
	base := image.NewRGBA(image.Rect(0, 0, baseWidth, height))
	xdraw.Draw(base, base.Bounds(), image.NewUniform(paperColor), image.Point{}, xdraw.Src)
	for _, b := range blocks {
		if b.fill != nil {
			xdraw.Draw(base, b.rect, image.NewUniform(b.fill), image.Point{}, xdraw.Src)
		}
		drawLines(base, faces, b)
	}
	if scale == 1 {
		return base, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, baseWidth*scale, height*scale))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), base, base.Bounds(), xdraw.Src, nil)
	return out, nil
}

// layout positions every block top to bottom and returns the total height.
func layout(req app.ExportRequest, measure func(string) int) ([]block, int) {
	inner := baseWidth - 2*margin
	textWidth := inner - 2*padding
	y := margin
	blocks := []block{}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = app.DefaultTitle
	}
	header := wrapText(title, textWidth, measure)
	if topic := strings.TrimSpace(req.Topic); topic != "" {
		header = append(header, wrapText("Topic: "+topic, textWidth, measure)...)
	}
	h := len(header)*lineHeight + 2*padding
	blocks = append(blocks, block{
		rect:  image.Rect(margin, y, margin+inner, y+h),
		fill:  chromeColor,
		lines: header,
		ink:   inkColor,
	})
	y += h + columnGap

	for _, column := range req.Board.Columns() {
		bandLines := wrapText(column.Title, textWidth, measure)
		if meaning := strings.TrimSpace(column.Meaning); meaning != "" {
			bandLines = append(bandLines, wrapText("Meaning: "+meaning, textWidth, measure)...)
		}
		if strategy := strings.TrimSpace(column.Strategy); strategy != "" {
			bandLines = append(bandLines, wrapText("Strategy: "+strategy, textWidth, measure)...)
		}
		bandHeight := len(bandLines)*lineHeight + 2*padding
		blocks = append(blocks, block{
			rect:  image.Rect(margin, y, margin+inner, y+bandHeight),
			fill:  bandColor(column.Color),
			lines: bandLines,
			ink:   inkColor,
		})
		y += bandHeight + cardGap

		if len(column.Items) == 0 {
			blocks = append(blocks, block{
				rect:  image.Rect(margin, y, margin+inner, y+lineHeight+2*padding),
				lines: []string{"(empty)"},
				ink:   mutedInk,
			})
			y += lineHeight + 2*padding + cardGap
		}
		for _, item := range column.Items {
			lines := wrapText(item.Content, textWidth-2*padding, measure)
			cardHeight := len(lines)*lineHeight + 2*padding
			blocks = append(blocks, block{
				rect:  image.Rect(margin+padding, y, margin+inner-padding, y+cardHeight),
				fill:  cardColor,
				lines: lines,
				ink:   inkColor,
			})
			y += cardHeight + cardGap
		}
		y += columnGap
	}
	return blocks, y + margin
}

// drawLines renders b's text inside its padded rectangle.
func drawLines(dst *image.RGBA, faces *faceSet, b block) {
	ink := b.ink
	if ink == nil {
		ink = inkColor
	}
	src := image.NewUniform(ink)
	for idx, line := range b.lines {
		dot := fixed.P(b.rect.Min.X+padding, b.rect.Min.Y+padding+idx*lineHeight+glyphAscent)
		faces.draw(dst, src, dot, line)
	}
}

// bandColor lightens a column color token so black text stays readable.
func bandColor(token string) color.Color {
	base, err := colorful.Hex(strings.TrimSpace(token))
	if err != nil {
		base = fallbackBand
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	return base.BlendRgb(white, 0.4).Clamped()
}

// wrapText breaks s into lines no wider than width as reported by measure,
// splitting on spaces and breaking words that do not fit on a line of their own.
func wrapText(s string, width int, measure func(string) int) []string {
	if width < 1 {
		width = 1
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	lines := []string{}
	current := ""
	for _, word := range words {
		for measure(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			head, rest := splitToWidth(word, width, measure)
			lines = append(lines, head)
			word = rest
		}
		switch {
		case word == "":
		case current == "":
			current = word
		case measure(current+" "+word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// splitToWidth returns the longest prefix of word that fits width, always
// taking at least one rune.
func splitToWidth(word string, width int, measure func(string) int) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && measure(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
