package pdf

import (
	_ "embed"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/go-fonts/dejavu/dejavusans"
	"github.com/hajimehoshi/bitmapfont/v3"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

//go:embed fonts/NotoSansThai-Regular.ttf
var notoSansThai []byte

// textSize is the 1x font size in pixels.
const textSize = 12

// builtinFonts parses the bundled fonts once. Order is fallback order.
var builtinFonts = sync.OnceValues(func() ([]*opentype.Font, error) {
	sources := []struct {
		name string
		data []byte
	}{
		{name: "Go Regular", data: goregular.TTF},
		{name: "DejaVu Sans", data: dejavusans.TTF},
		{name: "Noto Sans Thai", data: notoSansThai},
	}
	fonts := make([]*opentype.Font, 0, len(sources))
	for _, src := range sources {
		f, err := opentype.Parse(src.data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", src.name, err)
		}
		fonts = append(fonts, f)
	}
	return fonts, nil
})

// Typeface is an ordered font fallback chain. Each rune is drawn with the
// first font that has a glyph for it; a bitmap face covering the Basic
// Multilingual Plane (CJK and Hangul included) closes the chain.
type Typeface struct {
	fonts []*opentype.Font
}

// DefaultTypeface returns the bundled fallback chain.
func DefaultTypeface() (*Typeface, error) {
	return LoadTypeface(nil)
}

// LoadTypeface returns the bundled chain with the font files in paths tried
// first. A path that does not exist is looked up by file name in the system
// font directories. Collections (.ttc) contribute their first font.
func LoadTypeface(paths []string) (*Typeface, error) {
	builtin, err := builtinFonts()
	if err != nil {
		return nil, err
	}
	fonts := make([]*opentype.Font, 0, len(paths)+len(builtin))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		f, err := loadFontFile(path)
		if err != nil {
			return nil, err
		}
		fonts = append(fonts, f)
	}
	return &Typeface{fonts: append(fonts, builtin...)}, nil
}

func loadFontFile(path string) (*opentype.Font, error) {
	resolved, err := findfont.Find(path)
	if err != nil {
		return nil, fmt.Errorf("find font %q: %w", path, err)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read font %q: %w", resolved, err)
	}
	if strings.EqualFold(filepath.Ext(resolved), ".ttc") {
		collection, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse font collection %q: %w", resolved, err)
		}
		f, err := collection.Font(0)
		if err != nil {
			return nil, fmt.Errorf("parse font collection %q: %w", resolved, err)
		}
		return f, nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", resolved, err)
	}
	return f, nil
}

// faceSet holds sized faces for one raster. Faces keep glyph buffers, so a
// set is never shared between rasters.
type faceSet struct {
	faces []font.Face
}

func (t *Typeface) newFaceSet() (*faceSet, error) {
	faces := make([]font.Face, 0, len(t.fonts)+1)
	for _, f := range t.fonts {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    textSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("create font face: %w", err)
		}
		faces = append(faces, face)
	}
	return &faceSet{faces: append(faces, bitmapfont.Face)}, nil
}

// faceFor returns the first face with a glyph for r.
func (fs *faceSet) faceFor(r rune) font.Face {
	for _, face := range fs.faces {
		if _, ok := face.GlyphAdvance(r); ok {
			return face
		}
	}
	return fs.faces[0]
}

// measure returns the advance width of s in whole pixels.
func (fs *faceSet) measure(s string) int {
	var width fixed.Int26_6
	prev, prevFace := rune(-1), font.Face(nil)
	for _, r := range s {
		face := fs.faceFor(r)
		if face == prevFace && prev >= 0 {
			width += face.Kern(prev, r)
		}
		adv, _ := face.GlyphAdvance(r)
		width += adv
		prev, prevFace = r, face
	}
	return int(math.Ceil(float64(width) / 64))
}

// draw renders s with its baseline starting at dot.
func (fs *faceSet) draw(dst xdraw.Image, ink image.Image, dot fixed.Point26_6, s string) {
	prev, prevFace := rune(-1), font.Face(nil)
	for _, r := range s {
		face := fs.faceFor(r)
		if face == prevFace && prev >= 0 {
			dot.X += face.Kern(prev, r)
		}
		dr, mask, maskp, adv, ok := face.Glyph(dot, r)
		if ok {
			xdraw.DrawMask(dst, dr, ink, image.Point{}, mask, maskp, xdraw.Over)
		}
		dot.X += adv
		prev, prevFace = r, face
	}
}
