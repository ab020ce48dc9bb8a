package pdf

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/hylla/tierlist/internal/app"
)

// boardImageName registers the raster inside the document.
const boardImageName = "board"

// Render writes a one-page PDF whose page is exactly the size of the board raster.
// Document dates come from now so identical boards produce identical bytes.
func Render(req app.ExportRequest, scale int, now time.Time, w io.Writer) error {
	tf, err := DefaultTypeface()
	if err != nil {
		return err
	}
	return render(req, scale, now, tf, w)
}

func render(req app.ExportRequest, scale int, now time.Time, tf *Typeface, w io.Writer) error {
	img, err := rasterize(req, scale, tf)
	if err != nil {
		return fmt.Errorf("rasterize board: %w", err)
	}
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		return fmt.Errorf("encode board raster: %w", err)
	}

	width := float64(img.Bounds().Dx())
	height := float64(img.Bounds().Dy())
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCatalogSort(true)
	doc.SetCreationDate(now.UTC())
	doc.SetModificationDate(now.UTC())
	doc.SetCreator("tierlist", true)
	doc.SetTitle(strings.TrimSpace(req.Title), true)
	if topic := strings.TrimSpace(req.Topic); topic != "" {
		doc.SetSubject(topic, true)
	}
	doc.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(boardImageName, opts, &encoded)
	doc.ImageOptions(boardImageName, 0, 0, width, height, false, opts, 0, "")
	if err := doc.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
