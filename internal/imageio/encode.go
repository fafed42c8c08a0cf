package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/mitchellh/go-homedir"
)

// DefaultExportName is the file name offered when exporting a canvas.
const DefaultExportName = "DarrowArt_creation.png"

// Format identifies an export encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// FormatFor picks the export format from a file extension, defaulting to PNG.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return FormatPDF
	}
	return FormatPNG
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// WritePDF writes a single page PDF sized to the image at 72 dpi with the
// image covering the whole page.
func WritePDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("pdf export: empty image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("pdf export: %w", err)
	}
	wd, ht := float64(b.Dx()), float64(b.Dy())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", opts, &buf)
	pdf.ImageOptions("canvas", 0, 0, wd, ht, false, opts, 0, "")
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf export: %w", err)
	}
	return nil
}

// Encode writes img in the requested format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPDF:
		return WritePDF(w, img)
	case FormatPNG, "":
		return WritePNG(w, img)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// SaveFile writes img to path, choosing the encoding from the extension.
// It returns the absolute path written.
func SaveFile(path string, img image.Image) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	out, err := os.Create(expanded)
	if err != nil {
		return "", err
	}
	if err := Encode(out, img, FormatFor(expanded)); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("error closing %q: %v", out.Name(), cerr)
		}
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(expanded); err == nil {
		return abs, nil
	}
	return expanded, nil
}
