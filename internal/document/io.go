package document

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/example/darrow/internal/imageio"
	"github.com/example/darrow/internal/layer"
	"github.com/example/darrow/internal/render"
)

// PastedName is the layer name used for images without a file name.
const PastedName = "Pasted image"

// Import adds img as a new layer drawn at its natural size at the origin
// and records it in history.
func (d *Document) Import(img image.Image, name string) (layer.Layer, error) {
	if img == nil || img.Bounds().Empty() {
		return layer.Layer{}, errors.New("import: empty image")
	}
	d.endStroke()
	if name == "" {
		name = PastedName
	}
	l := d.store.Add(name)
	if err := d.store.Paste(l.ID, img); err != nil {
		return layer.Layer{}, err
	}
	d.history.Commit(l.ID, d.store.Buffer(l.ID))
	d.log().Info("image imported", "layer", l.ID, "name", name, "size", img.Bounds().Size())
	d.changed()
	return l, nil
}

// ImportFile imports an image file or data: URL. The layer is named after
// the file.
func (d *Document) ImportFile(ref string) (layer.Layer, error) {
	img, err := imageio.Load(ref)
	if err != nil {
		return layer.Layer{}, fmt.Errorf("import: %w", err)
	}
	name := PastedName
	if !imageio.IsDataURL(ref) {
		name = strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
	}
	return d.Import(img, name)
}

// ImportData imports encoded image bytes, such as clipboard contents.
func (d *Document) ImportData(data []byte) (layer.Layer, error) {
	img, _, err := imageio.Decode(data)
	if err != nil {
		return layer.Layer{}, fmt.Errorf("import: %w", err)
	}
	return d.Import(img, PastedName)
}

func (d *Document) flattenSources() (int, int, []render.Source, color.Color) {
	w, h := d.store.Size()
	layers := d.store.Layers()
	sources := make([]render.Source, len(layers))
	for i, l := range layers {
		sources[i] = render.Source{Layer: l, Pix: d.store.Buffer(l.ID)}
	}
	return w, h, sources, d.background
}

// Flatten composites the visible layers onto the background at canvas
// size, without the view transform or overlays.
func (d *Document) Flatten() *image.RGBA {
	return render.Flatten(d.flattenSources())
}

// Export writes the flattened canvas in format f.
func (d *Document) Export(w io.Writer, f imageio.Format) error {
	return imageio.Encode(w, d.Flatten(), f)
}

// SaveFile writes the flattened canvas to path, PNG or PDF by extension,
// and returns the absolute path written.
func (d *Document) SaveFile(path string) (string, error) {
	if path == "" {
		path = imageio.DefaultExportName
	}
	out, err := imageio.SaveFile(path, d.Flatten())
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	d.log().Info("canvas exported", "path", out)
	return out, nil
}
