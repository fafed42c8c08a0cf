// Package clipboard copies the flattened canvas to the system clipboard and
// reads pasted images back. Copies travel as PNG; pastes accept any image
// format imageio decodes.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"os"

	"github.com/example/darrow/internal/imageio"
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrEmpty reports a clipboard without image data.
	ErrEmpty = errors.New("clipboard does not contain image data")
)

// imageTargets lists the clipboard formats a paste accepts, best first.
// Every one of them decodes through imageio.
var imageTargets = []string{
	"image/png",
	"image/webp",
	"image/tiff",
	"image/bmp",
	"image/jpeg",
	"image/gif",
}

// preferredTarget picks the best image format among those a clipboard
// owner offers.
func preferredTarget(offered []string) (string, bool) {
	for _, want := range imageTargets {
		for _, got := range offered {
			if got == want {
				return want, true
			}
		}
	}
	return "", false
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// CopyImage encodes img as PNG and publishes it to the clipboard.
func CopyImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := imageio.WritePNG(&buf, img); err != nil {
		return err
	}
	return writePNG(buf.Bytes())
}

// PasteData returns the raw image bytes held by the clipboard, in whatever
// format the owner offered.
func PasteData() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := readImageData()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return data, nil
}

// PasteImage decodes the image held by the clipboard.
func PasteImage() (image.Image, error) {
	data, err := PasteData()
	if err != nil {
		return nil, err
	}
	img, _, err := imageio.Decode(data)
	return img, err
}
