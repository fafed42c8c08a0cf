// Package imageio decodes bitmaps from files, data URLs and raw bytes, and
// encodes flattened canvases for export.
package imageio

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"net/url"
	"os"
	"strings"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/h2non/filetype"
	"github.com/mitchellh/go-homedir"
)

// ErrUnsupportedFormat reports bytes that are not a decodable image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decode sniffs data and decodes it with the registered image decoders.
// It returns the decoded image and the format name.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrUnsupportedFormat)
	}
	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		if kind == filetype.Unknown {
			return nil, "", fmt.Errorf("%w: unrecognised content", ErrUnsupportedFormat)
		}
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			kind, _ := filetype.Match(data)
			return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
		}
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// ReadFile decodes the image stored at path. A leading ~ is expanded to the
// user's home directory.
func ReadFile(path string) (image.Image, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	img, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// IsDataURL reports whether s looks like a data: URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "data:")
}

// DecodeDataURL decodes an image embedded in a data: URL, for example
// "data:image/png;base64,iVBORw0...".
func DecodeDataURL(s string) (image.Image, error) {
	if !IsDataURL(s) {
		return nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("data URL has no payload")
	}
	var data []byte
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("data URL: %w", err)
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("data URL: %w", err)
		}
		data = []byte(unescaped)
	}
	img, _, err := Decode(data)
	return img, err
}

// Load resolves ref as a data URL or a file path.
func Load(ref string) (image.Image, error) {
	if IsDataURL(ref) {
		return DecodeDataURL(ref)
	}
	return ReadFile(ref)
}

// ToRGBA copies img into a new RGBA image whose bounds start at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	return out
}
