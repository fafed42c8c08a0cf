package layer

import (
	"fmt"
	"image"
	"strings"
)

// MaxSize is the largest accepted canvas edge in pixels.
const MaxSize = 8000

// ValidateSize reports whether w×h is an acceptable canvas size.
func ValidateSize(w, h int) error {
	if w < 1 || h < 1 || w > MaxSize || h > MaxSize {
		return fmt.Errorf("%w: %dx%d (each side must be 1..%d)", ErrInvalidSize, w, h, MaxSize)
	}
	return nil
}

// Anchor is the point of the old canvas that stays fixed on resize.
type Anchor int

const (
	TopLeft Anchor = iota
	TopCenter
	TopRight
	MiddleLeft
	Center
	MiddleRight
	BottomLeft
	BottomCenter
	BottomRight
)

var anchorNames = [...]string{
	"top-left", "top-center", "top-right",
	"middle-left", "center", "middle-right",
	"bottom-left", "bottom-center", "bottom-right",
}

func (a Anchor) String() string {
	if a < 0 || int(a) >= len(anchorNames) {
		return fmt.Sprintf("Anchor(%d)", int(a))
	}
	return anchorNames[a]
}

// ParseAnchor accepts the names printed by String.
func ParseAnchor(s string) (Anchor, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range anchorNames {
		if n == s {
			return Anchor(i), nil
		}
	}
	return TopLeft, fmt.Errorf("%w: %q", ErrUnknownAnchor, s)
}

// Offset returns where the old canvas origin lands in the new canvas.
func (a Anchor) Offset(oldW, oldH, newW, newH int) image.Point {
	col, row := int(a)%3, int(a)/3
	return image.Pt(place(col, oldW, newW), place(row, oldH, newH))
}

func place(slot, old, size int) int {
	switch slot {
	case 1:
		return (size - old) / 2
	case 2:
		return size - old
	}
	return 0
}
