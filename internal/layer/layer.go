// Package layer owns the stack of layer buffers for one canvas together
// with their metadata: visibility, opacity, blend mode and style settings.
//
// The stack is ordered top first. Index 0 is drawn last when compositing.
package layer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSize reports canvas dimensions outside 1..MaxSize.
	ErrInvalidSize = errors.New("invalid canvas size")
	// ErrLastLayer reports an attempt to delete the only layer.
	ErrLastLayer = errors.New("cannot delete the last layer")
	// ErrNotFound reports an unknown layer id.
	ErrNotFound = errors.New("layer not found")
	// ErrUnknownBlendMode reports an unrecognised blend mode name.
	ErrUnknownBlendMode = errors.New("unknown blend mode")
	// ErrUnknownAnchor reports an unrecognised resize anchor name.
	ErrUnknownAnchor = errors.New("unknown anchor")
)

// BlendMode is the per-pixel function combining a layer with what is below.
type BlendMode int

const (
	Normal BlendMode = iota
	Multiply
	Screen
	Overlay
	Darken
	Lighten
	ColorDodge
	ColorBurn
	HardLight
	SoftLight
	Difference
	Exclusion
	Hue
	Saturation
	Color
	Luminosity
)

var blendNames = [...]string{
	Normal:     "normal",
	Multiply:   "multiply",
	Screen:     "screen",
	Overlay:    "overlay",
	Darken:     "darken",
	Lighten:    "lighten",
	ColorDodge: "color-dodge",
	ColorBurn:  "color-burn",
	HardLight:  "hard-light",
	SoftLight:  "soft-light",
	Difference: "difference",
	Exclusion:  "exclusion",
	Hue:        "hue",
	Saturation: "saturation",
	Color:      "color",
	Luminosity: "luminosity",
}

func (m BlendMode) String() string {
	if m < 0 || int(m) >= len(blendNames) {
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
	return blendNames[m]
}

// BlendModes lists every mode in menu order.
func BlendModes() []BlendMode {
	out := make([]BlendMode, len(blendNames))
	for i := range out {
		out[i] = BlendMode(i)
	}
	return out
}

// ParseBlendMode accepts the names printed by String. "source-over" is an
// alias for normal.
func ParseBlendMode(s string) (BlendMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "source-over" || s == "" {
		return Normal, nil
	}
	for i, n := range blendNames {
		if n == s {
			return BlendMode(i), nil
		}
	}
	return Normal, fmt.Errorf("%w: %q", ErrUnknownBlendMode, s)
}

// Layer is a snapshot of one layer's metadata. The pixel buffer stays in
// the Store.
type Layer struct {
	ID      int
	Name    string
	Visible bool
	Opacity float64
	Blend   BlendMode
	Styles  Styles
}
