// Package theme holds the workspace colours drawn around and over the
// canvas.
package theme

import (
	"image/color"
	"sort"
	"strings"

	"github.com/example/darrow/internal/render"
)

// Theme defines the colour palette of the painting window.
type Theme struct {
	Name string

	// Workspace
	Backdrop     color.RGBA // behind the canvas
	CheckerLight color.RGBA // transparency indicator
	CheckerDark  color.RGBA

	// Overlay
	Grid     color.RGBA
	HUDText  color.RGBA
	HUDPanel color.RGBA

	// Toolbar
	ToolbarBackground color.RGBA
	ToolbarText       color.RGBA
	ToolActive        color.RGBA
	Status            color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:              "light",
		Backdrop:          color.RGBA{0x3a, 0x3a, 0x3a, 0xff},
		CheckerLight:      color.RGBA{0xff, 0xff, 0xff, 0xff},
		CheckerDark:       color.RGBA{0xcc, 0xcc, 0xcc, 0xff},
		Grid:              color.RGBA{0xcc, 0xcc, 0xcc, 0xff},
		HUDText:           color.RGBA{0xff, 0xff, 0xff, 0xff},
		HUDPanel:          color.RGBA{0, 0, 0, 0x99},
		ToolbarBackground: color.RGBA{220, 220, 220, 255},
		ToolbarText:       color.RGBA{0, 0, 0, 255},
		ToolActive:        color.RGBA{180, 180, 180, 255},
		Status:            color.RGBA{60, 60, 60, 255},
	}
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	return &Theme{
		Name:              "dark",
		Backdrop:          color.RGBA{0x1e, 0x1e, 0x1e, 0xff},
		CheckerLight:      color.RGBA{0x55, 0x55, 0x55, 0xff},
		CheckerDark:       color.RGBA{0x44, 0x44, 0x44, 0xff},
		Grid:              color.RGBA{0x66, 0x66, 0x66, 0xff},
		HUDText:           color.RGBA{0xee, 0xee, 0xee, 0xff},
		HUDPanel:          color.RGBA{0, 0, 0, 0xcc},
		ToolbarBackground: color.RGBA{45, 45, 45, 255},
		ToolbarText:       color.RGBA{230, 230, 230, 255},
		ToolActive:        color.RGBA{80, 80, 80, 255},
		Status:            color.RGBA{190, 190, 190, 255},
	}
}

var builtin = map[string]func() *Theme{
	"light":   Default,
	"default": Default,
	"dark":    Dark,
}

// Builtin returns a built-in theme by name.
func Builtin(name string) (*Theme, bool) {
	f, ok := builtin[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return f(), true
}

// BuiltinNames lists the built-in theme names.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Colors maps the theme onto the compositor's workspace colours.
func (t *Theme) Colors() render.Colors {
	return render.Colors{
		Backdrop:     t.Backdrop,
		CheckerLight: t.CheckerLight,
		CheckerDark:  t.CheckerDark,
		HUDText:      t.HUDText,
		HUDPanel:     t.HUDPanel,
	}
}
