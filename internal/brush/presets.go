package brush

import (
	"sort"

	"github.com/example/darrow/internal/texture"
)

// Built-in brush ids.
const (
	Round       = "round"
	Calligraphy = "calligraphy"
	Charcoal    = "charcoal"
	Spray       = "spray"
)

// DefaultID is the brush selected when nothing else is.
const DefaultID = Round

var builtins = []Brush{
	{
		ID:       Round,
		Name:     "Round",
		Shape:    Shape{Texture: texture.HardRound, Spacing: 10, Roundness: 100},
		Scatter:  Scatter{Count: 1},
		Dynamics: Dynamics{PressureSize: true, PressureOpacity: true},
	},
	{
		ID:       Calligraphy,
		Name:     "Calligraphy",
		Shape:    Shape{Texture: texture.Calligraphy, Spacing: 15, Angle: 45, AngleJitter: 0.02, Roundness: 20},
		Scatter:  Scatter{Count: 1},
		Dynamics: Dynamics{SizeJitter: 0.1, PressureSize: true},
	},
	{
		ID:       Charcoal,
		Name:     "Charcoal",
		Shape:    Shape{Texture: texture.Charcoal, Spacing: 8, AngleJitter: 0.5, Roundness: 80},
		Scatter:  Scatter{Scatter: 0.5, Count: 1, CountJitter: 0.2},
		Dynamics: Dynamics{SizeJitter: 0.3, OpacityJitter: 0.4, PressureSize: true, PressureOpacity: true},
	},
	{
		ID:       Spray,
		Name:     "Spray Paint",
		Shape:    Shape{Texture: texture.SoftRound, Spacing: 10, AngleJitter: 1, Roundness: 100},
		Scatter:  Scatter{Scatter: 2, Count: 15, CountJitter: 0.5},
		Dynamics: Dynamics{SizeJitter: 0.5, OpacityJitter: 0.8, PressureOpacity: true},
	},
}

// Builtins returns copies of the built-in brushes in display order.
func Builtins() []*Brush {
	out := make([]*Brush, len(builtins))
	for i := range builtins {
		out[i] = builtins[i].Clone()
	}
	return out
}

// Builtin returns a copy of the built-in brush with the given id.
func Builtin(id string) (*Brush, bool) {
	for i := range builtins {
		if builtins[i].ID == id {
			return builtins[i].Clone(), true
		}
	}
	return nil, false
}

// CustomDefaults returns the settings a new custom brush starts from.
func CustomDefaults() Brush {
	return Brush{
		Custom:        true,
		Shape:         Shape{Texture: texture.HardRound, Spacing: 25, Roundness: 100},
		Scatter:       Scatter{Count: 1},
		Dynamics:      Dynamics{PressureSize: true},
		Stabilization: Stabilization{Amount: 10},
	}
}

type preset struct {
	shape    Shape
	scatter  Scatter
	dynamics Dynamics
	taper    Taper
	stab     float64
}

var presets = map[string]preset{
	"Airbrush": {
		shape:    Shape{Texture: texture.SoftRound, Spacing: 5, AngleJitter: 0.2, Roundness: 100},
		scatter:  Scatter{Scatter: 2, Count: 15, CountJitter: 0.5},
		dynamics: Dynamics{SizeJitter: 0.2, OpacityJitter: 0.8, PressureOpacity: true},
		stab:     5,
	},
	"Blade of Grass": {
		shape:    Shape{Texture: texture.GrassBlade, Spacing: 20, Angle: 90, AngleJitter: 0.3, Roundness: 10},
		scatter:  Scatter{Scatter: 0.5, Count: 2, CountJitter: 0.5},
		dynamics: Dynamics{SizeJitter: 0.4, OpacityJitter: 0.2, PressureSize: true, PressureOpacity: true},
		taper:    Taper{Start: 10, End: 80, Amount: 100},
		stab:     5,
	},
	"Calligraphy Pen": {
		shape:    Shape{Texture: texture.Calligraphy, Spacing: 15, Angle: 45, AngleJitter: 0.02, Roundness: 20},
		scatter:  Scatter{Count: 1},
		dynamics: Dynamics{SizeJitter: 0.1, PressureSize: true},
		taper:    Taper{Start: 5, End: 20, Amount: 90},
		stab:     30,
	},
	"Charcoal": {
		shape:    Shape{Texture: texture.Charcoal, Spacing: 8, AngleJitter: 0.5, Roundness: 80},
		scatter:  Scatter{Scatter: 0.5, Count: 1, CountJitter: 0.2},
		dynamics: Dynamics{SizeJitter: 0.3, OpacityJitter: 0.4, PressureSize: true, PressureOpacity: true},
		taper:    Taper{Start: 5, End: 5, Amount: 50},
	},
	"Cloud Painter": {
		shape:    Shape{Texture: texture.SoftRound, Spacing: 15, AngleJitter: 1, Roundness: 100},
		scatter:  Scatter{Scatter: 1, Count: 5, CountJitter: 0.5},
		dynamics: Dynamics{SizeJitter: 0.5, OpacityJitter: 0.7, PressureSize: true, PressureOpacity: true},
	},
	"Felt Tip Marker": {
		shape:    Shape{Texture: texture.Calligraphy, Spacing: 10, Angle: 90, AngleJitter: 0.01, Roundness: 50},
		scatter:  Scatter{Count: 1},
		dynamics: Dynamics{SizeJitter: 0.02, OpacityJitter: 0.1, PressureOpacity: true},
		taper:    Taper{Start: 5, End: 5, Amount: 100},
		stab:     25,
	},
	"Fine Liner": {
		shape:    Shape{Texture: texture.HardRound, Spacing: 10, Roundness: 100},
		scatter:  Scatter{Count: 1},
		dynamics: Dynamics{SizeJitter: 0.05, PressureSize: true},
		taper:    Taper{Start: 25, End: 25, Amount: 100},
		stab:     20,
	},
	"Gouache": {
		shape:    Shape{Texture: texture.Charcoal, Spacing: 12, AngleJitter: 0.1, Roundness: 90},
		scatter:  Scatter{Count: 1},
		dynamics: Dynamics{SizeJitter: 0.1, OpacityJitter: 0.1, PressureSize: true},
		taper:    Taper{End: 10, Amount: 40},
		stab:     5,
	},
	"Hatching": {
		shape:    Shape{Texture: texture.Calligraphy, Spacing: 40, Angle: 30, AngleJitter: 0.05, Roundness: 10},
		scatter:  Scatter{Scatter: 0.1, Count: 1, CountJitter: 0.1},
		dynamics: Dynamics{SizeJitter: 0.1, OpacityJitter: 0.1, PressureSize: true, PressureOpacity: true},
		taper:    Taper{Start: 10, End: 10, Amount: 100},
		stab:     15,
	},
	"Ink Splatter": {
		shape:    Shape{Texture: texture.Splatter, Spacing: 75, AngleJitter: 1, Roundness: 60},
		scatter:  Scatter{Scatter: 4, Count: 5, CountJitter: 1},
		dynamics: Dynamics{SizeJitter: 0.8, OpacityJitter: 0.2, PressureSize: true, PressureOpacity: true},
	},
	"Oil Paint": {
		shape:    Shape{Texture: texture.Charcoal, Spacing: 8, AngleJitter: 0.2, Roundness: 75},
		scatter:  Scatter{Count: 1},
		dynamics: Dynamics{SizeJitter: 0.15, OpacityJitter: 0.05, PressureSize: true},
		taper:    Taper{End: 5, Amount: 20},
	},
	"Pencil Sketch": {
		shape:    Shape{Texture: texture.Charcoal, Spacing: 5, Angle: 25, AngleJitter: 0.1, Roundness: 70},
		scatter:  Scatter{Count: 1},
		dynamics: Dynamics{SizeJitter: 0.1, OpacityJitter: 0.2, PressureSize: true, PressureOpacity: true},
		taper:    Taper{Start: 30, End: 30, Amount: 100},
		stab:     15,
	},
	"Starfield": {
		shape:    Shape{Texture: texture.SoftRound, Spacing: 200, AngleJitter: 1, Roundness: 100},
		scatter:  Scatter{Scatter: 5, Count: 10, CountJitter: 1},
		dynamics: Dynamics{SizeJitter: 0.9, OpacityJitter: 0.5},
	},
	"Stipple Dots": {
		shape:    Shape{Texture: texture.HardRound, Spacing: 150, Roundness: 100},
		scatter:  Scatter{Scatter: 3, Count: 1},
		dynamics: Dynamics{SizeJitter: 0.5, OpacityJitter: 0.1, PressureSize: true},
	},
	"Watercolor": {
		shape:    Shape{Texture: texture.SoftRound, Spacing: 10, AngleJitter: 0.3, Roundness: 100},
		scatter:  Scatter{Scatter: 0.2, Count: 2, CountJitter: 0.5},
		dynamics: Dynamics{SizeJitter: 0.4, OpacityJitter: 0.6, PressureSize: true, PressureOpacity: true},
		taper:    Taper{Start: 10, End: 30, Amount: 80},
		stab:     10,
	},
}

// PresetNames lists the studio presets alphabetically.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns the custom brush settings of a studio preset. The id is
// left empty for the caller to assign.
func Preset(name string) (*Brush, bool) {
	p, ok := presets[name]
	if !ok {
		return nil, false
	}
	return &Brush{
		Name:          name,
		Custom:        true,
		Shape:         p.shape,
		Scatter:       p.scatter,
		Dynamics:      p.dynamics,
		Taper:         p.taper,
		Stabilization: Stabilization{Amount: p.stab},
	}, true
}
