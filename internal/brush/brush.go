// Package brush defines brush parameter sets, the built-in brushes and
// presets, and a library of user-defined brushes.
package brush

import (
	"errors"
	"fmt"
	"math"

	"github.com/jinzhu/copier"

	"github.com/example/darrow/internal/texture"
)

var (
	// ErrInvalid reports a parameter set that cannot be painted with.
	ErrInvalid = errors.New("invalid brush")
	// ErrNotFound reports an unknown brush id.
	ErrNotFound = errors.New("brush not found")
	// ErrBuiltin reports an attempt to modify a built-in brush.
	ErrBuiltin = errors.New("built-in brushes cannot be modified")
)

// Shape controls the stamp and how stamps are laid along a stroke.
type Shape struct {
	Texture texture.Ref `toml:"texture"`
	// Spacing is the distance between stamps as a percent of brush size.
	Spacing float64 `toml:"spacing"`
	// Angle is the base stamp rotation in degrees.
	Angle       float64 `toml:"angle"`
	AngleJitter float64 `toml:"angle_jitter"`
	// Roundness squashes the stamp vertically, 0 to 100 percent.
	Roundness float64 `toml:"roundness"`
}

// Scatter controls how many stamps land per step and how far they stray.
type Scatter struct {
	Scatter     float64 `toml:"scatter"`
	Count       int     `toml:"count"`
	CountJitter float64 `toml:"count_jitter"`
}

// Dynamics controls per stamp variance and pressure response.
type Dynamics struct {
	SizeJitter      float64 `toml:"size_jitter"`
	OpacityJitter   float64 `toml:"opacity_jitter"`
	PressureSize    bool    `toml:"pressure_size"`
	PressureOpacity bool    `toml:"pressure_opacity"`
}

// Taper shrinks and fades the ends of a stroke. Start and End are percents
// of the stroke length, Amount is the strength in percent.
type Taper struct {
	Start  float64 `toml:"start"`
	End    float64 `toml:"end"`
	Amount float64 `toml:"amount"`
}

// Stabilization smooths pointer input. Amount is 0 to 100.
type Stabilization struct {
	Amount float64 `toml:"amount"`
}

// Brush is a complete parameter set.
type Brush struct {
	ID            string        `toml:"id"`
	Name          string        `toml:"name"`
	Custom        bool          `toml:"custom"`
	Shape         Shape         `toml:"shape"`
	Scatter       Scatter       `toml:"scatter"`
	Dynamics      Dynamics      `toml:"dynamics"`
	Taper         Taper         `toml:"taper"`
	Stabilization Stabilization `toml:"stabilization"`
}

// Clone returns an independent deep copy of b.
func (b *Brush) Clone() *Brush {
	if b == nil {
		return nil
	}
	out := &Brush{}
	if err := copier.CopyWithOption(out, b, copier.Option{DeepCopy: true}); err != nil {
		// Brush holds only value fields, so a plain copy is equivalent.
		*out = *b
	}
	return out
}

// Validate checks the invariants the rasterizer depends on.
func (b *Brush) Validate() error {
	switch {
	case b == nil:
		return fmt.Errorf("%w: nil", ErrInvalid)
	case !(b.Shape.Spacing > 0):
		return fmt.Errorf("%w: spacing must be positive, got %v", ErrInvalid, b.Shape.Spacing)
	case b.Shape.Roundness < 0 || b.Shape.Roundness > 100:
		return fmt.Errorf("%w: roundness must be within 0..100, got %v", ErrInvalid, b.Shape.Roundness)
	case b.Scatter.Count < 1:
		return fmt.Errorf("%w: count must be at least 1, got %d", ErrInvalid, b.Scatter.Count)
	case b.Scatter.Scatter < 0:
		return fmt.Errorf("%w: scatter must not be negative", ErrInvalid)
	case b.Shape.Texture == "":
		return fmt.Errorf("%w: texture is required", ErrInvalid)
	}
	return nil
}

// Normalize clamps every field into its documented range.
func (b *Brush) Normalize() {
	if !(b.Shape.Spacing > 0) {
		b.Shape.Spacing = 1
	}
	b.Shape.Roundness = clamp(b.Shape.Roundness, 0, 100)
	b.Shape.AngleJitter = clamp(b.Shape.AngleJitter, 0, 1)
	if b.Scatter.Count < 1 {
		b.Scatter.Count = 1
	}
	b.Scatter.Scatter = math.Max(0, b.Scatter.Scatter)
	b.Scatter.CountJitter = clamp(b.Scatter.CountJitter, 0, 1)
	b.Dynamics.SizeJitter = clamp(b.Dynamics.SizeJitter, 0, 1)
	b.Dynamics.OpacityJitter = clamp(b.Dynamics.OpacityJitter, 0, 1)
	b.Taper.Start = clamp(b.Taper.Start, 0, 100)
	b.Taper.End = clamp(b.Taper.End, 0, 100)
	b.Taper.Amount = clamp(b.Taper.Amount, 0, 100)
	b.Stabilization.Amount = clamp(b.Stabilization.Amount, 0, 100)
	if b.Shape.Texture == "" {
		b.Shape.Texture = texture.HardRound
	}
}

// Active reports whether the taper changes anything.
func (t Taper) Active() bool {
	return t.Amount > 0 && (t.Start > 0 || t.End > 0)
}

// Factor returns the size and opacity multiplier at distance pos along a
// stroke of length total. It ramps linearly from 1-Amount at either end to 1
// at Start percent in and End percent from the end.
func (t Taper) Factor(pos, total float64) float64 {
	if !t.Active() || total <= 0 {
		return 1
	}
	amount := clamp(t.Amount/100, 0, 1)
	f := 1.0
	if start := total * t.Start / 100; start > 0 && pos < start {
		f = math.Min(f, math.Max(0, pos)/start)
	}
	if end := total * t.End / 100; end > 0 && total-pos < end {
		f = math.Min(f, math.Max(0, total-pos)/end)
	}
	return 1 - amount*(1-f)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
