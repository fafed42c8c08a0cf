package paint

import (
	"image"
	"math"

	"github.com/example/darrow/internal/raster"
)

const (
	softCore     = 0.4
	softStrength = 0.5
)

// Erase removes coverage along p1→p2 with discs of diameter size. The hard
// eraser clears fully; the soft one feathers from 40% of the radius outwards
// and removes at most half the coverage per disc. It returns the number of
// discs applied.
func Erase(dst *image.RGBA, p1, p2 Point, size float64, soft bool) int {
	if dst == nil || dst.Rect.Empty() {
		return 0
	}
	distance := math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
	step := math.Max(0.125, math.Min(4, size/4))
	radius := math.Max(0.5, size/2)

	n := 0
	for i := 0.0; i <= distance; i += step {
		t := 0.0
		if distance != 0 {
			t = i / distance
		}
		x := p1.X + (p2.X-p1.X)*t
		y := p1.Y + (p2.Y-p1.Y)*t
		m := raster.Circle(x, y, radius)
		strength := 1.0
		if soft {
			raster.Scale(m, feather(x, y, radius))
			strength = softStrength
		}
		raster.Clear(dst, m, strength)
		n++
	}
	return n
}

func feather(cx, cy, r float64) func(x, y float64) float64 {
	inner := r * softCore
	return func(x, y float64) float64 {
		d := math.Hypot(x-cx, y-cy)
		if d <= inner {
			return 1
		}
		t := math.Min(1, (d-inner)/(r-inner))
		return 1 - t*t*(3-2*t)
	}
}
