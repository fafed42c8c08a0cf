package texture

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"math/rand/v2"

	"github.com/anthonynsimon/bild/blur"

	"github.com/example/darrow/internal/raster"
)

// StampSize is the edge length of generated stamps.
const StampSize = 128

// Generate renders a built-in stamp. Output is deterministic.
func Generate(ref Ref) (*image.Alpha, error) {
	switch ref {
	case HardRound:
		return hardRound(), nil
	case SoftRound:
		return softRound(), nil
	case Calligraphy:
		return calligraphy(), nil
	case Charcoal:
		return charcoal(), nil
	case Splatter:
		return splatter(), nil
	case GrassBlade:
		return grassBlade(), nil
	}
	return nil, fmt.Errorf("unknown built-in texture %q", ref)
}

func canvas() *image.Alpha {
	return image.NewAlpha(image.Rect(0, 0, StampSize, StampSize))
}

func stamp(dst *image.Alpha, m *image.Alpha) {
	if m == nil {
		return
	}
	draw.DrawMask(dst, m.Rect, image.Opaque, image.Point{}, m, m.Rect.Min, draw.Over)
}

func soften(src *image.Alpha, radius float64) *image.Alpha {
	return alphaOf(blur.Gaussian(src, radius))
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

const centre = StampSize / 2

func hardRound() *image.Alpha {
	dst := canvas()
	stamp(dst, raster.Circle(centre, centre, centre-2))
	return dst
}

func softRound() *image.Alpha {
	dst := canvas()
	stamp(dst, raster.Circle(centre, centre, centre*0.55))
	return soften(dst, StampSize/9)
}

func calligraphy() *image.Alpha {
	dst := canvas()
	stamp(dst, raster.Ellipse(centre, centre, centre-4, centre*0.35))
	return soften(dst, 1.5)
}

func charcoal() *image.Alpha {
	dst := canvas()
	stamp(dst, raster.Circle(centre, centre, centre-4))
	r := seeded(0xc4a2c0a1)
	for i := range dst.Pix {
		if dst.Pix[i] == 0 {
			continue
		}
		grain := 0.3 + 0.7*r.Float64()
		dst.Pix[i] = uint8(float64(dst.Pix[i]) * grain)
	}
	return soften(dst, 1)
}

func splatter() *image.Alpha {
	dst := canvas()
	r := seeded(0x5b1a77e2)
	stamp(dst, raster.Circle(centre, centre, centre*0.4))
	for range 18 {
		angle := r.Float64() * 2 * math.Pi
		dist := centre * (0.35 + 0.55*r.Float64())
		size := 2 + 7*r.Float64()
		x := centre + math.Cos(angle)*dist
		y := centre + math.Sin(angle)*dist
		stamp(dst, raster.Circle(x, y, math.Min(size, centre-dist+size/2)))
	}
	return soften(dst, 0.8)
}

func grassBlade() *image.Alpha {
	dst := canvas()
	const base, tip = StampSize - 4, 4
	var left, right [][2]float64
	steps := 12
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		y := base + (tip-base)*t
		half := 11 * (1 - t) * (1 - 0.3*t)
		bend := 14 * t * t
		left = append(left, [2]float64{centre + bend - half, y})
		right = append(right, [2]float64{centre + bend + half, y})
	}
	pts := left
	for i := len(right) - 1; i >= 0; i-- {
		pts = append(pts, right[i])
	}
	stamp(dst, raster.Polygon(pts))
	return soften(dst, 0.8)
}
