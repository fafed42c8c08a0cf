// Package paint turns pointer samples into ink on a layer buffer. It holds
// the dab renderer, the segment walker used for strokes, the eraser and the
// input helpers (stabilizer, symmetry) that sit in front of them.
package paint

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/darrow/internal/brush"
	"github.com/example/darrow/internal/texture"
)

// minFactor floors size and opacity multipliers after jitter and pressure.
const minFactor = 0.05

// Point is a canvas-local input sample.
type Point struct {
	X, Y     float64
	Pressure float64
}

// Tinter supplies tinted stamps. A nil result means the stamp is not ready
// and the dab is skipped.
type Tinter interface {
	Tint(ref texture.Ref, col color.NRGBA) *image.RGBA
}

// Painter renders dabs with a private random source.
type Painter struct {
	tints Tinter
	rng   *rand.Rand
}

// NewPainter returns a painter drawing stamps from tints. A nil rng seeds a
// fresh PCG source.
func NewPainter(tints Tinter, rng *rand.Rand) *Painter {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Painter{tints: tints, rng: rng}
}

// Reseed restarts the random sequence.
func (p *Painter) Reseed(seed uint64) {
	p.rng = rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
}

// signed returns U(-0.5,0.5)*2.
func (p *Painter) signed() float64 {
	return (p.rng.Float64() - 0.5) * 2
}

func (p *Painter) jitter(v float64) float64 {
	return 1 + v*p.signed()
}

// Dab stamps one event of b at (x, y) and returns how many stamps were
// composited.
func (p *Painter) Dab(dst *image.RGBA, x, y float64, col color.NRGBA, pressure float64, b *brush.Brush, baseSize float64) int {
	return p.dab(dst, x, y, col, pressure, b, baseSize, 1)
}

// dab is Dab with an extra size and opacity multiplier for tapered ends.
// The random draws per stamp happen in a fixed order so a reseeded painter
// replays the same stroke.
func (p *Painter) dab(dst *image.RGBA, x, y float64, col color.NRGBA, pressure float64, b *brush.Brush, baseSize, taper float64) int {
	if dst == nil || dst.Rect.Empty() || b == nil || p.tints == nil {
		return 0
	}
	stamp := p.tints.Tint(b.Shape.Texture, col)
	if stamp == nil {
		return 0
	}
	taper = math.Max(minFactor, math.Min(1, taper))

	size := baseSize * taper
	if b.Dynamics.PressureSize {
		size *= math.Max(minFactor, pressure)
	}
	count := float64(b.Scatter.Count)
	n := int(math.Round(count + count*b.Scatter.CountJitter*p.signed()))

	drawn := 0
	for i := 0; i < n; i++ {
		sizeJ := p.jitter(b.Dynamics.SizeJitter)
		opacityJ := p.jitter(b.Dynamics.OpacityJitter)
		dist := p.rng.Float64() * b.Scatter.Scatter * size
		theta := p.rng.Float64() * 2 * math.Pi
		rot := b.Shape.Angle*math.Pi/180 + b.Shape.AngleJitter*math.Pi*p.signed()

		w := size * math.Max(minFactor, sizeJ)
		h := w * b.Shape.Roundness / 100
		opacity := opacityJ
		if b.Dynamics.PressureOpacity {
			opacity *= math.Max(minFactor, pressure)
		}
		opacity = math.Min(1, math.Max(minFactor, opacity)*taper)

		cx := x + math.Cos(theta)*dist
		cy := y + math.Sin(theta)*dist
		if stampAt(dst, stamp, cx, cy, w, h, rot, opacity) {
			drawn++
		}
	}
	return drawn
}

// stampAt composites src centred on (cx, cy), scaled to w×h and rotated by
// rot radians. It reports false when the stamp is too small to draw.
func stampAt(dst *image.RGBA, src *image.RGBA, cx, cy, w, h, rot, opacity float64) bool {
	sb := src.Bounds()
	if w*h < 1e-3 || sb.Empty() || opacity <= 0 {
		return false
	}
	w0, h0 := float64(sb.Dx()), float64(sb.Dy())
	kx, ky := w/w0, h/h0
	sin, cos := math.Sincos(rot)
	m := f64.Aff3{
		cos * kx, -sin * ky, cx - cos*kx*w0/2 + sin*ky*h0/2,
		sin * kx, cos * ky, cy - sin*kx*w0/2 - cos*ky*h0/2,
	}
	// The matrix maps source pixel space; shift for a non-zero origin.
	m[2] -= m[0]*float64(sb.Min.X) + m[1]*float64(sb.Min.Y)
	m[5] -= m[3]*float64(sb.Min.X) + m[4]*float64(sb.Min.Y)

	var opts *xdraw.Options
	if opacity < 1 {
		a := uint8(math.Round(opacity * 255))
		if a == 0 {
			return false
		}
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: a})}
	}
	xdraw.BiLinear.Transform(dst, m, src, sb, xdraw.Over, opts)
	return true
}
