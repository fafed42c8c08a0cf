// Package raster builds anti-aliased coverage masks for simple shapes and
// applies them to premultiplied RGBA buffers.
//
// Masks are *image.Alpha values whose bounds are expressed in the target
// coordinate space, so they can be handed straight to image/draw.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

type builder struct {
	z   *vector.Rasterizer
	min image.Point
}

func newBuilder(minX, minY, maxX, maxY float64) *builder {
	r := image.Rect(
		int(math.Floor(minX))-1,
		int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1,
		int(math.Ceil(maxY))+1,
	)
	if r.Empty() || math.IsNaN(minX) || math.IsNaN(minY) || math.IsNaN(maxX) || math.IsNaN(maxY) {
		return nil
	}
	return &builder{z: vector.NewRasterizer(r.Dx(), r.Dy()), min: r.Min}
}

func (b *builder) pt(x, y float64) (float32, float32) {
	return float32(x - float64(b.min.X)), float32(y - float64(b.min.Y))
}

func (b *builder) moveTo(x, y float64) { b.z.MoveTo(b.pt(x, y)) }
func (b *builder) lineTo(x, y float64) { b.z.LineTo(b.pt(x, y)) }

func (b *builder) cubeTo(x1, y1, x2, y2, x3, y3 float64) {
	ax, ay := b.pt(x1, y1)
	bx, by := b.pt(x2, y2)
	cx, cy := b.pt(x3, y3)
	b.z.CubeTo(ax, ay, bx, by, cx, cy)
}

// ellipse adds an axis aligned ellipse. reverse flips the winding so the
// shape cuts a hole out of an enclosing one.
func (b *builder) ellipse(cx, cy, rx, ry float64, reverse bool) {
	kx, ky := rx*kappa, ry*kappa
	b.moveTo(cx+rx, cy)
	if !reverse {
		b.cubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
		b.cubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
		b.cubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
		b.cubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	} else {
		b.cubeTo(cx+rx, cy-ky, cx+kx, cy-ry, cx, cy-ry)
		b.cubeTo(cx-kx, cy-ry, cx-rx, cy-ky, cx-rx, cy)
		b.cubeTo(cx-rx, cy+ky, cx-kx, cy+ry, cx, cy+ry)
		b.cubeTo(cx+kx, cy+ry, cx+rx, cy+ky, cx+rx, cy)
	}
	b.z.ClosePath()
}

func (b *builder) mask() *image.Alpha {
	size := b.z.Size()
	m := image.NewAlpha(image.Rect(0, 0, size.X, size.Y))
	b.z.DrawOp = draw.Src
	b.z.Draw(m, m.Bounds(), image.Opaque, image.Point{})
	m.Rect = m.Rect.Add(b.min)
	return m
}

// Ellipse returns the coverage of a filled, axis aligned ellipse.
func Ellipse(cx, cy, rx, ry float64) *image.Alpha {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	b := newBuilder(cx-rx, cy-ry, cx+rx, cy+ry)
	if b == nil {
		return nil
	}
	b.ellipse(cx, cy, rx, ry, false)
	return b.mask()
}

// Circle returns the coverage of a filled circle of radius r.
func Circle(cx, cy, r float64) *image.Alpha {
	return Ellipse(cx, cy, r, r)
}

// Ring returns the coverage of a circular outline of the given stroke width
// centred on radius r.
func Ring(cx, cy, r, width float64) *image.Alpha {
	if r <= 0 || width <= 0 {
		return nil
	}
	outer := r + width/2
	inner := r - width/2
	b := newBuilder(cx-outer, cy-outer, cx+outer, cy+outer)
	if b == nil {
		return nil
	}
	b.ellipse(cx, cy, outer, outer, false)
	if inner > 0 {
		b.ellipse(cx, cy, inner, inner, true)
	}
	return b.mask()
}

// Line returns the coverage of a butt-capped segment of the given width.
func Line(x0, y0, x1, y1, width float64) *image.Alpha {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 || width <= 0 {
		return nil
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	return Polygon([][2]float64{
		{x0 + nx, y0 + ny},
		{x1 + nx, y1 + ny},
		{x1 - nx, y1 - ny},
		{x0 - nx, y0 - ny},
	})
}

// Lines returns the combined coverage of several butt-capped segments, each
// given as x0, y0, x1, y1. Overlaps do not accumulate.
func Lines(segs [][4]float64, width float64) *image.Alpha {
	if len(segs) == 0 || width <= 0 {
		return nil
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range segs {
		minX, maxX = math.Min(minX, math.Min(s[0], s[2])), math.Max(maxX, math.Max(s[0], s[2]))
		minY, maxY = math.Min(minY, math.Min(s[1], s[3])), math.Max(maxY, math.Max(s[1], s[3]))
	}
	b := newBuilder(minX-width, minY-width, maxX+width, maxY+width)
	if b == nil {
		return nil
	}
	drawn := false
	for _, s := range segs {
		dx, dy := s[2]-s[0], s[3]-s[1]
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*width/2, dx/l*width/2
		b.moveTo(s[0]+nx, s[1]+ny)
		b.lineTo(s[2]+nx, s[3]+ny)
		b.lineTo(s[2]-nx, s[3]-ny)
		b.lineTo(s[0]-nx, s[1]-ny)
		b.z.ClosePath()
		drawn = true
	}
	if !drawn {
		return nil
	}
	return b.mask()
}

// Polygon returns the coverage of a closed polygon.
func Polygon(pts [][2]float64) *image.Alpha {
	if len(pts) < 3 {
		return nil
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	b := newBuilder(minX, minY, maxX, maxY)
	if b == nil {
		return nil
	}
	b.moveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		b.lineTo(p[0], p[1])
	}
	b.z.ClosePath()
	return b.mask()
}

// Fill paints c through the mask onto dst with source-over compositing.
func Fill(dst draw.Image, m *image.Alpha, c color.Color) {
	if m == nil {
		return
	}
	draw.DrawMask(dst, m.Rect, image.NewUniform(c), image.Point{}, m, m.Rect.Min, draw.Over)
}

// Clear removes coverage from dst where the mask is set, scaled by
// strength in [0,1]. It is the destination-out operator on premultiplied
// pixels: every channel is multiplied by 1-coverage.
func Clear(dst *image.RGBA, m *image.Alpha, strength float64) {
	if m == nil || strength <= 0 {
		return
	}
	if strength > 1 {
		strength = 1
	}
	r := m.Rect.Intersect(dst.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		mi := m.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, mi, di = x+1, mi+1, di+4 {
			cov := float64(m.Pix[mi]) / 255 * strength
			if cov <= 0 {
				continue
			}
			keep := 1 - cov
			p := dst.Pix[di : di+4 : di+4]
			p[0] = uint8(float64(p[0])*keep + 0.5)
			p[1] = uint8(float64(p[1])*keep + 0.5)
			p[2] = uint8(float64(p[2])*keep + 0.5)
			p[3] = uint8(float64(p[3])*keep + 0.5)
		}
	}
}

// Scale multiplies every coverage value of m by the factor returned from f,
// which receives the pixel centre in target coordinates.
func Scale(m *image.Alpha, f func(x, y float64) float64) {
	if m == nil {
		return
	}
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		i := m.PixOffset(m.Rect.Min.X, y)
		for x := m.Rect.Min.X; x < m.Rect.Max.X; x, i = x+1, i+1 {
			if m.Pix[i] == 0 {
				continue
			}
			k := f(float64(x)+0.5, float64(y)+0.5)
			if k <= 0 {
				m.Pix[i] = 0
				continue
			}
			if k < 1 {
				m.Pix[i] = uint8(float64(m.Pix[i])*k + 0.5)
			}
		}
	}
}
