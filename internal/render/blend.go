package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/darrow/internal/layer"
)

// Composite blends src onto dst over r using mode and a constant opacity.
// Both images share the same coordinate space. Pixels are premultiplied.
//
// Result colour is (1−αs)·Cb + (1−αb)·Cs + αs·αb·B(cb, cs) with the
// blend function B from the W3C compositing model.
func Composite(dst, src *image.RGBA, r image.Rectangle, opacity float64, mode layer.BlendMode) {
	r = r.Intersect(dst.Rect).Intersect(src.Rect)
	if r.Empty() || opacity <= 0 {
		return
	}
	opacity = math.Min(1, opacity)
	if mode == layer.Normal {
		var mask image.Image
		if opacity < 1 {
			mask = image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 255))})
		}
		draw.DrawMask(dst, r, src, r.Min, mask, image.Point{}, draw.Over)
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, si, di = x+1, si+4, di+4 {
			s := src.Pix[si : si+4 : si+4]
			if s[3] == 0 {
				continue
			}
			blendPixel(dst.Pix[di:di+4:di+4], s, opacity, mode)
		}
	}
}

func blendPixel(d, s []uint8, opacity float64, mode layer.BlendMode) {
	sa := float64(s[3]) / 255 * opacity
	da := float64(d[3]) / 255
	sp := [3]float64{float64(s[0]) / 255 * opacity, float64(s[1]) / 255 * opacity, float64(s[2]) / 255 * opacity}
	dp := [3]float64{float64(d[0]) / 255, float64(d[1]) / 255, float64(d[2]) / 255}

	var b [3]float64
	if da > 0 {
		cs := unpremul(sp, sa)
		cb := unpremul(dp, da)
		b = blend(mode, cb, cs)
	}
	oa := sa + da*(1-sa)
	for i := range 3 {
		c := (1-sa)*dp[i] + (1-da)*sp[i] + sa*da*b[i]
		d[i] = to8(c)
	}
	d[3] = to8(oa)
}

func unpremul(c [3]float64, a float64) [3]float64 {
	if a <= 0 {
		return [3]float64{}
	}
	return [3]float64{c[0] / a, c[1] / a, c[2] / a}
}

func to8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v*255))))
}

func blend(mode layer.BlendMode, cb, cs [3]float64) [3]float64 {
	switch mode {
	case layer.Hue:
		return setLum(setSat(cs, sat(cb)), lum(cb))
	case layer.Saturation:
		return setLum(setSat(cb, sat(cs)), lum(cb))
	case layer.Color:
		return setLum(cs, lum(cb))
	case layer.Luminosity:
		return setLum(cb, lum(cs))
	}
	f := separable(mode)
	return [3]float64{f(cb[0], cs[0]), f(cb[1], cs[1]), f(cb[2], cs[2])}
}

func separable(mode layer.BlendMode) func(cb, cs float64) float64 {
	switch mode {
	case layer.Multiply:
		return multiply
	case layer.Screen:
		return screen
	case layer.Overlay:
		return func(cb, cs float64) float64 { return hardLight(cs, cb) }
	case layer.Darken:
		return math.Min
	case layer.Lighten:
		return math.Max
	case layer.ColorDodge:
		return colorDodge
	case layer.ColorBurn:
		return colorBurn
	case layer.HardLight:
		return hardLight
	case layer.SoftLight:
		return softLight
	case layer.Difference:
		return func(cb, cs float64) float64 { return math.Abs(cb - cs) }
	case layer.Exclusion:
		return func(cb, cs float64) float64 { return cb + cs - 2*cb*cs }
	}
	return func(_, cs float64) float64 { return cs }
}

func multiply(cb, cs float64) float64 { return cb * cs }
func screen(cb, cs float64) float64   { return cb + cs - cb*cs }

func hardLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return multiply(cb, 2*cs)
	}
	return screen(cb, 2*cs-1)
}

func colorDodge(cb, cs float64) float64 {
	switch {
	case cb == 0:
		return 0
	case cs >= 1:
		return 1
	}
	return math.Min(1, cb/(1-cs))
}

func colorBurn(cb, cs float64) float64 {
	switch {
	case cb >= 1:
		return 1
	case cs <= 0:
		return 0
	}
	return 1 - math.Min(1, (1-cb)/cs)
}

func softLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb - (1-2*cs)*cb*(1-cb)
	}
	var d float64
	if cb <= 0.25 {
		d = ((16*cb-12)*cb + 4) * cb
	} else {
		d = math.Sqrt(cb)
	}
	return cb + (2*cs-1)*(d-cb)
}

func lum(c [3]float64) float64 {
	return 0.3*c[0] + 0.59*c[1] + 0.11*c[2]
}

func clipColor(c [3]float64) [3]float64 {
	l := lum(c)
	n := math.Min(c[0], math.Min(c[1], c[2]))
	x := math.Max(c[0], math.Max(c[1], c[2]))
	for i := range c {
		if n < 0 && l != n {
			c[i] = l + (c[i]-l)*l/(l-n)
		}
		if x > 1 && x != l {
			c[i] = l + (c[i]-l)*(1-l)/(x-l)
		}
	}
	return c
}

func setLum(c [3]float64, l float64) [3]float64 {
	d := l - lum(c)
	return clipColor([3]float64{c[0] + d, c[1] + d, c[2] + d})
}

func sat(c [3]float64) float64 {
	return math.Max(c[0], math.Max(c[1], c[2])) - math.Min(c[0], math.Min(c[1], c[2]))
}

func setSat(c [3]float64, s float64) [3]float64 {
	maxI, minI := 0, 0
	for i := 1; i < 3; i++ {
		if c[i] > c[maxI] {
			maxI = i
		}
		if c[i] < c[minI] {
			minI = i
		}
	}
	if maxI == minI {
		return [3]float64{}
	}
	midI := 3 - maxI - minI
	var out [3]float64
	out[midI] = (c[midI] - c[minI]) * s / (c[maxI] - c[minI])
	out[maxI] = s
	return out
}
