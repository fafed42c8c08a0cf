// Package render composites layer buffers into a viewport image and a
// flattened export image, and draws the editing overlay on top.
package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/darrow/internal/layer"
	"github.com/example/darrow/internal/viewport"
)

// Source pairs a layer's metadata with its pixels.
type Source struct {
	Layer layer.Layer
	Pix   *image.RGBA
}

// Colors are the workspace colours around and under the canvas.
type Colors struct {
	Backdrop     color.Color
	CheckerLight color.Color
	CheckerDark  color.Color
	HUDText      color.Color
	HUDPanel     color.Color
}

// DefaultColors matches the default light theme.
func DefaultColors() Colors {
	return Colors{
		Backdrop:     color.RGBA{0x3a, 0x3a, 0x3a, 0xff},
		CheckerLight: color.White,
		CheckerDark:  color.RGBA{0xcc, 0xcc, 0xcc, 0xff},
		HUDText:      color.White,
		HUDPanel:     color.RGBA{0, 0, 0, 0x99},
	}
}

// Grid describes the optional canvas grid.
type Grid struct {
	Visible bool
	Size    int
	Color   color.Color
}

// Cursor is the brush outline drawn at the pointer.
type Cursor struct {
	Visible bool
	At      viewport.Point // screen space
	Size    float64        // brush diameter in canvas pixels
}

// Frame is everything one redraw needs. It is assembled once per frame so
// the compositor never reads live document state while drawing.
type Frame struct {
	Transform viewport.Transform
	// Layers are ordered top first, as the layer store lists them.
	Layers []Source
	// Background is nil for a transparent canvas.
	Background color.Color
	Colors     Colors
	Grid       Grid
	Cursor     Cursor
	HUD        bool
}

type baseKey struct {
	w, h            int
	bg, light, dark color.RGBA
	transparent     bool
}

// Renderer draws frames. It caches the checkerboard and scratch buffers
// between frames and is not safe for concurrent use.
type Renderer struct {
	base    *image.RGBA
	key     baseKey
	scratch *image.RGBA
}

// NewRenderer returns an empty renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render draws f into dst, replacing its contents.
func (r *Renderer) Render(dst *image.RGBA, f *Frame) {
	colors := f.Colors
	if colors.Backdrop == nil {
		colors = DefaultColors()
	}
	draw.Draw(dst, dst.Rect, image.NewUniform(colors.Backdrop), image.Point{}, draw.Src)

	t := f.Transform
	if t.CanvasW <= 0 || t.CanvasH <= 0 || t.Zoom <= 0 {
		return
	}
	m := t.Matrix()
	interp := interpolator(t.Zoom)

	base := r.canvasBase(t.CanvasW, t.CanvasH, f.Background, colors)
	interp.Transform(dst, m, base, base.Rect, xdraw.Over, nil)

	for i := len(f.Layers) - 1; i >= 0; i-- {
		src := f.Layers[i]
		l := src.Layer
		if !l.Visible || l.Opacity <= 0 || src.Pix == nil {
			continue
		}
		if l.Blend == layer.Normal {
			interp.Transform(dst, m, src.Pix, src.Pix.Rect, xdraw.Over, opacityMask(l.Opacity))
			continue
		}
		scratch := r.scratchFor(dst.Rect)
		interp.Transform(scratch, m, src.Pix, src.Pix.Rect, xdraw.Src, nil)
		Composite(dst, scratch, dst.Rect, l.Opacity, l.Blend)
	}

	drawGrid(dst, t, f.Grid)
	drawCursor(dst, t, f.Cursor)
	if f.HUD {
		drawHUD(dst, t, colors)
	}
}

// Flatten composites the visible layers back to front onto the background
// without any view transform. The result is exactly w×h.
func Flatten(w, h int, layers []Source, background color.Color) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if background != nil {
		draw.Draw(out, out.Rect, image.NewUniform(background), image.Point{}, draw.Src)
	}
	for i := len(layers) - 1; i >= 0; i-- {
		src := layers[i]
		if !src.Layer.Visible || src.Pix == nil {
			continue
		}
		Composite(out, src.Pix, out.Rect, src.Layer.Opacity, src.Layer.Blend)
	}
	return out
}

func interpolator(zoom float64) xdraw.Transformer {
	if zoom >= 2 {
		return xdraw.NearestNeighbor
	}
	return xdraw.BiLinear
}

func opacityMask(opacity float64) *xdraw.Options {
	if opacity >= 1 {
		return nil
	}
	a := uint8(opacity*255 + 0.5)
	return &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: a})}
}

// canvasBase returns the checkerboard with the background laid over it, in
// canvas space.
func (r *Renderer) canvasBase(w, h int, bg color.Color, c Colors) *image.RGBA {
	key := baseKey{
		w: w, h: h,
		light:       rgba(c.CheckerLight),
		dark:        rgba(c.CheckerDark),
		transparent: bg == nil,
	}
	if bg != nil {
		key.bg = rgba(bg)
	}
	if r.base != nil && r.key == key {
		return r.base
	}
	base := image.NewRGBA(image.Rect(0, 0, w, h))
	drawCheckerboard(base, base.Rect, checkerSize, key.light, key.dark)
	if bg != nil {
		draw.Draw(base, base.Rect, image.NewUniform(bg), image.Point{}, draw.Over)
	}
	r.base, r.key = base, key
	return base
}

func (r *Renderer) scratchFor(b image.Rectangle) *image.RGBA {
	if r.scratch == nil || r.scratch.Rect != b {
		r.scratch = image.NewRGBA(b)
	} else {
		clear(r.scratch.Pix)
	}
	return r.scratch
}

func rgba(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
