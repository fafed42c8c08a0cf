package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/darrow/internal/raster"
	"github.com/example/darrow/internal/viewport"
)

const (
	checkerSize = 16
	// DefaultGridSize is the grid spacing in canvas pixels.
	DefaultGridSize = 50
)

var (
	cursorOuter = color.White
	cursorInner = color.Black
)

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	draw.Draw(dst, rect, image.NewUniform(light), image.Point{}, draw.Src)
	d := image.NewUniform(dark)
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			if ((x-rect.Min.X)/size+(y-rect.Min.Y)/size)%2 != 0 {
				continue
			}
			cell := image.Rect(x, y, x+size, y+size).Intersect(rect)
			draw.Draw(dst, cell, d, image.Point{}, draw.Src)
		}
	}
}

func drawGrid(dst *image.RGBA, t viewport.Transform, g Grid) {
	if !g.Visible {
		return
	}
	size := g.Size
	if size <= 0 {
		size = DefaultGridSize
	}
	col := g.Color
	if col == nil {
		col = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	}
	w, h := float64(t.CanvasW), float64(t.CanvasH)
	clip := dst.Rect.Inset(-2)
	var segs [][4]float64
	add := func(x0, y0, x1, y1 float64) {
		a := t.CanvasToScreen(viewport.Point{X: x0, Y: y0})
		b := t.CanvasToScreen(viewport.Point{X: x1, Y: y1})
		if s, ok := clipSegment([4]float64{a.X, a.Y, b.X, b.Y}, clip); ok {
			segs = append(segs, s)
		}
	}
	for x := 0; x <= t.CanvasW; x += size {
		add(float64(x), 0, float64(x), h)
	}
	for y := 0; y <= t.CanvasH; y += size {
		add(0, float64(y), w, float64(y))
	}
	raster.Fill(dst, raster.Lines(segs, 1), col)
}

// clipSegment trims s to r using Liang-Barsky.
func clipSegment(s [4]float64, r image.Rectangle) ([4]float64, bool) {
	x0, y0, x1, y1 := s[0], s[1], s[2], s[3]
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - float64(r.Min.X)},
		{dx, float64(r.Max.X) - x0},
		{-dy, y0 - float64(r.Min.Y)},
		{dy, float64(r.Max.Y) - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return s, false
			}
			continue
		}
		u := q / p
		if p < 0 {
			t0 = math.Max(t0, u)
		} else {
			t1 = math.Min(t1, u)
		}
		if t0 > t1 {
			return s, false
		}
	}
	return [4]float64{x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy}, true
}

func drawCursor(dst *image.RGBA, t viewport.Transform, c Cursor) {
	if !c.Visible {
		return
	}
	r := math.Max(1, c.Size/2*t.Zoom)
	raster.Fill(dst, raster.Ring(c.At.X, c.At.Y, r, 1.5), cursorOuter)
	raster.Fill(dst, raster.Ring(c.At.X, c.At.Y, r, 1), cursorInner)
}

var (
	hudOnce sync.Once
	hudFace font.Face
)

func face() font.Face {
	hudOnce.Do(func() {
		hudFace = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		if fc, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 12, DPI: 72, Hinting: font.HintingFull}); err == nil {
			hudFace = fc
		}
	})
	return hudFace
}

// drawHUD writes the zoom percentage in the bottom-left corner.
func drawHUD(dst *image.RGBA, t viewport.Transform, c Colors) {
	label := fmt.Sprintf("%d%%", t.ZoomPercent())
	fc := face()
	text := c.HUDText
	if text == nil {
		text = color.White
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(text), Face: fc}
	adv := d.MeasureString(label).Ceil()
	m := fc.Metrics()
	lineH := (m.Ascent + m.Descent).Ceil()

	const pad = 6
	panel := image.Rect(dst.Rect.Min.X+pad, dst.Rect.Max.Y-pad-lineH-pad, dst.Rect.Min.X+pad+adv+2*pad, dst.Rect.Max.Y-pad)
	if c.HUDPanel != nil {
		draw.Draw(dst, panel, image.NewUniform(c.HUDPanel), image.Point{}, draw.Over)
	}
	d.Dot = fixed.P(panel.Min.X+pad, panel.Min.Y+pad/2+m.Ascent.Ceil())
	d.DrawString(label)
}
