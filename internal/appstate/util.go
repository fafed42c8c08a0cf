package appstate

import (
	"image"
	"image/color"
	"image/draw"
)

// Bounds of the initial window, excluding chrome.
const (
	maxInitialWidth  = 1280
	maxInitialHeight = 800
	minWindowSize    = 360
)

// drawRect outlines r with a border thick pixels wide, drawn inside r.
func drawRect(dst *image.RGBA, r image.Rectangle, col color.Color, thick int) {
	if thick < 1 || r.Empty() {
		return
	}
	src := image.NewUniform(col)
	t := min(thick, r.Dx()/2+1, r.Dy()/2+1)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), src, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), src, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y+t, r.Min.X+t, r.Max.Y-t), src, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Max.X-t, r.Min.Y+t, r.Max.X, r.Max.Y-t), src, image.Point{}, draw.Over)
}

// windowSize returns the initial window size for a canvas: the canvas at
// 100% plus the toolbar and status bar, capped to a comfortable size.
func windowSize(canvasW, canvasH int) (int, int) {
	w := max(min(canvasW, maxInitialWidth), minWindowSize) + toolbarWidth
	h := max(min(canvasH, maxInitialHeight), minWindowSize) + statusHeight
	return w, h
}

// canvasPool recycles the images the event loop renders the canvas into
// and hands to the paint goroutine.
type canvasPool struct {
	free chan *image.RGBA
}

func newCanvasPool(n int) *canvasPool {
	return &canvasPool{free: make(chan *image.RGBA, n)}
}

// get returns an image sized to r, reusing a released one when it fits.
func (p *canvasPool) get(r image.Rectangle) *image.RGBA {
	size := r.Size()
	for {
		select {
		case img := <-p.free:
			if img.Rect.Size() == size {
				return img
			}
		default:
			return image.NewRGBA(image.Rectangle{Max: size})
		}
	}
}

// put hands img back for reuse. It is dropped when the pool is full.
func (p *canvasPool) put(img *image.RGBA) {
	if img == nil {
		return
	}
	select {
	case p.free <- img:
	default:
	}
}
