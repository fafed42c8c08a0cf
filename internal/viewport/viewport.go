// Package viewport maps between screen and canvas coordinates under zoom,
// pan and rotation.
//
// A canvas point p lands on screen at zoom·R·p + (I−R)·c + pan, where R
// rotates by the current angle and c is the canvas centre scaled by zoom.
package viewport

import (
	"math"

	"golang.org/x/image/math/f64"
)

const (
	MinZoom = 0.1
	MaxZoom = 16
	// fitMargin leaves a border around the canvas after ZoomToFit.
	fitMargin = 0.95
)

// Point is a 2D coordinate in either space.
type Point struct {
	X, Y float64
}

// Transform is an immutable view state sampled once per frame.
type Transform struct {
	Zoom     float64
	Pan      Point
	Rotation float64 // degrees
	CanvasW  int
	CanvasH  int
}

func (t Transform) centre() Point {
	return Point{float64(t.CanvasW) * t.Zoom / 2, float64(t.CanvasH) * t.Zoom / 2}
}

// ScreenToCanvas maps a point in container pixels to canvas pixels.
func (t Transform) ScreenToCanvas(s Point) Point {
	c := t.centre()
	rx, ry := s.X-t.Pan.X-c.X, s.Y-t.Pan.Y-c.Y
	sin, cos := math.Sincos(-t.Rotation * math.Pi / 180)
	ux := rx*cos - ry*sin + c.X
	uy := rx*sin + ry*cos + c.Y
	return Point{ux / t.Zoom, uy / t.Zoom}
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func (t Transform) CanvasToScreen(p Point) Point {
	m := t.Matrix()
	return Point{
		m[0]*p.X + m[1]*p.Y + m[2],
		m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// Matrix returns the canvas→screen affine transform.
func (t Transform) Matrix() f64.Aff3 {
	c := t.centre()
	sin, cos := math.Sincos(t.Rotation * math.Pi / 180)
	return f64.Aff3{
		t.Zoom * cos, -t.Zoom * sin, -(cos*c.X - sin*c.Y) + c.X + t.Pan.X,
		t.Zoom * sin, t.Zoom * cos, -(sin*c.X + cos*c.Y) + c.Y + t.Pan.Y,
	}
}

// ZoomPercent is the zoom level rounded for display.
func (t Transform) ZoomPercent() int {
	return int(math.Round(t.Zoom * 100))
}

// Viewport is the mutable view state of one document.
type Viewport struct {
	zoom             float64
	pan              Point
	rotation         float64
	canvasW, canvasH int
	viewW, viewH     int
}

// New returns a viewport at zoom 1 with no pan or rotation.
func New(canvasW, canvasH int) *Viewport {
	return &Viewport{zoom: 1, canvasW: canvasW, canvasH: canvasH}
}

// Snapshot returns the current state as one consistent value.
func (v *Viewport) Snapshot() Transform {
	return Transform{Zoom: v.zoom, Pan: v.pan, Rotation: v.rotation, CanvasW: v.canvasW, CanvasH: v.canvasH}
}

func (v *Viewport) Zoom() float64     { return v.zoom }
func (v *Viewport) Pan() Point        { return v.pan }
func (v *Viewport) Rotation() float64 { return v.rotation }

// ContainerSize returns the on-screen area the canvas is shown in.
func (v *Viewport) ContainerSize() (int, int) { return v.viewW, v.viewH }

// SetContainerSize records the on-screen area size.
func (v *Viewport) SetContainerSize(w, h int) {
	v.viewW, v.viewH = w, h
}

// SetCanvasSize records the canvas dimensions.
func (v *Viewport) SetCanvasSize(w, h int) {
	v.canvasW, v.canvasH = w, h
}

// SetZoom sets the zoom level, clamped.
func (v *Viewport) SetZoom(z float64) {
	v.zoom = clampZoom(z)
}

// AdjustZoom changes the zoom by delta and moves the pan so the pivot, in
// screen coordinates, stays over the same canvas point.
func (v *Viewport) AdjustZoom(delta float64, pivot Point) {
	old := v.zoom
	nz := clampZoom(old + delta)
	v.zoom = nz
	v.pan = Point{
		pivot.X - (pivot.X-v.pan.X)/old*nz,
		pivot.Y - (pivot.Y-v.pan.Y)/old*nz,
	}
}

// PanBy moves the canvas by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.pan.X += dx
	v.pan.Y += dy
}

// SetPan places the canvas origin.
func (v *Viewport) SetPan(p Point) { v.pan = p }

// SetRotation sets the rotation in degrees.
func (v *Viewport) SetRotation(deg float64) {
	v.rotation = deg
}

// ZoomToFit scales the canvas to 95% of the container and centres it. It
// does nothing while either size is unknown.
func (v *Viewport) ZoomToFit() {
	if v.viewW <= 0 || v.viewH <= 0 || v.canvasW <= 0 || v.canvasH <= 0 {
		return
	}
	cw, ch := float64(v.canvasW), float64(v.canvasH)
	z := clampZoom(math.Min(float64(v.viewW)/cw, float64(v.viewH)/ch) * fitMargin)
	v.zoom = z
	v.pan = Point{(float64(v.viewW) - cw*z) / 2, (float64(v.viewH) - ch*z) / 2}
}

// Reset fits the canvas and clears the rotation.
func (v *Viewport) Reset() {
	v.ZoomToFit()
	v.rotation = 0
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
