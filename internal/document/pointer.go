package document

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/example/darrow/internal/brush"
	"github.com/example/darrow/internal/paint"
	"github.com/example/darrow/internal/render"
	"github.com/example/darrow/internal/viewport"
)

const (
	// zoomStep is the zoom change of one zoom tool click.
	zoomStep = 0.25
	// wheelScale converts wheel deltas to zoom deltas.
	wheelScale = -0.001
	// mousePressure is the pressure reported for devices without one.
	mousePressure = 0.5
)

// Button identifies the pointer button of a press.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Pointer is one pointer sample in screen coordinates.
type Pointer struct {
	X, Y float64
	// Pressure is only used when Pen is set; other devices paint at 0.5.
	Pressure float64
	Pen      bool
	Button   Button
	Alt      bool
}

func (p Pointer) screen() viewport.Point { return viewport.Point{X: p.X, Y: p.Y} }

func (p Pointer) pressure() float64 {
	if p.Pen {
		return p.Pressure
	}
	return mousePressure
}

type strokeState struct {
	drawing bool
	panning bool
	layerID int
	last    paint.Point
	lastPan viewport.Point
	sym     paint.Symmetry
	stroke  *paint.Stroke
	stab    *paint.Stabilizer
	moved   bool
	dabs    int
}

// PointerDown starts a stroke, a pan or a one-shot tool action.
func (d *Document) PointerDown(e Pointer) {
	d.cursor = e.screen()
	d.cursorShow = true
	defer d.changed()

	if e.Button == ButtonMiddle || d.spaceHeld || d.tool == ToolPan {
		d.stroke.panning = true
		d.stroke.lastPan = e.screen()
		return
	}
	switch d.tool {
	case ToolZoom:
		delta := zoomStep
		if e.Alt {
			delta = -zoomStep
		}
		d.view.AdjustZoom(delta, e.screen())
		return
	case ToolEyedropper:
		d.pick(e.screen())
		return
	case ToolBrush, ToolEraser:
	default:
		return
	}

	id, ok := d.paintable()
	if !ok {
		return
	}
	p := d.canvasPoint(e)
	st := strokeState{drawing: true, layerID: id, last: p, sym: d.mirror()}
	if d.tool == ToolBrush {
		b := d.ActiveBrush()
		st.stab = paint.NewStabilizer(b.Stabilization.Amount)
		st.stab.Reset(p)
		st.stroke = d.painter.NewStroke(d.seeds.Uint64(), p, d.color, d.size, b)
	}
	d.stroke = st
}

// PointerMove extends the current stroke or pan and moves the cursor ring.
func (d *Document) PointerMove(e Pointer) {
	d.cursor = e.screen()
	d.cursorShow = true
	defer d.changed()

	st := &d.stroke
	if st.panning {
		s := e.screen()
		d.view.PanBy(s.X-st.lastPan.X, s.Y-st.lastPan.Y)
		st.lastPan = s
		return
	}
	if !st.drawing {
		return
	}
	buf := d.store.Buffer(st.layerID)
	if buf == nil {
		d.stroke = strokeState{}
		return
	}
	p := d.canvasPoint(e)
	if st.stroke != nil {
		p = st.stab.Next(p)
		st.dabs += d.painter.Extend(buf, st.stroke, p, st.sym)
		st.moved = true
	} else {
		for _, seg := range st.sym.Segments(st.last, p) {
			st.dabs += paint.Erase(buf, seg[0], seg[1], d.size, d.eraser == EraserSoft)
		}
	}
	st.last = p
}

// PointerUp finishes the stroke at the release point and commits it to
// history.
func (d *Document) PointerUp(e Pointer) {
	d.catchUp(e)
	d.endStroke()
	d.changed()
}

// catchUp paints the gap a stabilized stroke still trails behind the
// release point. The pressure of the last sample carries over.
func (d *Document) catchUp(e Pointer) {
	st := &d.stroke
	if !st.drawing || st.stroke == nil || !st.moved {
		return
	}
	buf := d.store.Buffer(st.layerID)
	if buf == nil {
		return
	}
	p := d.canvasPoint(e)
	if p.X == st.last.X && p.Y == st.last.Y {
		return
	}
	p.Pressure = st.last.Pressure
	st.dabs += d.painter.Extend(buf, st.stroke, p, st.sym)
	st.last = p
}

// PointerLeave hides the cursor ring and ends any stroke or pan.
func (d *Document) PointerLeave() {
	d.cursorShow = false
	d.endStroke()
	d.changed()
}

// Wheel zooms about the pointer. Positive dy zooms out.
func (d *Document) Wheel(at viewport.Point, dy float64) {
	d.view.AdjustZoom(dy*wheelScale, at)
	d.changed()
}

func (d *Document) endStroke() {
	st := d.stroke
	d.stroke = strokeState{}
	if !st.drawing {
		return
	}
	buf := d.store.Buffer(st.layerID)
	if buf == nil {
		return
	}
	if st.stroke != nil && st.stroke.Tapered() {
		if base := d.history.Current(st.layerID); base != nil && base.Rect == buf.Rect {
			copy(buf.Pix, base.Pix)
			st.dabs = d.painter.Replay(buf, st.stroke, st.sym)
		}
	}
	d.history.Commit(st.layerID, buf)
	d.log().Debug("stroke committed", "layer", st.layerID, "dabs", st.dabs)
}

// paintable returns the active layer when it exists and is visible.
func (d *Document) paintable() (int, bool) {
	l, ok := d.store.Active()
	if !ok || !l.Visible {
		return 0, false
	}
	return l.ID, true
}

func (d *Document) canvasPoint(e Pointer) paint.Point {
	c := d.view.Snapshot().ScreenToCanvas(e.screen())
	return paint.Point{X: c.X, Y: c.Y, Pressure: e.pressure()}
}

// ActiveBrush returns a copy of the selected brush, falling back to the
// default brush when the selection has gone away.
func (d *Document) ActiveBrush() *brush.Brush {
	if b, err := d.library.Get(d.brushID); err == nil {
		return b
	}
	b, _ := brush.Builtin(brush.DefaultID)
	return b
}

// pick samples the flattened canvas under a screen point and adopts it as
// the brush colour. Transparent pixels leave the colour alone.
func (d *Document) pick(at viewport.Point) {
	c := d.view.Snapshot().ScreenToCanvas(at)
	x, y := int(math.Floor(c.X)), int(math.Floor(c.Y))
	if !(image.Point{x, y}).In(d.store.Bounds()) {
		return
	}
	flat := render.Flatten(d.flattenSources())
	px := flat.RGBAAt(x, y)
	cf, ok := colorful.MakeColor(px)
	if !ok {
		return
	}
	r, g, b := cf.RGB255()
	d.color = color.NRGBA{R: r, G: g, B: b, A: 0xff}
	d.log().Debug("eyedropper", "at", image.Pt(x, y), "color", cf.Hex())
}

// Sample returns the flattened colour at a canvas pixel.
func (d *Document) Sample(x, y int) (color.NRGBA, bool) {
	if !(image.Point{x, y}).In(d.store.Bounds()) {
		return color.NRGBA{}, false
	}
	flat := render.Flatten(d.flattenSources())
	return color.NRGBAModel.Convert(flat.RGBAAt(x, y)).(color.NRGBA), true
}
