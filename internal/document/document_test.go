package document

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/darrow/internal/brush"
	"github.com/example/darrow/internal/imageio"
	"github.com/example/darrow/internal/layer"
	"github.com/example/darrow/internal/paint"
	"github.com/example/darrow/internal/texture"
	"github.com/example/darrow/internal/viewport"
)

var white = color.RGBA{0xff, 0xff, 0xff, 0xff}

func newDoc(t *testing.T, w, h int, bg color.Color) *Document {
	t.Helper()
	d, err := New(w, h, bg,
		WithTextures(texture.NewCache(texture.Synchronous())),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)
	require.NoError(t, err)
	return d
}

func pen(x, y float64) Pointer {
	return Pointer{X: x, Y: y, Pressure: 1, Pen: true, Button: ButtonLeft}
}

func drag(d *Document, pts ...Pointer) {
	d.PointerDown(pts[0])
	for _, p := range pts[1:] {
		d.PointerMove(p)
	}
	d.PointerUp(pts[len(pts)-1])
}

func inked(img *image.RGBA) (n int, bounds image.Rectangle) {
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			if img.RGBAAt(x, y).A == 0 {
				continue
			}
			n++
			bounds = bounds.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return n, bounds
}

func TestNewCanvasScenario(t *testing.T) {
	d := newDoc(t, 800, 600, white)

	layers := d.Layers()
	require.Len(t, layers, 1)
	bg := layers[0]
	assert.Equal(t, "Background", bg.Name)
	active, ok := d.ActiveLayer()
	require.True(t, ok)
	assert.Equal(t, bg.ID, active.ID)
	assert.Equal(t, 1, d.HistoryDepth(bg.ID))

	drag(d, pen(100, 100), pen(100, 300))
	buf := d.Buffer(bg.ID)
	n, b := inked(buf)
	require.NotZero(t, n)
	assert.True(t, b.In(image.Rect(88, 88, 113, 313)), "ink outside corridor: %v", b)
	for y := 100; y <= 300; y += 2 {
		assert.NotZero(t, buf.RGBAAt(100, y).A, "gap at y=%d", y)
	}
	assert.Equal(t, 2, d.HistoryDepth(bg.ID))

	require.True(t, d.Undo())
	n, _ = inked(buf)
	assert.Zero(t, n, "undo restores the blank snapshot")
	assert.False(t, d.Undo())

	err := d.DeleteLayer(bg.ID)
	assert.ErrorIs(t, err, layer.ErrLastLayer)
	assert.Len(t, d.Layers(), 1)
}

func TestNewCanvasValidation(t *testing.T) {
	_, err := New(0, 10, nil)
	assert.ErrorIs(t, err, layer.ErrInvalidSize)

	d := newDoc(t, 10, 10, nil)
	d.AddLayer("")
	err = d.NewCanvas(9000, 10, nil)
	assert.ErrorIs(t, err, layer.ErrInvalidSize)
	assert.Len(t, d.Layers(), 2, "rejected before mutating")

	require.NoError(t, d.NewCanvas(20, 30, white))
	w, h := d.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 30, h)
	require.Len(t, d.Layers(), 1)
	assert.Equal(t, 1, d.Layers()[0].ID, "ids restart")
}

func TestPointerDownAloneDoesNotPaint(t *testing.T) {
	d := newDoc(t, 50, 50, nil)
	id := d.Layers()[0].ID
	d.PointerDown(pen(25, 25))
	n, _ := inked(d.Buffer(id))
	assert.Zero(t, n)
	d.PointerUp(pen(25, 25))
	assert.Equal(t, 2, d.HistoryDepth(id))
}

func TestStabilizedStrokeReachesReleasePoint(t *testing.T) {
	d := newDoc(t, 40, 20, nil)
	b := d.Library().New("steady")
	b.Stabilization.Amount = 80
	require.NoError(t, d.SaveBrush(b))
	require.NoError(t, d.SelectBrush(b.ID))
	d.SetBrushSize(4)
	id := d.Layers()[0].ID

	d.PointerDown(pen(5, 10))
	d.PointerMove(pen(35, 10))
	_, lagging := inked(d.Buffer(id))
	assert.Less(t, lagging.Max.X, 20, "smoothed point trails the pointer")

	d.PointerUp(pen(35, 10))
	_, bounds := inked(d.Buffer(id))
	assert.GreaterOrEqual(t, bounds.Max.X, 35)
	assert.Equal(t, 2, d.HistoryDepth(id))
}

func TestHiddenLayerIsNotPainted(t *testing.T) {
	d := newDoc(t, 50, 50, nil)
	id := d.Layers()[0].ID
	require.NoError(t, d.SetLayerVisible(id, false))
	drag(d, pen(10, 10), pen(40, 40))
	n, _ := inked(d.Buffer(id))
	assert.Zero(t, n)
	assert.Equal(t, 1, d.HistoryDepth(id))
}

func TestEraserTool(t *testing.T) {
	d := newDoc(t, 60, 60, nil)
	id := d.Layers()[0].ID
	drag(d, pen(10, 30), pen(50, 30))
	before, _ := inked(d.Buffer(id))
	require.NotZero(t, before)

	d.SetTool(ToolEraser)
	d.SetBrushSize(30)
	drag(d, pen(10, 30), pen(50, 30))
	after, _ := inked(d.Buffer(id))
	assert.Less(t, after, before)
	assert.Zero(t, d.Buffer(id).RGBAAt(30, 30).A)
	assert.Equal(t, 3, d.HistoryDepth(id))
}

func TestSymmetryMirrorsStroke(t *testing.T) {
	d := newDoc(t, 100, 100, nil)
	id := d.Layers()[0].ID
	d.SetSymmetry(paint.SymmetryVertical, 0)
	drag(d, pen(10, 10), pen(10, 50))
	buf := d.Buffer(id)
	assert.NotZero(t, buf.RGBAAt(10, 30).A)
	assert.NotZero(t, buf.RGBAAt(90, 30).A)
}

func TestTaperedStrokeReplaysOnCommit(t *testing.T) {
	d := newDoc(t, 300, 60, nil)
	id := d.Layers()[0].ID
	b := d.Library().New("tapered")
	b.Taper = brush.Taper{Start: 30, End: 30, Amount: 100}
	b.Stabilization.Amount = 0
	b.Dynamics.PressureSize = false
	require.NoError(t, d.SaveBrush(b))
	require.NoError(t, d.SelectBrush(b.ID))

	drag(d, pen(20, 30), pen(280, 30))
	buf := d.Buffer(id)
	assert.NotZero(t, buf.RGBAAt(150, 38).A, "full width in the middle")
	assert.Zero(t, buf.RGBAAt(22, 38).A, "thin near the start")
}

func TestPanTools(t *testing.T) {
	d := newDoc(t, 100, 100, nil)
	id := d.Layers()[0].ID

	d.SetTool(ToolPan)
	drag(d, pen(0, 0), pen(15, -5))
	assert.Equal(t, viewport.Point{X: 15, Y: -5}, d.Viewport().Pan())

	d.SetTool(ToolBrush)
	d.SetSpaceHeld(true)
	drag(d, pen(0, 0), pen(5, 5))
	d.SetSpaceHeld(false)
	mid := Pointer{X: 0, Y: 0, Button: ButtonMiddle}
	d.PointerDown(mid)
	d.PointerMove(Pointer{X: 10, Y: 0})
	assert.False(t, d.Frame().Cursor.Visible, "cursor hidden while panning")
	d.PointerUp(mid)
	assert.Equal(t, viewport.Point{X: 30, Y: 0}, d.Viewport().Pan())

	n, _ := inked(d.Buffer(id))
	assert.Zero(t, n)
}

func TestZoomToolAndWheel(t *testing.T) {
	d := newDoc(t, 100, 100, nil)
	pivot := viewport.Point{X: 40, Y: 60}
	before := d.Viewport().Snapshot().ScreenToCanvas(pivot)

	d.SetTool(ToolZoom)
	d.PointerDown(Pointer{X: pivot.X, Y: pivot.Y, Button: ButtonLeft})
	d.PointerUp(Pointer{})
	assert.InDelta(t, 1.25, d.Viewport().Zoom(), 1e-9)
	d.PointerDown(Pointer{X: pivot.X, Y: pivot.Y, Button: ButtonLeft, Alt: true})
	assert.InDelta(t, 1.0, d.Viewport().Zoom(), 1e-9)

	d.Wheel(pivot, -500)
	assert.InDelta(t, 1.5, d.Viewport().Zoom(), 1e-9)
	after := d.Viewport().Snapshot().ScreenToCanvas(pivot)
	assert.InDelta(t, before.X, after.X, 1e-6)
	assert.InDelta(t, before.Y, after.Y, 1e-6)
	assert.Equal(t, 150, d.ZoomPercent())
}

func TestEyedropper(t *testing.T) {
	d := newDoc(t, 10, 10, color.RGBA{0x20, 0x40, 0x60, 0xff})
	d.SetTool(ToolEyedropper)
	d.PointerDown(Pointer{X: 3, Y: 3, Button: ButtonLeft})
	assert.Equal(t, color.NRGBA{0x20, 0x40, 0x60, 0xff}, d.Color())

	d.SetColor(DefaultColor)
	d.PointerDown(Pointer{X: 30, Y: 3, Button: ButtonLeft})
	assert.Equal(t, DefaultColor, d.Color(), "outside the canvas")
}

func TestLayerOperations(t *testing.T) {
	d := newDoc(t, 20, 20, nil)
	bg := d.Layers()[0].ID
	l2 := d.AddLayer("")
	assert.Equal(t, "Layer 2", l2.Name)
	assert.Equal(t, 1, d.HistoryDepth(l2.ID))

	require.NoError(t, d.RenameLayer(l2.ID, "ink"))
	require.NoError(t, d.SetLayerOpacity(l2.ID, 2))
	require.NoError(t, d.SetLayerBlendMode(l2.ID, layer.Multiply))
	require.NoError(t, d.ToggleLayerVisible(l2.ID))
	got, _ := d.ActiveLayer()
	assert.Equal(t, "ink", got.Name)
	assert.Equal(t, 1.0, got.Opacity)
	assert.Equal(t, layer.Multiply, got.Blend)
	assert.False(t, got.Visible)

	assert.True(t, d.MoveLayerDown(l2.ID))
	assert.False(t, d.MoveLayerDown(l2.ID))
	assert.Equal(t, bg, d.Layers()[0].ID)

	require.NoError(t, d.DeleteLayer(l2.ID))
	assert.Zero(t, d.HistoryDepth(l2.ID))
	active, _ := d.ActiveLayer()
	assert.Equal(t, bg, active.ID)

	err := d.DeleteLayer(99)
	assert.ErrorIs(t, err, layer.ErrNotFound)
}

func TestClearActiveCommits(t *testing.T) {
	d := newDoc(t, 40, 40, nil)
	id := d.Layers()[0].ID
	drag(d, pen(5, 20), pen(35, 20))
	require.NoError(t, d.ClearActive())
	n, _ := inked(d.Buffer(id))
	assert.Zero(t, n)
	assert.Equal(t, 3, d.HistoryDepth(id))
	require.True(t, d.Undo())
	n, _ = inked(d.Buffer(id))
	assert.NotZero(t, n)
}

func TestResizeReseedsHistory(t *testing.T) {
	d := newDoc(t, 10, 10, nil)
	id := d.Layers()[0].ID
	d.Buffer(id).SetRGBA(0, 0, white)
	require.NoError(t, d.Resize(20, 20, layer.BottomRight))
	assert.Equal(t, white, d.Buffer(id).RGBAAt(10, 10))
	assert.Equal(t, 1, d.HistoryDepth(id))
	assert.False(t, d.Undo())

	err := d.Resize(-1, 5, layer.Center)
	assert.ErrorIs(t, err, layer.ErrInvalidSize)
}

func TestImport(t *testing.T) {
	d := newDoc(t, 20, 20, nil)
	src := image.NewRGBA(image.Rect(5, 5, 9, 9))
	src.SetRGBA(5, 5, white)

	l, err := d.Import(src, "")
	require.NoError(t, err)
	assert.Equal(t, PastedName, l.Name)
	assert.Equal(t, white, d.Buffer(l.ID).RGBAAt(0, 0), "drawn at the origin")
	assert.Equal(t, 1, d.HistoryDepth(l.ID))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	path := filepath.Join(t.TempDir(), "sketch.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	l, err = d.ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sketch", l.Name)

	_, err = d.ImportData([]byte("not an image"))
	assert.True(t, errors.Is(err, imageio.ErrUnsupportedFormat))
	assert.Len(t, d.Layers(), 3)
}

func TestExport(t *testing.T) {
	d := newDoc(t, 30, 20, white)
	d.SetBrushSize(4)
	drag(d, pen(5, 10), pen(25, 10))

	flat := d.Flatten()
	assert.Equal(t, image.Rect(0, 0, 30, 20), flat.Rect)
	assert.Equal(t, white, flat.RGBAAt(15, 1), "outside the stroke corridor")
	assert.NotEqual(t, white, flat.RGBAAt(15, 10), "on the stroke")

	var buf bytes.Buffer
	require.NoError(t, d.Export(&buf, imageio.FormatPNG))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, flat.Rect.Size(), img.Bounds().Size())

	out, err := d.SaveFile(filepath.Join(t.TempDir(), "art.pdf"))
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestDeleteActiveBrushFallsBack(t *testing.T) {
	d := newDoc(t, 10, 10, nil)
	dup, err := d.DuplicateBrush(brush.Charcoal)
	require.NoError(t, err)
	require.NoError(t, d.SelectBrush(dup.ID))
	assert.Equal(t, dup.ID, d.ActiveBrush().ID)

	require.NoError(t, d.DeleteBrush(dup.ID))
	assert.Equal(t, brush.DefaultID, d.BrushID())
	assert.ErrorIs(t, d.DeleteBrush(brush.Round), brush.ErrBuiltin)
	assert.ErrorIs(t, d.SelectBrush("nope"), brush.ErrNotFound)
}

func TestRedrawsCoalesce(t *testing.T) {
	d := newDoc(t, 10, 10, nil)
	d.Flush()
	assert.False(t, d.Flush())

	d.SetBrushSize(5)
	d.AddLayer("a")
	d.ToggleGrid()
	assert.True(t, d.Flush())
	assert.False(t, d.Flush(), "one pending request at most")

	d.SetBrushSize(-1)
	assert.False(t, d.Flush(), "ignored sizes change nothing")
	assert.Equal(t, 5.0, d.BrushSize())
}

func TestFrameAndRender(t *testing.T) {
	d := newDoc(t, 40, 40, white)
	d.PointerMove(Pointer{X: 20, Y: 20})
	f := d.Frame()
	assert.True(t, f.Cursor.Visible)
	assert.Len(t, f.Layers, 1)

	d.SetTool(ToolEyedropper)
	assert.False(t, d.Frame().Cursor.Visible)
	d.SetTool(ToolBrush)
	d.PointerLeave()
	assert.False(t, d.Frame().Cursor.Visible)

	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	d.SetHUD(false)
	d.Render(dst)
	assert.Equal(t, white, dst.RGBAAt(5, 5))
}

func TestLoggerInstalledAfterNewReachesTextures(t *testing.T) {
	d, err := New(10, 10, nil)
	require.NoError(t, err)

	var logs bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	missing := texture.Ref(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, d.Textures().Preload(context.Background(), missing))
	assert.Contains(t, logs.String(), "texture load failed")
	assert.Contains(t, logs.String(), "doc="+d.ID())
}
