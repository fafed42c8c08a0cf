// Package document is the editing session: one canvas with its layers,
// history, view, brushes and tool state. Pointer handlers are the only way
// strokes reach a layer buffer. Every change requests a redraw through the
// document's Scheduler; the window drains it and renders a Frame.
//
// A Document is not safe for concurrent use. The window drives it from a
// single event loop.
package document

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/example/darrow/internal/brush"
	"github.com/example/darrow/internal/history"
	"github.com/example/darrow/internal/layer"
	"github.com/example/darrow/internal/paint"
	"github.com/example/darrow/internal/render"
	"github.com/example/darrow/internal/texture"
	"github.com/example/darrow/internal/viewport"
)

// ErrNoActiveLayer reports an operation that needs an active layer when
// there is none.
var ErrNoActiveLayer = errors.New("no active layer")

// Default tool settings for a new document.
const (
	DefaultSize = 20
)

// DefaultColor is the initial brush colour.
var DefaultColor = color.NRGBA{A: 0xff}

// Document owns all state of one canvas.
type Document struct {
	id string

	store    *layer.Store
	history  *history.Manager
	view     *viewport.Viewport
	textures *texture.Cache
	painter  *paint.Painter
	library  *brush.Library
	seeds    *rand.Rand
	sched    *Scheduler
	renderer *render.Renderer

	historyLimit int
	background   color.Color

	tool       Tool
	eraser     EraserKind
	brushID    string
	color      color.NRGBA
	size       float64
	grid       render.Grid
	symmetry   paint.SymmetryMode
	sectors    int
	hud        bool
	colors     render.Colors
	spaceHeld  bool
	cursor     viewport.Point
	cursorShow bool

	stroke strokeState
}

// Option configures a Document.
type Option func(*Document)

// WithTextures uses c for brush stamps instead of a background loading
// cache.
func WithTextures(c *texture.Cache) Option {
	return func(d *Document) { d.textures = c }
}

// WithLibrary shares an existing brush library.
func WithLibrary(l *brush.Library) Option {
	return func(d *Document) { d.library = l }
}

// WithHistoryLimit caps the snapshots kept per layer.
func WithHistoryLimit(n int) Option {
	return func(d *Document) { d.historyLimit = n }
}

// WithRand supplies the source of stroke seeds.
func WithRand(r *rand.Rand) Option {
	return func(d *Document) { d.seeds = r }
}

// WithColors sets the workspace colours.
func WithColors(c render.Colors) Option {
	return func(d *Document) { d.colors = c }
}

// New creates a document with a w×h canvas holding a single "Background"
// layer. A nil background is transparent.
func New(w, h int, background color.Color, opts ...Option) (*Document, error) {
	d := &Document{
		id:       uuid.NewString(),
		sched:    NewScheduler(),
		renderer: render.NewRenderer(),
		brushID:  brush.DefaultID,
		color:    DefaultColor,
		size:     DefaultSize,
		sectors:  paint.DefaultSectors,
		hud:      true,
		colors:   render.DefaultColors(),
		grid:     render.Grid{Size: render.DefaultGridSize, Color: color.RGBA{0xcc, 0xcc, 0xcc, 0xff}},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.library == nil {
		d.library = brush.NewLibrary()
	}
	if d.seeds == nil {
		d.seeds = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if d.textures == nil {
		d.textures = texture.NewCache(
			texture.WithLoggerFunc(d.log),
			texture.WithOnReady(func(texture.Ref) { d.sched.Request() }),
		)
	}
	d.history = history.New(d.historyLimit)
	d.painter = paint.NewPainter(d.textures, rand.New(rand.NewPCG(d.seeds.Uint64(), d.seeds.Uint64())))
	d.view = viewport.New(w, h)
	if err := d.NewCanvas(w, h, background); err != nil {
		return nil, err
	}
	return d, nil
}

// ID is the session id attached to log records.
func (d *Document) ID() string { return d.id }

func (d *Document) log() *slog.Logger {
	return Logger().With("doc", d.id)
}

// Scheduler returns the redraw scheduler.
func (d *Document) Scheduler() *Scheduler { return d.sched }

// Flush consumes a pending redraw request and reports whether there was
// one. Headless callers use it in place of rendering.
func (d *Document) Flush() bool { return d.sched.Take() }

func (d *Document) changed() {
	if !d.sched.Request() {
		d.log().Debug("redraw coalesced")
	}
}

// Textures returns the stamp cache.
func (d *Document) Textures() *texture.Cache { return d.textures }

// Library returns the brush library.
func (d *Document) Library() *brush.Library { return d.library }

// Viewport returns the view state. Callers that change it directly should
// follow up with RequestRedraw.
func (d *Document) Viewport() *viewport.Viewport { return d.view }

// RequestRedraw schedules a redraw.
func (d *Document) RequestRedraw() { d.changed() }

// Size returns the canvas dimensions.
func (d *Document) Size() (int, int) { return d.store.Size() }

// Background returns the canvas background, nil when transparent.
func (d *Document) Background() color.Color { return d.background }

// SetBackground changes the background colour. nil is transparent.
func (d *Document) SetBackground(c color.Color) {
	d.background = c
	d.changed()
}

// Tool returns the active tool.
func (d *Document) Tool() Tool { return d.tool }

// SetTool switches tools, ending any stroke in progress.
func (d *Document) SetTool(t Tool) {
	d.endStroke()
	d.tool = t
	d.changed()
}

// EraserKind returns the eraser falloff.
func (d *Document) EraserKind() EraserKind { return d.eraser }

// SetEraserKind selects the hard or soft eraser.
func (d *Document) SetEraserKind(k EraserKind) { d.eraser = k }

// Color returns the brush colour.
func (d *Document) Color() color.NRGBA { return d.color }

// SetColor sets the brush colour.
func (d *Document) SetColor(c color.NRGBA) { d.color = c }

// BrushSize returns the brush diameter in canvas pixels.
func (d *Document) BrushSize() float64 { return d.size }

// SetBrushSize sets the brush diameter. Non-positive sizes are ignored.
func (d *Document) SetBrushSize(size float64) {
	if !(size > 0) {
		return
	}
	d.size = size
	d.changed()
}

// Grid returns the grid overlay settings.
func (d *Document) Grid() render.Grid { return d.grid }

// SetGrid replaces the grid overlay settings.
func (d *Document) SetGrid(g render.Grid) {
	if g.Size <= 0 {
		g.Size = render.DefaultGridSize
	}
	d.grid = g
	d.changed()
}

// ToggleGrid flips grid visibility.
func (d *Document) ToggleGrid() {
	d.grid.Visible = !d.grid.Visible
	d.changed()
}

// HUD reports whether the zoom readout is shown.
func (d *Document) HUD() bool { return d.hud }

// SetHUD shows or hides the zoom readout.
func (d *Document) SetHUD(on bool) {
	d.hud = on
	d.changed()
}

// SetColors replaces the workspace colours.
func (d *Document) SetColors(c render.Colors) {
	d.colors = c
	d.changed()
}

// Symmetry returns the symmetry mode and radial sector count.
func (d *Document) Symmetry() (paint.SymmetryMode, int) { return d.symmetry, d.sectors }

// SetSymmetry sets the symmetry mode. sectors only matters for radial mode;
// values below 2 keep the current count.
func (d *Document) SetSymmetry(m paint.SymmetryMode, sectors int) {
	d.symmetry = m
	if sectors >= 2 {
		d.sectors = sectors
	}
}

func (d *Document) mirror() paint.Symmetry {
	w, h := d.store.Size()
	return paint.Symmetry{Mode: d.symmetry, Sectors: d.sectors, CX: float64(w) / 2, CY: float64(h) / 2}
}

// SetSpaceHeld records whether the space bar is down; while it is, a
// pointer drag pans.
func (d *Document) SetSpaceHeld(held bool) { d.spaceHeld = held }

// ZoomPercent is the zoom rounded to a whole percentage.
func (d *Document) ZoomPercent() int { return d.view.Snapshot().ZoomPercent() }

// SetContainerSize records the on-screen size of the canvas area.
func (d *Document) SetContainerSize(w, h int) {
	d.view.SetContainerSize(w, h)
	d.changed()
}

// ZoomToFit fits the canvas into the container.
func (d *Document) ZoomToFit() {
	d.view.ZoomToFit()
	d.changed()
}

// ResetView fits the canvas and clears the rotation.
func (d *Document) ResetView() {
	d.view.Reset()
	d.changed()
}

// SetRotation sets the view rotation in degrees.
func (d *Document) SetRotation(deg float64) {
	d.view.SetRotation(deg)
	d.changed()
}

// Frame assembles everything one redraw needs. The layer buffers are
// shared, not copied; the frame must be rendered before the next event.
func (d *Document) Frame() *render.Frame {
	_, _, sources, bg := d.flattenSources()
	return &render.Frame{
		Transform:  d.view.Snapshot(),
		Layers:     sources,
		Background: bg,
		Colors:     d.colors,
		Grid:       d.grid,
		Cursor: render.Cursor{
			Visible: d.cursorShow && d.tool.showsCursor() && !d.stroke.panning,
			At:      d.cursor,
			Size:    d.size,
		},
		HUD: d.hud,
	}
}

// Render draws the current frame into dst.
func (d *Document) Render(dst *image.RGBA) {
	d.renderer.Render(dst, d.Frame())
}
