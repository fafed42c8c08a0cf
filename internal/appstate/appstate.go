package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/darrow/internal/document"
	"github.com/example/darrow/internal/raster"
	"github.com/example/darrow/internal/theme"
)

// ProgramTitle is the window title.
const ProgramTitle = "Darrow"

const (
	statusHeight = 24
	buttonHeight = 24
	swatchSize   = 16
	sizeRowH     = 16
)

var toolbarWidth = 80

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// messageDuration is how long a status message stays on screen.
const messageDuration = 2 * time.Second

var (
	palette = []color.NRGBA{
		{0, 0, 0, 255},       // black
		{255, 255, 255, 255}, // white
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 0, 255},
		{0, 255, 255, 255},
		{255, 0, 255, 255},
		{128, 0, 0, 255},
		{0, 128, 0, 255},
		{0, 0, 128, 255},
		{128, 128, 0, 255},
		{0, 128, 128, 255},
		{128, 0, 128, 255},
		{192, 192, 192, 255},
		{128, 128, 128, 255},
	}
	paletteNames = []string{
		"Black", "White", "Red", "Lime", "Blue", "Yellow", "Cyan", "Magenta",
		"Maroon", "Green", "Navy", "Olive", "Teal", "Purple", "Silver", "Gray",
	}
)

// brushSizes are the presets offered in the toolbar and stepped through
// with [ and ].
var brushSizes = []float64{1, 3, 5, 10, 20, 40, 80}

// colorName returns the palette name of c, or its hex form.
func colorName(c color.NRGBA) string {
	for i, p := range palette {
		if p == c {
			return paletteNames[i]
		}
	}
	return theme.Hex(c)
}

// nextSize returns the preset after (dir > 0) or before (dir < 0) the
// current size.
func nextSize(current float64, dir int) float64 {
	if dir > 0 {
		for _, s := range brushSizes {
			if s > current {
				return s
			}
		}
		return brushSizes[len(brushSizes)-1]
	}
	for i := len(brushSizes) - 1; i >= 0; i-- {
		if brushSizes[i] < current {
			return brushSizes[i]
		}
	}
	return brushSizes[0]
}

var (
	messageOnce sync.Once
	messageFace font.Face
)

func messageFont() font.Face {
	messageOnce.Do(func() {
		messageFace = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("parse font: %v", err)
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Printf("font face: %v", err)
			return
		}
		messageFace = face
	})
	return messageFace
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState, th *theme.Theme)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
// The cache is dropped when the rectangle or the theme changes.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
	theme *theme.Theme
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	if cb.theme != th {
		cb.cache = [3]*image.RGBA{}
		cb.theme = th
	}
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state, th)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// buttonFill shades the toolbar background for hover and press.
func buttonFill(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StatePressed:
		return th.ToolActive
	case StateHover:
		return mix(th.ToolbarBackground, th.ToolActive)
	}
	return th.ToolbarBackground
}

// mix returns the midpoint of two colours.
func mix(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8((uint16(a.R) + uint16(b.R)) / 2),
		G: uint8((uint16(a.G) + uint16(b.G)) / 2),
		B: uint8((uint16(a.B) + uint16(b.B)) / 2),
		A: uint8((uint16(a.A) + uint16(b.A)) / 2),
	}
}

// Shortcut is a clickable label in the status bar.
type Shortcut struct {
	label  string
	action string
	rect   image.Rectangle
	// onActivate is called when the label is clicked.
	onActivate func()
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	draw.Draw(dst, s.rect, image.NewUniform(buttonFill(th, state)), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ToolbarText), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

func (s *Shortcut) Rect() image.Rectangle { return s.rect }

func (s *Shortcut) SetRect(r image.Rectangle) { s.rect = r }

func (s *Shortcut) Activate() {
	if s.onActivate != nil {
		s.onActivate()
	}
}

// ToolButton represents a toolbar button that selects a painting tool.
type ToolButton struct {
	label string
	tool  document.Tool
	keys  shortcutList
	rect  image.Rectangle
	// onSelect is called when the button is activated.
	onSelect func()
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	draw.Draw(dst, tb.rect, image.NewUniform(buttonFill(th, state)), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ToolbarText), Face: basicfont.Face7x13,
		Dot: fixed.P(tb.rect.Min.X+4, tb.rect.Min.Y+16)}
	d.DrawString(tb.label)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect()
	}
}

// KeyboardShortcuts implements KeyboardShortcuts.
func (tb *ToolButton) KeyboardShortcuts() []KeyShortcut { return tb.keys }

// statusShortcuts are the status bar labels, left to right, and the
// actions they trigger.
var statusShortcuts = []Shortcut{
	{label: "^Z:undo", action: "undo"},
	{label: "^Y:redo", action: "redo"},
	{label: "^N:layer", action: "layer"},
	{label: "^V:paste", action: "paste"},
	{label: "^C:copy", action: "copy"},
	{label: "^S:save", action: "save"},
	{label: "G:grid", action: "grid"},
	{label: "0:fit", action: "fit"},
	{label: "Q:quit", action: "quit"},
}

// layout holds the screen rectangles of every window region. It is
// recomputed on resize and shared by drawing and hit testing.
type layout struct {
	width, height int
	tools         []image.Rectangle
	swatches      []image.Rectangle
	sizes         []image.Rectangle
	shortcuts     []image.Rectangle
	canvas        image.Rectangle
	status        image.Rectangle
}

func computeLayout(width, height, tools int) layout {
	l := layout{width: width, height: height}
	y := 0
	for range tools {
		l.tools = append(l.tools, image.Rect(0, y, toolbarWidth, y+buttonHeight))
		y += buttonHeight
	}

	y += 4
	x := 4
	for range palette {
		l.swatches = append(l.swatches, image.Rect(x, y, x+swatchSize, y+swatchSize))
		x += swatchSize + 2
		if x+swatchSize > toolbarWidth {
			x = 4
			y += swatchSize + 2
		}
	}
	if x != 4 {
		y += swatchSize + 2
	}

	y += 4
	for range brushSizes {
		l.sizes = append(l.sizes, image.Rect(0, y, toolbarWidth, y+sizeRowH))
		y += sizeRowH
	}

	l.status = image.Rect(0, height-statusHeight, width, height)
	l.canvas = image.Rect(toolbarWidth, 0, width, height-statusHeight)
	if l.canvas.Empty() {
		l.canvas = image.Rectangle{Min: l.canvas.Min, Max: l.canvas.Min}
	}

	meas := &font.Drawer{Face: basicfont.Face7x13}
	x = 4
	sy := height - statusHeight + 2
	for _, sc := range statusShortcuts {
		w := meas.MeasureString(sc.label).Ceil()
		l.shortcuts = append(l.shortcuts, image.Rect(x, sy, x+w+4, sy+18))
		x += w + 12
	}
	return l
}

// hit returns the index of the rectangle containing p, or -1.
func hit(rects []image.Rectangle, p image.Point) int {
	for i, r := range rects {
		if p.In(r) {
			return i
		}
	}
	return -1
}

// paintState is a snapshot of everything the paint goroutine draws. The
// canvas image is rendered on the event loop and owned by the state.
type paintState struct {
	layout    layout
	theme     *theme.Theme
	canvas    *image.RGBA
	tools     []*CacheButton
	shortcuts []*Shortcut
	tool      document.Tool
	color     color.NRGBA
	size      float64
	info      string
	hover     hoverState
	message   string
	until     time.Time
}

type hoverState struct {
	tool, swatch, size, shortcut int
}

var noHover = hoverState{tool: -1, swatch: -1, size: -1, shortcut: -1}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.layout.width, st.layout.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	if !drawScene(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// drawScene draws the whole window into dst and reports whether it
// finished before ctx was cancelled.
func drawScene(ctx context.Context, dst *image.RGBA, st paintState) bool {
	th := st.theme
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	if st.canvas != nil {
		draw.Draw(dst, st.layout.canvas, st.canvas, image.Point{}, draw.Src)
	}
	if ctx.Err() != nil {
		return false
	}

	drawToolbar(dst, st)
	drawStatus(dst, st)
	if ctx.Err() != nil {
		return false
	}

	if st.message != "" && time.Now().Before(st.until) {
		drawMessage(dst, st.layout.canvas, st.message, th)
	}
	return ctx.Err() == nil
}

func drawToolbar(dst *image.RGBA, st paintState) {
	th := st.theme
	for i, cb := range st.tools {
		if i >= len(st.layout.tools) {
			break
		}
		cb.SetRect(st.layout.tools[i])
		tb := cb.Button.(*ToolButton)
		state := StateDefault
		if tb.tool == st.tool {
			state = StatePressed
		} else if i == st.hover.tool {
			state = StateHover
		}
		cb.Draw(dst, state, th)
	}

	for i, r := range st.layout.swatches {
		p := palette[i]
		draw.Draw(dst, r, image.NewUniform(p), image.Point{}, draw.Src)
		if i == st.hover.swatch {
			draw.Draw(dst, r, image.NewUniform(color.RGBA{255, 255, 255, 80}), image.Point{}, draw.Over)
		}
		if p == st.color {
			drawRect(dst, r, th.ToolActive, 2)
		} else {
			drawRect(dst, r, th.ToolbarText, 1)
		}
	}

	for i, r := range st.layout.sizes {
		s := brushSizes[i]
		state := StateDefault
		if s == st.size {
			state = StatePressed
		} else if i == st.hover.size {
			state = StateHover
		}
		draw.Draw(dst, r, image.NewUniform(buttonFill(th, state)), image.Point{}, draw.Src)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ToolbarText), Face: basicfont.Face7x13,
			Dot: fixed.P(r.Min.X+4, r.Min.Y+12)}
		d.DrawString(fmt.Sprintf("%g", s))
		thick := min(s, float64(sizeRowH-4))
		lineY := float64(r.Min.Y) + float64(sizeRowH)/2
		raster.Fill(dst, raster.Line(float64(r.Min.X+30), lineY, float64(r.Max.X-4), lineY, thick), st.color)
	}
}

func drawStatus(dst *image.RGBA, st paintState) {
	th := st.theme
	draw.Draw(dst, st.layout.status, image.NewUniform(th.Status), image.Point{}, draw.Src)
	for i, sc := range st.shortcuts {
		if i >= len(st.layout.shortcuts) {
			break
		}
		sc.SetRect(st.layout.shortcuts[i])
		state := StateDefault
		if i == st.hover.shortcut {
			state = StateHover
		}
		sc.Draw(dst, state, th)
	}
	if st.info == "" {
		return
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ToolbarText), Face: basicfont.Face7x13}
	w := d.MeasureString(st.info).Ceil()
	x := st.layout.width - w - 8
	if n := len(st.layout.shortcuts); n > 0 && x < st.layout.shortcuts[n-1].Max.X+8 {
		return
	}
	d.Dot = fixed.P(x, st.layout.height-statusHeight+16)
	d.DrawString(st.info)
}

func drawMessage(dst *image.RGBA, area image.Rectangle, msg string, th *theme.Theme) {
	face := messageFont()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ToolbarText), Face: face}
	wmsg := d.MeasureString(msg).Ceil()
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	px := area.Min.X + (area.Dx()-wmsg)/2
	py := area.Min.Y + (area.Dy()-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	drawRect(dst, rect, th.ToolbarText, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
