package appstate

import (
	"errors"
	"fmt"
	"image"
	"log"
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/darrow/internal/clipboard"
	"github.com/example/darrow/internal/document"
	"github.com/example/darrow/internal/paint"
	"github.com/example/darrow/internal/viewport"
)

// wheelDelta is the scroll distance of one wheel notch, in the units
// Document.Wheel expects.
const wheelDelta = 100

// controller maps window events onto the document and the window chrome.
// It runs on the event loop only.
type controller struct {
	app *AppState
	doc *document.Document

	layout    layout
	tools     []*CacheButton
	shortcuts []*Shortcut
	hover     hoverState

	actions        map[string]func()
	keyboardAction map[KeyShortcut]string

	// pressed is set while a press that started on the canvas is held, so
	// drags leaving the canvas area still reach the document.
	pressed bool
	inside  bool
	quit    bool

	message string
	until   time.Time
}

func newController(a *AppState) *controller {
	c := &controller{
		app:            a,
		doc:            a.doc,
		hover:          noHover,
		actions:        map[string]func(){},
		keyboardAction: map[KeyShortcut]string{},
	}
	c.configureTools()
	c.configureActions()
	for _, sc := range statusShortcuts {
		s := &Shortcut{label: sc.label, action: sc.action}
		s.onActivate = func() { c.trigger(s.action) }
		c.shortcuts = append(c.shortcuts, s)
	}
	return c
}

func (c *controller) register(name string, keys KeyboardShortcuts, fn func()) {
	c.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			c.keyboardAction[sc] = name
		}
	}
}

// trigger runs the named action and requests a redraw.
func (c *controller) trigger(name string) {
	if fn, ok := c.actions[name]; ok {
		fn()
	}
	c.doc.RequestRedraw()
}

func (c *controller) configureTools() {
	c.tools = []*CacheButton{
		{Button: &ToolButton{label: "B:Brush", tool: document.ToolBrush, keys: shortcutList{{Rune: 'b'}}}},
		{Button: &ToolButton{label: "E:Erase", tool: document.ToolEraser, keys: shortcutList{{Rune: 'e'}}}},
		{Button: &ToolButton{label: "H:Pan", tool: document.ToolPan, keys: shortcutList{{Rune: 'h'}}}},
		{Button: &ToolButton{label: "Z:Zoom", tool: document.ToolZoom, keys: shortcutList{{Rune: 'z'}}}},
		{Button: &ToolButton{label: "I:Pick", tool: document.ToolEyedropper, keys: shortcutList{{Rune: 'i'}}}},
	}
	for _, cb := range c.tools {
		tb := cb.Button.(*ToolButton)
		tb.onSelect = func() { c.doc.SetTool(tb.tool) }
		c.register("tool:"+tb.tool.String(), tb, tb.onSelect)
	}
}

func (c *controller) configureActions() {
	doc := c.doc
	c.register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() {
		if !doc.Undo() {
			c.say("nothing to undo")
		}
	})
	c.register("redo", shortcutList{
		{Rune: 'y', Modifiers: key.ModControl},
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
	}, func() {
		if !doc.Redo() {
			c.say("nothing to redo")
		}
	})
	c.register("layer", shortcutList{{Rune: 'n', Modifiers: key.ModControl}}, func() {
		l := doc.AddLayer("")
		c.say("added " + l.Name)
	})
	c.register("clear", shortcutList{{Code: key.CodeDeleteForward}}, func() {
		if err := doc.ClearActive(); err != nil {
			log.Printf("clear: %v", err)
		}
	})
	c.register("layerup", shortcutList{{Code: key.CodePageUp}}, func() { c.stepLayer(-1) })
	c.register("layerdown", shortcutList{{Code: key.CodePageDown}}, func() { c.stepLayer(1) })
	c.register("visible", shortcutList{{Rune: 'v'}}, func() {
		if l, ok := doc.ActiveLayer(); ok {
			if err := doc.ToggleLayerVisible(l.ID); err != nil {
				log.Printf("visibility: %v", err)
			}
		}
	})
	c.register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, c.save)
	c.register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, c.copy)
	c.register("paste", shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, c.paste)
	c.register("grid", shortcutList{{Rune: 'g'}}, doc.ToggleGrid)
	c.register("fit", shortcutList{{Rune: '0'}}, doc.ResetView)
	c.register("smaller", shortcutList{{Rune: '['}}, func() { doc.SetBrushSize(nextSize(doc.BrushSize(), -1)) })
	c.register("bigger", shortcutList{{Rune: ']'}}, func() { doc.SetBrushSize(nextSize(doc.BrushSize(), 1)) })
	c.register("softeraser", shortcutList{{Rune: 'e', Modifiers: key.ModShift}}, func() {
		if doc.EraserKind() == document.EraserSoft {
			doc.SetEraserKind(document.EraserHard)
		} else {
			doc.SetEraserKind(document.EraserSoft)
		}
		c.say(doc.EraserKind().String() + " eraser")
	})
	c.register("symmetry", shortcutList{{Rune: 'm'}}, func() {
		mode, _ := doc.Symmetry()
		next := (mode + 1) % (paint.SymmetryRadial + 1)
		doc.SetSymmetry(next, 0)
		c.say("symmetry " + next.String())
	})
	c.register("hud", shortcutList{{Code: key.CodeF1}}, func() { doc.SetHUD(!doc.HUD()) })
	c.register("quit", shortcutList{{Rune: 'q'}}, func() { c.quit = true })
}

// stepLayer selects the layer dir steps down the list (top first).
func (c *controller) stepLayer(dir int) {
	layers := c.doc.Layers()
	active, ok := c.doc.ActiveLayer()
	if !ok {
		return
	}
	for i, l := range layers {
		if l.ID != active.ID {
			continue
		}
		j := i + dir
		if j < 0 || j >= len(layers) {
			return
		}
		if err := c.doc.SelectLayer(layers[j].ID); err != nil {
			log.Printf("select layer: %v", err)
			return
		}
		c.say("layer " + layers[j].Name)
		return
	}
}

func (c *controller) save() {
	path, err := c.doc.SaveFile(c.app.Output)
	if err != nil {
		log.Printf("save: %v", err)
		c.say("save failed")
		return
	}
	c.say("saved " + path)
	log.Print(c.message)
	c.app.notifier.Export(path)
}

func (c *controller) copy() {
	img := c.doc.Flatten()
	if err := clipboard.CopyImage(img); err != nil {
		log.Printf("copy: %v", err)
		c.say("copy failed")
		return
	}
	c.say("image copied to clipboard")
	log.Print(c.message)
	c.app.notifier.Copy("canvas", img)
}

func (c *controller) paste() {
	data, err := clipboard.PasteData()
	if errors.Is(err, clipboard.ErrEmpty) {
		c.say("clipboard has no image")
		return
	}
	if err != nil {
		log.Printf("paste: %v", err)
		return
	}
	l, err := c.doc.ImportData(data)
	if err != nil {
		log.Printf("paste: %v", err)
		c.say("paste failed")
		return
	}
	c.say("pasted " + l.Name)
	c.app.notifier.Import(l.Name)
}

func (c *controller) say(msg string) {
	c.message = msg
	c.until = time.Now().Add(messageDuration)
}

// resize lays the window out again and hands the canvas area to the
// document's viewport.
func (c *controller) resize(width, height int) {
	c.layout = computeLayout(width, height, len(c.tools))
	c.doc.SetContainerSize(c.layout.canvas.Dx(), c.layout.canvas.Dy())
}

func toButton(b mouse.Button) document.Button {
	switch b {
	case mouse.ButtonLeft:
		return document.ButtonLeft
	case mouse.ButtonMiddle:
		return document.ButtonMiddle
	case mouse.ButtonRight:
		return document.ButtonRight
	}
	return document.ButtonNone
}

// pointer converts a window position into canvas area coordinates.
func (c *controller) pointer(e mouse.Event) document.Pointer {
	return document.Pointer{
		X:      float64(e.X) - float64(c.layout.canvas.Min.X),
		Y:      float64(e.Y) - float64(c.layout.canvas.Min.Y),
		Button: toButton(e.Button),
		Alt:    e.Modifiers&key.ModAlt != 0,
	}
}

// handleMouse routes a mouse event and reports whether the chrome needs a
// redraw. Document changes schedule their own redraws.
func (c *controller) handleMouse(e mouse.Event) bool {
	p := image.Point{int(e.X), int(e.Y)}
	onCanvas := p.In(c.layout.canvas)

	if e.Button.IsWheel() {
		if e.Direction != mouse.DirStep || !onCanvas {
			return false
		}
		dy := float64(wheelDelta)
		if e.Button == mouse.ButtonWheelUp {
			dy = -dy
		}
		if e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown {
			pt := c.pointer(e)
			c.doc.Wheel(viewport.Point{X: pt.X, Y: pt.Y}, dy)
		}
		return false
	}

	if c.pressed || onCanvas {
		return c.canvasMouse(e, onCanvas)
	}
	if c.inside {
		c.inside = false
		c.doc.PointerLeave()
	}
	return c.chromeMouse(e, p)
}

func (c *controller) canvasMouse(e mouse.Event, onCanvas bool) bool {
	redraw := c.hover != noHover
	c.hover = noHover
	c.inside = onCanvas
	pt := c.pointer(e)
	switch e.Direction {
	case mouse.DirPress:
		if c.message != "" {
			c.until = time.Time{}
			redraw = true
		}
		c.pressed = true
		c.doc.PointerDown(pt)
	case mouse.DirRelease:
		c.pressed = false
		c.doc.PointerUp(pt)
	default:
		c.doc.PointerMove(pt)
	}
	return redraw
}

func (c *controller) chromeMouse(e mouse.Event, p image.Point) bool {
	prev := c.hover
	c.hover = hoverState{
		tool:     hit(c.layout.tools, p),
		swatch:   hit(c.layout.swatches, p),
		size:     hit(c.layout.sizes, p),
		shortcut: hit(c.layout.shortcuts, p),
	}
	if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
		switch {
		case c.hover.tool >= 0:
			c.tools[c.hover.tool].Activate()
		case c.hover.swatch >= 0:
			c.doc.SetColor(palette[c.hover.swatch])
		case c.hover.size >= 0:
			c.doc.SetBrushSize(brushSizes[c.hover.size])
		case c.hover.shortcut >= 0:
			c.shortcuts[c.hover.shortcut].Activate()
		}
		return true
	}
	return prev != c.hover
}

// shortcutsFor lists the lookups tried for a key press: by rune, then by
// key code. Letters pressed with control often arrive without a rune.
func shortcutsFor(e key.Event) []KeyShortcut {
	r := unicode.ToLower(e.Rune)
	if e.Code >= key.CodeA && e.Code <= key.CodeZ && (r < 'a' || r > 'z') {
		r = 'a' + rune(e.Code-key.CodeA)
	}
	mods := e.Modifiers &^ key.ModMeta
	out := []KeyShortcut{}
	if r > 0 {
		out = append(out, KeyShortcut{Rune: r, Modifiers: mods})
		if unicode.IsUpper(e.Rune) && mods&key.ModShift == 0 {
			out = append(out, KeyShortcut{Rune: r, Modifiers: mods | key.ModShift})
		}
	}
	return append(out, KeyShortcut{Code: e.Code, Modifiers: mods})
}

// handleKey routes a key event.
func (c *controller) handleKey(e key.Event) {
	if e.Code == key.CodeSpacebar {
		switch e.Direction {
		case key.DirPress:
			c.doc.SetSpaceHeld(true)
		case key.DirRelease:
			c.doc.SetSpaceHeld(false)
		}
		return
	}
	if e.Direction != key.DirPress {
		return
	}
	for _, ks := range shortcutsFor(e) {
		if action, ok := c.keyboardAction[ks]; ok {
			c.trigger(action)
			return
		}
	}
}

// state snapshots the chrome for the paint goroutine.
func (c *controller) state() paintState {
	doc := c.doc
	layerName := ""
	if l, ok := doc.ActiveLayer(); ok {
		layerName = l.Name
	}
	info := fmt.Sprintf("%s | %s %gpx %s | %s | %d%%",
		doc.Tool(), doc.ActiveBrush().Name, doc.BrushSize(), colorName(doc.Color()), layerName, doc.ZoomPercent())
	return paintState{
		layout:    c.layout,
		theme:     c.app.theme(),
		tools:     c.tools,
		shortcuts: c.shortcuts,
		tool:      doc.Tool(),
		color:     doc.Color(),
		size:      doc.BrushSize(),
		info:      info,
		hover:     c.hover,
		message:   c.message,
		until:     c.until,
	}
}
