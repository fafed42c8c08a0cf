// Package appstate is the interactive painting window. It maps shiny mouse,
// key and size events onto a document and draws the toolbar and status bar
// around the rendered canvas.
package appstate

import (
	"context"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/darrow/internal/document"
	"github.com/example/darrow/internal/notify"
	"github.com/example/darrow/internal/theme"
)

// AppState holds application configuration for the UI.
type AppState struct {
	// Output is the file ctrl+S writes to.
	Output string
	// LibraryPath is the custom brush file reloaded when it changes on disk.
	LibraryPath string

	doc      *document.Document
	notifier *notify.Notifier
	th       *theme.Theme

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithOutput sets the output file path used when saving.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithLibraryPath watches path and reloads the brush library when it changes.
func WithLibraryPath(path string) Option { return func(a *AppState) { a.LibraryPath = path } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.th = t } }

// WithNotifier sends desktop notifications for saves, copies and pastes.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState editing doc.
func New(doc *document.Document, opts ...Option) *AppState {
	a := &AppState{doc: doc}
	for _, o := range opts {
		o(a)
	}
	if a.th != nil {
		doc.SetColors(a.th.Colors())
	}
	return a
}

// Document returns the document being edited.
func (a *AppState) Document() *document.Document { return a.doc }

func (a *AppState) theme() *theme.Theme {
	if a.th == nil {
		a.th = theme.Default()
	}
	return a.th
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// libraryChanged is sent to the window when the brush file changes.
type libraryChanged struct{}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	c := newController(a)
	width, height := windowSize(a.doc.Size())
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: ProgramTitle})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	defer a.notifyClose()

	done := make(chan struct{})
	defer close(done)
	go func() {
		redraw := a.doc.Scheduler().C()
		for {
			select {
			case <-redraw:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	if a.LibraryPath != "" {
		go a.watchLibrary(done, func() { w.Send(libraryChanged{}) })
	}

	pool := newCanvasPool(2)
	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			pool.put(st.canvas)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	stopPainting := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	c.resize(width, height)
	a.doc.ZoomToFit()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPainting()
				return
			}
		case size.Event:
			if e.WidthPx == 0 || e.HeightPx == 0 {
				continue
			}
			c.resize(e.WidthPx, e.HeightPx)
		case libraryChanged:
			if err := a.doc.Library().LoadFile(a.LibraryPath); err != nil {
				log.Printf("reload brushes: %v", err)
				continue
			}
			if err := a.doc.SelectBrush(a.doc.ActiveBrush().ID); err != nil {
				log.Printf("reload brushes: %v", err)
			}
			c.say("brushes reloaded")
			a.doc.RequestRedraw()
		case paint.Event:
			a.doc.Flush()
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := c.state()
			st.canvas = pool.get(c.layout.canvas)
			a.doc.Render(st.canvas)
			select {
			case paintCh <- st:
			default:
				select {
				case old := <-paintCh:
					pool.put(old.canvas)
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if c.handleMouse(e) {
				a.doc.RequestRedraw()
			}
		case key.Event:
			c.handleKey(e)
			if c.quit {
				stopPainting()
				return
			}
		case error:
			log.Printf("window: %v", e)
		}
	}
}

// watchLibrary calls changed whenever the brush library file is written,
// created or replaced. The parent directory is watched so editors that
// save by rename are seen.
func (a *AppState) watchLibrary(done <-chan struct{}, changed func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("brush library watcher: %v", err)
		return
	}
	defer watcher.Close()

	target := filepath.Clean(a.LibraryPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		log.Printf("watch %s: %v", filepath.Dir(target), err)
		return
	}
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				changed()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("brush library watcher: %v", err)
		case <-done:
			return
		}
	}
}
