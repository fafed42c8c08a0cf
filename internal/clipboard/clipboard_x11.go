//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	initOnce sync.Once
	initErr  error
	canvas   *canvasSelection
)

// pasteTimeout bounds how long a paste waits on another client.
const pasteTimeout = 3 * time.Second

var errPasteTimeout = errors.New("clipboard owner did not answer")

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		c, err := openCanvasSelection()
		if err != nil {
			initErr = err
			return
		}
		canvas = c
	})
	return initErr
}

func writePNG(data []byte) error { return canvas.publish(data) }

func readImageData() ([]byte, error) { return canvas.paste() }

// canvasSelection owns CLIPBOARD while a copied canvas is on offer and
// pastes images other clients hold.
type canvasSelection struct {
	conn   *xgb.Conn
	window xproto.Window

	clipboard, targets, incr, property xproto.Atom
	// mimes maps interned image targets back to their MIME names.
	mimes map[xproto.Atom]string
	png   xproto.Atom

	mu     sync.RWMutex
	copied []byte
}

func openCanvasSelection() (*canvasSelection, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	c := &canvasSelection{conn: conn, mimes: make(map[xproto.Atom]string)}
	if err := c.internAtoms(); err != nil {
		conn.Close()
		return nil, err
	}
	w, err := hiddenWindow(conn, xproto.EventMaskPropertyChange|xproto.EventMaskStructureNotify)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.window = w
	go c.serve()
	return c, nil
}

func (c *canvasSelection) internAtoms() error {
	intern := func(name string) (xproto.Atom, error) {
		reply, err := xproto.InternAtom(c.conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return 0, fmt.Errorf("intern %s: %w", name, err)
		}
		return reply.Atom, nil
	}
	for name, dst := range map[string]*xproto.Atom{
		"CLIPBOARD":    &c.clipboard,
		"TARGETS":      &c.targets,
		"INCR":         &c.incr,
		"DARROW_PASTE": &c.property,
	} {
		a, err := intern(name)
		if err != nil {
			return err
		}
		*dst = a
	}
	for _, mime := range imageTargets {
		a, err := intern(mime)
		if err != nil {
			return err
		}
		c.mimes[a] = mime
		if mime == "image/png" {
			c.png = a
		}
	}
	return nil
}

func hiddenWindow(conn *xgb.Conn, mask uint32) (xproto.Window, error) {
	screen := xproto.Setup(conn).DefaultScreen(conn)
	w, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, w, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, []uint32{mask}).Check()
	return w, err
}

func (c *canvasSelection) publish(png []byte) error {
	c.mu.Lock()
	c.copied = append([]byte(nil), png...)
	c.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(c.conn, c.window, c.clipboard, xproto.TimeCurrentTime).Check()
}

func (c *canvasSelection) serve() {
	for {
		ev, err := c.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			c.answer(e)
		case xproto.SelectionClearEvent:
			c.mu.Lock()
			c.copied = nil
			c.mu.Unlock()
		}
	}
}

// answer offers the copied canvas as image/png only.
func (c *canvasSelection) answer(e xproto.SelectionRequestEvent) {
	prop := e.Property
	if prop == xproto.AtomNone {
		prop = e.Target
	}
	c.mu.RLock()
	png := c.copied
	c.mu.RUnlock()

	switch {
	case e.Target == c.targets:
		offer := []xproto.Atom{c.targets}
		if len(png) > 0 {
			offer = append(offer, c.png)
		}
		buf := make([]byte, 4*len(offer))
		for i, a := range offer {
			xgb.Put32(buf[4*i:], uint32(a))
		}
		xproto.ChangeProperty(c.conn, xproto.PropModeReplace, e.Requestor, prop, xproto.AtomAtom, 32, uint32(len(offer)), buf)
	case e.Target == c.png && len(png) > 0:
		xproto.ChangeProperty(c.conn, xproto.PropModeReplace, e.Requestor, prop, c.png, 8, uint32(len(png)), png)
	default:
		prop = xproto.AtomNone
	}
	reply := xproto.SelectionNotifyEvent{Time: e.Time, Requestor: e.Requestor, Selection: e.Selection, Target: e.Target, Property: prop}
	_ = xproto.SendEvent(c.conn, false, e.Requestor, 0, string(reply.Bytes()))
}

// paste asks the owner which targets it offers, picks the best image
// format and transfers it. A separate connection keeps our own window
// free to answer when we are the owner.
func (c *canvasSelection) paste() ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	w, err := hiddenWindow(conn, xproto.EventMaskPropertyChange)
	if err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, w)

	offered, err := c.convert(conn, w, c.targets)
	if err != nil {
		return nil, err
	}
	var names []string
	for i := 0; i+4 <= len(offered); i += 4 {
		if mime, ok := c.mimes[xproto.Atom(xgb.Get32(offered[i:]))]; ok {
			names = append(names, mime)
		}
	}
	mime, ok := preferredTarget(names)
	if !ok {
		return nil, ErrEmpty
	}
	for a, m := range c.mimes {
		if m == mime {
			return c.convert(conn, w, a)
		}
	}
	return nil, ErrEmpty
}

// convert requests target into our property and returns its bytes,
// following the INCR protocol for transfers too large for one property.
func (c *canvasSelection) convert(conn *xgb.Conn, w xproto.Window, target xproto.Atom) ([]byte, error) {
	if err := xproto.ConvertSelectionChecked(conn, w, c.clipboard, target, c.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(pasteTimeout)
	for {
		ev, err := waitEvent(conn, deadline)
		if err != nil {
			return nil, err
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, ErrEmpty
		}
		reply, err := xproto.GetProperty(conn, true, w, e.Property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if err != nil {
			return nil, err
		}
		if reply.Type != c.incr {
			return append([]byte(nil), reply.Value...), nil
		}
		return c.receiveIncremental(conn, w, e.Property, deadline)
	}
}

func (c *canvasSelection) receiveIncremental(conn *xgb.Conn, w xproto.Window, prop xproto.Atom, deadline time.Time) ([]byte, error) {
	var data []byte
	for {
		ev, err := waitEvent(conn, deadline)
		if err != nil {
			return nil, err
		}
		e, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok || e.Atom != prop || e.State != xproto.PropertyNewValue {
			continue
		}
		reply, err := xproto.GetProperty(conn, true, w, prop, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if err != nil {
			return nil, err
		}
		if len(reply.Value) == 0 {
			return data, nil
		}
		data = append(data, reply.Value...)
		deadline = time.Now().Add(pasteTimeout)
	}
}

// waitEvent returns the next event or errPasteTimeout once deadline
// passes. xgb has no timed wait, so the wait runs on its own goroutine.
func waitEvent(conn *xgb.Conn, deadline time.Time) (xgb.Event, error) {
	type result struct {
		ev  xgb.Event
		err error
	}
	ch := make(chan result, 1)
	go func() {
		ev, err := conn.WaitForEvent()
		ch <- result{ev, err}
	}()
	select {
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		if r.ev == nil {
			return nil, errors.New("x11 connection closed")
		}
		return r.ev, nil
	case <-time.After(time.Until(deadline)):
		return nil, errPasteTimeout
	}
}
