package document

import (
	"fmt"
	"image"
	"image/color"

	"github.com/example/darrow/internal/brush"
	"github.com/example/darrow/internal/layer"
)

// NewCanvas replaces every layer with a single "Background" layer on a
// fresh w×h canvas. Invalid sizes are rejected before anything changes.
// Layer ids start again at 1.
func (d *Document) NewCanvas(w, h int, background color.Color) error {
	store, err := layer.NewStore(w, h)
	if err != nil {
		return err
	}
	d.stroke = strokeState{}
	d.store = store
	d.background = background
	d.history.Reset()
	bg := store.Add("Background")
	d.history.Commit(bg.ID, store.Buffer(bg.ID))
	d.view.SetCanvasSize(w, h)
	d.view.Reset()
	d.log().Info("canvas created", "width", w, "height", h)
	d.changed()
	return nil
}

// Resize changes the canvas size, keeping each layer's pixels at the
// anchor. History restarts with one snapshot per layer.
func (d *Document) Resize(w, h int, a layer.Anchor) error {
	d.endStroke()
	if err := d.store.Resize(w, h, a); err != nil {
		return err
	}
	d.history.Reset()
	for _, l := range d.store.Layers() {
		d.history.Commit(l.ID, d.store.Buffer(l.ID))
	}
	d.view.SetCanvasSize(w, h)
	d.view.ZoomToFit()
	d.log().Info("canvas resized", "width", w, "height", h, "anchor", a.String())
	d.changed()
	return nil
}

// Layers lists layer metadata top first.
func (d *Document) Layers() []layer.Layer { return d.store.Layers() }

// ActiveLayer returns the active layer.
func (d *Document) ActiveLayer() (layer.Layer, bool) { return d.store.Active() }

// Buffer returns the live pixels of a layer, or nil.
func (d *Document) Buffer(id int) *image.RGBA { return d.store.Buffer(id) }

// AddLayer adds a blank layer on top and makes it active. An empty name
// becomes "Layer N".
func (d *Document) AddLayer(name string) layer.Layer {
	d.endStroke()
	l := d.store.Add(name)
	d.history.Commit(l.ID, d.store.Buffer(l.ID))
	d.changed()
	return l
}

// DeleteLayer removes a layer and its history. The last layer cannot be
// deleted.
func (d *Document) DeleteLayer(id int) error {
	if d.stroke.layerID == id {
		d.endStroke()
	}
	if err := d.store.Delete(id); err != nil {
		return err
	}
	d.history.Forget(id)
	d.changed()
	return nil
}

// SelectLayer makes id the active layer.
func (d *Document) SelectLayer(id int) error {
	d.endStroke()
	return d.notify(d.store.Select(id))
}

// RenameLayer renames a layer.
func (d *Document) RenameLayer(id int, name string) error {
	return d.notify(d.store.Rename(id, name))
}

// SetLayerOpacity sets a layer's opacity, clamped to 0..1.
func (d *Document) SetLayerOpacity(id int, opacity float64) error {
	return d.notify(d.store.SetOpacity(id, opacity))
}

// SetLayerVisible shows or hides a layer.
func (d *Document) SetLayerVisible(id int, visible bool) error {
	return d.notify(d.store.SetVisible(id, visible))
}

// ToggleLayerVisible flips a layer's visibility.
func (d *Document) ToggleLayerVisible(id int) error {
	l, ok := d.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", layer.ErrNotFound, id)
	}
	return d.SetLayerVisible(id, !l.Visible)
}

// SetLayerBlendMode sets a layer's blend mode.
func (d *Document) SetLayerBlendMode(id int, m layer.BlendMode) error {
	return d.notify(d.store.SetBlendMode(id, m))
}

// SetLayerStyles replaces a layer's style blocks. Styles are kept but not
// rendered.
func (d *Document) SetLayerStyles(id int, st layer.Styles) error {
	return d.notify(d.store.SetStyles(id, st))
}

// MoveLayerUp moves a layer one step towards the top.
func (d *Document) MoveLayerUp(id int) bool {
	moved := d.store.MoveUp(id)
	if moved {
		d.changed()
	}
	return moved
}

// MoveLayerDown moves a layer one step towards the bottom.
func (d *Document) MoveLayerDown(id int) bool {
	moved := d.store.MoveDown(id)
	if moved {
		d.changed()
	}
	return moved
}

// ClearLayer erases every pixel of a layer and records it in history.
func (d *Document) ClearLayer(id int) error {
	if d.stroke.layerID == id {
		d.endStroke()
	}
	if err := d.store.Clear(id); err != nil {
		return err
	}
	d.history.Commit(id, d.store.Buffer(id))
	d.changed()
	return nil
}

// ClearActive clears the active layer.
func (d *Document) ClearActive() error {
	l, ok := d.store.Active()
	if !ok {
		return ErrNoActiveLayer
	}
	return d.ClearLayer(l.ID)
}

// Undo steps the active layer back one snapshot.
func (d *Document) Undo() bool {
	d.endStroke()
	id := d.store.ActiveID()
	ok := d.history.Undo(id, d.store.Buffer(id))
	if ok {
		d.changed()
	}
	return ok
}

// Redo steps the active layer forward one snapshot.
func (d *Document) Redo() bool {
	d.endStroke()
	id := d.store.ActiveID()
	ok := d.history.Redo(id, d.store.Buffer(id))
	if ok {
		d.changed()
	}
	return ok
}

// CanUndo reports whether Undo would do anything.
func (d *Document) CanUndo() bool { return d.history.CanUndo(d.store.ActiveID()) }

// CanRedo reports whether Redo would do anything.
func (d *Document) CanRedo() bool { return d.history.CanRedo(d.store.ActiveID()) }

// HistoryDepth returns the number of snapshots held for a layer.
func (d *Document) HistoryDepth(id int) int { return d.history.Depth(id) }

func (d *Document) notify(err error) error {
	if err == nil {
		d.changed()
	}
	return err
}

// BrushID returns the id of the selected brush.
func (d *Document) BrushID() string { return d.brushID }

// SelectBrush selects a brush from the library.
func (d *Document) SelectBrush(id string) error {
	if _, err := d.library.Get(id); err != nil {
		return err
	}
	d.brushID = id
	return nil
}

// SaveBrush stores a custom brush in the library.
func (d *Document) SaveBrush(b *brush.Brush) error {
	return d.library.Save(b)
}

// DuplicateBrush copies a brush into a new custom brush.
func (d *Document) DuplicateBrush(id string) (*brush.Brush, error) {
	return d.library.Duplicate(id)
}

// DeleteBrush removes a custom brush. When it was selected the default
// brush takes over.
func (d *Document) DeleteBrush(id string) error {
	if err := d.library.Delete(id); err != nil {
		return err
	}
	if d.brushID == id {
		d.brushID = brush.DefaultID
	}
	return nil
}
