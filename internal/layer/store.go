package layer

import (
	"fmt"
	"image"
	"image/draw"
	"math"
)

type entry struct {
	Layer
	buf *image.RGBA
}

// Store holds the layers of one canvas. Ids start at 1 and are never
// reused within a store.
type Store struct {
	width, height int
	stack         []*entry
	active        int
	nextID        int
}

// NewStore returns an empty store for a w×h canvas.
func NewStore(w, h int) (*Store, error) {
	if err := ValidateSize(w, h); err != nil {
		return nil, err
	}
	return &Store{width: w, height: h, nextID: 1}, nil
}

// Size returns the canvas dimensions.
func (s *Store) Size() (int, int) { return s.width, s.height }

// Bounds returns the canvas rectangle.
func (s *Store) Bounds() image.Rectangle { return image.Rect(0, 0, s.width, s.height) }

// Len returns the number of layers.
func (s *Store) Len() int { return len(s.stack) }

// Add creates a blank layer above all others and makes it active. An empty
// name becomes "Layer N".
func (s *Store) Add(name string) Layer {
	if name == "" {
		name = fmt.Sprintf("Layer %d", len(s.stack)+1)
	}
	e := &entry{
		Layer: Layer{
			ID:      s.nextID,
			Name:    name,
			Visible: true,
			Opacity: 1,
			Blend:   Normal,
			Styles:  DefaultStyles(),
		},
		buf: image.NewRGBA(s.Bounds()),
	}
	s.nextID++
	s.stack = append([]*entry{e}, s.stack...)
	s.active = e.ID
	return e.Layer
}

// Delete removes a layer. The last layer cannot be deleted. When the active
// layer goes, the one sliding into its index is selected, else the one above
// it, else the first.
func (s *Store) Delete(id int) error {
	i := s.Index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if len(s.stack) <= 1 {
		return ErrLastLayer
	}
	s.stack = append(s.stack[:i], s.stack[i+1:]...)
	if s.active == id {
		switch {
		case i < len(s.stack):
			s.active = s.stack[i].ID
		case i-1 >= 0:
			s.active = s.stack[i-1].ID
		default:
			s.active = s.stack[0].ID
		}
	}
	return nil
}

// MoveUp swaps the layer with the one above it. It reports whether anything
// moved.
func (s *Store) MoveUp(id int) bool {
	i := s.Index(id)
	if i <= 0 {
		return false
	}
	s.stack[i], s.stack[i-1] = s.stack[i-1], s.stack[i]
	return true
}

// MoveDown swaps the layer with the one below it.
func (s *Store) MoveDown(id int) bool {
	i := s.Index(id)
	if i < 0 || i >= len(s.stack)-1 {
		return false
	}
	s.stack[i], s.stack[i+1] = s.stack[i+1], s.stack[i]
	return true
}

// Index returns the stack position of id, or -1.
func (s *Store) Index(id int) int {
	for i, e := range s.stack {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) find(id int) (*entry, error) {
	if i := s.Index(id); i >= 0 {
		return s.stack[i], nil
	}
	return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Select makes id the active layer.
func (s *Store) Select(id int) error {
	if _, err := s.find(id); err != nil {
		return err
	}
	s.active = id
	return nil
}

// ActiveID returns the active layer id, or 0 when there is none.
func (s *Store) ActiveID() int { return s.active }

// Active returns the active layer.
func (s *Store) Active() (Layer, bool) {
	return s.Get(s.active)
}

// Get returns the metadata of one layer.
func (s *Store) Get(id int) (Layer, bool) {
	e, err := s.find(id)
	if err != nil {
		return Layer{}, false
	}
	return e.Layer, true
}

// Layers returns the layer metadata top first.
func (s *Store) Layers() []Layer {
	out := make([]Layer, len(s.stack))
	for i, e := range s.stack {
		out[i] = e.Layer
	}
	return out
}

// Buffer returns the live pixel buffer of a layer, or nil.
func (s *Store) Buffer(id int) *image.RGBA {
	e, err := s.find(id)
	if err != nil {
		return nil
	}
	return e.buf
}

// Rename sets a layer's display name.
func (s *Store) Rename(id int, name string) error {
	return s.update(id, func(l *Layer) { l.Name = name })
}

// SetOpacity sets a layer's opacity, clamped to 0..1.
func (s *Store) SetOpacity(id int, opacity float64) error {
	if math.IsNaN(opacity) {
		opacity = 1
	}
	return s.update(id, func(l *Layer) { l.Opacity = math.Max(0, math.Min(1, opacity)) })
}

func (s *Store) SetVisible(id int, visible bool) error {
	return s.update(id, func(l *Layer) { l.Visible = visible })
}

func (s *Store) SetBlendMode(id int, m BlendMode) error {
	if m < 0 || int(m) >= len(blendNames) {
		return fmt.Errorf("%w: %d", ErrUnknownBlendMode, int(m))
	}
	return s.update(id, func(l *Layer) { l.Blend = m })
}

func (s *Store) SetStyles(id int, st Styles) error {
	return s.update(id, func(l *Layer) { l.Styles = st })
}

func (s *Store) update(id int, f func(*Layer)) error {
	e, err := s.find(id)
	if err != nil {
		return err
	}
	f(&e.Layer)
	return nil
}

// Clear makes every pixel of a layer transparent.
func (s *Store) Clear(id int) error {
	e, err := s.find(id)
	if err != nil {
		return err
	}
	clear(e.buf.Pix)
	return nil
}

// Paste draws img at its natural size at the layer origin.
func (s *Store) Paste(id int, img image.Image) error {
	e, err := s.find(id)
	if err != nil {
		return err
	}
	b := img.Bounds()
	draw.Draw(e.buf, b.Sub(b.Min), img, b.Min, draw.Over)
	return nil
}

// Resize changes the canvas size. Every layer keeps its pixels, placed
// relative to the anchor; anything outside the new bounds is cropped.
func (s *Store) Resize(w, h int, a Anchor) error {
	if err := ValidateSize(w, h); err != nil {
		return err
	}
	if a < 0 || int(a) >= len(anchorNames) {
		return fmt.Errorf("%w: %d", ErrUnknownAnchor, int(a))
	}
	off := a.Offset(s.width, s.height, w, h)
	for _, e := range s.stack {
		nb := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nb, e.buf.Rect.Add(off), e.buf, e.buf.Rect.Min, draw.Src)
		e.buf = nb
	}
	s.width, s.height = w, h
	return nil
}
