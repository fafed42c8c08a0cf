// Package history keeps per-layer undo stacks of full pixel snapshots.
package history

import (
	"image"
	"slices"
)

// DefaultLimit is the number of snapshots kept per layer.
const DefaultLimit = 30

type stack struct {
	entries []*image.RGBA
	cursor  int
}

// Manager holds a bounded snapshot sequence and cursor for every layer id.
// Snapshots are private copies and never alias a live buffer.
type Manager struct {
	limit  int
	stacks map[int]*stack
}

// New returns a manager keeping at most limit snapshots per layer. A limit
// below 1 uses DefaultLimit.
func New(limit int) *Manager {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit, stacks: make(map[int]*stack)}
}

// Limit returns the per-layer snapshot cap.
func (m *Manager) Limit() int { return m.limit }

// Commit snapshots buf as the newest state of layer id. Any redo branch is
// discarded and the oldest snapshot is evicted beyond the cap. Empty buffers
// are ignored.
func (m *Manager) Commit(id int, buf *image.RGBA) bool {
	if buf == nil || buf.Rect.Empty() {
		return false
	}
	s := m.stacks[id]
	if s == nil {
		s = &stack{cursor: -1}
		m.stacks[id] = s
	}
	if s.cursor < len(s.entries)-1 {
		clear(s.entries[s.cursor+1:])
		s.entries = s.entries[:s.cursor+1]
	}
	s.entries = append(s.entries, snapshot(buf))
	if len(s.entries) > m.limit {
		s.entries[0] = nil
		s.entries = slices.Delete(s.entries, 0, 1)
	}
	s.cursor = len(s.entries) - 1
	return true
}

// Undo restores the previous snapshot into buf. It reports false at the
// oldest snapshot.
func (m *Manager) Undo(id int, buf *image.RGBA) bool {
	s := m.stacks[id]
	if s == nil || s.cursor <= 0 {
		return false
	}
	if !restore(buf, s.entries[s.cursor-1]) {
		return false
	}
	s.cursor--
	return true
}

// Redo restores the next snapshot into buf. It reports false at the newest.
func (m *Manager) Redo(id int, buf *image.RGBA) bool {
	s := m.stacks[id]
	if s == nil || s.cursor >= len(s.entries)-1 {
		return false
	}
	if !restore(buf, s.entries[s.cursor+1]) {
		return false
	}
	s.cursor++
	return true
}

func (m *Manager) CanUndo(id int) bool {
	s := m.stacks[id]
	return s != nil && s.cursor > 0
}

func (m *Manager) CanRedo(id int) bool {
	s := m.stacks[id]
	return s != nil && s.cursor < len(s.entries)-1
}

// Depth returns how many snapshots layer id has.
func (m *Manager) Depth(id int) int {
	if s := m.stacks[id]; s != nil {
		return len(s.entries)
	}
	return 0
}

// Cursor returns the index of the snapshot matching the live buffer, or -1.
func (m *Manager) Cursor(id int) int {
	if s := m.stacks[id]; s != nil {
		return s.cursor
	}
	return -1
}

// Current returns the snapshot under the cursor. Callers must not modify
// it.
func (m *Manager) Current(id int) *image.RGBA {
	s := m.stacks[id]
	if s == nil || s.cursor < 0 {
		return nil
	}
	return s.entries[s.cursor]
}

// Forget drops all snapshots of a layer.
func (m *Manager) Forget(id int) {
	delete(m.stacks, id)
}

// Reset drops every layer's history.
func (m *Manager) Reset() {
	clear(m.stacks)
}

func snapshot(buf *image.RGBA) *image.RGBA {
	return &image.RGBA{
		Pix:    slices.Clone(buf.Pix),
		Stride: buf.Stride,
		Rect:   buf.Rect,
	}
}

func restore(dst, src *image.RGBA) bool {
	if dst == nil || src == nil || dst.Rect != src.Rect || dst.Stride != src.Stride {
		return false
	}
	copy(dst.Pix, src.Pix)
	return true
}
