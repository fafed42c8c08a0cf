package history

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buffer() *image.RGBA { return image.NewRGBA(image.Rect(0, 0, 2, 2)) }

func mark(buf *image.RGBA, v uint8) { buf.Pix[0] = v }

func TestCommitUndoRedoCounts(t *testing.T) {
	m := New(0)
	assert.Equal(t, DefaultLimit, m.Limit())
	buf := buffer()
	const k = 5
	for i := range k {
		mark(buf, uint8(i))
		require.True(t, m.Commit(1, buf))
	}

	undos := 0
	for m.Undo(1, buf) {
		undos++
	}
	assert.Equal(t, k-1, undos)
	assert.Equal(t, uint8(0), buf.Pix[0])

	redos := 0
	for m.Redo(1, buf) {
		redos++
	}
	assert.Equal(t, k-1, redos)
	assert.Equal(t, uint8(k-1), buf.Pix[0])
	assert.False(t, m.CanRedo(1))
}

func TestUndoThenRedoOnce(t *testing.T) {
	m := New(10)
	buf := buffer()
	m.Commit(1, buf)
	mark(buf, 9)
	m.Commit(1, buf)

	require.True(t, m.Undo(1, buf))
	assert.Equal(t, uint8(0), buf.Pix[0])
	require.True(t, m.Redo(1, buf))
	assert.Equal(t, uint8(9), buf.Pix[0])
	assert.False(t, m.Redo(1, buf))
}

func TestCommitAfterUndoPrunesRedo(t *testing.T) {
	m := New(10)
	buf := buffer()
	for i := range 3 {
		mark(buf, uint8(i))
		m.Commit(1, buf)
	}
	m.Undo(1, buf)
	m.Undo(1, buf)
	mark(buf, 7)
	m.Commit(1, buf)

	assert.Equal(t, 2, m.Depth(1))
	assert.Equal(t, 1, m.Cursor(1))
	assert.False(t, m.CanRedo(1))
	assert.False(t, m.Redo(1, buf))
}

func TestCapEvictsOldest(t *testing.T) {
	m := New(3)
	buf := buffer()
	for i := range 5 {
		mark(buf, uint8(i))
		m.Commit(1, buf)
		assert.LessOrEqual(t, m.Depth(1), 3)
	}
	assert.Equal(t, 2, m.Cursor(1))
	for m.Undo(1, buf) {
	}
	assert.Equal(t, uint8(2), buf.Pix[0], "oldest two evicted first")
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	m := New(5)
	buf := buffer()
	m.Commit(1, buf)
	mark(buf, 200)
	assert.Equal(t, uint8(0), m.Current(1).Pix[0])
}

func TestBoundaries(t *testing.T) {
	m := New(5)
	buf := buffer()
	assert.False(t, m.Undo(1, buf), "no history")
	assert.False(t, m.Redo(1, buf))
	assert.Equal(t, -1, m.Cursor(1))
	assert.Nil(t, m.Current(1))

	assert.False(t, m.Commit(1, &image.RGBA{}), "empty buffers are not snapshotted")
	m.Commit(1, buf)
	assert.False(t, m.Undo(1, buf), "single snapshot cannot be undone")
	assert.False(t, m.Undo(1, image.NewRGBA(image.Rect(0, 0, 3, 3))))

	m.Commit(2, buf)
	m.Forget(1)
	assert.Zero(t, m.Depth(1))
	assert.Equal(t, 1, m.Depth(2))
	m.Reset()
	assert.Zero(t, m.Depth(2))
}
