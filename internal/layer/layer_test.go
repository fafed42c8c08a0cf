package layer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, w, h int) *Store {
	t.Helper()
	s, err := NewStore(w, h)
	require.NoError(t, err)
	return s
}

func ids(ls []Layer) []int {
	out := make([]int, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func TestAddPrependsAndActivates(t *testing.T) {
	s := newStore(t, 10, 8)
	bg := s.Add("Background")
	assert.Equal(t, 1, bg.ID)
	assert.True(t, bg.Visible)
	assert.Equal(t, 1.0, bg.Opacity)
	assert.Equal(t, Normal, bg.Blend)
	assert.Equal(t, DefaultStyles(), bg.Styles)
	assert.Zero(t, bg.Styles.Enabled())

	l2 := s.Add("")
	assert.Equal(t, "Layer 2", l2.Name)
	assert.Equal(t, 2, s.ActiveID())
	assert.Equal(t, []int{2, 1}, ids(s.Layers()))
	assert.Equal(t, image.Rect(0, 0, 10, 8), s.Buffer(2).Rect)
}

func TestDeleteRules(t *testing.T) {
	s := newStore(t, 4, 4)
	s.Add("Background")
	assert.ErrorIs(t, s.Delete(1), ErrLastLayer)
	assert.Equal(t, 1, s.Len(), "layer count never reaches zero")
	assert.ErrorIs(t, s.Delete(42), ErrNotFound)

	s.Add("") // 2
	s.Add("") // 3
	s.Add("") // 4, stack 4 3 2 1

	require.NoError(t, s.Select(3))
	require.NoError(t, s.Delete(3))
	assert.Equal(t, 2, s.ActiveID(), "layer sliding into the index is selected")

	require.NoError(t, s.Select(1))
	require.NoError(t, s.Delete(1))
	assert.Equal(t, 2, s.ActiveID(), "falls back to the previous index")

	require.NoError(t, s.Select(4))
	require.NoError(t, s.Delete(2))
	assert.Equal(t, 4, s.ActiveID(), "deleting an inactive layer keeps the selection")

	next := s.Add("")
	assert.Equal(t, 5, next.ID, "ids are never reused")
}

func TestReorderKeepsIdentity(t *testing.T) {
	s := newStore(t, 4, 4)
	s.Add("a")
	s.Add("b")
	s.Add("c") // c b a

	assert.False(t, s.MoveUp(3), "already on top")
	assert.True(t, s.MoveUp(2))
	assert.Equal(t, []int{2, 3, 1}, ids(s.Layers()))
	assert.False(t, s.MoveDown(1))
	assert.True(t, s.MoveDown(2))
	assert.True(t, s.MoveDown(2))
	assert.Equal(t, []int{3, 1, 2}, ids(s.Layers()))
	assert.False(t, s.MoveUp(99))
}

func TestMetadata(t *testing.T) {
	s := newStore(t, 4, 4)
	l := s.Add("a")
	require.NoError(t, s.Rename(l.ID, "ink"))
	require.NoError(t, s.SetOpacity(l.ID, 1.5))
	require.NoError(t, s.SetVisible(l.ID, false))
	require.NoError(t, s.SetBlendMode(l.ID, Multiply))
	st := DefaultStyles()
	st.DropShadow.Enabled = true
	require.NoError(t, s.SetStyles(l.ID, st))

	got, ok := s.Get(l.ID)
	require.True(t, ok)
	assert.Equal(t, "ink", got.Name)
	assert.Equal(t, 1.0, got.Opacity)
	assert.False(t, got.Visible)
	assert.Equal(t, Multiply, got.Blend)
	assert.Equal(t, 1, got.Styles.Enabled())

	assert.ErrorIs(t, s.SetBlendMode(l.ID, BlendMode(99)), ErrUnknownBlendMode)
	assert.ErrorIs(t, s.Rename(7, "x"), ErrNotFound)
}

func TestBlendModeNames(t *testing.T) {
	require.Len(t, BlendModes(), 16)
	for _, m := range BlendModes() {
		got, err := ParseBlendMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	m, err := ParseBlendMode("source-over")
	require.NoError(t, err)
	assert.Equal(t, Normal, m)
	_, err = ParseBlendMode("plus-lighter")
	assert.ErrorIs(t, err, ErrUnknownBlendMode)
}

func TestValidateSize(t *testing.T) {
	assert.NoError(t, ValidateSize(1, 1))
	assert.NoError(t, ValidateSize(MaxSize, MaxSize))
	for _, sz := range [][2]int{{0, 10}, {10, -1}, {MaxSize + 1, 10}} {
		assert.ErrorIs(t, ValidateSize(sz[0], sz[1]), ErrInvalidSize)
	}
	_, err := NewStore(0, 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestAnchorOffset(t *testing.T) {
	cases := map[Anchor]image.Point{
		TopLeft:      {0, 0},
		TopCenter:    {5, 0},
		TopRight:     {10, 0},
		MiddleLeft:   {0, 3},
		Center:       {5, 3},
		MiddleRight:  {10, 3},
		BottomLeft:   {0, 6},
		BottomCenter: {5, 6},
		BottomRight:  {10, 6},
	}
	for a, want := range cases {
		assert.Equal(t, want, a.Offset(10, 4, 20, 10), a.String())
		parsed, err := ParseAnchor(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
	_, err := ParseAnchor("somewhere")
	assert.ErrorIs(t, err, ErrUnknownAnchor)
}

func TestResizeHonoursAnchor(t *testing.T) {
	s := newStore(t, 4, 4)
	l := s.Add("a")
	red := color.RGBA{0xff, 0, 0, 0xff}
	s.Buffer(l.ID).SetRGBA(0, 0, red)
	s.Buffer(l.ID).SetRGBA(3, 3, red)

	require.NoError(t, s.Resize(8, 6, BottomRight))
	buf := s.Buffer(l.ID)
	assert.Equal(t, image.Rect(0, 0, 8, 6), buf.Rect)
	assert.Equal(t, red, buf.RGBAAt(4, 2))
	assert.Equal(t, red, buf.RGBAAt(7, 5))
	assert.Equal(t, color.RGBA{}, buf.RGBAAt(0, 0))

	require.NoError(t, s.Resize(2, 2, TopLeft))
	assert.Equal(t, color.RGBA{}, s.Buffer(l.ID).RGBAAt(1, 1), "cropped")

	assert.ErrorIs(t, s.Resize(9000, 2, Center), ErrInvalidSize)
	w, h := s.Size()
	assert.Equal(t, [2]int{2, 2}, [2]int{w, h}, "rejected before mutating")
}

func TestPasteAndClear(t *testing.T) {
	s := newStore(t, 6, 6)
	l := s.Add("a")
	src := image.NewRGBA(image.Rect(10, 10, 13, 12))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	require.NoError(t, s.Paste(l.ID, src))
	buf := s.Buffer(l.ID)
	assert.Equal(t, uint8(0xff), buf.RGBAAt(0, 0).A, "drawn at the origin")
	assert.Equal(t, uint8(0xff), buf.RGBAAt(2, 1).A)
	assert.Zero(t, buf.RGBAAt(3, 0).A)

	require.NoError(t, s.Clear(l.ID))
	assert.Zero(t, buf.RGBAAt(0, 0).A)
}
