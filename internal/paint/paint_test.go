package paint

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/darrow/internal/brush"
	"github.com/example/darrow/internal/texture"
)

var black = color.NRGBA{A: 0xff}

type stubTinter struct{ img *image.RGBA }

func (s stubTinter) Tint(texture.Ref, color.NRGBA) *image.RGBA { return s.img }

func newTestPainter() *Painter {
	return NewPainter(texture.NewCache(texture.Synchronous()), rand.New(rand.NewPCG(1, 2)))
}

func roundBrush(t *testing.T) *brush.Brush {
	t.Helper()
	b, ok := brush.Builtin(brush.Round)
	require.True(t, ok)
	return b
}

func alphaSum(img *image.RGBA) int {
	var n int
	for i := 3; i < len(img.Pix); i += 4 {
		n += int(img.Pix[i])
	}
	return n
}

func TestSegmentDabCount(t *testing.T) {
	p := newTestPainter()
	dst := image.NewRGBA(image.Rect(0, 0, 400, 400))
	b := roundBrush(t)

	n := p.Segment(dst, Point{100, 100, 1}, Point{100, 300, 1}, black, 20, b)
	assert.Equal(t, 200/2+1, n, "L/spacing plus the final dab")

	b.Shape.Spacing = 1
	n = p.Segment(dst, Point{0, 0, 1}, Point{30, 40, 1}, black, 20, b)
	assert.Equal(t, 51, n, "spacing never drops below one pixel")
}

func TestDegenerateSegment(t *testing.T) {
	p := newTestPainter()
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	pt := Point{50, 50, 0.5}
	assert.Equal(t, 1, p.Segment(dst, pt, pt, black, 10, roundBrush(t)))
	assert.Positive(t, alphaSum(dst))

	assert.Equal(t, 1, Erase(dst, pt, pt, 10, false))
}

func TestStrokeStaysInCorridor(t *testing.T) {
	p := newTestPainter()
	dst := image.NewRGBA(image.Rect(0, 0, 800, 600))
	p.Segment(dst, Point{100, 100, 1}, Point{100, 300, 1}, black, 20, roundBrush(t))

	for y := 100; y <= 300; y += 2 {
		assert.Positive(t, dst.RGBAAt(100, y).A, "ink at y=%d", y)
	}
	for y := 0; y < 600; y++ {
		for x := 0; x < 800; x++ {
			if dst.RGBAAt(x, y).A == 0 {
				continue
			}
			require.True(t, x >= 88 && x <= 112 && y >= 88 && y <= 312, "stray ink at %d,%d", x, y)
		}
	}
}

func TestDabSkipsWhenStampNotReady(t *testing.T) {
	p := NewPainter(stubTinter{}, rand.New(rand.NewPCG(1, 2)))
	dst := image.NewRGBA(image.Rect(0, 0, 50, 50))
	assert.Zero(t, p.Dab(dst, 25, 25, black, 1, roundBrush(t), 20))
	assert.Zero(t, alphaSum(dst))
}

func TestDabCountMayBeZero(t *testing.T) {
	stamp := image.NewRGBA(image.Rect(0, 0, 8, 8))
	draw.Draw(stamp, stamp.Rect, image.Black, image.Point{}, draw.Src)
	p := NewPainter(stubTinter{stamp}, rand.New(rand.NewPCG(3, 4)))
	dst := image.NewRGBA(image.Rect(0, 0, 50, 50))
	b := roundBrush(t)
	b.Scatter.CountJitter = 1

	seen := map[int]bool{}
	for range 200 {
		n := p.Dab(dst, 25, 25, black, 1, b, 10)
		require.GreaterOrEqual(t, n, 0)
		require.LessOrEqual(t, n, 2)
		seen[n] = true
	}
	assert.True(t, seen[0], "zero stamps is a valid outcome")
}

func TestReplayReproducesLiveStroke(t *testing.T) {
	b, _ := brush.Builtin(brush.Charcoal)
	pts := []Point{{20, 20, 0.5}, {60, 40, 0.8}, {120, 90, 1}}

	live := image.NewRGBA(image.Rect(0, 0, 160, 120))
	p := newTestPainter()
	s := p.NewStroke(99, pts[0], black, 16, b)
	for _, pt := range pts[1:] {
		p.Extend(live, s, pt, Symmetry{})
	}
	assert.False(t, s.Tapered())

	replayed := image.NewRGBA(live.Rect)
	newTestPainter().Replay(replayed, s, Symmetry{})
	assert.Equal(t, live.Pix, replayed.Pix)
}

func TestTaperThinsStrokeEnds(t *testing.T) {
	b := roundBrush(t)
	b.Taper = brush.Taper{Start: 50, End: 50, Amount: 100}
	from, to := Point{20, 50, 1}, Point{180, 50, 1}

	live := image.NewRGBA(image.Rect(0, 0, 200, 100))
	p := newTestPainter()
	s := p.NewStroke(7, from, black, 20, b)
	p.Extend(live, s, to, Symmetry{})
	require.True(t, s.Tapered())
	assert.InDelta(t, 160, s.Length(), 1e-9)

	tapered := image.NewRGBA(live.Rect)
	p.Replay(tapered, s, Symmetry{})
	assert.Less(t, alphaSum(tapered), alphaSum(live))
	assert.Zero(t, tapered.RGBAAt(20, 58).A, "start shrinks to a point")
	assert.Positive(t, tapered.RGBAAt(100, 50).A, "middle keeps full size")
}

func opaque(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.NewUniform(color.RGBA{0x20, 0x40, 0x60, 0xff}), image.Point{}, draw.Src)
	return img
}

func TestHardEraserRemovesCoverage(t *testing.T) {
	dst := opaque(100, 100)
	Erase(dst, Point{X: 30, Y: 50}, Point{X: 70, Y: 50}, 20, false)
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(50, 50), "erased to transparent, not painted")
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(30, 50))
	assert.Equal(t, uint8(0xff), dst.RGBAAt(50, 70).A)
	assert.Equal(t, uint8(0xff), dst.RGBAAt(85, 50).A)
}

func TestSoftEraserFeathers(t *testing.T) {
	dst := opaque(100, 100)
	Erase(dst, Point{X: 50, Y: 50}, Point{X: 50, Y: 50}, 40, true)
	centre := dst.RGBAAt(50, 50).A
	assert.InDelta(t, 128, int(centre), 2, "half strength at the core")
	edge := dst.RGBAAt(50, 68).A
	assert.Greater(t, edge, centre, "less removed towards the rim")
	assert.Equal(t, uint8(0xff), dst.RGBAAt(50, 75).A)
}

func TestEraserIgnoresEmptyBuffer(t *testing.T) {
	assert.Zero(t, Erase(&image.RGBA{}, Point{}, Point{X: 10}, 10, false))
}

func TestSymmetry(t *testing.T) {
	p := Point{X: 110, Y: 40, Pressure: 0.3}

	v := Symmetry{Mode: SymmetryVertical, CX: 100, CY: 50}.Points(p)
	require.Len(t, v, 2)
	assert.Equal(t, Point{X: 90, Y: 40, Pressure: 0.3}, v[1])

	h := Symmetry{Mode: SymmetryHorizontal, CX: 100, CY: 50}.Points(p)
	assert.Equal(t, Point{X: 110, Y: 60, Pressure: 0.3}, h[1])

	r := Symmetry{Mode: SymmetryRadial, CX: 100, CY: 50}.Points(Point{X: 110, Y: 50})
	require.Len(t, r, DefaultSectors)
	assert.Equal(t, Point{X: 110, Y: 50}, r[0])

	quad := Symmetry{Mode: SymmetryRadial, Sectors: 4, CX: 100, CY: 50}.Points(Point{X: 110, Y: 50})
	assert.InDelta(t, 100, quad[1].X, 1e-9)
	assert.InDelta(t, 60, quad[1].Y, 1e-9)

	segs := Symmetry{}.Segments(p, Point{})
	assert.Len(t, segs, 1)

	m, err := ParseSymmetryMode("Radial")
	require.NoError(t, err)
	assert.Equal(t, SymmetryRadial, m)
	assert.Equal(t, "radial", m.String())
	_, err = ParseSymmetryMode("diagonal")
	assert.Error(t, err)
}

func TestStabilizer(t *testing.T) {
	off := NewStabilizer(0)
	off.Reset(Point{})
	assert.Equal(t, Point{X: 10, Y: 10, Pressure: 1}, off.Next(Point{X: 10, Y: 10, Pressure: 1}))

	half := NewStabilizer(50)
	half.Reset(Point{})
	got := half.Next(Point{X: 10, Y: 20, Pressure: 0.7})
	assert.InDelta(t, 5, got.X, 1e-9)
	assert.InDelta(t, 10, got.Y, 1e-9)
	assert.Equal(t, 0.7, got.Pressure)

	capped := NewStabilizer(100)
	capped.Reset(Point{})
	got = capped.Next(Point{X: 100})
	assert.InDelta(t, 5, got.X, 1e-9, "amount is capped at 95")
}
