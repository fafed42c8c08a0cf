package raster

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircleCoverage(t *testing.T) {
	m := Circle(50, 40, 10)
	require.NotNil(t, m)
	assert.True(t, image.Pt(50, 40).In(m.Rect))
	assert.Equal(t, uint8(0xff), m.AlphaAt(50, 40).A, "centre fully covered")
	assert.Equal(t, uint8(0), m.AlphaAt(m.Rect.Min.X, m.Rect.Min.Y).A, "corner uncovered")
	assert.Equal(t, uint8(0), m.AlphaAt(50, 52).A, "outside radius")
}

func TestRingHasHole(t *testing.T) {
	m := Ring(20, 20, 10, 2)
	require.NotNil(t, m)
	assert.Equal(t, uint8(0), m.AlphaAt(20, 20).A)
	assert.Greater(t, m.AlphaAt(30, 20).A, uint8(0x80))
}

func TestDegenerateShapes(t *testing.T) {
	assert.Nil(t, Ellipse(0, 0, 0, 5))
	assert.Nil(t, Ring(0, 0, 0, 1))
	assert.Nil(t, Line(3, 3, 3, 3, 2))
	assert.Nil(t, Polygon([][2]float64{{0, 0}, {1, 1}}))
}

func TestLineCoversSegment(t *testing.T) {
	m := Line(10, 10, 10, 40, 4)
	require.NotNil(t, m)
	assert.Equal(t, uint8(0xff), m.AlphaAt(10, 25).A)
	assert.Equal(t, uint8(0), m.AlphaAt(16, 25).A)
}

func TestFillAndClear(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 30, 30))
	draw.Draw(dst, dst.Rect, image.NewUniform(color.RGBA{0, 0, 0xff, 0xff}), image.Point{}, draw.Src)

	Clear(dst, Circle(15, 15, 5), 1)
	assert.Equal(t, uint8(0), dst.RGBAAt(15, 15).A, "cleared centre")
	assert.Equal(t, uint8(0xff), dst.RGBAAt(2, 2).A, "untouched corner")

	Fill(dst, Circle(15, 15, 5), color.RGBA{0xff, 0, 0, 0xff})
	assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, dst.RGBAAt(15, 15))
}

func TestClearIsClipped(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	draw.Draw(dst, dst.Rect, image.Opaque, image.Point{}, draw.Src)
	assert.NotPanics(t, func() { Clear(dst, Circle(0, 0, 6), 0.5) })
	a := dst.RGBAAt(0, 0).A
	assert.Less(t, a, uint8(0xff))
	assert.Greater(t, a, uint8(0))
}

func TestScale(t *testing.T) {
	m := Circle(10, 10, 6)
	Scale(m, func(x, y float64) float64 { return 0.5 })
	assert.InDelta(t, 128, int(m.AlphaAt(10, 10).A), 1)
}

func TestLinesShareOneMask(t *testing.T) {
	m := Lines([][4]float64{{0, 5, 20, 5}, {10, 0, 10, 20}, {3, 3, 3, 3}}, 2)
	require.NotNil(t, m)
	assert.Equal(t, uint8(0xff), m.AlphaAt(4, 5).A)
	assert.Equal(t, uint8(0xff), m.AlphaAt(10, 15).A)
	assert.Equal(t, uint8(0xff), m.AlphaAt(10, 5).A, "crossing saturates, does not wrap")
	assert.Equal(t, uint8(0), m.AlphaAt(15, 15).A)
	assert.Nil(t, Lines([][4]float64{{1, 1, 1, 1}}, 2))
}
