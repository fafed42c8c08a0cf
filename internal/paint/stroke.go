package paint

import (
	"image"
	"image/color"
	"math"

	"github.com/example/darrow/internal/brush"
)

// Segment walks p1→p2 at brush spacing and dabs at every step plus once at
// p2. It returns the number of dab events.
func (p *Painter) Segment(dst *image.RGBA, p1, p2 Point, col color.NRGBA, size float64, b *brush.Brush) int {
	return p.segment(dst, p1, p2, col, size, b, brush.Taper{}, 0, 0)
}

// segment paints one segment of a stroke. offset is the stroke length
// already covered before p1 and total the full stroke length; they only
// matter when tp is active.
func (p *Painter) segment(dst *image.RGBA, p1, p2 Point, col color.NRGBA, size float64, b *brush.Brush, tp brush.Taper, offset, total float64) int {
	if b == nil {
		return 0
	}
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	distance := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx)
	spacing := math.Max(1, size*b.Shape.Spacing/100)
	cos, sin := math.Cos(angle), math.Sin(angle)

	events := 0
	for i := 0.0; i < distance; i += spacing {
		t := i / distance
		pressure := p1.Pressure + (p2.Pressure-p1.Pressure)*t
		p.dab(dst, p1.X+cos*i, p1.Y+sin*i, col, pressure, b, size, tp.Factor(offset+i, total))
		events++
	}
	p.dab(dst, p2.X, p2.Y, col, p2.Pressure, b, size, tp.Factor(offset+distance, total))
	return events + 1
}

// Stroke is the record of one brush stroke from pointer-down to pointer-up.
// Replaying it with the same seed reproduces every random draw.
type Stroke struct {
	Seed   uint64
	Color  color.NRGBA
	Size   float64
	Brush  *brush.Brush
	Points []Point
}

// NewStroke starts a stroke at p0 and reseeds the painter so that live
// painting and a later Replay draw the same numbers.
func (p *Painter) NewStroke(seed uint64, p0 Point, col color.NRGBA, size float64, b *brush.Brush) *Stroke {
	p.Reseed(seed)
	return &Stroke{Seed: seed, Color: col, Size: size, Brush: b, Points: []Point{p0}}
}

// Extend paints from the last recorded point to pt, mirrored by sym, and
// records pt.
func (p *Painter) Extend(dst *image.RGBA, s *Stroke, pt Point, sym Symmetry) int {
	last := s.Points[len(s.Points)-1]
	s.Points = append(s.Points, pt)
	events := 0
	for _, seg := range sym.Segments(last, pt) {
		events += p.Segment(dst, seg[0], seg[1], s.Color, s.Size, s.Brush)
	}
	return events
}

// Length is the total path length of the stroke.
func (s *Stroke) Length() float64 {
	var l float64
	for i := 1; i < len(s.Points); i++ {
		l += math.Hypot(s.Points[i].X-s.Points[i-1].X, s.Points[i].Y-s.Points[i-1].Y)
	}
	return l
}

// Tapered reports whether a replay would differ from the live stroke.
func (s *Stroke) Tapered() bool {
	return s.Brush != nil && s.Brush.Taper.Active() && len(s.Points) > 1
}

// Replay repaints the whole stroke onto dst with the brush taper applied.
// dst is expected to hold the pre-stroke pixels and sym must match the one
// the stroke was painted with.
func (p *Painter) Replay(dst *image.RGBA, s *Stroke, sym Symmetry) int {
	p.Reseed(s.Seed)
	total := s.Length()
	var offset float64
	events := 0
	for i := 1; i < len(s.Points); i++ {
		a, b := s.Points[i-1], s.Points[i]
		for _, seg := range sym.Segments(a, b) {
			events += p.segment(dst, seg[0], seg[1], s.Color, s.Size, s.Brush, s.Brush.Taper, offset, total)
		}
		offset += math.Hypot(b.X-a.X, b.Y-a.Y)
	}
	return events
}
