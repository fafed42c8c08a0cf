package paint

import (
	"fmt"
	"math"
	"strings"
)

// SymmetryMode selects how strokes are mirrored.
type SymmetryMode int

const (
	SymmetryNone SymmetryMode = iota
	// SymmetryVertical mirrors across the vertical centre line.
	SymmetryVertical
	// SymmetryHorizontal mirrors across the horizontal centre line.
	SymmetryHorizontal
	// SymmetryRadial repeats the stroke around the centre.
	SymmetryRadial
)

// DefaultSectors is the radial repeat count when none is configured.
const DefaultSectors = 6

var symmetryNames = []string{"none", "vertical", "horizontal", "radial"}

func (m SymmetryMode) String() string {
	if m < 0 || int(m) >= len(symmetryNames) {
		return fmt.Sprintf("SymmetryMode(%d)", int(m))
	}
	return symmetryNames[m]
}

// ParseSymmetryMode accepts the names printed by String.
func ParseSymmetryMode(s string) (SymmetryMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range symmetryNames {
		if n == s {
			return SymmetryMode(i), nil
		}
	}
	return SymmetryNone, fmt.Errorf("unknown symmetry mode %q", s)
}

// Symmetry mirrors input about a centre point, normally the canvas centre.
type Symmetry struct {
	Mode    SymmetryMode
	Sectors int
	CX, CY  float64
}

// Points returns p followed by its mirror images.
func (s Symmetry) Points(p Point) []Point {
	switch s.Mode {
	case SymmetryVertical:
		return []Point{p, {X: 2*s.CX - p.X, Y: p.Y, Pressure: p.Pressure}}
	case SymmetryHorizontal:
		return []Point{p, {X: p.X, Y: 2*s.CY - p.Y, Pressure: p.Pressure}}
	case SymmetryRadial:
		n := s.Sectors
		if n < 1 {
			n = DefaultSectors
		}
		out := make([]Point, n)
		dx, dy := p.X-s.CX, p.Y-s.CY
		for k := range n {
			sin, cos := math.Sincos(2 * math.Pi * float64(k) / float64(n))
			out[k] = Point{
				X:        s.CX + dx*cos - dy*sin,
				Y:        s.CY + dx*sin + dy*cos,
				Pressure: p.Pressure,
			}
		}
		return out
	}
	return []Point{p}
}

// Segments returns the segment p1→p2 followed by its mirror images.
func (s Symmetry) Segments(p1, p2 Point) [][2]Point {
	a, b := s.Points(p1), s.Points(p2)
	out := make([][2]Point, len(a))
	for i := range a {
		out[i] = [2]Point{a[i], b[i]}
	}
	return out
}
