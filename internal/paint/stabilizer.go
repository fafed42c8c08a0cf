package paint

import "math"

// Stabilizer smooths pointer positions with an exponential moving average.
// Amount 0 passes samples through; higher amounts lag further behind.
type Stabilizer struct {
	factor float64
	last   Point
	primed bool
}

// NewStabilizer returns a stabilizer for a brush stabilization amount in
// 0..100. Amounts above 95 are treated as 95.
func NewStabilizer(amount float64) *Stabilizer {
	amount = math.Max(0, math.Min(95, amount))
	return &Stabilizer{factor: 1 - amount/100}
}

// Reset starts a new stroke at p.
func (s *Stabilizer) Reset(p Point) {
	s.last = p
	s.primed = true
}

// Next returns the smoothed position for p. Pressure is not smoothed.
func (s *Stabilizer) Next(p Point) Point {
	if !s.primed {
		s.Reset(p)
		return p
	}
	s.last = Point{
		X:        s.last.X + (p.X-s.last.X)*s.factor,
		Y:        s.last.Y + (p.Y-s.last.Y)*s.factor,
		Pressure: p.Pressure,
	}
	return s.last
}
