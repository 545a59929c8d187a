package dynamo

import "math"

// Point is an emitted sample. Two dimensional kernels leave Z at zero.
type Point struct {
	X, Y, Z float64
}

// Finite reports whether the point can be drawn.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// Vec2 is a planar vector used by agents.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Div(s float64) Vec2   { return Vec2{v.X / s, v.Y / s} }
func (v Vec2) Mag() float64         { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Mag() }

// SetMag rescales v to length m. The zero vector stays zero.
func (v Vec2) SetMag(m float64) Vec2 {
	l := v.Mag()
	if l == 0 {
		return v
	}
	return v.Scale(m / l)
}

// Limit caps the length of v at max.
func (v Vec2) Limit(max float64) Vec2 {
	l := v.Mag()
	if l > max {
		return v.Scale(max / l)
	}
	return v
}

func (v Vec2) Point() Point { return Point{X: v.X, Y: v.Y} }
