package physics

import (
	"math"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
)

// DefaultPendulumDt reproduces one animation frame of a pendulum whose
// gravity was divided by ten: g·dt² = g/10.
var DefaultPendulumDt = math.Sqrt(0.1)

var DoublePendulumSchema = params.Schema{
	{Name: "g", Label: "Gravity", Range: params.Range{Min: 1, Max: 20, Default: 9.81}, Step: 0.1},
	{Name: "m1", Label: "Mass 1", Range: params.Range{Min: 1, Max: 50, Default: 15}, Step: 1},
	{Name: "m2", Label: "Mass 2", Range: params.Range{Min: 1, Max: 50, Default: 15}, Step: 1},
	{Name: "l1", Label: "Length 1", Range: params.Range{Min: 50, Max: 300, Default: 150}, Step: 5},
	{Name: "l2", Label: "Length 2", Range: params.Range{Min: 50, Max: 300, Default: 150}, Step: 5},
	{Name: "dt", Label: "Tick scale", Range: params.Range{Min: 0.01, Max: 1, Default: DefaultPendulumDt}, Step: 0.01},
	{Name: "count", Label: "Pendulums", Range: params.Range{Min: 1, Max: 20, Default: 10}, Step: 1, Structural: true},
	{Name: "offset", Label: "Angle offset", Range: params.Range{Min: 0, Max: 0.1, Default: 0.001}, Step: 0.001, Structural: true},
	{Name: "angle", Label: "Start angle", Range: params.Range{Min: 0, Max: 2 * math.Pi, Default: math.Pi / 2}, Step: 0.05, Structural: true},
}

// DoublePendulum is the Lagrangian double pendulum with state
// [θ1, θ2, ω1, ω2] and angles measured from the downward vertical.
type DoublePendulum struct {
	M1, M2  float64
	L1, L2  float64
	Gravity float64
}

func NewDoublePendulum() *DoublePendulum {
	d := &DoublePendulum{}
	d.Apply(DoublePendulumSchema.Defaults())
	return d
}

func (d *DoublePendulum) StateDim() int { return 4 }

// Derive does not guard the shared denominator; when
// cos(2θ1−2θ2) = (2m1+m2)/m2 the result is non-finite.
func (d *DoublePendulum) Derive(x dynamo.State, _ float64) dynamo.State {
	a1, a2, v1, v2 := x[0], x[1], x[2], x[3]
	m1, m2, r1, r2, g := d.M1, d.M2, d.L1, d.L2, d.Gravity

	num1 := -g * (2*m1 + m2) * math.Sin(a1)
	num2 := -m2 * g * math.Sin(a1-2*a2)
	num3 := -2 * math.Sin(a1-a2) * m2
	num4 := v2*v2*r2 + v1*v1*r1*math.Cos(a1-a2)
	den := r1 * (2*m1 + m2 - m2*math.Cos(2*a1-2*a2))
	alpha1 := (num1 + num2 + num3*num4) / den

	num1 = 2 * math.Sin(a1-a2)
	num2 = v1 * v1 * r1 * (m1 + m2)
	num3 = g * (m1 + m2) * math.Cos(a1)
	num4 = v2 * v2 * r2 * m2 * math.Cos(a1-a2)
	den = r2 * (2*m1 + m2 - m2*math.Cos(2*a1-2*a2))
	alpha2 := (num1 * (num2 + num3 + num4)) / den

	return dynamo.State{v1, v2, alpha1, alpha2}
}

func (d *DoublePendulum) Apply(v params.Values) {
	d.Gravity = v.Get("g")
	d.M1, d.M2 = v.Get("m1"), v.Get("m2")
	d.L1, d.L2 = v.Get("l1"), v.Get("l2")
}

// Energy is kinetic plus potential energy with y measured downward.
func (d *DoublePendulum) Energy(x dynamo.State) float64 {
	a1, a2, v1, v2 := x[0], x[1], x[2], x[3]
	m1, m2, l1, l2, g := d.M1, d.M2, d.L1, d.L2, d.Gravity

	v1sq := l1 * l1 * v1 * v1
	v2sq := l1*l1*v1*v1 + l2*l2*v2*v2 + 2*l1*l2*v1*v2*math.Cos(a1-a2)
	ke := 0.5*m1*v1sq + 0.5*m2*v2sq

	y1 := -l1 * math.Cos(a1)
	y2 := y1 - l2*math.Cos(a2)
	pe := m1*g*y1 + m2*g*y2

	return ke + pe
}

// Bobs returns the pivot-relative positions of both masses.
func (d *DoublePendulum) Bobs(x dynamo.State) (b1, b2 dynamo.Point) {
	b1 = dynamo.Point{X: d.L1 * math.Sin(x[0]), Y: d.L1 * math.Cos(x[0])}
	b2 = dynamo.Point{X: b1.X + d.L2*math.Sin(x[1]), Y: b1.Y + d.L2*math.Cos(x[1])}
	return b1, b2
}

// Tip is the position of the outer mass, the point traced by the trail.
func (d *DoublePendulum) Tip(x dynamo.State) dynamo.Point {
	_, b2 := d.Bobs(x)
	return b2
}

// Arms returns both rods as segments from the pivot.
func (d *DoublePendulum) Arms(x dynamo.State) []dynamo.Segment {
	b1, b2 := d.Bobs(x)
	return []dynamo.Segment{
		{From: dynamo.Point{}, To: b1, Depth: 0},
		{From: b1, To: b2, Depth: 1},
	}
}

// Fan returns n pendulums at rest with both angles set to base + i·offset.
func Fan(base, offset float64, n int) []dynamo.State {
	out := make([]dynamo.State, n)
	for i := range out {
		a := base + offset*float64(i)
		out[i] = dynamo.State{a, a, 0, 0}
	}
	return out
}

// Spread returns pendulums at rest centred on base: base, base+δ, base−δ, ...
func Spread(base, delta float64, n int) []dynamo.State {
	out := make([]dynamo.State, n)
	for i := range out {
		k := float64((i + 1) / 2)
		if i%2 == 0 {
			k = -k
		}
		a := base + k*delta
		out[i] = dynamo.State{a, a, 0, 0}
	}
	return out
}
