package physics

import (
	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
)

var AizawaSchema = params.Schema{
	{Name: "a", Range: params.Range{Min: 0, Max: 2, Default: 0.95}, Step: 0.01},
	{Name: "b", Range: params.Range{Min: 0, Max: 2, Default: 0.7}, Step: 0.01},
	{Name: "c", Range: params.Range{Min: 0, Max: 2, Default: 0.6}, Step: 0.01},
	{Name: "d", Range: params.Range{Min: 0, Max: 5, Default: 3.5}, Step: 0.1},
	{Name: "e", Range: params.Range{Min: 0, Max: 1, Default: 0.25}, Step: 0.01},
	{Name: "f", Range: params.Range{Min: 0, Max: 1, Default: 0.1}, Step: 0.01},
	DtKnob,
}

// Aizawa is the six-coefficient attractor with a central tube.
type Aizawa struct {
	A, B, C, D, E, F float64
}

func NewAizawa() *Aizawa {
	a := &Aizawa{}
	a.Apply(AizawaSchema.Defaults())
	return a
}

func (a *Aizawa) StateDim() int { return 3 }

func (a *Aizawa) Derive(s dynamo.State, _ float64) dynamo.State {
	x, y, z := s[0], s[1], s[2]
	return dynamo.State{
		(z-a.B)*x - a.D*y,
		a.D*x + (z-a.B)*y,
		a.C + a.A*z - z*z*z/3 - (x*x+y*y)*(1+a.E*z) + a.F*z*x*x*x,
	}
}

func (a *Aizawa) Apply(v params.Values) {
	a.A, a.B, a.C = v.Get("a"), v.Get("b"), v.Get("c")
	a.D, a.E, a.F = v.Get("d"), v.Get("e"), v.Get("f")
}

func (a *Aizawa) DefaultState() dynamo.State { return dynamo.State{0.1, 0, 0} }
