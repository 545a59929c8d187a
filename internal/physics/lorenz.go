package physics

import (
	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
)

var LorenzSchema = params.Schema{
	{Name: "sigma", Label: "σ", Range: params.Range{Min: 0, Max: 50, Default: 10}, Step: 0.1},
	{Name: "rho", Label: "ρ", Range: params.Range{Min: 0, Max: 100, Default: 28}, Step: 0.1},
	{Name: "beta", Label: "β", Range: params.Range{Min: 0, Max: 10, Default: 2.667}, Step: 0.01},
	DtKnob,
}

type Lorenz struct {
	Sigma, Rho, Beta float64
}

func NewLorenz() *Lorenz {
	l := &Lorenz{}
	l.Apply(LorenzSchema.Defaults())
	return l
}

func (l *Lorenz) StateDim() int { return 3 }

func (l *Lorenz) Derive(s dynamo.State, _ float64) dynamo.State {
	x, y, z := s[0], s[1], s[2]
	return dynamo.State{
		l.Sigma * (y - x),
		x*(l.Rho-z) - y,
		x*y - l.Beta*z,
	}
}

func (l *Lorenz) Apply(v params.Values) {
	l.Sigma, l.Rho, l.Beta = v.Get("sigma"), v.Get("rho"), v.Get("beta")
}

func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{0.01, 0, 0} }
