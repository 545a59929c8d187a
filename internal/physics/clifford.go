package physics

import (
	"math"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
)

var CliffordSchema = params.Schema{
	{Name: "a", Range: params.Range{Min: -3, Max: 3, Default: -1.4}, Step: 0.01},
	{Name: "b", Range: params.Range{Min: -3, Max: 3, Default: 1.6}, Step: 0.01},
	{Name: "c", Range: params.Range{Min: -3, Max: 3, Default: 1.0}, Step: 0.01},
	{Name: "d", Range: params.Range{Min: -3, Max: 3, Default: 0.7}, Step: 0.01},
	{Name: "points", Label: "Points per tick", Range: params.Range{Min: 1, Max: 150000, Default: 5000}, Step: 500},
}

// Clifford is the map x' = sin(a·y) + c·cos(a·x), y' = sin(b·x) + d·cos(b·y).
type Clifford struct {
	A, B, C, D float64
}

func NewClifford() *Clifford {
	c := &Clifford{}
	c.Apply(CliffordSchema.Defaults())
	return c
}

func (c *Clifford) StateDim() int { return 2 }

func (c *Clifford) Iterate(s dynamo.State) dynamo.State {
	x, y := s[0], s[1]
	return dynamo.State{
		math.Sin(c.A*y) + c.C*math.Cos(c.A*x),
		math.Sin(c.B*x) + c.D*math.Cos(c.B*y),
	}
}

func (c *Clifford) Apply(v params.Values) {
	c.A, c.B, c.C, c.D = v.Get("a"), v.Get("b"), v.Get("c"), v.Get("d")
}

func (c *Clifford) DefaultState() dynamo.State { return dynamo.State{0, 0} }
