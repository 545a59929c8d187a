package dynamo

import (
	"math"

	"github.com/san-kum/emergent/internal/params"
)

// State is a small fixed-arity vector mutated in place by a kernel.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is a continuous vector field dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Map is a discrete iterated map X' = g(X) with no time step.
type Map interface {
	Iterate(x State) State
	StateDim() int
}

// Integrator advances x by one fixed step dt, writing the result into x.
type Integrator interface {
	Name() string
	Step(sys System, x State, t, dt float64)
}

// Kernel is one stepped simulation owned by a controller.
//
// Step must accept any Values resolved against Schema and must always
// produce some next state, even a degenerate one. Reset rebuilds the
// state from seed, sized by the structural knobs in v.
type Kernel interface {
	Name() string
	Schema() params.Schema
	Step(v params.Values)
	Reset(seed int64, v params.Values)
	Snapshot() Snapshot
}

// Renderer consumes one snapshot per frame. Implementations must skip
// non-finite elements rather than fail.
type Renderer interface {
	OnTick(s Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(s Snapshot)

func (f RendererFunc) OnTick(s Snapshot) { f(s) }
