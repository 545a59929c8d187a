package integrators

import "github.com/san-kum/emergent/internal/dynamo"

// Euler is the explicit first-order scheme x' = x + f(x)·dt. Every component
// of f is evaluated from the old state before any component is written.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t, dt float64) {
	dx := sys.Derive(x, t)
	for i := range x {
		x[i] += dx[i] * dt
	}
}

// SemiImplicitEuler treats the state as [positions..., velocities...]. It
// advances the velocities first and then moves the positions with the new
// velocities.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (s *SemiImplicitEuler) Name() string { return "semi-implicit-euler" }
func (s *SemiImplicitEuler) PhasePaired() {}

func (s *SemiImplicitEuler) Step(sys dynamo.System, x dynamo.State, t, dt float64) {
	half := len(x) / 2
	dx := sys.Derive(x, t)
	for i := 0; i < half; i++ {
		x[half+i] += dx[half+i] * dt
	}
	for i := 0; i < half; i++ {
		x[i] += x[half+i] * dt
	}
}
