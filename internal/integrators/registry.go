package integrators

import (
	"fmt"

	"github.com/san-kum/emergent/internal/dynamo"
)

// Names lists the integrators ByName accepts.
func Names() []string {
	return []string{"euler", "semi-implicit-euler", "rk4", "rk45", "verlet"}
}

// PhasePaired is implemented by integrators that read the state as
// [positions..., velocities...] and so need an even dimension whose second
// half is the time derivative of the first.
type PhasePaired interface {
	PhasePaired()
}

// Supports reports whether integ can advance sys.
func Supports(integ dynamo.Integrator, sys dynamo.System) error {
	if _, ok := integ.(PhasePaired); ok && sys.StateDim()%2 != 0 {
		return fmt.Errorf("%w: %s needs position/velocity pairs, state has %d components",
			dynamo.ErrIncompatibleIntegrator, integ.Name(), sys.StateDim())
	}
	return nil
}

// ByName returns a fresh integrator. Integrators with scratch space must not
// be shared between kernels.
func ByName(name string) (dynamo.Integrator, error) {
	switch name {
	case "", "euler":
		return NewEuler(), nil
	case "semi-implicit-euler":
		return NewSemiImplicitEuler(), nil
	case "rk4":
		return NewRK4(), nil
	case "rk45":
		return NewRK45(), nil
	case "verlet":
		return NewVerlet(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}
