package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/emergent/internal/dynamo"
)

type decay struct{}

func (d *decay) Derive(x dynamo.State, t float64) dynamo.State { return dynamo.State{-x[0]} }
func (d *decay) StateDim() int                                 { return 1 }

func TestEuler_SingleStep(t *testing.T) {
	x := dynamo.State{1.0}
	NewEuler().Step(&decay{}, x, 0, 0.1)
	if math.Abs(x[0]-0.9) > 1e-15 {
		t.Errorf("x = %v, want 0.9", x[0])
	}
}

func TestEuler_UsesOldStateForEveryComponent(t *testing.T) {
	// For the oscillator, updating x[0] before deriving x[1] would change x[1].
	x := dynamo.State{1.0, 0.0}
	NewEuler().Step(&simpleDynamics{}, x, 0, 0.5)
	if x[0] != 1.0 || x[1] != -0.5 {
		t.Errorf("x = %v, want [1 -0.5]", x)
	}
}

func TestSemiImplicitEuler_VelocityFirst(t *testing.T) {
	x := dynamo.State{1.0, 0.0}
	NewSemiImplicitEuler().Step(&simpleDynamics{}, x, 0, 0.5)
	// v' = 0 + (-1)(0.5) = -0.5 ; q' = 1 + (-0.5)(0.5) = 0.75
	if x[1] != -0.5 || x[0] != 0.75 {
		t.Errorf("x = %v, want [0.75 -0.5]", x)
	}
}

func TestSemiImplicitEuler_BoundedOscillator(t *testing.T) {
	x := dynamo.State{1.0, 0.0}
	integ := NewSemiImplicitEuler()
	for i := 0; i < 10000; i++ {
		integ.Step(&simpleDynamics{}, x, 0, 0.01)
	}
	if e := 0.5 * (x[0]*x[0] + x[1]*x[1]); math.Abs(e-0.5) > 0.01 {
		t.Errorf("energy drifted to %v", e)
	}
}

func TestByName(t *testing.T) {
	for _, name := range append([]string{""}, Names()...) {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q): %v", name, err)
		}
	}
	if _, err := ByName("leapfrog"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}
