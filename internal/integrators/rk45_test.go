package integrators

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/emergent/internal/dynamo"
)

func TestRK45_CoversWholeTick(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"small tick", 0.01},
		{"large tick", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := dynamo.State{1}
			NewRK45().Step(&decay{}, x, 0, tt.dt)
			if want := math.Exp(-tt.dt); math.Abs(x[0]-want) > 1e-5 {
				t.Errorf("x = %v, want %v", x[0], want)
			}
		})
	}
}

func TestRK45_Oscillator(t *testing.T) {
	x := dynamo.State{1.0, 0.0}
	integ := NewRK45()
	for i := 0; i < 100; i++ {
		integ.Step(&simpleDynamics{}, x, float64(i)*0.1, 0.1)
	}
	if math.Abs(x[0]-math.Cos(10)) > 1e-3 || math.Abs(x[1]+math.Sin(10)) > 1e-3 {
		t.Errorf("state = %v, want (%v, %v)", x, math.Cos(10), -math.Sin(10))
	}
}

func TestRK45_NonFiniteStateReturns(t *testing.T) {
	tests := []struct {
		name string
		x    dynamo.State
	}{
		{"nan", dynamo.State{math.NaN(), 0, 0}},
		{"inf", dynamo.State{math.Inf(1), 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integ := NewRK45()
			done := make(chan struct{})
			go func() {
				defer close(done)
				for i := 0; i < 3; i++ {
					integ.Step(&benchDynamics{}, tt.x, 0, 0.01)
				}
			}()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("Step did not return on a non-finite state")
			}
			finite := true
			for _, v := range tt.x {
				finite = finite && !math.IsNaN(v) && !math.IsInf(v, 0)
			}
			if finite {
				t.Errorf("state = %v, want non-finite", tt.x)
			}
		})
	}
}

func TestSupports(t *testing.T) {
	tests := []struct {
		integ dynamo.Integrator
		sys   dynamo.System
		ok    bool
	}{
		{NewEuler(), &benchDynamics{}, true},
		{NewRK4(), &benchDynamics{}, true},
		{NewRK45(), &benchDynamics{}, true},
		{NewVerlet(), &benchDynamics{}, false},
		{NewSemiImplicitEuler(), &benchDynamics{}, false},
		{NewVerlet(), &simpleDynamics{}, true},
		{NewSemiImplicitEuler(), &simpleDynamics{}, true},
	}
	for _, tt := range tests {
		err := Supports(tt.integ, tt.sys)
		if tt.ok != (err == nil) {
			t.Errorf("Supports(%s, dim %d) = %v", tt.integ.Name(), tt.sys.StateDim(), err)
		}
		if err != nil && !errors.Is(err, dynamo.ErrIncompatibleIntegrator) {
			t.Errorf("err = %v, want ErrIncompatibleIntegrator", err)
		}
	}
}

func TestVerlet_BoundedOscillator(t *testing.T) {
	x := dynamo.State{1.0, 0.0}
	integ := NewVerlet()
	for i := 0; i < 10000; i++ {
		integ.Step(&simpleDynamics{}, x, 0, 0.01)
	}
	if e := 0.5 * (x[0]*x[0] + x[1]*x[1]); math.Abs(e-0.5) > 1e-3 {
		t.Errorf("energy drifted to %v", e)
	}
}

func BenchmarkRK45(b *testing.B) {
	integrator := NewRK45()
	dyn := &benchDynamics{}
	x := dynamo.State{0.01, 0, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Step(dyn, x, 0, 0.001)
	}
}
