package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/integrators"
	"github.com/san-kum/emergent/internal/physics"
)

type decay struct{}

func (decay) StateDim() int { return 1 }
func (decay) Derive(x dynamo.State, _ float64) dynamo.State {
	return dynamo.State{-x[0]}
}

func TestLyapunovStableSystem(t *testing.T) {
	lambda := LyapunovExponent(decay{}, integrators.NewEuler(), dynamo.State{1}, 0.01, 1000, 1e-8)
	want := math.Log(0.99) / 0.01
	if math.Abs(lambda-want) > 1e-4 {
		t.Errorf("lambda = %v, want %v", lambda, want)
	}
}

func TestLyapunovLorenzPositive(t *testing.T) {
	l := physics.NewLorenz()
	rk := integrators.NewRK4()
	x := dynamo.State{1, 1, 1}
	for i := 0; i < 2000; i++ {
		rk.Step(l, x, 0, 0.01)
	}

	lambda := LyapunovExponent(l, rk, x, 0.01, 20000, 1e-8)
	if lambda < 0.5 || lambda > 1.5 {
		t.Errorf("lorenz lambda = %v, want about 0.9", lambda)
	}
}

func TestLyapunovDegenerateInput(t *testing.T) {
	tests := []struct {
		name  string
		x0    dynamo.State
		dt    float64
		steps int
	}{
		{"empty state", dynamo.State{}, 0.01, 10},
		{"no steps", dynamo.State{1}, 0.01, 0},
		{"zero dt", dynamo.State{1}, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LyapunovExponent(decay{}, integrators.NewEuler(), tt.x0, tt.dt, tt.steps, 1e-8); got != 0 {
				t.Errorf("got %v, want 0", got)
			}
		})
	}
}

func TestDivergence(t *testing.T) {
	states := []dynamo.State{{0, 0}, {3, 4}, {math.NaN(), 0}, {0, 1}}
	d := Divergence(states)
	if d[0] != 0 || d[1] != 5 || !math.IsNaN(d[2]) || d[3] != 1 {
		t.Errorf("Divergence = %v", d)
	}
	if got := MeanDivergence(states); got != 3 {
		t.Errorf("MeanDivergence = %v, want 3", got)
	}
	if got := MeanDivergence(states[:1]); got != 0 {
		t.Errorf("single instance = %v, want 0", got)
	}
}

type fixedStates []dynamo.State

func (f fixedStates) States() []dynamo.State { return f }

func TestTracker(t *testing.T) {
	tr := NewTracker(fixedStates{{0}, {2}}, 3)
	for i := 0; i < 5; i++ {
		tr.OnTick(dynamo.Snapshot{})
	}
	tr.OnTick(dynamo.Snapshot{Paused: true})

	got := tr.Series()
	if len(got) != 3 || got[2] != 2 || tr.Value() != 2 {
		t.Errorf("Series = %v", got)
	}
	tr.Reset()
	if len(tr.Series()) != 0 {
		t.Error("Reset kept samples")
	}
}

func TestDominantFrequency(t *testing.T) {
	const n = 128
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*5*float64(i)/n)
	}
	data[7] = math.NaN()

	if got := DominantFrequency(data, 1.0/n); got != 5 {
		t.Errorf("DominantFrequency = %v, want 5", got)
	}
	if ps := PowerSpectrum(data[:1]); ps != nil {
		t.Errorf("short series spectrum = %v", ps)
	}
}
