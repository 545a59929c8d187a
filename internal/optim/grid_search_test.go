package optim

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/experiment"
	"github.com/san-kum/emergent/internal/params"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func diffusionBase() experiment.Config {
	return experiment.Config{
		Demo:  "reaction-diffusion",
		Ticks: 1,
		Seed:  3,
		Params: params.Values{
			"width":      40,
			"height":     40,
			"iterations": 2,
		},
	}
}

func TestLinspace(t *testing.T) {
	tests := []struct {
		lo, hi float64
		n      int
		want   []float64
	}{
		{0, 1, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
		{2, 2, 1, []float64{2}},
		{-1, 1, 3, []float64{-1, 0, 1}},
	}
	for _, tt := range tests {
		got := Linspace(tt.lo, tt.hi, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("Linspace(%v, %v, %d) = %v", tt.lo, tt.hi, tt.n, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Linspace(%v, %v, %d)[%d] = %v, want %v", tt.lo, tt.hi, tt.n, i, got[i], tt.want[i])
			}
		}
	}
}

func TestGridSearch_MinimizeAndMaximize(t *testing.T) {
	reg := experiment.NewRegistry()
	build := ExperimentBuilder(reg, diffusionBase(), quiet)

	g := NewGridSearch([]string{"patches"}, [][]float64{{5, 0}})
	best, val, err := g.Search(context.Background(), build, "mean_B")
	if err != nil {
		t.Fatal(err)
	}
	if best["patches"] != 0 || val != 0 {
		t.Errorf("minimum at %v = %v, want patches=0 and 0", best, val)
	}

	g.Maximize = true
	best, val, err = g.Search(context.Background(), build, "mean_B")
	if err != nil {
		t.Fatal(err)
	}
	if best["patches"] != 5 || val <= 0 {
		t.Errorf("maximum at %v = %v, want patches=5 and positive", best, val)
	}
}

func TestGridSearch_TiesKeepFirstPoint(t *testing.T) {
	g := NewGridSearch([]string{"rho", "sigma"}, [][]float64{{20, 28}, {8, 10}})
	if g.Size() != 4 {
		t.Fatalf("size = %d", g.Size())
	}
	build := ExperimentBuilder(experiment.NewRegistry(), experiment.Config{Demo: "lorenz", Ticks: 20}, quiet)
	best, val, err := g.Search(context.Background(), build, "finite_ratio")
	if err != nil {
		t.Fatal(err)
	}
	if val != 1 || best["rho"] != 20 || best["sigma"] != 8 {
		t.Errorf("best = %v (%v)", best, val)
	}
}

func TestGridSearch_Errors(t *testing.T) {
	reg := experiment.NewRegistry()
	lorenz := ExperimentBuilder(reg, experiment.Config{Demo: "lorenz", Ticks: 5}, quiet)

	_, _, err := NewGridSearch([]string{"bogus"}, [][]float64{{1}}).Search(context.Background(), lorenz, "finite_ratio")
	if !errors.Is(err, dynamo.ErrUnknownParameter) {
		t.Errorf("unknown parameter: err = %v", err)
	}

	_, _, err = NewGridSearch([]string{"rho"}, [][]float64{{28}}).Search(context.Background(), lorenz, "no_such_metric")
	if err == nil {
		t.Error("missing metric: want error")
	}

	_, _, err = NewGridSearch([]string{"rho"}, [][]float64{{}}).Search(context.Background(), lorenz, "finite_ratio")
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("empty grid: err = %v", err)
	}

	_, _, err = NewGridSearch([]string{"rho", "beta"}, [][]float64{{28}}).Search(context.Background(), lorenz, "finite_ratio")
	if err == nil {
		t.Error("mismatched ranges: want error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = NewGridSearch([]string{"rho"}, [][]float64{{28}}).Search(ctx, lorenz, "finite_ratio")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v", err)
	}
}
