package epicycle

import (
	"math"
	"testing"

	"github.com/san-kum/emergent/internal/params"
)

func TestTransform_FullChainReconstructsSamples(t *testing.T) {
	for _, shape := range Shapes {
		t.Run(shape.Name, func(t *testing.T) {
			z := make([]complex128, Samples)
			for i := range z {
				z[i] = shape.Sample(i, Samples)
			}
			terms := Transform(z)
			for _, n := range []int{0, 17, 299, 599} {
				tt := 2 * math.Pi * float64(n) / Samples
				chain := Chain(terms, len(terms), tt)
				tip := chain[len(chain)-1]
				if math.Abs(tip.X-real(z[n])) > 1e-6 || math.Abs(tip.Y-imag(z[n])) > 1e-6 {
					t.Errorf("sample %d: tip (%v,%v), want %v", n, tip.X, tip.Y, z[n])
				}
			}
		})
	}
}

func TestTransform_SortedByAmplitude(t *testing.T) {
	z := make([]complex128, Samples)
	for i := range z {
		z[i] = Shapes[0].Sample(i, Samples)
	}
	terms := Transform(z)
	for i := 1; i < len(terms); i++ {
		if terms[i].Amp > terms[i-1].Amp {
			t.Fatalf("term %d amp %v > term %d amp %v", i, terms[i].Amp, i-1, terms[i-1].Amp)
		}
	}
}

func TestPathCapacity(t *testing.T) {
	tests := []struct {
		speed float64
		want  int
	}{
		{1, 602},
		{2, 302},
		{3, 202},
		{5, 122},
		{0, Samples + 2},
	}
	for _, tt := range tests {
		if got := PathCapacity(tt.speed); got != tt.want {
			t.Errorf("PathCapacity(%v) = %d, want %d", tt.speed, got, tt.want)
		}
	}
}

func TestTracer_TimeWrapsAndPathBounded(t *testing.T) {
	tr := NewTracer()
	v := params.Resolve(Schema, params.NewStatic(params.Values{"speed": 5}))
	for i := 0; i < 1000; i++ {
		tr.Step(v)
		if tr.time > 2*math.Pi {
			t.Fatalf("time %v not wrapped", tr.time)
		}
	}
	snap := tr.Snapshot()
	if got, want := len(snap.Trails[0]), PathCapacity(5); got != want {
		t.Errorf("path = %d, want %d", got, want)
	}
	if len(snap.Segments) != 50 {
		t.Errorf("segments = %d, want one per harmonic", len(snap.Segments))
	}
}

func TestTracer_SpeedChangeResizesPath(t *testing.T) {
	tr := NewTracer()
	v := Schema.Defaults()
	for i := 0; i < 700; i++ {
		tr.Step(v)
	}
	v["speed"] = 3
	tr.Step(v)
	if got, want := len(tr.Snapshot().Trails[0]), PathCapacity(3); got != want {
		t.Errorf("path = %d, want %d", got, want)
	}
}

func TestTracer_ShapeReset(t *testing.T) {
	tr := NewTracer()
	heart := tr.Terms()[0]
	v := Schema.Defaults()
	v["shape"] = 5
	tr.Reset(0, v)
	if tr.Terms()[0] == heart {
		t.Error("shape change did not rebuild the transform")
	}
	if len(ShapeNames()) != 7 {
		t.Errorf("shapes = %d", len(ShapeNames()))
	}
}
