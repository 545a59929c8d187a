// Package epicycle traces a closed shape with a chain of rotating circles
// whose radii and phases come from the shape's discrete Fourier transform.
package epicycle

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/trail"
)

// Samples is the number of points taken from each shape.
const Samples = 600

// tickDt is the time advanced per tick at speed 1.
const tickDt = 2 * math.Pi / Samples

var Schema = params.Schema{
	{Name: "harmonics", Label: "Epicycles", Range: params.Range{Min: 1, Max: 300, Default: 50}, Step: 1},
	{Name: "speed", Label: "Drawing speed", Range: params.Range{Min: 0.1, Max: 5, Default: 1}, Step: 0.1},
	{Name: "shape", Label: "Shape", Range: params.Range{Min: 0, Max: float64(len(Shapes) - 1), Default: 0}, Step: 1, Structural: true},
}

// Term is one rotating circle.
type Term struct {
	Freq  float64
	Amp   float64
	Phase float64
}

// Transform returns the DFT of z normalised by len(z), sorted by amplitude,
// largest first.
func Transform(z []complex128) []Term {
	n := float64(len(z))
	coeffs := fft.FFT(z)
	terms := make([]Term, len(coeffs))
	for k, c := range coeffs {
		c /= complex(n, 0)
		terms[k] = Term{Freq: float64(k), Amp: cmplx.Abs(c), Phase: cmplx.Phase(c)}
	}
	sort.SliceStable(terms, func(i, j int) bool { return terms[i].Amp > terms[j].Amp })
	return terms
}

// Chain sums the first n terms at time t and returns every circle centre
// followed by the tip.
func Chain(terms []Term, n int, t float64) []dynamo.Point {
	n = min(n, len(terms))
	out := make([]dynamo.Point, 0, n+1)
	var x, y float64
	out = append(out, dynamo.Point{})
	for _, term := range terms[:n] {
		a := term.Freq*t + term.Phase
		x += term.Amp * math.Cos(a)
		y += term.Amp * math.Sin(a)
		out = append(out, dynamo.Point{X: x, Y: y})
	}
	return out
}

// Tracer is the epicycle kernel.
type Tracer struct {
	terms []Term
	time  float64
	path  *trail.Buffer[dynamo.Point]
	chain []dynamo.Point
	tick  uint64
}

func NewTracer() *Tracer {
	tr := &Tracer{}
	tr.Reset(0, Schema.Defaults())
	return tr
}

func (tr *Tracer) Name() string          { return "epicycles" }
func (tr *Tracer) Schema() params.Schema { return Schema }

func (tr *Tracer) Reset(_ int64, v params.Values) {
	v = Schema.Clamp(v)
	shape := Shapes[v.Int("shape")]
	z := make([]complex128, Samples)
	for i := range z {
		z[i] = shape.Sample(i, Samples)
	}
	tr.terms = Transform(z)
	tr.time = 0
	tr.path = trail.MustNew[dynamo.Point](PathCapacity(v.Get("speed")))
	tr.chain = Chain(tr.terms, v.Int("harmonics"), 0)
	tr.tick = 0
}

// PathCapacity is one full revolution of points at the given speed, or at
// speed 1 when speed is not a positive finite number.
func PathCapacity(speed float64) int {
	if !(speed > 0) || math.IsInf(speed, 0) {
		return Samples + 2
	}
	return int(math.Floor(Samples/speed)) + 2
}

// Step records the tip at the current time, then advances time by
// speed·2π/Samples, wrapping after one revolution.
func (tr *Tracer) Step(v params.Values) {
	speed := v.Get("speed")
	tr.chain = Chain(tr.terms, v.Int("harmonics"), tr.time)
	tr.path.Push(tr.chain[len(tr.chain)-1])

	tr.time += tickDt * speed
	if c := PathCapacity(speed); c != tr.path.Cap() {
		// PathCapacity is at least 2.
		if err := tr.path.Resize(c); err != nil {
			panic(err)
		}
	}
	if tr.time > 2*math.Pi {
		tr.time = 0
	}
	tr.tick++
}

// Terms returns the sorted Fourier terms of the current shape.
func (tr *Tracer) Terms() []Term { return tr.terms }

func (tr *Tracer) Snapshot() dynamo.Snapshot {
	segs := make([]dynamo.Segment, 0, len(tr.chain))
	for i := 1; i < len(tr.chain); i++ {
		segs = append(segs, dynamo.Segment{From: tr.chain[i-1], To: tr.chain[i], Depth: i - 1})
	}
	head := tr.chain[len(tr.chain)-1]
	return dynamo.Snapshot{
		Kernel:   tr.Name(),
		Tick:     tr.tick,
		Trails:   [][]dynamo.Point{tr.path.Slice()},
		Heads:    []dynamo.Point{head},
		Segments: segs,
	}
}
