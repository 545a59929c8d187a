package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/emergent/internal/dynamo"
)

// Divergence returns the Euclidean distance of every state from states[0].
// The first entry is always 0. Non-finite states yield NaN.
func Divergence(states []dynamo.State) []float64 {
	out := make([]float64, len(states))
	if len(states) == 0 {
		return out
	}
	ref := states[0]
	for i := 1; i < len(states); i++ {
		s := states[i]
		if len(s) != len(ref) || !s.IsValid() || !ref.IsValid() {
			out[i] = math.NaN()
			continue
		}
		out[i] = floats.Distance(s, ref, 2)
	}
	return out
}

// MeanDivergence averages the finite, non-reference entries of Divergence.
func MeanDivergence(states []dynamo.State) float64 {
	d := Divergence(states)
	if len(d) < 2 {
		return 0
	}
	sum, n := 0.0, 0
	for _, v := range d[1:] {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// StateSource exposes the live states of an ensemble kernel.
type StateSource interface {
	States() []dynamo.State
}

// Tracker records the mean divergence of an ensemble once per frame. It is
// both a Renderer and a metric named "divergence", and must run on the
// goroutine that ticks src.
type Tracker struct {
	src    StateSource
	series []float64
	limit  int
}

// NewTracker keeps at most limit samples; limit <= 0 keeps everything.
func NewTracker(src StateSource, limit int) *Tracker {
	return &Tracker{src: src, limit: limit}
}

func (t *Tracker) Name() string { return "divergence" }

// Observe samples unconditionally.
func (t *Tracker) Observe(dynamo.Snapshot) {
	t.series = append(t.series, MeanDivergence(t.src.States()))
	if t.limit > 0 && len(t.series) > t.limit {
		t.series = t.series[len(t.series)-t.limit:]
	}
}

// OnTick samples only unpaused frames.
func (t *Tracker) OnTick(s dynamo.Snapshot) {
	if !s.Paused {
		t.Observe(s)
	}
}

// Value is the latest sample, 0 before the first.
func (t *Tracker) Value() float64 {
	if len(t.series) == 0 {
		return 0
	}
	return t.series[len(t.series)-1]
}

func (t *Tracker) Series() []float64 {
	out := make([]float64, len(t.series))
	copy(out, t.series)
	return out
}

func (t *Tracker) Reset() { t.series = t.series[:0] }
