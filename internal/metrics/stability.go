package metrics

import "github.com/san-kum/emergent/internal/dynamo"

// FiniteRatio is the fraction of observed heads that could be drawn.
type FiniteRatio struct {
	finite, total int
}

func NewFiniteRatio() *FiniteRatio { return &FiniteRatio{} }

func (f *FiniteRatio) Name() string { return "finite_ratio" }

func (f *FiniteRatio) Observe(s dynamo.Snapshot) {
	for _, p := range s.Heads {
		f.total++
		if p.Finite() {
			f.finite++
		}
	}
}

func (f *FiniteRatio) Value() float64 {
	if f.total == 0 {
		return 1.0
	}
	return float64(f.finite) / float64(f.total)
}

func (f *FiniteRatio) Reset() {
	f.finite = 0
	f.total = 0
}
