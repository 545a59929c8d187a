package metrics

import (
	"math"

	"github.com/san-kum/emergent/internal/dynamo"
)

// EnergyDrift records the largest relative deviation of a sampled energy
// from its value at the first observation.
type EnergyDrift struct {
	sample        func() float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(sample func() float64) *EnergyDrift {
	return &EnergyDrift{sample: sample}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(dynamo.Snapshot) {
	energy := e.sample()
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return
	}
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// FieldMean reports the mean of a named grid field, e.g. B concentration.
type FieldMean struct {
	field string
	last  float64
}

func NewFieldMean(field string) *FieldMean { return &FieldMean{field: field} }

func (f *FieldMean) Name() string { return "mean_" + f.field }

func (f *FieldMean) Observe(s dynamo.Snapshot) {
	if g, ok := s.Fields[f.field]; ok && g != nil {
		f.last = g.Mean()
	}
}

func (f *FieldMean) Value() float64 { return f.last }
func (f *FieldMean) Reset()         { f.last = 0 }
