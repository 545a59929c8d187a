package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/physics"
)

// maxBranches caps the distinct values kept per parameter value.
const maxBranches = 200

// BifurcationPoint holds the settled values of one state component for one
// parameter value.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// Sweep describes the parameter axis and timing of a bifurcation diagram.
type Sweep struct {
	Param      string
	Values     []float64
	StateIndex int
	// Transient ticks are discarded before Record ticks are sampled.
	Transient, Record int
}

// BifurcationDiagram runs f from x0 at every sweep value, with the other
// knobs taken from base, and records the local maxima of the chosen
// component after the transient. A run that settles without oscillating
// records its final value. Sampling stops at the first non-finite state.
// f is left tuned to base.
func BifurcationDiagram(f physics.Field, integ dynamo.Integrator, base params.Values, x0 dynamo.State, sw Sweep) []BifurcationPoint {
	if sw.StateIndex < 0 || sw.StateIndex >= len(x0) {
		return nil
	}
	defer f.Apply(base)

	dt := base.Get("dt")
	if dt <= 0 {
		dt = physics.DtKnob.Range.Default
	}
	results := make([]BifurcationPoint, 0, len(sw.Values))
	for _, value := range sw.Values {
		v := base.Clone()
		v[sw.Param] = value
		f.Apply(v)

		x := x0.Clone()
		t := 0.0
		for i := 0; i < sw.Transient && x.IsValid(); i++ {
			integ.Step(f, x, t, dt)
			t += dt
		}

		var branches distinct
		prev2, prev1 := math.NaN(), math.NaN()
		for i := 0; i < sw.Record && x.IsValid(); i++ {
			integ.Step(f, x, t, dt)
			t += dt
			cur := x[sw.StateIndex]
			if prev1 > prev2 && prev1 >= cur {
				branches.add(prev1)
			}
			prev2, prev1 = prev1, cur
		}
		if len(branches.values) == 0 && x.IsValid() {
			branches.add(x[sw.StateIndex])
		}
		results = append(results, BifurcationPoint{Param: value, Values: branches.values})
	}
	return results
}

// MapBifurcation iterates m from x0 at every sweep value and records the
// distinct values the chosen component visits after the transient.
func MapBifurcation(m physics.IteratedMap, base params.Values, x0 dynamo.State, sw Sweep) []BifurcationPoint {
	if sw.StateIndex < 0 || sw.StateIndex >= len(x0) {
		return nil
	}
	defer m.Apply(base)

	results := make([]BifurcationPoint, 0, len(sw.Values))
	for _, value := range sw.Values {
		v := base.Clone()
		v[sw.Param] = value
		m.Apply(v)

		x := x0.Clone()
		for i := 0; i < sw.Transient && x.IsValid(); i++ {
			x = m.Iterate(x)
		}
		var branches distinct
		for i := 0; i < sw.Record && x.IsValid(); i++ {
			x = m.Iterate(x)
			branches.add(x[sw.StateIndex])
		}
		results = append(results, BifurcationPoint{Param: value, Values: branches.values})
	}
	return results
}

// distinct collects values quantized to 1e-3, up to maxBranches.
type distinct struct {
	seen   map[int64]bool
	values []float64
}

func (d *distinct) add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) || len(d.values) >= maxBranches {
		return
	}
	if d.seen == nil {
		d.seen = make(map[int64]bool)
	}
	key := int64(math.Round(v * 1000))
	if !d.seen[key] {
		d.seen[key] = true
		d.values = append(d.values, v)
	}
}

// BifurcationToASCII plots one column per parameter value, low values at
// the bottom.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range data {
		for _, v := range p.Values {
			minVal, maxVal = math.Min(minVal, v), math.Max(maxVal, v)
		}
	}
	if math.IsInf(minVal, 1) {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
