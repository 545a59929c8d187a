// Package metrics accumulates scalar observations over committed ticks.
package metrics

import (
	"sort"

	"github.com/san-kum/emergent/internal/dynamo"
)

type Metric interface {
	Name() string
	Observe(s dynamo.Snapshot)
	Value() float64
	Reset()
}

// Set fans a snapshot out to several metrics. It is itself a Renderer.
type Set []Metric

func (s Set) OnTick(snap dynamo.Snapshot) {
	for _, m := range s {
		m.Observe(snap)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Values returns every metric keyed by name.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the metric names in sorted order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, m := range s {
		names[i] = m.Name()
	}
	sort.Strings(names)
	return names
}
