// Package params declares the tunable knobs of each kernel and resolves them
// against a live ParameterSource once per tick.
//
// Out-of-range values are clamped, never rejected: the simulation must stay
// renderable whatever a slider or script hands it.
package params

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Range is the valid interval of a knob and its default value.
type Range struct {
	Min, Max, Default float64
}

// Clamp maps v into [Min, Max]. NaN resolves to Default.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Default
	}
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Knob describes one named parameter.
type Knob struct {
	Name  string
	Label string
	Range
	Step float64
	// Structural knobs change the shape of the state (grid size, population);
	// a change forces a kernel reset instead of a live retune.
	Structural bool
}

// Schema is the ordered list of knobs a kernel declares.
type Schema []Knob

func (s Schema) Lookup(name string) (Knob, bool) {
	for _, k := range s {
		if k.Name == name {
			return k, true
		}
	}
	return Knob{}, false
}

func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, k := range s {
		names[i] = k.Name
	}
	return names
}

func (s Schema) Defaults() Values {
	v := make(Values, len(s))
	for _, k := range s {
		v[k.Name] = k.Default
	}
	return v
}

// Clamp returns a copy of v with every declared knob clamped and every
// missing knob set to its default. Undeclared names are dropped.
func (s Schema) Clamp(v Values) Values {
	out := make(Values, len(s))
	for _, k := range s {
		raw, ok := v[k.Name]
		if !ok {
			out[k.Name] = k.Default
			continue
		}
		out[k.Name] = k.Clamp(raw)
	}
	return out
}

// StructuralChange reports whether any structural knob differs between a and b.
func (s Schema) StructuralChange(a, b Values) bool {
	for _, k := range s {
		if k.Structural && a.Get(k.Name) != b.Get(k.Name) {
			return true
		}
	}
	return false
}

// Values is an immutable-per-tick mapping of knob name to value.
type Values map[string]float64

// Get returns the named value or 0.
func (v Values) Get(name string) float64 { return v[name] }

// Int returns the named value rounded to the nearest integer.
func (v Values) Int(name string) int { return int(math.Round(v[name])) }

func (v Values) Clone() Values {
	c := make(Values, len(v))
	for k, x := range v {
		c[k] = x
	}
	return c
}

// Keys returns the names in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Source is polled once per tick for the current value of a knob.
type Source interface {
	Value(name string) (float64, bool)
}

// Resolve polls src for every knob in s and clamps the result. Knobs the
// source does not know fall back to their default.
func Resolve(s Schema, src Source) Values {
	out := make(Values, len(s))
	for _, k := range s {
		v := k.Default
		if src != nil {
			if x, ok := src.Value(k.Name); ok {
				v = x
			}
		}
		out[k.Name] = k.Clamp(v)
	}
	return out
}

// ParseAssignments parses "name=value" pairs as given on the command line.
func ParseAssignments(pairs []string) (Values, error) {
	out := make(Values, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q, want name=value", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}
