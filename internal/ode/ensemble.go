// Package ode runs continuous vector fields and iterated maps as kernels:
// N independent instances, each leaving a bounded trail.
package ode

import (
	"fmt"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/integrators"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/physics"
	"github.com/san-kum/emergent/internal/trail"
)

// Config describes an ensemble kernel.
type Config struct {
	Name       string
	Schema     params.Schema
	Field      physics.Field
	Integrator dynamo.Integrator
	// Capacity is the trail length of each instance.
	Capacity int
	// Initial returns the starting state of every instance.
	Initial func(seed int64, v params.Values) []dynamo.State
	// Emit projects a state onto the point appended to its trail.
	Emit func(x dynamo.State) dynamo.Point
	// Arms optionally returns structural geometry for one instance.
	Arms func(x dynamo.State) []dynamo.Segment
}

// Ensemble steps every instance with the same field, integrator and dt.
// Instances never share state.
type Ensemble struct {
	cfg       Config
	instances []dynamo.State
	trails    []*trail.Buffer[dynamo.Point]
	t         float64
	tick      uint64
}

func NewEnsemble(cfg Config) (*Ensemble, error) {
	if cfg.Field == nil || cfg.Integrator == nil || cfg.Initial == nil || cfg.Emit == nil {
		return nil, fmt.Errorf("ode: incomplete config for %q", cfg.Name)
	}
	if cfg.Capacity < 1 {
		return nil, fmt.Errorf("ode: %s: %w", cfg.Name, dynamo.ErrInvalidCapacity)
	}
	if err := integrators.Supports(cfg.Integrator, cfg.Field); err != nil {
		return nil, fmt.Errorf("ode: %s: %w", cfg.Name, err)
	}
	e := &Ensemble{cfg: cfg}
	e.Reset(0, cfg.Schema.Defaults())
	return e, nil
}

func (e *Ensemble) Name() string          { return e.cfg.Name }
func (e *Ensemble) Schema() params.Schema { return e.cfg.Schema }

func (e *Ensemble) Reset(seed int64, v params.Values) {
	v = e.cfg.Schema.Clamp(v)
	e.cfg.Field.Apply(v)
	e.instances = e.cfg.Initial(seed, v)
	e.trails = make([]*trail.Buffer[dynamo.Point], len(e.instances))
	for i := range e.trails {
		e.trails[i] = trail.MustNew[dynamo.Point](e.cfg.Capacity)
	}
	e.t = 0
	e.tick = 0
}

// Step advances every instance by v["dt"]. Non-finite states are carried
// forward and land in the trail as non-finite points.
func (e *Ensemble) Step(v params.Values) {
	e.cfg.Field.Apply(v)
	dt := v.Get("dt")
	for i, x := range e.instances {
		e.cfg.Integrator.Step(e.cfg.Field, x, e.t, dt)
		e.trails[i].Push(e.cfg.Emit(x))
	}
	e.t += dt
	e.tick++
}

func (e *Ensemble) Snapshot() dynamo.Snapshot {
	snap := dynamo.Snapshot{
		Kernel: e.cfg.Name,
		Tick:   e.tick,
		Trails: make([][]dynamo.Point, len(e.trails)),
		Heads:  make([]dynamo.Point, len(e.instances)),
	}
	for i, tr := range e.trails {
		snap.Trails[i] = tr.Slice()
		snap.Heads[i] = e.cfg.Emit(e.instances[i])
		if e.cfg.Arms != nil {
			snap.Segments = append(snap.Segments, e.cfg.Arms(e.instances[i])...)
		}
	}
	return snap
}

// States returns a copy of every instance state.
func (e *Ensemble) States() []dynamo.State {
	out := make([]dynamo.State, len(e.instances))
	for i, x := range e.instances {
		out[i] = x.Clone()
	}
	return out
}

// Time is the integrated time since the last reset.
func (e *Ensemble) Time() float64 { return e.t }

// Field is the vector field shared by every instance.
func (e *Ensemble) Field() physics.Field { return e.cfg.Field }
