package ode

import (
	"fmt"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/physics"
	"github.com/san-kum/emergent/internal/trail"
)

// MapKernel iterates a discrete map v["points"] times per tick, pushing
// every iterate onto a single trail.
type MapKernel struct {
	name   string
	schema params.Schema
	m      physics.IteratedMap
	start  dynamo.State
	x      dynamo.State
	trail  *trail.Buffer[dynamo.Point]
	tick   uint64
}

func NewMapKernel(name string, schema params.Schema, m physics.IteratedMap, start dynamo.State, capacity int) (*MapKernel, error) {
	if len(start) != m.StateDim() {
		return nil, fmt.Errorf("ode: %s: %w: start has %d components, map wants %d",
			name, dynamo.ErrInvalidDimensions, len(start), m.StateDim())
	}
	buf, err := trail.New[dynamo.Point](capacity)
	if err != nil {
		return nil, fmt.Errorf("ode: %s: %w", name, err)
	}
	k := &MapKernel{name: name, schema: schema, m: m, start: start.Clone(), trail: buf}
	k.Reset(0, schema.Defaults())
	return k, nil
}

func (k *MapKernel) Name() string          { return k.name }
func (k *MapKernel) Schema() params.Schema { return k.schema }

func (k *MapKernel) Reset(_ int64, v params.Values) {
	k.m.Apply(k.schema.Clamp(v))
	k.x = k.start.Clone()
	k.trail.Clear()
	k.tick = 0
}

func (k *MapKernel) Step(v params.Values) {
	k.m.Apply(v)
	n := v.Int("points")
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		k.x = k.m.Iterate(k.x)
		k.trail.Push(dynamo.Point{X: k.x[0], Y: k.x[1]})
	}
	k.tick++
}

// Map is the iterated map shared with every tick.
func (k *MapKernel) Map() physics.IteratedMap { return k.m }

// Start is a copy of the state every reset begins from.
func (k *MapKernel) Start() dynamo.State { return k.start.Clone() }

func (k *MapKernel) Snapshot() dynamo.Snapshot {
	head := dynamo.Point{X: k.x[0], Y: k.x[1]}
	return dynamo.Snapshot{
		Kernel: k.name,
		Tick:   k.tick,
		Trails: [][]dynamo.Point{k.trail.Slice()},
		Heads:  []dynamo.Point{head},
	}
}
