// Package flock implements boids: agents steered by separation, alignment
// and cohesion over neighbours found within a view distance.
package flock

import (
	"math"
	"math/rand"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
	"github.com/san-kum/emergent/internal/trail"
)

// HistoryLen is the number of past positions kept per agent.
const HistoryLen = 8

var Schema = params.Schema{
	{Name: "separationWeight", Label: "Separation", Range: params.Range{Min: 0, Max: 3, Default: 1.5}, Step: 0.1},
	{Name: "alignmentWeight", Label: "Alignment", Range: params.Range{Min: 0, Max: 3, Default: 1}, Step: 0.1},
	{Name: "cohesionWeight", Label: "Cohesion", Range: params.Range{Min: 0, Max: 3, Default: 1}, Step: 0.1},
	{Name: "maxSpeed", Label: "Max speed", Range: params.Range{Min: 1, Max: 10, Default: 4}, Step: 0.5},
	{Name: "maxForce", Label: "Max force", Range: params.Range{Min: 0.01, Max: 1, Default: 0.2}, Step: 0.01},
	{Name: "viewDistance", Label: "View distance", Range: params.Range{Min: 10, Max: 200, Default: 50}, Step: 5},
	{Name: "count", Label: "Boids", Range: params.Range{Min: 1, Max: 1000, Default: 150}, Step: 10, Structural: true},
	{Name: "width", Range: params.Range{Min: 100, Max: 4000, Default: 800}, Step: 50, Structural: true},
	{Name: "height", Range: params.Range{Min: 100, Max: 4000, Default: 600}, Step: 50, Structural: true},
}

// Agent is one boid.
type Agent struct {
	Pos, Vel, Acc dynamo.Vec2
	History       *trail.Buffer[dynamo.Point]
}

// Flock owns its agents and the neighbour finder used to steer them.
type Flock struct {
	agents []Agent
	finder NeighborFinder
	w, h   float64
	tick   uint64

	pos, vel []dynamo.Vec2
}

// New returns a flock using nf for neighbour queries, or brute force when
// nf is nil.
func New(nf NeighborFinder) *Flock {
	if nf == nil {
		nf = &BruteForce{}
	}
	f := &Flock{finder: nf}
	f.Reset(0, Schema.Defaults())
	return f
}

func (f *Flock) Name() string          { return "boids" }
func (f *Flock) Schema() params.Schema { return Schema }

// Reset scatters count agents uniformly with speed in [2, 4), capped at
// maxSpeed.
func (f *Flock) Reset(seed int64, v params.Values) {
	v = Schema.Clamp(v)
	rng := rand.New(rand.NewSource(seed))
	f.w, f.h = v.Get("width"), v.Get("height")
	n := v.Int("count")
	f.agents = make([]Agent, n)
	for i := range f.agents {
		theta := rng.Float64() * 2 * math.Pi
		speed := 2 + rng.Float64()*2
		f.agents[i] = Agent{
			Pos:     dynamo.Vec2{X: rng.Float64() * f.w, Y: rng.Float64() * f.h},
			Vel:     dynamo.Vec2{X: math.Cos(theta), Y: math.Sin(theta)}.Scale(speed).Limit(v.Get("maxSpeed")),
			History: trail.MustNew[dynamo.Point](HistoryLen),
		}
	}
	f.pos = make([]dynamo.Vec2, n)
	f.vel = make([]dynamo.Vec2, n)
	f.tick = 0
}

// Add appends an agent, used to build fixtures.
func (f *Flock) Add(pos, vel dynamo.Vec2) {
	f.agents = append(f.agents, Agent{Pos: pos, Vel: vel, History: trail.MustNew[dynamo.Point](HistoryLen)})
	f.pos = append(f.pos, dynamo.Vec2{})
	f.vel = append(f.vel, dynamo.Vec2{})
}

// Clear removes every agent.
func (f *Flock) Clear() {
	f.agents, f.pos, f.vel = f.agents[:0], f.pos[:0], f.vel[:0]
}

func RulesFrom(v params.Values) Rules {
	return Rules{
		SeparationWeight: v.Get("separationWeight"),
		AlignmentWeight:  v.Get("alignmentWeight"),
		CohesionWeight:   v.Get("cohesionWeight"),
		MaxSpeed:         v.Get("maxSpeed"),
		MaxForce:         v.Get("maxForce"),
		ViewDistance:     v.Get("viewDistance"),
	}
}

// Step wraps every agent, steers all of them from the same positions and
// velocities, then integrates.
func (f *Flock) Step(v params.Values) {
	r := RulesFrom(v)
	for i := range f.agents {
		f.wrap(&f.agents[i])
		f.pos[i] = f.agents[i].Pos
		f.vel[i] = f.agents[i].Vel
	}
	f.finder.Rebuild(f.pos)
	for i := range f.agents {
		a := &f.agents[i]
		a.Acc = a.Acc.Add(Steer(i, f.pos, f.vel, f.finder, r).Acceleration(r))
	}
	for i := range f.agents {
		a := &f.agents[i]
		a.Vel = a.Vel.Add(a.Acc).Limit(r.MaxSpeed)
		a.Pos = a.Pos.Add(a.Vel)
		a.Acc = dynamo.Vec2{}
		a.History.Push(a.Pos.Point())
	}
	f.tick++
}

func (f *Flock) wrap(a *Agent) {
	wrapped := false
	if a.Pos.X > f.w {
		a.Pos.X, wrapped = 0, true
	} else if a.Pos.X < 0 {
		a.Pos.X, wrapped = f.w, true
	}
	if a.Pos.Y > f.h {
		a.Pos.Y, wrapped = 0, true
	} else if a.Pos.Y < 0 {
		a.Pos.Y, wrapped = f.h, true
	}
	if wrapped {
		a.History.Clear()
	}
}

// Agents returns a copy of the agents without their histories.
func (f *Flock) Agents() []Agent {
	out := make([]Agent, len(f.agents))
	for i, a := range f.agents {
		out[i] = Agent{Pos: a.Pos, Vel: a.Vel, Acc: a.Acc}
	}
	return out
}

// Bounds is the canvas size agents wrap at.
func (f *Flock) Bounds() (w, h float64) { return f.w, f.h }

func (f *Flock) Snapshot() dynamo.Snapshot {
	snap := dynamo.Snapshot{
		Kernel:   f.Name(),
		Tick:     f.tick,
		Trails:   make([][]dynamo.Point, len(f.agents)),
		Heads:    make([]dynamo.Point, len(f.agents)),
		Segments: make([]dynamo.Segment, len(f.agents)),
	}
	for i, a := range f.agents {
		snap.Trails[i] = a.History.Slice()
		snap.Heads[i] = a.Pos.Point()
		snap.Segments[i] = dynamo.Segment{From: a.Pos.Point(), To: a.Pos.Add(a.Vel.Scale(2)).Point()}
	}
	return snap
}
