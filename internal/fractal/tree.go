// Package fractal grows a binary branching tree that sways in the wind.
package fractal

import (
	"math"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
)

const (
	RootLength = 160
	Ratio      = 0.67
	// TimeStep is the wind clock advance per tick.
	TimeStep = 0.02
)

var Schema = params.Schema{
	{Name: "depth", Label: "Recursion depth", Range: params.Range{Min: 1, Max: 13, Default: 10}, Step: 1},
	{Name: "angle", Label: "Branch angle (deg)", Range: params.Range{Min: 10, Max: 90, Default: 25}, Step: 1},
	{Name: "wind", Label: "Wind", Range: params.Range{Min: 0, Max: 3, Default: 1}, Step: 0.1},
}

// Grow returns the 2^depth - 1 branches of a tree rooted at the origin and
// growing along +Y. Each branch at depth d turns by ±angle plus sway·d·0.3.
func Grow(depth int, angle, sway float64) []dynamo.Segment {
	if depth < 1 {
		return nil
	}
	segs := make([]dynamo.Segment, 0, 1<<depth-1)
	var branch func(from dynamo.Point, heading, length float64, d int)
	branch = func(from dynamo.Point, heading, length float64, d int) {
		to := dynamo.Point{X: from.X + length*math.Cos(heading), Y: from.Y + length*math.Sin(heading)}
		segs = append(segs, dynamo.Segment{From: from, To: to, Depth: d})
		if d >= depth-1 {
			return
		}
		bend := sway * float64(d) * 0.3
		branch(to, heading-(angle+bend), length*Ratio, d+1)
		branch(to, heading-(-angle+bend), length*Ratio, d+1)
	}
	branch(dynamo.Point{}, math.Pi/2, RootLength, 0)
	return segs
}

// Sway is the wind offset at time t for the given intensity.
func Sway(t, wind float64) float64 {
	return math.Sin(t*wind*2) * (0.08 * wind)
}

// Tree is the fractal tree kernel. Its only state is the wind clock.
type Tree struct {
	time float64
	segs []dynamo.Segment
	tick uint64
}

func NewTree() *Tree {
	t := &Tree{}
	t.Reset(0, Schema.Defaults())
	return t
}

func (t *Tree) Name() string          { return "fractal-tree" }
func (t *Tree) Schema() params.Schema { return Schema }

func (t *Tree) Reset(_ int64, v params.Values) {
	v = Schema.Clamp(v)
	t.time = 0
	t.tick = 0
	t.segs = Grow(v.Int("depth"), v.Get("angle")*math.Pi/180, 0)
}

func (t *Tree) Step(v params.Values) {
	t.time += TimeStep
	sway := Sway(t.time, v.Get("wind"))
	t.segs = Grow(v.Int("depth"), v.Get("angle")*math.Pi/180, sway)
	t.tick++
}

func (t *Tree) Snapshot() dynamo.Snapshot {
	segs := make([]dynamo.Segment, len(t.segs))
	copy(segs, t.segs)
	var tips []dynamo.Point
	deepest := 0
	for _, s := range segs {
		deepest = max(deepest, s.Depth)
	}
	for _, s := range segs {
		if s.Depth == deepest {
			tips = append(tips, s.To)
		}
	}
	return dynamo.Snapshot{
		Kernel:   t.Name(),
		Tick:     t.tick,
		Heads:    tips,
		Segments: segs,
	}
}
