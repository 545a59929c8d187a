package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/trail"
)

// WrapAngle maps a onto [-π, π].
func WrapAngle(a float64) float64 {
	return math.Remainder(a, 2*math.Pi)
}

// PhaseSpace selects the two state components plotted against each other.
// Wrap folds both onto [-π, π], for angles.
type PhaseSpace struct {
	X, Y int
	Wrap bool
}

// AnglePlane is θ1 against θ2 of a double pendulum.
var AnglePlane = PhaseSpace{X: 0, Y: 1, Wrap: true}

// Point projects x. States too short for the plane project to NaN.
func (p PhaseSpace) Point(x dynamo.State) dynamo.Point {
	if p.X >= len(x) || p.Y >= len(x) {
		return dynamo.Point{X: math.NaN(), Y: math.NaN()}
	}
	px, py := x[p.X], x[p.Y]
	if p.Wrap {
		px, py = WrapAngle(px), WrapAngle(py)
	}
	return dynamo.Point{X: px, Y: py}
}

// Project returns one point per state, in state order.
func (p PhaseSpace) Project(states []dynamo.State) []dynamo.Point {
	out := make([]dynamo.Point, len(states))
	for i, x := range states {
		out[i] = p.Point(x)
	}
	return out
}

// GeneratePhasePortrait integrates a copy of x0 for steps ticks and records
// the projected trajectory.
func GeneratePhasePortrait(sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, space PhaseSpace, dt float64, steps int) []dynamo.Point {
	if steps < 1 {
		return nil
	}
	x := x0.Clone()
	points := make([]dynamo.Point, 0, steps)
	t := 0.0
	for i := 0; i < steps; i++ {
		integ.Step(sys, x, t, dt)
		t += dt
		points = append(points, space.Point(x))
	}
	return points
}

// Portrait is a renderer that keeps a bounded phase-space trail per
// ensemble instance.
type Portrait struct {
	src      StateSource
	space    PhaseSpace
	capacity int
	trails   []*trail.Buffer[dynamo.Point]
}

// NewPortrait records src in space, keeping capacity points per instance;
// capacity < 1 keeps only the latest point.
func NewPortrait(src StateSource, space PhaseSpace, capacity int) *Portrait {
	return &Portrait{src: src, space: space, capacity: max(1, capacity)}
}

func (p *Portrait) Space() PhaseSpace { return p.space }

// OnTick appends the projection of every instance. Paused frames are
// skipped.
func (p *Portrait) OnTick(snap dynamo.Snapshot) {
	if snap.Paused {
		return
	}
	points := p.space.Project(p.src.States())
	if len(points) != len(p.trails) {
		p.trails = make([]*trail.Buffer[dynamo.Point], len(points))
		for i := range p.trails {
			p.trails[i] = trail.MustNew[dynamo.Point](p.capacity)
		}
	}
	for i, pt := range points {
		p.trails[i].Push(pt)
	}
}

// Trails returns the recorded points per instance, oldest first.
func (p *Portrait) Trails() [][]dynamo.Point {
	out := make([][]dynamo.Point, len(p.trails))
	for i, t := range p.trails {
		out[i] = t.Slice()
	}
	return out
}

func (p *Portrait) Reset() { p.trails = nil }

// Bounds is the plotted window of a portrait. The zero value fits the data.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// AngleBounds is the window of a wrapped angle plane.
var AngleBounds = Bounds{MinX: -math.Pi, MaxX: math.Pi, MinY: -math.Pi, MaxY: math.Pi}

func (b Bounds) empty() bool { return b.MaxX <= b.MinX || b.MaxY <= b.MinY }

// fitBounds pads the extent of the finite points by 10%.
func fitBounds(trails [][]dynamo.Point) (Bounds, bool) {
	b := Bounds{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	found := false
	for _, tr := range trails {
		for _, p := range dynamo.FinitePoints(tr) {
			b.MinX, b.MaxX = math.Min(b.MinX, p.X), math.Max(b.MaxX, p.X)
			b.MinY, b.MaxY = math.Min(b.MinY, p.Y), math.Max(b.MaxY, p.Y)
			found = true
		}
	}
	if !found {
		return Bounds{}, false
	}
	rangeX, rangeY := b.MaxX-b.MinX, b.MaxY-b.MinY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.MinX -= rangeX * 0.1
	b.MaxX += rangeX * 0.1
	b.MinY -= rangeY * 0.1
	b.MaxY += rangeY * 0.1
	return b, true
}

// PortraitToASCII plots trails in a width×height character grid with +Y up.
// Heads (the last point of each trail) are drawn as 'o', earlier points as
// '•', and the axes where they cross the window. Non-finite points are
// skipped.
func PortraitToASCII(trails [][]dynamo.Point, width, height int, b Bounds) string {
	if width < 2 || height < 2 {
		return ""
	}
	if b.empty() {
		var ok bool
		if b, ok = fitBounds(trails); !ok {
			return ""
		}
	}
	rangeX, rangeY := b.MaxX-b.MinX, b.MaxY-b.MinY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	cell := func(p dynamo.Point) (int, int, bool) {
		if !p.Finite() {
			return 0, 0, false
		}
		col := int(math.Round((p.X - b.MinX) / rangeX * float64(width-1)))
		row := height - 1 - int(math.Round((p.Y-b.MinY)/rangeY*float64(height-1)))
		return row, col, row >= 0 && row < height && col >= 0 && col < width
	}

	if b.MinX <= 0 && b.MaxX >= 0 {
		if _, col, ok := cell(dynamo.Point{X: 0, Y: b.MinY}); ok {
			for row := range canvas {
				canvas[row][col] = '│'
			}
		}
	}
	if b.MinY <= 0 && b.MaxY >= 0 {
		if row, _, ok := cell(dynamo.Point{X: b.MinX, Y: 0}); ok {
			for col := range canvas[row] {
				if canvas[row][col] == '│' {
					canvas[row][col] = '┼'
				} else {
					canvas[row][col] = '─'
				}
			}
		}
	}
	for _, tr := range trails {
		for i, p := range tr {
			row, col, ok := cell(p)
			if !ok {
				continue
			}
			if i == len(tr)-1 {
				canvas[row][col] = 'o'
			} else if canvas[row][col] != 'o' {
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
