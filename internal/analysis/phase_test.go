package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/integrators"
	"github.com/san-kum/emergent/internal/physics"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{2*math.Pi + 0.1, 0.1},
		{-4*math.Pi - 0.25, -0.25},
	}
	for _, tt := range tests {
		if got := WrapAngle(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := WrapAngle(7 * math.Pi); math.Abs(math.Abs(got)-math.Pi) > 1e-12 {
		t.Errorf("WrapAngle(7π) = %v, want ±π", got)
	}
}

func TestPhaseSpaceProject(t *testing.T) {
	states := []dynamo.State{
		{3 * math.Pi / 2, 0.5, 0, 0},
		{0.25, -5 * math.Pi / 2, 0, 0},
		{1},
	}
	got := AnglePlane.Project(states)
	if math.Abs(got[0].X+math.Pi/2) > 1e-12 || got[0].Y != 0.5 {
		t.Errorf("first point = %+v", got[0])
	}
	if got[1].X != 0.25 || math.Abs(got[1].Y+math.Pi/2) > 1e-12 {
		t.Errorf("second point = %+v", got[1])
	}
	if got[2].Finite() {
		t.Errorf("short state projected to %+v", got[2])
	}

	raw := PhaseSpace{X: 0, Y: 2}.Point(dynamo.State{10, 20, 30})
	if raw.X != 10 || raw.Y != 30 {
		t.Errorf("unwrapped point = %+v", raw)
	}
}

type spinning struct {
	states []dynamo.State
}

func (s *spinning) States() []dynamo.State {
	out := make([]dynamo.State, len(s.states))
	for i, x := range s.states {
		out[i] = x.Clone()
	}
	return out
}

func (s *spinning) advance() {
	for _, x := range s.states {
		x[0] += 1
		x[1] -= 1
	}
}

func TestPortraitTrails(t *testing.T) {
	src := &spinning{states: []dynamo.State{{0, 0, 0, 0}, {1, 1, 0, 0}}}
	p := NewPortrait(src, AnglePlane, 3)

	for i := 0; i < 5; i++ {
		p.OnTick(dynamo.Snapshot{})
		src.advance()
	}
	p.OnTick(dynamo.Snapshot{Paused: true})

	trails := p.Trails()
	if len(trails) != 2 {
		t.Fatalf("got %d trails, want 2", len(trails))
	}
	for i, tr := range trails {
		if len(tr) != 3 {
			t.Fatalf("trail %d has %d points, want 3", i, len(tr))
		}
		for _, pt := range tr {
			if math.Abs(pt.X) > math.Pi || math.Abs(pt.Y) > math.Pi {
				t.Errorf("trail %d point %+v outside [-π, π]", i, pt)
			}
		}
	}
	// The fifth sample was θ1 = 4, θ2 = -4 for the first instance.
	head := trails[0][2]
	if math.Abs(head.X-WrapAngle(4)) > 1e-12 || math.Abs(head.Y-WrapAngle(-4)) > 1e-12 {
		t.Errorf("head = %+v", head)
	}

	src.states = append(src.states, dynamo.State{0, 0, 0, 0})
	p.OnTick(dynamo.Snapshot{})
	if trails := p.Trails(); len(trails) != 3 || len(trails[0]) != 1 {
		t.Errorf("resized ensemble kept stale trails: %v", trails)
	}

	p.Reset()
	if len(p.Trails()) != 0 {
		t.Error("Reset kept trails")
	}
}

func TestPortraitToASCII(t *testing.T) {
	trails := [][]dynamo.Point{{
		{X: -math.Pi / 2, Y: 0},
		{X: math.NaN(), Y: 0},
		{X: math.Pi / 2, Y: math.Pi / 2},
	}}
	out := PortraitToASCII(trails, 9, 9, AngleBounds)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("got %d lines, want 9", len(lines))
	}
	grid := make([][]rune, len(lines))
	for i, l := range lines {
		grid[i] = []rune(l)
	}

	tests := []struct {
		name     string
		row, col int
		want     rune
	}{
		{"origin", 4, 4, '┼'},
		{"vertical axis", 0, 4, '│'},
		{"horizontal axis", 4, 8, '─'},
		{"trail point", 4, 2, '•'},
		{"head", 2, 6, 'o'},
	}
	for _, tt := range tests {
		if got := grid[tt.row][tt.col]; got != tt.want {
			t.Errorf("%s: cell (%d,%d) = %q, want %q", tt.name, tt.row, tt.col, got, tt.want)
		}
	}

	if PortraitToASCII(nil, 10, 10, Bounds{}) != "" {
		t.Error("empty portrait rendered")
	}
	if fitted := PortraitToASCII(trails, 20, 10, Bounds{}); !strings.Contains(fitted, "o") {
		t.Errorf("fitted portrait missing head:\n%s", fitted)
	}
}

func TestGeneratePhasePortrait(t *testing.T) {
	dp := physics.NewDoublePendulum()
	x0 := dynamo.State{math.Pi / 2, math.Pi / 4, 0, 0}
	pts := GeneratePhasePortrait(dp, integrators.NewRK4(), x0, AnglePlane, 0.01, 500)
	if len(pts) != 500 {
		t.Fatalf("got %d points, want 500", len(pts))
	}
	for i, p := range pts {
		if !p.Finite() || math.Abs(p.X) > math.Pi || math.Abs(p.Y) > math.Pi {
			t.Fatalf("point %d = %+v", i, p)
		}
	}
	if pts[0] == pts[len(pts)-1] {
		t.Error("trajectory did not move")
	}
	if GeneratePhasePortrait(dp, integrators.NewRK4(), x0, AnglePlane, 0.01, 0) != nil {
		t.Error("zero steps produced points")
	}
}
