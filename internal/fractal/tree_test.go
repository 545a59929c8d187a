package fractal

import (
	"math"
	"testing"

	"github.com/san-kum/emergent/internal/params"
)

func TestGrow_SegmentCount(t *testing.T) {
	for depth := 1; depth <= 13; depth++ {
		if got, want := len(Grow(depth, 0.4, 0)), 1<<depth-1; got != want {
			t.Errorf("depth %d: %d segments, want %d", depth, got, want)
		}
	}
	if Grow(0, 0.4, 0) != nil {
		t.Error("depth 0 should grow nothing")
	}
}

func TestGrow_SymmetricWithoutWind(t *testing.T) {
	segs := Grow(6, 25*math.Pi/180, 0)
	var sumX float64
	for _, s := range segs {
		sumX += s.To.X
	}
	if math.Abs(sumX) > 1e-9 {
		t.Errorf("calm tree leans: Σx = %v", sumX)
	}
	if segs[0].To.Y != RootLength || math.Abs(segs[0].To.X) > 1e-12 {
		t.Errorf("trunk ends at %+v", segs[0].To)
	}
}

func TestGrow_LengthRatio(t *testing.T) {
	segs := Grow(3, 0.5, 0)
	child := segs[1]
	l := math.Hypot(child.To.X-child.From.X, child.To.Y-child.From.Y)
	if math.Abs(l-RootLength*Ratio) > 1e-9 {
		t.Errorf("child length = %v, want %v", l, RootLength*Ratio)
	}
}

func TestSway(t *testing.T) {
	if Sway(1, 0) != 0 {
		t.Error("no wind should not sway")
	}
	if got := math.Abs(Sway(0.7, 3)); got > 0.24+1e-12 {
		t.Errorf("|sway| = %v exceeds 0.08·wind", got)
	}
}

func TestTree_WindMovesTips(t *testing.T) {
	tr := NewTree()
	calm := tr.Snapshot().Heads

	v := params.Resolve(Schema, params.NewStatic(params.Values{"wind": 3}))
	for i := 0; i < 10; i++ {
		tr.Step(v)
	}
	windy := tr.Snapshot()
	if windy.Tick != 10 || len(windy.Heads) != len(calm) {
		t.Fatalf("tick=%d heads=%d/%d", windy.Tick, len(windy.Heads), len(calm))
	}
	if windy.Heads[0] == calm[0] {
		t.Error("wind did not move the outer branches")
	}
}
