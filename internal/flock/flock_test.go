package flock

import (
	"math"
	"testing"

	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
)

func TestSteer_SingleAgentNoContribution(t *testing.T) {
	pos := []dynamo.Vec2{{X: 100, Y: 100}}
	vel := []dynamo.Vec2{{X: 1, Y: 2}}
	nf := &BruteForce{}
	nf.Rebuild(pos)

	s := Steer(0, pos, vel, nf, RulesFrom(Schema.Defaults()))
	if s != (Steering{}) {
		t.Errorf("lone agent steering = %+v, want zero", s)
	}
}

func TestSteer_OutOfRangeNeighbourIgnored(t *testing.T) {
	pos := []dynamo.Vec2{{X: 0, Y: 0}, {X: 500, Y: 0}}
	vel := []dynamo.Vec2{{X: 1}, {Y: 1}}
	nf := &BruteForce{}
	nf.Rebuild(pos)
	if s := Steer(0, pos, vel, nf, RulesFrom(Schema.Defaults())); s != (Steering{}) {
		t.Errorf("steering = %+v, want zero", s)
	}
}

func TestSteer_CoincidentNeighbourIgnored(t *testing.T) {
	pos := []dynamo.Vec2{{X: 10, Y: 10}, {X: 10, Y: 10}}
	vel := []dynamo.Vec2{{X: 1}, {Y: 1}}
	nf := &BruteForce{}
	nf.Rebuild(pos)
	s := Steer(0, pos, vel, nf, RulesFrom(Schema.Defaults()))
	if s != (Steering{}) {
		t.Errorf("steering = %+v, want zero", s)
	}
}

func TestSteer_ForceCaps(t *testing.T) {
	r := RulesFrom(Schema.Defaults())
	pos := []dynamo.Vec2{{X: 100, Y: 100}, {X: 105, Y: 100}, {X: 100, Y: 130}}
	vel := []dynamo.Vec2{{X: -3}, {X: 3, Y: 1}, {Y: -4}}
	nf := &BruteForce{}
	nf.Rebuild(pos)
	s := Steer(0, pos, vel, nf, r)

	const eps = 1e-9
	if m := s.Alignment.Mag(); m > r.MaxForce+eps || m == 0 {
		t.Errorf("|alignment| = %v", m)
	}
	if m := s.Cohesion.Mag(); m > r.MaxForce+eps || m == 0 {
		t.Errorf("|cohesion| = %v", m)
	}
	if m := s.Separation.Mag(); m > 1.5*r.MaxForce+eps || m == 0 {
		t.Errorf("|separation| = %v", m)
	}
	if s.Separation.X >= 0 {
		t.Errorf("separation should push away from the neighbour at +x, got %+v", s.Separation)
	}
}

func TestFlock_SpeedNeverExceedsMax(t *testing.T) {
	tests := []struct {
		name string
		set  params.Values
	}{
		{"defaults", params.Values{}},
		{"slow", params.Values{"maxSpeed": 1}},
		{"strong separation", params.Values{"separationWeight": 3, "alignmentWeight": 0, "cohesionWeight": 0}},
		{"all max", params.Values{"separationWeight": 3, "alignmentWeight": 3, "cohesionWeight": 3, "maxSpeed": 10}},
		{"all zero", params.Values{"separationWeight": 0, "alignmentWeight": 0, "cohesionWeight": 0, "maxSpeed": 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := params.Resolve(Schema, params.NewStatic(tt.set))
			f := New(nil)
			f.Reset(11, v)
			max := v.Get("maxSpeed")
			for tick := 0; tick < 200; tick++ {
				f.Step(v)
				for i, a := range f.Agents() {
					if a.Vel.Mag() > max+1e-9 {
						t.Fatalf("tick %d agent %d speed %v > %v", tick, i, a.Vel.Mag(), max)
					}
				}
			}
		})
	}
}

func TestFlock_WrapClearsHistory(t *testing.T) {
	f := New(nil)
	v := Schema.Defaults()
	v["width"], v["height"] = 100, 100
	f.Reset(0, v)
	f.Clear()
	f.Add(dynamo.Vec2{X: 96, Y: 50}, dynamo.Vec2{X: 3})

	f.Step(v)
	if got := len(f.Snapshot().Trails[0]); got != 1 {
		t.Fatalf("history = %d, want 1", got)
	}
	f.Step(v)
	if got := f.Agents()[0].Pos.X; got != 102 {
		t.Fatalf("x = %v, want 102 before wrap", got)
	}
	f.Step(v)
	snap := f.Snapshot()
	if len(snap.Trails[0]) != 1 {
		t.Errorf("history after wrap = %d, want 1", len(snap.Trails[0]))
	}
	if snap.Heads[0].X != 3 {
		t.Errorf("x after wrap = %v, want 3", snap.Heads[0].X)
	}
}

func TestFlock_HistoryBounded(t *testing.T) {
	f := New(nil)
	v := Schema.Defaults()
	f.Clear()
	f.Add(dynamo.Vec2{X: 10, Y: 300}, dynamo.Vec2{X: 1})
	for i := 0; i < 20; i++ {
		f.Step(v)
	}
	tr := f.Snapshot().Trails[0]
	if len(tr) != HistoryLen {
		t.Fatalf("history = %d, want %d", len(tr), HistoryLen)
	}
	if tr[len(tr)-1].X != 30 || tr[0].X != 23 {
		t.Errorf("history = %v..%v, want 23..30", tr[0].X, tr[len(tr)-1].X)
	}
}

func TestSpatialHash_MatchesBruteForce(t *testing.T) {
	v := Schema.Defaults()
	a, b := New(nil), New(NewSpatialHash(v.Get("viewDistance")))
	a.Reset(99, v)
	b.Reset(99, v)
	// Neighbour order differs between finders, so sums can differ in the
	// last bit; keep the horizon short enough that chaos does not amplify it.
	for i := 0; i < 10; i++ {
		a.Step(v)
		b.Step(v)
	}
	aa, ba := a.Agents(), b.Agents()
	for i := range aa {
		if aa[i].Pos.Dist(ba[i].Pos) > 1e-6 {
			t.Fatalf("agent %d diverged: %+v vs %+v", i, aa[i].Pos, ba[i].Pos)
		}
	}
}

func TestSpatialHash_Within(t *testing.T) {
	pos := []dynamo.Vec2{{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 11, Y: 0}, {X: -5, Y: -5}}
	h := NewSpatialHash(10)
	h.Rebuild(pos)
	got := map[int]bool{}
	h.Within(0, 10, func(j int, d float64) { got[j] = true })
	if !got[1] || got[2] || !got[3] || got[0] {
		t.Errorf("neighbours = %v", got)
	}
}

func TestFlock_ResetCount(t *testing.T) {
	f := New(nil)
	if n := len(f.Agents()); n != 150 {
		t.Errorf("default flock = %d, want 150", n)
	}
	v := Schema.Defaults()
	v["count"] = 12
	f.Reset(1, v)
	if n := len(f.Snapshot().Heads); n != 12 {
		t.Errorf("flock = %d, want 12", n)
	}
	for _, a := range f.Agents() {
		if math.IsNaN(a.Pos.X) || a.Pos.X < 0 || a.Pos.X > 800 {
			t.Errorf("agent outside canvas: %+v", a.Pos)
		}
	}
}

func BenchmarkFlock_Step(b *testing.B) {
	f := New(nil)
	v := Schema.Defaults()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Step(v)
	}
}

func BenchmarkFlock_StepSpatialHash(b *testing.B) {
	v := Schema.Defaults()
	f := New(NewSpatialHash(v.Get("viewDistance")))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Step(v)
	}
}
