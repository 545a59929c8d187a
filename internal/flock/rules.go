package flock

import "github.com/san-kum/emergent/internal/dynamo"

// Rules are the tunable coefficients of one tick.
type Rules struct {
	SeparationWeight float64
	AlignmentWeight  float64
	CohesionWeight   float64
	MaxSpeed         float64
	MaxForce         float64
	ViewDistance     float64
}

// Steering holds the three rule contributions before weighting.
type Steering struct {
	Separation, Alignment, Cohesion dynamo.Vec2
}

// Acceleration combines the contributions with the rule weights.
func (s Steering) Acceleration(r Rules) dynamo.Vec2 {
	return s.Alignment.Scale(r.AlignmentWeight).
		Add(s.Cohesion.Scale(r.CohesionWeight)).
		Add(s.Separation.Scale(r.SeparationWeight))
}

// Steer evaluates the three rules for agent i. Neighbours at distance zero
// are ignored; an empty neighbour set contributes nothing.
func Steer(i int, pos, vel []dynamo.Vec2, nf NeighborFinder, r Rules) Steering {
	var (
		velSum, posSum, push dynamo.Vec2
		near, crowd          int
	)
	self, v := pos[i], vel[i]
	sepRadius := r.ViewDistance / 2

	nf.Within(i, r.ViewDistance, func(j int, d float64) {
		if d == 0 {
			return
		}
		velSum = velSum.Add(vel[j])
		posSum = posSum.Add(pos[j])
		near++
		if d < sepRadius {
			push = push.Add(self.Sub(pos[j]).Div(d * d))
			crowd++
		}
	})

	var s Steering
	if near > 0 {
		n := float64(near)
		s.Alignment = velSum.Div(n).SetMag(r.MaxSpeed).Sub(v).Limit(r.MaxForce)
		s.Cohesion = posSum.Div(n).Sub(self).SetMag(r.MaxSpeed).Sub(v).Limit(r.MaxForce)
	}
	if crowd > 0 {
		s.Separation = push.Div(float64(crowd)).SetMag(r.MaxSpeed).Sub(v).Limit(r.MaxForce * 1.5)
	}
	return s
}
