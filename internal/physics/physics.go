// Package physics holds the vector fields and iterated maps behind each
// demo, together with the parameter schema each one declares.
package physics

import (
	"github.com/san-kum/emergent/internal/dynamo"
	"github.com/san-kum/emergent/internal/params"
)

// Field is a vector field whose coefficients are retuned every tick.
type Field interface {
	dynamo.System
	Apply(v params.Values)
}

// IteratedMap is a discrete map whose coefficients are retuned every tick.
type IteratedMap interface {
	dynamo.Map
	Apply(v params.Values)
}

// DtKnob is the integration step shared by the continuous attractors.
var DtKnob = params.Knob{Name: "dt", Label: "Time step", Range: params.Range{Min: 0.001, Max: 0.05, Default: 0.01}, Step: 0.001}

// XYZ projects the first three components of x.
func XYZ(x dynamo.State) dynamo.Point {
	return dynamo.Point{X: x[0], Y: x[1], Z: x[2]}
}

// XY projects the first two components of x.
func XY(x dynamo.State) dynamo.Point {
	return dynamo.Point{X: x[0], Y: x[1]}
}
