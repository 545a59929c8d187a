package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/emergent/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent of sys from x0.
//
// A companion trajectory starts d0 away along the first axis. After every
// step the log of the growth in separation is accumulated and the companion
// is pulled back to distance d0 along the current separation. The estimate
// stops early if either trajectory stops being finite.
func LyapunovExponent(sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, dt float64, steps int, d0 float64) float64 {
	if len(x0) == 0 || steps <= 0 || d0 <= 0 || dt <= 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += d0

	t := 0.0
	sumLog := 0.0
	count := 0
	for i := 0; i < steps; i++ {
		integ.Step(sys, x, t, dt)
		integ.Step(sys, xp, t, dt)
		t += dt

		if !x.IsValid() || !xp.IsValid() {
			break
		}
		sep := floats.Distance(xp, x, 2)
		if sep == 0 {
			// Trajectories merged; restart the companion.
			copy(xp, x)
			xp[0] += d0
			continue
		}
		sumLog += math.Log(sep / d0)
		count++

		scale := d0 / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
