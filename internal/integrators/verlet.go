package integrators

import "github.com/san-kum/emergent/internal/dynamo"

// Verlet is velocity Verlet over a [positions..., velocities...] state whose
// derivative carries the accelerations in its second half. It costs two
// evaluations per step and keeps oscillator energy bounded.
type Verlet struct {
	acc     dynamo.State
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }
func (v *Verlet) PhasePaired() {}

func (v *Verlet) ensureScratch(n int) {
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
		v.acc = make(dynamo.State, n)
	}
}

func (v *Verlet) Step(sys dynamo.System, x dynamo.State, t, dt float64) {
	n := len(x)
	half := n / 2
	v.ensureScratch(n)

	copy(v.acc, sys.Derive(x, t))
	dt2 := dt * dt

	for i := 0; i < half; i++ {
		v.scratch[i] = x[i] + x[half+i]*dt + 0.5*v.acc[half+i]*dt2
		v.scratch[half+i] = x[half+i]
	}

	accNew := sys.Derive(v.scratch, t+dt)

	halfDt := 0.5 * dt
	for i := 0; i < half; i++ {
		x[i] = v.scratch[i]
		x[half+i] += (v.acc[half+i] + accNew[half+i]) * halfDt
	}
}
