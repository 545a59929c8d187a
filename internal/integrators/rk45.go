package integrators

import (
	"math"

	"github.com/san-kum/emergent/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// maxAttempts bounds the trials of one Step; the last trial is accepted
// for whatever remains of the tick.
const maxAttempts = 1000

// RK45 covers each tick's dt with adaptive Dormand-Prince sub-steps, so a
// demo keeps its tick rate while the error per sub-step stays under Tol.
type RK45 struct {
	Tol      float64
	safety   float64
	minScale float64
	maxScale float64

	h                          float64
	k1, k2, k3, k4, k5, k6, k7 dynamo.State
	stage, next                dynamo.State
}

func NewRK45() *RK45 {
	return &RK45{
		Tol:      1e-6,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Name() string { return "rk45" }

func (r *RK45) ensureScratch(n int) {
	if len(r.k1) != n {
		for _, s := range []*dynamo.State{&r.k1, &r.k2, &r.k3, &r.k4, &r.k5, &r.k6, &r.k7, &r.stage, &r.next} {
			*s = make(dynamo.State, n)
		}
		r.h = 0
	}
}

func (r *RK45) Step(sys dynamo.System, x dynamo.State, t, dt float64) {
	r.ensureScratch(len(x))
	if !usable(r.h) || r.h > dt {
		r.h = dt
	}

	elapsed := 0.0
	for attempt := 0; elapsed < dt; attempt++ {
		h, last := r.h, false
		if h >= dt-elapsed {
			h, last = dt-elapsed, true
		}
		errRatio, hNew := r.trial(sys, x, t+elapsed, h)
		if math.IsInf(errRatio, 0) || !usable(h) || attempt >= maxAttempts {
			// The trial state stands for the rest of the tick.
			copy(x, r.next)
			r.h = dt
			return
		}
		if errRatio <= 1 {
			copy(x, r.next)
			elapsed += h
			if last {
				elapsed = dt
			}
		}
		r.h = hNew
		if !usable(r.h) {
			r.h = dt
		}
	}
}

// usable reports a positive finite step size.
func usable(h float64) bool {
	return h > 0 && !math.IsInf(h, 0)
}

// trial computes one Dormand-Prince step of size h into r.next and returns
// the error relative to Tol with the suggested next step size.
func (r *RK45) trial(sys dynamo.System, x dynamo.State, t, h float64) (float64, float64) {
	n := len(x)

	copy(r.k1, sys.Derive(x, t))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + h*b21*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.stage, t+a2*h))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + h*(b31*r.k1[i]+b32*r.k2[i])
	}
	copy(r.k3, sys.Derive(r.stage, t+a3*h))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + h*(b41*r.k1[i]+b42*r.k2[i]+b43*r.k3[i])
	}
	copy(r.k4, sys.Derive(r.stage, t+a4*h))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + h*(b51*r.k1[i]+b52*r.k2[i]+b53*r.k3[i]+b54*r.k4[i])
	}
	copy(r.k5, sys.Derive(r.stage, t+a5*h))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + h*(b61*r.k1[i]+b62*r.k2[i]+b63*r.k3[i]+b64*r.k4[i]+b65*r.k5[i])
	}
	copy(r.k6, sys.Derive(r.stage, t+h))

	for i := 0; i < n; i++ {
		r.next[i] = x[i] + h*(c1*r.k1[i]+c3*r.k3[i]+c4*r.k4[i]+c5*r.k5[i]+c6*r.k6[i])
	}
	copy(r.k7, sys.Derive(r.next, t+h))

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := h * (dc1*r.k1[i] + dc3*r.k3[i] + dc4*r.k4[i] + dc5*r.k5[i] + dc6*r.k6[i] + dc7*r.k7[i])
		scale := math.Abs(x[i]) + math.Abs(h*r.k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}
	errRatio := errMax / r.Tol
	if math.IsNaN(errRatio) {
		return math.Inf(1), h * r.minScale
	}

	switch {
	case errRatio > 1:
		return errRatio, h * math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
	case errRatio > 0:
		return errRatio, h * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	default:
		return errRatio, h * r.maxScale
	}
}
