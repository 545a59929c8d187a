// Package analysis characterizes the continuous demos.
//
//   - [LyapunovExponent]: largest Lyapunov exponent via renormalized
//     trajectory separation
//   - [Divergence]: per-instance distance from the first ensemble member
//   - [PowerSpectrum]: magnitude spectrum of a recorded series
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(sys, integ, x0, dt, steps, 1e-8)
//	if lambda > 0 {
//	    // sensitive dependence on initial conditions
//	}
package analysis
