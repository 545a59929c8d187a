// Package dynamo provides the primitives shared by every stepped simulation.
//
// The package defines the fundamental types and contracts of the tick loop:
//
//   - [State]: fixed-arity vector advanced by an ODE or an iterated map
//   - [Grid]: flat row-major 2D field with bounds-checked access
//   - [System], [Map], [Integrator]: vector fields, maps and fixed-step schemes
//   - [Kernel]: one simulation advanced once per tick
//   - [Snapshot], [Renderer]: the read-only view handed out after every tick
//
// # Example
//
//	k := ode.NewEnsemble(...)
//	k.Step(values)
//	r.OnTick(k.Snapshot())
//
// # Thread Safety
//
// Kernels are NOT thread-safe. Exactly one goroutine (the controller tick)
// mutates a kernel; renderers only ever see snapshots taken after a tick.
package dynamo
