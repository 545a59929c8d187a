package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors. None of these are produced on the tick path: numeric
// divergence is propagated as non-finite state, never as an error.
var (
	// ErrInvalidDimensions indicates a grid or state with unusable dimensions.
	ErrInvalidDimensions = errors.New("dynamo: invalid dimensions")

	// ErrInvalidCapacity indicates a history buffer with capacity < 1.
	ErrInvalidCapacity = errors.New("dynamo: history capacity must be positive")

	// ErrUnknownKernel indicates a demo name with no registered kernel.
	ErrUnknownKernel = errors.New("dynamo: unknown kernel")

	// ErrUnknownParameter indicates a parameter name not declared by a kernel.
	ErrUnknownParameter = errors.New("dynamo: unknown parameter")

	// ErrIncompatibleIntegrator indicates an integrator that cannot advance a
	// field's state layout.
	ErrIncompatibleIntegrator = errors.New("dynamo: incompatible integrator")

	// ErrEmptyRun indicates a recorded run without any samples.
	ErrEmptyRun = errors.New("dynamo: run has no samples")
)

// TickError wraps an error with the tick it occurred on.
type TickError struct {
	Tick    uint64
	Kernel  string
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("%s tick %d: %v", e.Kernel, e.Tick, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
