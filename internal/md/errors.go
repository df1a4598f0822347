package md

import (
	"errors"
	"fmt"
)

// Domain errors for the force engine and the integrator.
var (
	// ErrOverlap indicates a pair closer than the overlap threshold; the
	// configuration is physically invalid and the run must stop.
	ErrOverlap = errors.New("md: particle overlap detected")

	// ErrShellIndex indicates a shell index outside 1..K.
	ErrShellIndex = errors.New("md: shell index out of range")

	// ErrCutoffSpacing indicates a cutoff set that is not strictly
	// increasing with at least the switch width between consecutive shells.
	ErrCutoffSpacing = errors.New("md: cutoffs must increase by at least the switch width")

	// ErrPropagatorSingular indicates an isokinetic update on a system
	// with zero total kinetic energy, for which the constraint is
	// undefined.
	ErrPropagatorSingular = errors.New("md: isokinetic propagator singular")

	// ErrInvalidConfig indicates an unusable run configuration.
	ErrInvalidConfig = errors.New("md: invalid configuration")
)

// StepError wraps an error with the step at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
