package md

import (
	"errors"
	"math"
	"testing"
)

func TestVecOps(t *testing.T) {
	a := Vec{1, 2, 3}
	b := Vec{4, -1, 0.5}

	if got := a.Add(b); got != (Vec{5, 1, 3.5}) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Sub(b); got != (Vec{-3, 3, 2.5}) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Scale(2); got != (Vec{2, 4, 6}) {
		t.Errorf("Scale: got %v", got)
	}
	if got := a.Dot(b); got != 3.5 {
		t.Errorf("Dot: got %v", got)
	}
	if got := a.Norm2(); got != 14 {
		t.Errorf("Norm2: got %v", got)
	}
	if got := a.Norm(); math.Abs(got-math.Sqrt(14)) > 1e-15 {
		t.Errorf("Norm: got %v", got)
	}
}

func TestSystemDensity(t *testing.T) {
	s := NewSystem(8, 2.0)
	if got := s.Density(); got != 1.0 {
		t.Errorf("density: got %v", got)
	}
}

func TestSystemKineticEnergy(t *testing.T) {
	s := NewSystem(2, 5.0)
	s.V[0] = Vec{1, 0, 0}
	s.V[1] = Vec{0, 2, 0}
	if got := s.KineticEnergy(); got != 2.5 {
		t.Errorf("kinetic energy: got %v", got)
	}
}

func TestSystemValid(t *testing.T) {
	s := NewSystem(2, 5.0)
	if !s.Valid() {
		t.Error("fresh system should be valid")
	}
	s.V[1][2] = math.NaN()
	if s.Valid() {
		t.Error("NaN velocity should invalidate")
	}
}

func TestStepErrorUnwrap(t *testing.T) {
	err := &StepError{Step: 5, Time: 0.025, Wrapped: ErrOverlap}
	if !errors.Is(err, ErrOverlap) {
		t.Error("StepError should unwrap to ErrOverlap")
	}
	if err.Error() == "" {
		t.Error("empty error string")
	}
}
