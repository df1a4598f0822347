package force

import (
	"math"
	"testing"
)

func TestLRCMonotonicity(t *testing.T) {
	const density = 0.6
	cuts := []float64{1.5, 2.0, 2.5, 3.0, 4.0, 5.0}

	for i := 1; i < len(cuts); i++ {
		p0 := math.Abs(PotentialLRC(density, cuts[i-1]))
		p1 := math.Abs(PotentialLRC(density, cuts[i]))
		if p1 >= p0 {
			t.Errorf("|potential lrc| did not decrease from rc=%v to %v: %v -> %v",
				cuts[i-1], cuts[i], p0, p1)
		}

		q0 := math.Abs(PressureLRC(density, cuts[i-1]))
		q1 := math.Abs(PressureLRC(density, cuts[i]))
		if q1 >= q0 {
			t.Errorf("|pressure lrc| did not decrease from rc=%v to %v: %v -> %v",
				cuts[i-1], cuts[i], q0, q1)
		}
	}
}

func TestLRCDensityScaling(t *testing.T) {
	const (
		rho  = 0.4
		rCut = 2.5
	)

	if got, want := PotentialLRC(2*rho, rCut), 2*PotentialLRC(rho, rCut); math.Abs(got-want) > 1e-14 {
		t.Errorf("potential lrc should scale linearly with density: %v vs %v", got, want)
	}
	if got, want := PressureLRC(2*rho, rCut), 4*PressureLRC(rho, rCut); math.Abs(got-want) > 1e-14 {
		t.Errorf("pressure lrc should scale with density squared: %v vs %v", got, want)
	}
}

func TestLRCKnownValue(t *testing.T) {
	// rc=2.5, rho=0.5: pi*rho*((8/9)*rc^-9 - (8/3)*rc^-3)
	sr3 := 1.0 / (2.5 * 2.5 * 2.5)
	want := math.Pi * 0.5 * ((8.0/9.0)*sr3*sr3*sr3 - (8.0/3.0)*sr3)
	if got := PotentialLRC(0.5, 2.5); math.Abs(got-want) > 1e-15 {
		t.Errorf("got %v, want %v", got, want)
	}
	if PotentialLRC(0.5, 2.5) >= 0 {
		t.Error("potential tail at rc=2.5 should be attractive (negative)")
	}
}
