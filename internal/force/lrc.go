package force

import "math"

// PotentialLRC is the analytic tail correction to the potential energy
// per particle for a 12-6 potential truncated at rCut, assuming uniform
// density beyond the cutoff.
func PotentialLRC(density, rCut float64) float64 {
	sr3 := 1.0 / (rCut * rCut * rCut)
	return math.Pi * density * ((8.0/9.0)*sr3*sr3*sr3 - (8.0/3.0)*sr3)
}

// PressureLRC is the analytic tail correction to the pressure for a
// 12-6 potential truncated at rCut.
func PressureLRC(density, rCut float64) float64 {
	sr3 := 1.0 / (rCut * rCut * rCut)
	return math.Pi * density * density * ((32.0/9.0)*sr3*sr3*sr3 - (16.0/3.0)*sr3)
}
