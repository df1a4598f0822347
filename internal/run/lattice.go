package run

import (
	"math"
	"math/rand"

	"github.com/jkleist/shearmd/internal/md"
)

// fccPositions places n particles on an FCC lattice filling the unit
// box, in box units centered on the origin.
func fccPositions(n int) []md.Vec {
	// four sites per conventional cell
	basis := [4]md.Vec{
		{0.25, 0.25, 0.25},
		{0.75, 0.75, 0.25},
		{0.75, 0.25, 0.75},
		{0.25, 0.75, 0.75},
	}

	cells := 1
	for 4*cells*cells*cells < n {
		cells++
	}
	inv := 1.0 / float64(cells)

	r := make([]md.Vec, 0, n)
	for cx := 0; cx < cells && len(r) < n; cx++ {
		for cy := 0; cy < cells && len(r) < n; cy++ {
			for cz := 0; cz < cells && len(r) < n; cz++ {
				for _, b := range basis {
					if len(r) == n {
						break
					}
					r = append(r, md.Vec{
						(float64(cx) + b[0]) * inv,
						(float64(cy) + b[1]) * inv,
						(float64(cz) + b[2]) * inv,
					})
				}
			}
		}
	}
	for i := range r {
		r[i][0] -= 0.5
		r[i][1] -= 0.5
		r[i][2] -= 0.5
	}
	return r
}

// maxwellVelocities draws Gaussian velocities at the target temperature,
// removes the center-of-mass drift, then rescales so the kinetic energy
// matches the isokinetic constraint value exactly: the integrator
// conserves whatever it is given.
func maxwellVelocities(n int, temperature float64, rng *rand.Rand) []md.Vec {
	v := make([]md.Vec, n)
	sd := math.Sqrt(temperature)
	var mean md.Vec
	for i := range v {
		for c := 0; c < 3; c++ {
			v[i][c] = sd * rng.NormFloat64()
			mean[c] += v[i][c]
		}
	}
	mean = mean.Scale(1.0 / float64(n))

	var vv float64
	for i := range v {
		v[i] = v[i].Sub(mean)
		vv += v[i].Norm2()
	}

	// sum v^2 = (3N-3) T with the drift removed
	target := float64(3*n-3) * temperature
	scale := math.Sqrt(target / vv)
	for i := range v {
		v[i] = v[i].Scale(scale)
	}
	return v
}
