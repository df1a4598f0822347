package md

import "math"

// Vec is a Cartesian 3-vector.
type Vec [3]float64

func (a Vec) Add(b Vec) Vec { return Vec{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

func (a Vec) Sub(b Vec) Vec { return Vec{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func (a Vec) Scale(s float64) Vec { return Vec{a[0] * s, a[1] * s, a[2] * s} }

func (a Vec) Dot(b Vec) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

// Norm2 is the squared Euclidean length.
func (a Vec) Norm2() float64 { return a.Dot(a) }

func (a Vec) Norm() float64 { return math.Sqrt(a.Norm2()) }

// System is the particle configuration advanced by the integrator.
// R is in box units, every component in [-0.5,0.5) after wrapping;
// V is in reduced physical units. N is fixed for the lifetime of a run.
type System struct {
	N   int
	Box float64 // side length, sigma units
	R   []Vec
	V   []Vec
}

// NewSystem allocates a system of n particles in a cubic box.
func NewSystem(n int, box float64) *System {
	return &System{
		N:   n,
		Box: box,
		R:   make([]Vec, n),
		V:   make([]Vec, n),
	}
}

// Density is the number density N/box^3.
func (s *System) Density() float64 {
	return float64(s.N) / (s.Box * s.Box * s.Box)
}

// KineticEnergy is the total kinetic energy sum(v^2)/2 (unit mass).
func (s *System) KineticEnergy() float64 {
	ke := 0.0
	for _, v := range s.V {
		ke += v.Norm2()
	}
	return 0.5 * ke
}

// Valid reports whether every coordinate and velocity component is finite.
func (s *System) Valid() bool {
	for i := 0; i < s.N; i++ {
		for c := 0; c < 3; c++ {
			if math.IsNaN(s.R[i][c]) || math.IsInf(s.R[i][c], 0) {
				return false
			}
			if math.IsNaN(s.V[i][c]) || math.IsInf(s.V[i][c], 0) {
				return false
			}
		}
	}
	return true
}
