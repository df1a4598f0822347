// Package box implements the periodic cell geometry: cubic minimum-image
// wrapping, optionally under a Lees–Edwards shear where periodic images
// above and below the box in y are offset in x by the accumulated strain.
package box

import (
	"math"

	"github.com/jkleist/shearmd/internal/md"
)

// State is the boundary state of a run: the fixed side length (sigma
// units) and the accumulated shear strain. Strain is the only field
// mutated during a run; the A-propagator advances it once per half step.
type State struct {
	Side   float64
	Strain float64
}

// MinimumImage maps a separation vector in box units onto its nearest
// periodic image. Under shear the x component is first corrected by
// -round(dy)*strain, so that a pair straddling the top and bottom faces
// sees the shifted image.
func (b *State) MinimumImage(d md.Vec) md.Vec {
	d[0] -= math.Round(d[1]) * b.Strain
	d[0] -= math.Round(d[0])
	d[1] -= math.Round(d[1])
	d[2] -= math.Round(d[2])
	return d
}

// Wrap maps an absolute position in box units back into [-0.5,0.5)^3,
// applying the same shear correction as MinimumImage. Positions are
// displacements from the box center, so the rule is identical.
func (b *State) Wrap(r md.Vec) md.Vec {
	return b.MinimumImage(r)
}

// WrapAll wraps every position in place.
func (b *State) WrapAll(r []md.Vec) {
	for i := range r {
		r[i] = b.Wrap(r[i])
	}
}
