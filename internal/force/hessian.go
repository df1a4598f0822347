package force

import (
	"github.com/jkleist/shearmd/internal/box"
	"github.com/jkleist/shearmd/internal/md"
)

// Hessian accumulates the pair sum used for the configurational
// temperature correction: for every pair within rCut it combines the
// squared magnitude of the inter-particle force difference and its
// projection onto the separation, weighted by the second derivatives of
// the 12-6 potential.
//
// The field must hold a complete, consistent set of shell forces for
// the current positions; the shell-summed force enters the quadratic
// forms.
func Hessian(r []md.Vec, field *Field, b *box.State, rCut float64) float64 {
	n := len(r)
	fsum := make([]md.Vec, n)
	field.Sum(fsum)

	side := b.Side
	rCutSq := rCut * rCut
	hes := 0.0

	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			d := b.MinimumImage(r[i].Sub(r[j])).Scale(side)
			rsq := d.Norm2()
			if rsq > rCutSq {
				continue
			}
			df := fsum[i].Sub(fsum[j])
			rf := d.Dot(df)

			sr2 := 1.0 / rsq
			sr6 := sr2 * sr2 * sr2
			sr8 := sr6 * sr2
			sr10 := sr8 * sr2
			v1 := 24.0 * (1.0 - 2.0*sr6) * sr8
			v2 := 96.0 * (7.0*sr6 - 2.0) * sr10

			hes += v1*df.Norm2() + v2*rf*rf
		}
	}
	return hes
}
