package force

import (
	"fmt"
	"math"

	"github.com/jkleist/shearmd/internal/box"
	"github.com/jkleist/shearmd/internal/md"
)

// overlapSr2 is the inverse squared distance (sigma units) above which a
// pair counts as overlapping; it corresponds to r below roughly 0.745
// sigma, where the 12-6 potential is effectively singular.
const overlapSr2 = 1.8

// Totals are the scalar sums of one shell evaluation. Overlap is sticky:
// the evaluation runs to completion so the sums stay consistent, but a
// flagged result must be discarded by the caller.
type Totals struct {
	PotShift  float64 // cut-and-shifted potential
	PotCut    float64 // cut but unshifted potential
	Virial    float64
	Laplacian float64
	Overlap   bool
}

// Add combines shell totals into running totals for a full evaluation.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		PotShift:  t.PotShift + o.PotShift,
		PotCut:    t.PotCut + o.PotCut,
		Virial:    t.Virial + o.Virial,
		Laplacian: t.Laplacian + o.Laplacian,
		Overlap:   t.Overlap || o.Overlap,
	}
}

// Engine evaluates switched pairwise forces for an ordered set of shell
// cutoffs. Cutoffs are in sigma units, strictly increasing, with at
// least the switch width between consecutive shells. Immutable for a run.
type Engine struct {
	cutoffs  []float64
	lambda   float64
	potShift float64 // unswitched potential at the outermost cutoff
}

// NewEngine validates the cutoff set and precomputes the potential shift
// at the outermost cutoff.
func NewEngine(cutoffs []float64, lambda float64) (*Engine, error) {
	if len(cutoffs) == 0 {
		return nil, fmt.Errorf("%w: empty cutoff set", md.ErrInvalidConfig)
	}
	if lambda < 0 {
		return nil, fmt.Errorf("%w: negative switch width %g", md.ErrInvalidConfig, lambda)
	}
	prev := 0.0
	for i, rc := range cutoffs {
		if rc <= prev+lambda {
			return nil, fmt.Errorf("%w: cutoff %d = %g after %g with width %g",
				md.ErrCutoffSpacing, i+1, rc, prev, lambda)
		}
		prev = rc
	}
	e := &Engine{
		cutoffs: append([]float64(nil), cutoffs...),
		lambda:  lambda,
	}
	e.potShift = ljPot(e.cutoffs[len(e.cutoffs)-1])
	return e, nil
}

// Shells is the number of shells K.
func (e *Engine) Shells() int { return len(e.cutoffs) }

// Outermost is the outermost cutoff r_cut[K].
func (e *Engine) Outermost() float64 { return e.cutoffs[len(e.cutoffs)-1] }

func ljPot(r float64) float64 {
	sr2 := 1.0 / (r * r)
	sr6 := sr2 * sr2 * sr2
	return 4.0 * (sr6*sr6 - sr6)
}

// ShellForces evaluates shell k (1-based) over every unordered pair,
// writing the per-particle forces for that shell into field and
// returning the scalar totals. Positions are in box units; forces and
// potentials come out in sigma units.
//
// A pair contributes only while its distance lies in
// [r_cut[k-1]-lambda, r_cut[k]]: below the window it belongs entirely
// to inner shells, above it to outer ones. Inside the window the
// smoothstep weight hands the pair over between adjacent shells; the
// virial picks up the weight's own radial derivative so the force stays
// the exact gradient of the switched potential.
func (e *Engine) ShellForces(r []md.Vec, b *box.State, k int, field *Field) (Totals, error) {
	if k < 1 || k > len(e.cutoffs) {
		return Totals{}, fmt.Errorf("%w: shell %d of %d", md.ErrShellIndex, k, len(e.cutoffs))
	}

	var t Totals
	f := field.Shell(k)
	for i := range f {
		f[i] = md.Vec{}
	}

	side := b.Side
	outer := e.cutoffs[k-1]
	inner := 0.0
	if k >= 2 {
		inner = e.cutoffs[k-2]
	}
	last := k == len(e.cutoffs)

	lo := inner - e.lambda // window lower bound; negative for the first shell
	outerSq := outer * outer
	loSq := lo * lo

	n := len(r)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			d := b.MinimumImage(r[i].Sub(r[j]))
			rsq := d.Norm2() * side * side
			if rsq > outerSq {
				continue
			}
			if lo > 0 && rsq < loSq {
				continue
			}

			sr2 := 1.0 / rsq
			if sr2 > overlapSr2 {
				t.Overlap = true
			}
			sr6 := sr2 * sr2 * sr2
			sr12 := sr6 * sr6
			pot := 4.0 * (sr12 - sr6)
			potSh := pot - e.potShift
			vir := 24.0 * (2.0*sr12 - sr6)
			lap := 24.0 * (22.0*sr12 - 5.0*sr6) * sr2

			rmag := math.Sqrt(rsq)
			weight, dwdr := 1.0, 0.0
			switch {
			case rmag < inner:
				// handing over from shell k-1: weight ramps 0 -> 1
				x := (rmag - inner) / e.lambda
				weight = 1.0 - (2.0*x+3.0)*x*x
				dwdr = -6.0 * x * (x + 1.0) / e.lambda
			case !last && rmag > outer-e.lambda:
				// handing over to shell k+1: weight ramps 1 -> 0
				x := (rmag - outer) / e.lambda
				weight = (2.0*x + 3.0) * x * x
				dwdr = 6.0 * x * (x + 1.0) / e.lambda
			}

			virSw := weight*vir - rmag*dwdr*potSh
			t.PotShift += weight * potSh
			t.PotCut += weight * pot
			t.Virial += virSw
			t.Laplacian += weight * lap

			// d is in box units; the pair force in sigma units is
			// r_phys * vir / r^2 with r_phys = d*side.
			fij := d.Scale(side * virSw * sr2)
			f[i] = f[i].Add(fij)
			f[j] = f[j].Sub(fij)
		}
	}

	t.Virial /= 3.0
	t.Laplacian *= 2.0
	return t, nil
}

// Evaluate runs every shell in order, filling the whole field and
// summing the totals. Errors are configuration defects; an overlap is
// reported through the flag, with the sums still internally consistent.
func (e *Engine) Evaluate(r []md.Vec, b *box.State, field *Field) (Totals, error) {
	var total Totals
	for k := 1; k <= e.Shells(); k++ {
		t, err := e.ShellForces(r, b, k, field)
		if err != nil {
			return Totals{}, err
		}
		total = total.Add(t)
	}
	return total, nil
}
