// Package sllod advances a sheared particle system with the isokinetic
// SLLOD equations of motion under Lees–Edwards boundaries. One step is
// the time-symmetric splitting
//
//	A(dt/2) B1(dt/2) [force] B2(dt) B1(dt/2) A(dt/2)
//
// where A drifts positions and strain, B1 applies the velocity shear
// with an exact kinetic-energy renormalization, and B2 integrates the
// force term of the constrained equations in closed form. The total
// kinetic energy is a constant of the motion to machine precision.
package sllod

import (
	"math"

	"github.com/jkleist/shearmd/internal/box"
	"github.com/jkleist/shearmd/internal/force"
	"github.com/jkleist/shearmd/internal/md"
)

// parallelTol bounds |alpha-beta| relative to beta below which the B2
// update is treated as degenerate: the force is parallel to the
// velocities, the constraint force cancels it, and the velocities are
// left unchanged (the exact limit of the closed form).
const parallelTol = 1e-12

// Integrator holds the fixed pieces of a run: the force engine, the
// per-shell force field, the boundary state whose strain it advances,
// and the imposed strain rate.
type Integrator struct {
	StrainRate float64

	engine   *force.Engine
	field    *force.Field
	boundary *box.State
	fsum     []md.Vec
}

func New(engine *force.Engine, field *force.Field, b *box.State, strainRate float64) *Integrator {
	return &Integrator{
		StrainRate: strainRate,
		engine:     engine,
		field:      field,
		boundary:   b,
	}
}

// Step advances the system by dt and returns the totals of the in-step
// force evaluation. An overlap reported by the engine aborts the step
// with md.ErrOverlap: the configuration is physically invalid and there
// is nothing to retry.
func (g *Integrator) Step(sys *md.System, dt float64) (force.Totals, error) {
	g.aProp(sys, 0.5*dt)
	if err := g.b1Prop(sys, 0.5*dt); err != nil {
		return force.Totals{}, err
	}

	totals, err := g.engine.Evaluate(sys.R, g.boundary, g.field)
	if err != nil {
		return force.Totals{}, err
	}
	if totals.Overlap {
		return force.Totals{}, md.ErrOverlap
	}

	if len(g.fsum) != sys.N {
		g.fsum = make([]md.Vec, sys.N)
	}
	g.field.Sum(g.fsum)

	if err := g.b2Prop(sys, g.fsum, dt); err != nil {
		return force.Totals{}, err
	}
	if err := g.b1Prop(sys, 0.5*dt); err != nil {
		return force.Totals{}, err
	}
	g.aProp(sys, 0.5*dt)

	return totals, nil
}

// aProp drifts strain and positions over t. The strain increment shears
// the x coordinates through their y coordinates before the ordinary
// drift; re-wrapping uses the updated strain.
func (g *Integrator) aProp(sys *md.System, t float64) {
	dg := g.StrainRate * t
	g.boundary.Strain += dg

	for i := range sys.R {
		sys.R[i][0] += dg * sys.R[i][1]
		sys.R[i] = sys.R[i].Add(sys.V[i].Scale(t / sys.Box))
	}
	g.boundary.WrapAll(sys.R)
}

// b1Prop applies the shear part of the velocity equation and rescales
// so the total kinetic energy is exactly conserved under it.
func (g *Integrator) b1Prop(sys *md.System, t float64) error {
	x := g.StrainRate * t

	var vv, vxy, vyy float64
	for _, v := range sys.V {
		vv += v.Norm2()
		vxy += v[0] * v[1]
		vyy += v[1] * v[1]
	}
	if vv == 0 {
		return md.ErrPropagatorSingular
	}

	c1 := x * vxy / vv
	c2 := x * x * vyy / vv
	scale := 1.0 / math.Sqrt(1.0-2.0*c1+c2)

	for i := range sys.V {
		sys.V[i][0] -= x * sys.V[i][1]
		sys.V[i] = sys.V[i].Scale(scale)
	}
	return nil
}

// b2Prop integrates the force term of the isokinetic equations exactly
// over t using the closed-form exponential update. A finite-difference
// update here would let the kinetic energy drift; the closed form keeps
// the constraint to machine precision.
func (g *Integrator) b2Prop(sys *md.System, f []md.Vec, t float64) error {
	var fv, ff, vv float64
	for i := range sys.V {
		fv += f[i].Dot(sys.V[i])
		ff += f[i].Norm2()
		vv += sys.V[i].Norm2()
	}
	if vv == 0 {
		return md.ErrPropagatorSingular
	}

	alpha := fv / vv
	beta := math.Sqrt(ff / vv)
	if beta == 0 || math.Abs(alpha-beta) < parallelTol*beta {
		// Zero force, or force parallel to the velocities: the
		// constraint force cancels the applied force and the
		// velocities do not move.
		return nil
	}

	h := (alpha + beta) / (alpha - beta)
	e := math.Exp(-beta * t)
	dtFactor := (1.0 + h - e - h/e) / ((1.0 - h) * beta)
	prefactor := (1.0 - h) / (e - h/e)

	for i := range sys.V {
		sys.V[i] = sys.V[i].Add(f[i].Scale(dtFactor)).Scale(prefactor)
	}
	return nil
}
