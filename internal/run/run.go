// Package run drives a complete simulation: system setup, the step
// loop, per-step observables, block averaging, and snapshotting. The
// force engine and integrator do the physics; this package owns the
// particle state and decides when the run stops.
package run

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/jkleist/shearmd/internal/box"
	"github.com/jkleist/shearmd/internal/config"
	"github.com/jkleist/shearmd/internal/force"
	"github.com/jkleist/shearmd/internal/md"
	"github.com/jkleist/shearmd/internal/sllod"
	"github.com/jkleist/shearmd/internal/stats"
	"github.com/jkleist/shearmd/internal/storage"
)

// Observable names reported by the collector, in order.
var ObservableNames = []string{"energy", "energy_full", "temp_kin", "temp_conf", "pressure"}

// Observables are the per-step scalar values handed to the collector
// and to observers.
type Observables struct {
	Energy     float64 // cut-and-shifted total energy per particle
	EnergyFull float64 // cut energy per particle plus tail correction
	TempKin    float64 // kinetic temperature
	TempConf   float64 // configurational temperature
	Pressure   float64 // virial pressure with tail correction
	Strain     float64
}

// Observer receives each step's observables; the live view hangs off
// this.
type Observer interface {
	OnStep(step int, t float64, obs Observables)
}

// Result carries the outcome of a run.
type Result struct {
	Means       map[string]float64
	StdErrs     map[string]float64
	Trace       []Observables
	StepsTaken  int
	FinalStrain float64
}

// Runner owns the particle system and the fixed machinery of one run.
type Runner struct {
	cfg       *config.Config
	sys       *md.System
	boundary  *box.State
	engine    *force.Engine
	field     *force.Field
	integ     *sllod.Integrator
	collector *stats.Collector
	store     *storage.Store
	runID     string
	observers []Observer
}

// New validates the configuration and builds a runner with an FCC
// initial configuration and Maxwell velocities at the target
// temperature.
func New(cfg *config.Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	engine, err := force.NewEngine(cfg.Cutoffs, cfg.Lambda)
	if err != nil {
		return nil, err
	}

	sys := md.NewSystem(cfg.N, cfg.Box())
	rng := rand.New(rand.NewSource(cfg.Seed))
	copy(sys.R, fccPositions(cfg.N))
	copy(sys.V, maxwellVelocities(cfg.N, cfg.Temperature, rng))

	boundary := &box.State{Side: sys.Box}
	field := force.NewField(cfg.N, engine.Shells())

	return &Runner{
		cfg:       cfg,
		sys:       sys,
		boundary:  boundary,
		engine:    engine,
		field:     field,
		integ:     sllod.New(engine, field, boundary, cfg.StrainRate),
		collector: stats.New(cfg.BlockSize, ObservableNames...),
	}, nil
}

// System exposes the particle state, for tests and for restoring
// snapshots before Run.
func (r *Runner) System() *md.System { return r.sys }

// AddObserver registers a per-step observer.
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// WithStore attaches a snapshot/metadata store.
func (r *Runner) WithStore(s *storage.Store) error {
	if err := s.Init(); err != nil {
		return err
	}
	runID, err := s.NewRun(storage.RunMetadata{
		N:           r.cfg.N,
		Density:     r.cfg.Density,
		Temperature: r.cfg.Temperature,
		Cutoffs:     r.cfg.Cutoffs,
		Lambda:      r.cfg.Lambda,
		Dt:          r.cfg.Dt,
		StrainRate:  r.cfg.StrainRate,
		Steps:       r.cfg.Steps,
		Seed:        r.cfg.Seed,
	})
	if err != nil {
		return err
	}
	r.store = s
	r.runID = runID
	return nil
}

// Run advances the system for the configured number of steps. A
// particle overlap or a singular propagator aborts the run with a
// StepError; whatever the collector has accumulated so far is still
// returned alongside the error.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		Trace: make([]Observables, 0, r.cfg.Steps),
	}

	dt := r.cfg.Dt
	for step := 1; step <= r.cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		t := float64(step) * dt
		totals, err := r.integ.Step(r.sys, dt)
		if err != nil {
			r.finish(result)
			return result, &md.StepError{Step: step, Time: t, Wrapped: err}
		}

		obs := r.observe(totals)
		result.Trace = append(result.Trace, obs)
		if err := r.collector.Observe(obs.Energy, obs.EnergyFull, obs.TempKin, obs.TempConf, obs.Pressure); err != nil {
			r.finish(result)
			return result, err
		}
		for _, o := range r.observers {
			o.OnStep(step, t, obs)
		}

		if r.store != nil && r.cfg.SnapEvery > 0 && step%r.cfg.SnapEvery == 0 {
			if err := r.store.SaveSnapshot(r.runID, step, r.sys, r.boundary.Strain); err != nil {
				r.finish(result)
				return result, fmt.Errorf("snapshot at step %d: %w", step, err)
			}
		}
		result.StepsTaken = step
	}

	r.finish(result)

	if r.store != nil {
		meta, err := r.store.LoadMetadata(r.runID)
		if err == nil {
			meta.Means = result.Means
			meta.StdErrs = result.StdErrs
			err = r.store.UpdateMetadata(r.runID, meta)
		}
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

func (r *Runner) finish(result *Result) {
	result.Means, result.StdErrs = r.collector.Summary()
	result.FinalStrain = r.boundary.Strain
}

// observe turns one step's force totals into the reported observables.
func (r *Runner) observe(totals force.Totals) Observables {
	n := float64(r.sys.N)
	density := r.sys.Density()
	volume := r.sys.Box * r.sys.Box * r.sys.Box
	rOut := r.engine.Outermost()

	ke := r.sys.KineticEnergy()
	tKin := 2.0 * ke / (3.0*n - 3.0)

	fsum := make([]md.Vec, r.sys.N)
	r.field.Sum(fsum)
	var fsq float64
	for _, f := range fsum {
		fsq += f.Norm2()
	}
	hes := force.Hessian(r.sys.R, r.field, r.boundary, rOut)
	tConf := 0.0
	if fsq > 0 {
		tConf = fsq / (totals.Laplacian - 2.0*hes/fsq)
	}

	pressure := density*tKin + totals.Virial/volume + force.PressureLRC(density, rOut)

	return Observables{
		Energy:     (ke + totals.PotShift) / n,
		EnergyFull: (ke+totals.PotCut)/n + force.PotentialLRC(density, rOut),
		TempKin:    tKin,
		TempConf:   tConf,
		Pressure:   pressure,
		Strain:     r.boundary.Strain,
	}
}
