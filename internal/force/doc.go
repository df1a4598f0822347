// Package force evaluates the pairwise Lennard-Jones interaction split
// into nested cutoff shells. Each shell covers a radial sub-range of the
// interaction and hands over to its neighbors through a smoothstep
// switching function, so that the per-shell forces sum exactly to the
// single-cutoff force. The per-shell decomposition is what a
// multiple-timestep integrator and the configurational-temperature
// estimator consume.
//
// The package also carries the analytic long-range tail corrections and
// the Hessian sum used for the configurational temperature.
package force
