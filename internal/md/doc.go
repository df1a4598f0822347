// Package md holds the shared types of the simulation core: the 3-vector
// used for positions, velocities and forces, the particle system borrowed
// by the force and integration packages, and the domain errors.
//
// Positions are stored in box units (the periodic cell has side 1 after
// normalization); velocities and forces are kept in reduced Lennard-Jones
// units. Conversions happen at the package boundaries, never inside the
// pair loops.
package md
