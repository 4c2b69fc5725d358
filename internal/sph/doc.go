// Package sph computes one step of a weakly-compressible SPH fluid.
//
// The package is written against the [Scene] capability interface and never
// assumes how particles are stored. A step has three phases, each a full
// barrier:
//
//  1. the scene recomputes every density with the solver's kernel
//  2. every particle's acceleration is summed from the solver's [Term]s
//  3. every velocity is advanced by acceleration * dt
//
// Positions are never modified; advancing them is the scene's job.
//
// # Example
//
//	k, _ := kernel.NewCubicSpline(2)
//	solver, err := sph.New(sph.DefaultParams(), k)
//	if err != nil {
//	    return err
//	}
//	if err := solver.CheckScene(scene); err != nil {
//	    return err
//	}
//	solver.Step(scene)
//
// # Thread Safety
//
// A Solver reuses internal buffers and must not run Step concurrently with
// itself. Within a step, particles are processed in parallel; the result is
// identical for any scheduling.
package sph
