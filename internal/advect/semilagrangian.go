// Package advect advances periodic 1-D fields by one time step.
//
// Two families are provided. The semi-Lagrangian family (Stepping) traces
// characteristics and reconstructs with an interp.Scheme; the direct family
// (Scheme) applies a Lax-Wendroff finite-difference update. Every pass reads
// an immutable input and writes a freshly allocated output, so cells within
// a pass are computed in parallel and passes are separated by a barrier.
//
// The engines hold no state between calls and never sub-step: choosing a
// stable dt is the caller's job.
package advect

import (
	"fmt"

	"github.com/banshee-data/advection/internal/grid"
	"github.com/banshee-data/advection/internal/interp"
)

// Trace performs one semi-Lagrangian pass: every sample of the result is
// src reconstructed at its departure point Position(i) - dt*v.
// Passing -dt traces forward in time.
func Trace(src *grid.Data, dt float64, vel Velocity, is interp.Scheme) *grid.Data {
	mustInterp(is)

	out := grid.NewData(src.Grid())
	dst := out.Raw()
	parallelFor(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			x := src.Position(i)
			dst[i] = interp.Interpolate(src, x-dt*vel.At(x), is)
		}
	})
	return out
}

// Advect returns d advanced by dt under st. d is not modified.
func Advect(d *grid.Data, dt float64, vel Velocity, st Stepping, is interp.Scheme) *grid.Data {
	mustInterp(is)

	switch st {
	case SemiLagrangian:
		return Trace(d, dt, vel, is)

	case MacCormack:
		forward := Trace(d, dt, vel, is)
		backward := Trace(forward, -dt, vel, is)
		return combine(forward, d, backward, func(a, p, b float64) float64 {
			return a + (p-b)/2
		})

	case BFECC:
		forward := Trace(d, dt, vel, is)
		backward := Trace(forward, -dt, vel, is)
		// Compensate the input, not the forward result: P + (P - B)/2.
		compensated := combine(forward, d, backward, func(_, p, b float64) float64 {
			return (3*p - b) / 2
		})
		return Trace(compensated, dt, vel, is)

	default:
		panic(fmt.Sprintf("advect: unknown stepping %d", int(st)))
	}
}

// Step advances d in place by dt at uniform velocity v.
func Step(d *grid.Data, dt, v float64, st Stepping, is interp.Scheme) {
	d.CopyFrom(Advect(d, dt, Uniform(v), st, is))
}

// StepField advances d in place by dt under a position-dependent velocity.
func StepField(d *grid.Data, dt float64, vel Velocity, st Stepping, is interp.Scheme) {
	d.CopyFrom(Advect(d, dt, vel, st, is))
}

// combine evaluates f cell by cell over three fields on the same grid.
func combine(a, p, b *grid.Data, f func(a, p, b float64) float64) *grid.Data {
	a.MustMatch(p)
	a.MustMatch(b)

	out := grid.NewData(a.Grid())
	dst, av, pv, bv := out.Raw(), a.Raw(), p.Raw(), b.Raw()
	parallelFor(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = f(av[i], pv[i], bv[i])
		}
	})
	return out
}

func mustInterp(is interp.Scheme) {
	if !is.Valid() {
		panic(fmt.Sprintf("advect: unknown interpolation scheme %d", int(is)))
	}
}
