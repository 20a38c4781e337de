// Package interp reconstructs a continuous field from periodic grid samples.
//
// All functions are pure: they read a grid.Data and never mutate it, so a
// single field may be interpolated from many goroutines at once.
package interp

import (
	"fmt"
	"math"

	"github.com/banshee-data/advection/internal/grid"
)

// Interpolate reconstructs the value of d at coordinate x using scheme s.
// x may lie anywhere on the real line; the grid is periodic.
func Interpolate(d *grid.Data, x float64, s Scheme) float64 {
	base, alpha := d.Grid().GridSpace(x)

	switch s {
	case Linear:
		fM := d.Periodic(base)
		fP := d.Periodic(base + 1)
		return fP*alpha + fM*(1-alpha)

	case CatmullRom:
		// https://www.paulinternet.nl/?page=bicubic
		fM1, fM0, fP0, fP1 := stencil(d, base)
		dM, dP := slopes(fM1, fM0, fP0, fP1)
		return cubic(alpha, fM0, fP0, dM, dP)

	case MonotonicCubicFedkiw:
		fM1, fM0, fP0, fP1 := stencil(d, base)
		dM, dP := slopes(fM1, fM0, fP0, fP1)
		dM, dP = clampSlopes(fP0-fM0, dM, dP)
		result := cubic(alpha, fM0, fP0, dM, dP)

		// The slope clamp alone does not bound the cubic.
		result = math.Min(result, math.Max(fM0, fP0))
		result = math.Max(result, math.Min(fM0, fP0))
		return result

	case MonotonicCubicFritschCarlson:
		// https://en.wikipedia.org/wiki/Monotone_cubic_interpolation
		fM1, fM0, fP0, fP1 := stencil(d, base)
		delta := fP0 - fM0
		dM, dP := slopes(fM1, fM0, fP0, fP1)
		dM, dP = clampSlopes(delta, dM, dP)

		d2 := dM*dM + dP*dP
		delta2times9 := 9 * delta * delta
		if d2 > delta2times9 {
			scale := math.Sqrt(delta2times9 / d2)
			dM *= scale
			dP *= scale
		}
		return cubic(alpha, fM0, fP0, dM, dP)

	default:
		panic(fmt.Sprintf("interp: unknown scheme %d", int(s)))
	}
}

// stencil returns the four periodic samples base-1 .. base+2.
func stencil(d *grid.Data, base int) (fM1, fM0, fP0, fP1 float64) {
	return d.Periodic(base - 1), d.Periodic(base), d.Periodic(base + 1), d.Periodic(base + 2)
}

// slopes returns the central-difference derivatives at base and base+1.
func slopes(fM1, fM0, fP0, fP1 float64) (dM, dP float64) {
	return (fP0 - fM1) * 0.5, (fP1 - fM0) * 0.5
}

// clampSlopes zeroes any slope whose sign disagrees with delta.
func clampSlopes(delta, dM, dP float64) (float64, float64) {
	switch {
	case delta < 0:
		return math.Min(dM, 0), math.Min(dP, 0)
	case delta > 0:
		return math.Max(dM, 0), math.Max(dP, 0)
	default:
		return 0, 0
	}
}

// cubic evaluates the Hermite cubic through (0, fM) and (1, fP) with end
// slopes dM and dP at x in [0, 1).
func cubic(x, fM, fP, dM, dP float64) float64 {
	x1 := x
	x2 := x1 * x
	x3 := x2 * x

	delta := fP - fM
	c0 := fM
	c1 := dM
	c2 := 3*delta - 2*dM - dP
	c3 := dM + dP - 2*delta

	return c3*x3 + c2*x2 + c1*x1 + c0
}
