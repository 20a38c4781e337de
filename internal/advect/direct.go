package advect

import (
	"fmt"

	"github.com/banshee-data/advection/internal/grid"
)

// kernel updates cell i of a direct scheme from the pre-step field.
type kernel func(prev *grid.Data, i int, dt float64, vel Velocity) float64

// AdvectDirect returns d advanced by dt with a Lax-Wendroff update.
// d is not modified.
func AdvectDirect(d *grid.Data, dt float64, vel Velocity, s Scheme) *grid.Data {
	k := directKernel(s)

	out := grid.NewData(d.Grid())
	dst := out.Raw()
	parallelFor(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = k(d, i, dt, vel)
		}
	})
	return out
}

// StepDirect advances d in place by dt at uniform velocity v.
func StepDirect(d *grid.Data, dt, v float64, s Scheme) {
	d.CopyFrom(AdvectDirect(d, dt, Uniform(v), s))
}

// StepDirectField advances d in place under a position-dependent velocity.
func StepDirectField(d *grid.Data, dt float64, vel Velocity, s Scheme) {
	d.CopyFrom(AdvectDirect(d, dt, vel, s))
}

func directKernel(s Scheme) kernel {
	switch s {
	case LaxWendroffCDS:
		return laxWendroffCDS
	case LaxWendroffCDF:
		return laxWendroffCDF
	default:
		panic(fmt.Sprintf("advect: unknown advection scheme %d", int(s)))
	}
}

// laxWendroffCDS uses the Courant number dt*v/dx at the cell centre.
func laxWendroffCDS(prev *grid.Data, i int, dt float64, vel Velocity) float64 {
	g := prev.Grid()
	alpha := dt * vel.At(g.Position(i)) / g.CellSize()

	fM := prev.Periodic(i - 1)
	f0 := prev.At(i)
	fP := prev.Periodic(i + 1)

	return f0 - alpha/2*(fP-fM) + alpha*alpha/2*(fP-2*f0+fM)
}

// laxWendroffCDF expands about the sample at or below the departure point,
// using the fractional offset from Grid.GridSpace as the Courant number.
func laxWendroffCDF(prev *grid.Data, i int, dt float64, vel Velocity) float64 {
	g := prev.Grid()
	x := g.Position(i)
	base, alpha := g.GridSpace(x - dt*vel.At(x))

	fM1 := prev.Periodic(base - 1)
	fM0 := prev.Periodic(base)
	fP0 := prev.Periodic(base + 1)

	result := fM0 + alpha/2*(fP0-fM1)
	result += (fP0 - 2*fM0 + fM1) * alpha * alpha / 2
	return result
}
