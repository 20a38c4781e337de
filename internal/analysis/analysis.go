// Package analysis compares an advected field against a reference.
//
// All functions require both operands to share a grid and panic otherwise.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/advection/internal/grid"
)

// Summary bundles the comparison metrics of one run.
type Summary struct {
	L2Error        float64 `json:"l2_error"`
	MaxError       float64 `json:"max_error"`
	MassDrift      float64 `json:"mass_drift"`
	Overshoot      float64 `json:"overshoot"`
	TotalVariation float64 `json:"total_variation"`
}

// L2Error is the discrete L2 norm of a - ref weighted by the cell size.
func L2Error(a, ref *grid.Data) float64 {
	a.MustMatch(ref)
	return floats.Distance(a.Raw(), ref.Raw(), 2) * math.Sqrt(a.Grid().CellSize())
}

// MaxError is the largest absolute pointwise difference.
func MaxError(a, ref *grid.Data) float64 {
	a.MustMatch(ref)
	return floats.Distance(a.Raw(), ref.Raw(), math.Inf(1))
}

// Mass is the integral of d over the domain.
func Mass(d *grid.Data) float64 {
	return floats.Sum(d.Raw()) * d.Grid().CellSize()
}

// MassDrift is Mass(a) - Mass(ref).
func MassDrift(a, ref *grid.Data) float64 {
	a.MustMatch(ref)
	return Mass(a) - Mass(ref)
}

// Overshoot is how far a leaves the value range of ref, in either
// direction. Zero means every sample of a lies within [min(ref), max(ref)].
func Overshoot(a, ref *grid.Data) float64 {
	a.MustMatch(ref)
	lo, hi := floats.Min(ref.Raw()), floats.Max(ref.Raw())
	return math.Max(0, math.Max(floats.Max(a.Raw())-hi, lo-floats.Min(a.Raw())))
}

// TotalVariation sums |d[i+1] - d[i]| around the periodic domain.
func TotalVariation(d *grid.Data) float64 {
	tv := 0.0
	for i := 0; i < d.Len(); i++ {
		tv += math.Abs(d.Periodic(i+1) - d.At(i))
	}
	return tv
}

// Summarize computes every metric of a against ref.
func Summarize(a, ref *grid.Data) Summary {
	return Summary{
		L2Error:        L2Error(a, ref),
		MaxError:       MaxError(a, ref),
		MassDrift:      MassDrift(a, ref),
		Overshoot:      Overshoot(a, ref),
		TotalVariation: TotalVariation(a),
	}
}
