package interp

import (
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/advection/internal/grid"
)

// Resample evaluates the reconstruction of d at n cell-centred points
// spanning the domain and returns the coordinates and values.
func Resample(d *grid.Data, s Scheme, n int) (xs, ys []float64) {
	if n < 1 {
		return nil, nil
	}
	h := d.Grid().DomainSize() / float64(n)
	xs = make([]float64, n)
	if n == 1 {
		xs[0] = 0.5 * h
	} else {
		floats.Span(xs, 0.5*h, d.Grid().DomainSize()-0.5*h)
	}
	ys = make([]float64, n)
	for i, x := range xs {
		ys[i] = Interpolate(d, x, s)
	}
	return xs, ys
}
