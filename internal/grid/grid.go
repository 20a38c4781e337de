// Package grid describes a uniform periodic 1-D discretisation and the
// scalar sample arrays bound to it.
//
// A Grid is an immutable value: it is safe to share between any number of
// Data instances and goroutines. Data owns its sample slice and never
// changes length after construction.
package grid

import (
	"fmt"
	"math"
)

// Grid is a uniform periodic discretisation of [0, DomainSize) into Samples
// cells. Samples sit at cell centres. Two grids are equal (==) iff their
// domain size and sample count match.
type Grid struct {
	domainSize float64
	samples    int
	cellSize   float64
}

// New builds a Grid. domainSize must be positive and samples at least one.
func New(domainSize float64, samples int) (Grid, error) {
	if !(domainSize > 0) || math.IsInf(domainSize, 0) {
		return Grid{}, fmt.Errorf("domain size must be positive and finite, got %v", domainSize)
	}
	if samples < 1 {
		return Grid{}, fmt.Errorf("sample count must be at least 1, got %d", samples)
	}
	return Grid{
		domainSize: domainSize,
		samples:    samples,
		cellSize:   domainSize / float64(samples),
	}, nil
}

// MustNew is New for callers whose parameters are already validated.
// It panics on an invalid configuration.
func MustNew(domainSize float64, samples int) Grid {
	g, err := New(domainSize, samples)
	if err != nil {
		panic("grid: " + err.Error())
	}
	return g
}

// DomainSize returns the physical length of the periodic domain.
func (g Grid) DomainSize() float64 { return g.domainSize }

// Samples returns the number of cells.
func (g Grid) Samples() int { return g.samples }

// CellSize returns DomainSize / Samples.
func (g Grid) CellSize() float64 { return g.cellSize }

// Position returns the cell-centre coordinate of cell i. i is not wrapped.
func (g Grid) Position(i int) float64 {
	return (float64(i) + 0.5) * g.cellSize
}

// snapULPs bounds the rounding error of x/cellSize - 0.5 at a cell centre.
const snapULPs = 16

// epsilon is the float64 machine epsilon.
const epsilon = 0x1p-52

// GridSpace maps a continuous coordinate to the sample at or below x and
// the fractional offset towards the next sample, so that
// Position(base) <= x < Position(base+1) modulo the domain.
// base is always in [0, Samples) and alpha in [0, 1). A coordinate within
// a few ulps of a cell centre maps to that cell with alpha == 0.
func (g Grid) GridSpace(x float64) (base int, alpha float64) {
	s := x/g.cellSize - 0.5
	if r := math.Round(s); math.Abs(s-r) <= snapULPs*epsilon*math.Max(1, math.Abs(s)) {
		s = r
	}
	fl := math.Floor(s)
	alpha = s - fl
	n := float64(g.samples)
	w := math.Mod(fl, n)
	if w < 0 {
		w += n
	}
	return int(w), alpha
}

// Wrap maps any coordinate into [0, DomainSize).
func (g Grid) Wrap(x float64) float64 {
	w := math.Mod(x, g.domainSize)
	if w < 0 {
		w += g.domainSize
	}
	if w >= g.domainSize {
		w = 0
	}
	return w
}

// WrapIndex maps any integer into [0, Samples).
func (g Grid) WrapIndex(i int) int {
	i %= g.samples
	if i < 0 {
		i += g.samples
	}
	return i
}

// String implements fmt.Stringer.
func (g Grid) String() string {
	return fmt.Sprintf("Grid{L=%g, N=%d, dx=%g}", g.domainSize, g.samples, g.cellSize)
}
