package grid

import "fmt"

// Data is a scalar sample array bound to a Grid. It owns its values; the
// Grid is held by value and never mutated.
type Data struct {
	grid   Grid
	values []float64
}

// NewData returns a zero-filled field on g.
func NewData(g Grid) *Data {
	if g.samples < 1 {
		panic("grid: NewData on an uninitialised Grid")
	}
	return &Data{grid: g, values: make([]float64, g.samples)}
}

// NewDataFrom returns a field on g holding a copy of values.
// It panics when len(values) differs from g.Samples().
func NewDataFrom(g Grid, values []float64) *Data {
	if len(values) != g.samples {
		panic(fmt.Sprintf("grid: %d values for a grid of %d samples", len(values), g.samples))
	}
	d := NewData(g)
	copy(d.values, values)
	return d
}

// Grid returns the grid the field is bound to.
func (d *Data) Grid() Grid { return d.grid }

// Len returns the sample count.
func (d *Data) Len() int { return len(d.values) }

// At returns sample i. i must be in [0, Len()).
func (d *Data) At(i int) float64 { return d.values[i] }

// Set assigns sample i. i must be in [0, Len()).
func (d *Data) Set(i int, v float64) { d.values[i] = v }

// Position returns the cell-centre coordinate of sample i.
func (d *Data) Position(i int) float64 { return d.grid.Position(i) }

// Periodic reads the sample at any integer index, wrapping it into the
// domain regardless of sign or magnitude.
func (d *Data) Periodic(i int) float64 {
	return d.values[d.grid.WrapIndex(i)]
}

// Fill sets every sample to f evaluated at its cell centre.
func (d *Data) Fill(f func(x float64) float64) {
	for i := range d.values {
		d.values[i] = f(d.grid.Position(i))
	}
}

// Values returns a copy of the samples.
func (d *Data) Values() []float64 {
	out := make([]float64, len(d.values))
	copy(out, d.values)
	return out
}

// Raw exposes the backing slice for read-only bulk numerics. Callers must
// not retain or resize it.
func (d *Data) Raw() []float64 { return d.values }

// Clone returns an independent copy bound to the same grid.
func (d *Data) Clone() *Data {
	return NewDataFrom(d.grid, d.values)
}

// CopyFrom overwrites d with the samples of src. Both must share a grid.
func (d *Data) CopyFrom(src *Data) {
	d.MustMatch(src)
	copy(d.values, src.values)
}

// MustMatch panics unless other is bound to an identical grid.
func (d *Data) MustMatch(other *Data) {
	if d.grid != other.grid {
		panic(fmt.Sprintf("grid: mismatched grids %v and %v", d.grid, other.grid))
	}
}
