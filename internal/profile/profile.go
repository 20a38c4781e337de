// Package profile provides the initial conditions and analytic references
// used by the advection drivers.
package profile

import (
	"fmt"
	"math"

	"github.com/banshee-data/advection/internal/grid"
)

// Profile is a scalar function of position.
type Profile interface {
	Value(x float64) float64
}

// Step is Inside on the open interval (Lo, Hi) and Outside elsewhere.
type Step struct {
	Lo, Hi          float64
	Inside, Outside float64
}

// UnitStep returns a 0/1 step on (lo, hi).
func UnitStep(lo, hi float64) Step {
	return Step{Lo: lo, Hi: hi, Inside: 1}
}

func (s Step) Value(x float64) float64 {
	if x > s.Lo && x < s.Hi {
		return s.Inside
	}
	return s.Outside
}

// Gaussian is a smooth bump. When Period is positive the distance to Center
// is measured around the periodic domain.
type Gaussian struct {
	Center    float64
	Width     float64
	Amplitude float64
	Period    float64
}

func (g Gaussian) Value(x float64) float64 {
	d := x - g.Center
	if g.Period > 0 {
		d = math.Remainder(d, g.Period)
	}
	return g.Amplitude * math.Exp(-0.5*(d*d)/(g.Width*g.Width))
}

// Initial condition names accepted by Initial.
const (
	StepName     = "step"
	GaussianName = "gaussian"
)

// Names lists the initial conditions Initial can build.
func Names() []string {
	return []string{StepName, GaussianName}
}

// Initial builds the named initial condition over (lo, hi) on a periodic
// domain of length period. "step" is a unit step on the interval and
// "gaussian" is a unit bump centred on it whose interval spans four
// standard deviations.
func Initial(name string, lo, hi, period float64) (Profile, error) {
	switch name {
	case StepName:
		return UnitStep(lo, hi), nil
	case GaussianName:
		return Gaussian{Center: (lo + hi) / 2, Width: (hi - lo) / 4, Amplitude: 1, Period: period}, nil
	default:
		return nil, fmt.Errorf("unknown profile %q (want one of %v)", name, Names())
	}
}

// Shifted is Profile translated by Shift on a periodic domain of length
// DomainSize: Value(x) == Profile.Value(wrap(x - Shift)).
type Shifted struct {
	Profile    Profile
	Shift      float64
	DomainSize float64
}

func (s Shifted) Value(x float64) float64 {
	x -= s.Shift
	if s.DomainSize > 0 {
		x = math.Mod(x, s.DomainSize)
		if x < 0 {
			x += s.DomainSize
		}
	}
	return s.Profile.Value(x)
}

// StaircaseValues are the hand-picked samples of the interpolation demo:
// a plateau, a steep drop, a gentle decline and a flat tail.
var StaircaseValues = []float64{3, 2.9, 2.5, 1, 0.9, 0.8, 0.5, 0.2, 0.1, 0.1}

// Staircase binds StaircaseValues to g. A grid with a different sample
// count gets the staircase stretched piecewise-constant over its cells.
func Staircase(g grid.Grid) *grid.Data {
	n := g.Samples()
	if n == len(StaircaseValues) {
		d, _ := Samples(g, StaircaseValues...)
		return d
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = StaircaseValues[i*len(StaircaseValues)/n]
	}
	return grid.NewDataFrom(g, vals)
}

// Apply fills d with p sampled at every cell centre.
func Apply(d *grid.Data, p Profile) {
	d.Fill(p.Value)
}

// New allocates a field on g initialised from p.
func New(g grid.Grid, p Profile) *grid.Data {
	d := grid.NewData(g)
	Apply(d, p)
	return d
}

// Samples binds hand-authored values to g. len(values) must equal
// g.Samples().
func Samples(g grid.Grid, values ...float64) (*grid.Data, error) {
	if len(values) != g.Samples() {
		return nil, fmt.Errorf("got %d sample values for a %d-sample grid", len(values), g.Samples())
	}
	return grid.NewDataFrom(g, values), nil
}
