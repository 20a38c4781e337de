package profile

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/advection/internal/grid"
)

func TestStepValue(t *testing.T) {
	s := UnitStep(2.5, 7.5)
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0},
		{2.5, 0},
		{2.51, 1},
		{5, 1},
		{7.5, 0},
		{9.9, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Value(tt.x), "x=%v", tt.x)
	}

	custom := Step{Lo: 0, Hi: 1, Inside: 4, Outside: -1}
	assert.Equal(t, 4.0, custom.Value(0.5))
	assert.Equal(t, -1.0, custom.Value(2))
}

func TestGaussianPeriodic(t *testing.T) {
	g := Gaussian{Center: 0.5, Width: 1, Amplitude: 2, Period: 10}
	assert.InDelta(t, 2, g.Value(0.5), 1e-15)
	// 9.5 is one unit from the centre around the wrap.
	assert.InDelta(t, g.Value(1.5), g.Value(9.5), 1e-15)
	assert.InDelta(t, 2*math.Exp(-0.5), g.Value(1.5), 1e-15)

	open := Gaussian{Center: 0.5, Width: 1, Amplitude: 2}
	assert.Less(t, open.Value(9.5), 1e-10)
}

func TestInitial(t *testing.T) {
	step, err := Initial("step", 2.5, 7.5, 10)
	require.NoError(t, err)
	assert.Equal(t, UnitStep(2.5, 7.5), step)

	bump, err := Initial("gaussian", 2.5, 7.5, 10)
	require.NoError(t, err)
	if diff := cmp.Diff(Gaussian{Center: 5, Width: 1.25, Amplitude: 1, Period: 10}, bump); diff != "" {
		t.Errorf("gaussian mismatch (-want +got):\n%s", diff)
	}
	// The interval edges sit two widths from the centre.
	assert.InDelta(t, math.Exp(-2), bump.Value(2.5), 1e-15)

	_, err = Initial("triangle", 0, 1, 10)
	assert.ErrorContains(t, err, "unknown profile")
}

func TestShiftedWraps(t *testing.T) {
	ref := Shifted{Profile: UnitStep(2.5, 7.5), Shift: 20, DomainSize: 10}
	base := UnitStep(2.5, 7.5)
	for x := 0.05; x < 10; x += 0.1 {
		assert.Equal(t, base.Value(x), ref.Value(x), "x=%v", x)
	}

	half := Shifted{Profile: UnitStep(2.5, 7.5), Shift: 5, DomainSize: 10}
	assert.Equal(t, 1.0, half.Value(9))
	assert.Equal(t, 0.0, half.Value(5))
	assert.Equal(t, 1.0, half.Value(0.5))
}

func TestApply(t *testing.T) {
	g := grid.MustNew(10, 5) // centres 1, 3, 5, 7, 9
	d := New(g, UnitStep(2.5, 7.5))
	if diff := cmp.Diff([]float64{0, 1, 1, 1, 0}, d.Values()); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
}

func TestSamples(t *testing.T) {
	g := grid.MustNew(10, len(StaircaseValues))
	d, err := Samples(g, StaircaseValues...)
	require.NoError(t, err)
	assert.Equal(t, StaircaseValues, d.Values())

	_, err = Samples(g, 1, 2, 3)
	assert.ErrorContains(t, err, "3 sample values")
}

func TestStaircase(t *testing.T) {
	d := Staircase(grid.MustNew(10, 10))
	assert.Equal(t, StaircaseValues, d.Values())

	stretched := Staircase(grid.MustNew(10, 20))
	require.Equal(t, 20, stretched.Len())
	assert.Equal(t, 3.0, stretched.At(0))
	assert.Equal(t, 3.0, stretched.At(1))
	assert.Equal(t, 2.9, stretched.At(2))
	assert.Equal(t, 0.1, stretched.At(19))

	coarse := Staircase(grid.MustNew(10, 5))
	assert.Equal(t, []float64{3, 2.5, 0.9, 0.5, 0.1}, coarse.Values())
}
