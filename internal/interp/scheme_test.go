package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/advection/internal/grid"
)

func TestSchemeStringIsExhaustive(t *testing.T) {
	want := []string{"Linear", "CatmullRom", "MonotonicCubicFedkiw", "MonotonicCubicFritschCarlson"}
	got := make([]string, 0, len(Schemes()))
	for _, s := range Schemes() {
		got = append(got, s.String())
	}
	assert.Equal(t, want, got)
}

func TestSchemeStringPanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { _ = Scheme(len(Schemes())).String() })
	assert.Panics(t, func() { _ = Scheme(-1).String() })
}

func TestSchemesReturnsCopy(t *testing.T) {
	s := Schemes()
	s[0] = CatmullRom
	assert.Equal(t, Linear, Schemes()[0])
}

func TestParseScheme(t *testing.T) {
	for _, s := range Schemes() {
		got, err := ParseScheme(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseScheme("catmullrom")
	require.NoError(t, err)
	assert.Equal(t, CatmullRom, got)

	_, err = ParseScheme("cubic")
	assert.Error(t, err)
}

func TestResample(t *testing.T) {
	d := staircaseData()

	t.Run("matching resolution reproduces samples", func(t *testing.T) {
		for _, s := range Schemes() {
			xs, ys := Resample(d, s, d.Len())
			require.Len(t, xs, d.Len())
			for i := range xs {
				assert.InDelta(t, d.Position(i), xs[i], 1e-12)
				assert.InDelta(t, d.At(i), ys[i], 1e-12, "%v sample %d", s, i)
			}
		}
	})

	t.Run("fine resolution spans the domain", func(t *testing.T) {
		xs, ys := Resample(d, Linear, 1000)
		require.Len(t, ys, 1000)
		assert.InDelta(t, 0.005, xs[0], 1e-12)
		assert.InDelta(t, 9.995, xs[999], 1e-12)
	})

	t.Run("degenerate counts", func(t *testing.T) {
		xs, ys := Resample(d, Linear, 0)
		assert.Nil(t, xs)
		assert.Nil(t, ys)

		xs, _ = Resample(grid.NewData(grid.MustNew(4, 2)), Linear, 1)
		assert.Equal(t, []float64{2}, xs)
	})
}
