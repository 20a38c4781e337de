package output

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/advection/internal/fsutil"
)

func sampleCurves() []Curve {
	return []Curve{
		{Name: "advection_Reference", X: []float64{0.5, 1.5, 2.5}, Y: []float64{0, 1, 0}},
		{Name: "advection_SemiLagrangian_Linear", X: []float64{0.5, 1.5, 2.5}, Y: []float64{0.2, 0.7, 0.1}},
		{Name: "empty"},
	}
}

func TestSavePlotWritesPNG(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	require.NoError(t, SavePlot(fs, "advection.png", "Advection", sampleCurves()))

	data, err := fs.ReadFile("advection.png")
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestSavePlotErrors(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()

	err := SavePlot(fs, "missing/dir/plot.png", "t", sampleCurves())
	assert.ErrorContains(t, err, "failed to create")

	err = SavePlot(fs, "bad.png", "t", []Curve{{Name: "c", X: []float64{1}}})
	assert.Error(t, err)
}

func TestNewPlotRanges(t *testing.T) {
	p, err := NewPlot("Interpolation", sampleCurves())
	require.NoError(t, err)
	assert.Equal(t, "Interpolation", p.Title.Text)
	assert.Equal(t, 0.5, p.X.Min)
	assert.Equal(t, 2.5, p.X.Max)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.Equal(t, 1.0, p.Y.Max)
}

func TestGenerateColors(t *testing.T) {
	assert.Nil(t, generateColors(0))

	colors := generateColors(3)
	require.Len(t, colors, 3)
	assert.Equal(t, color.RGBA{R: 216, G: 38, B: 38, A: 255}, colors[0])
	assert.NotEqual(t, colors[0], colors[1])
	assert.NotEqual(t, colors[1], colors[2])

	hex := hexColors(3)
	require.Len(t, hex, 3)
	assert.Equal(t, "#d82626", hex[0])
}

func TestHSLGrey(t *testing.T) {
	r, g, b := hslToRGB(0.3, 0, 0.5)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, "Advection", "dt=0.001", sampleCurves()))

	html := buf.String()
	assert.True(t, strings.Contains(html, "advection_SemiLagrangian_Linear"))
	assert.True(t, strings.Contains(html, "<html"))

	err := RenderChart(&buf, "t", "", []Curve{{Name: "c", Y: []float64{1}}})
	assert.Error(t, err)
}
