package output

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EchartsAssetsPrefix overrides the host the rendered pages load the
// echarts JavaScript from. Empty uses the go-echarts CDN default.
var EchartsAssetsPrefix = ""

// NewChart builds an interactive line chart with one series per curve.
func NewChart(title, subtitle string, curves []Curve) (*charts.Line, error) {
	line := charts.NewLine()
	init := opts.Initialization{PageTitle: title, Width: "100%", Height: "640px"}
	if EchartsAssetsPrefix != "" {
		init.AssetsHost = EchartsAssetsPrefix
	}
	line.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll", Top: "bottom"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "value"}),
		charts.WithColorsOpts(opts.Colors(hexColors(len(curves)))),
	)

	for _, c := range curves {
		if err := c.validate(); err != nil {
			return nil, err
		}
		data := make([]opts.LineData, c.Len())
		for i := range c.X {
			data[i] = opts.LineData{Value: []interface{}{c.X[i], c.Y[i]}}
		}
		line.AddSeries(c.Name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}
	return line, nil
}

// RenderChart writes a self-contained HTML page for curves to w.
func RenderChart(w io.Writer, title, subtitle string, curves []Curve) error {
	line, err := NewChart(title, subtitle, curves)
	if err != nil {
		return err
	}
	return line.Render(w)
}
