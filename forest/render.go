package forest

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart assembles the echarts scatter for p: points labelled with their
// annotation, one line series per error bar and a dashed mark line at the
// reference odds ratio.
func (p *Plot) Chart() *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: p.Title,
			Width:     "800px",
			Height:    chartHeight(len(p.Labels)),
		}),
		charts.WithTitleOpts(opts.Title{Title: p.Title, Left: "center"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: p.XLabel,
			Type: "value",
			Min:  p.XMin,
			Max:  p.XMax,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category",
			Data: p.Labels,
		}),
	)

	labels := make(map[int]string, len(p.Annotations))
	for _, a := range p.Annotations {
		labels[a.Row] = a.Text
	}

	points := make([]opts.ScatterData, 0, len(p.Points))
	for _, pt := range p.Points {
		points = append(points, opts.ScatterData{
			Name:       labels[pt.Row],
			Value:      []interface{}{pt.OR, pt.Row},
			SymbolSize: 8,
		})
	}
	scatter.AddSeries("OR", points,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "black"}),
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Position:  "top",
			Formatter: "{b}",
		}),
		charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
			Name:  "OR = 1",
			XAxis: p.RefLine,
		}),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"none", "none"},
			LineStyle: &opts.LineStyle{Type: "dashed", Color: "gray"},
		}),
	)

	for _, b := range p.Bars {
		bar := charts.NewLine()
		bar.AddSeries("CI", []opts.LineData{
			{Value: []interface{}{b.Low, b.Row}, Symbol: "none"},
			{Value: []interface{}{b.High, b.Row}, Symbol: "none"},
		}, charts.WithLineStyleOpts(opts.LineStyle{Color: "black", Width: 1}))
		scatter.Overlap(bar)
	}
	return scatter
}

// Render writes the plot as a standalone HTML page.
func (p *Plot) Render(w io.Writer) error {
	return p.Chart().Render(w)
}

func chartHeight(rows int) string {
	h := 120 + 40*rows
	if h < 300 {
		h = 300
	}
	return strconv.Itoa(h) + "px"
}
