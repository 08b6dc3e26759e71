// Package forest turns a merged logistic-regression table into a forest
// plot of odds ratios.
package forest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hhcho/sell-assoc/assoc"
)

const (
	DefaultAdjustedColumn = "FDR_BH"
	DefaultXMin           = -2
	DefaultXMax           = 10
)

type Options struct {
	AdjustedColumn string
	XMin, XMax     float64
}

func DefaultOptions() Options {
	return Options{AdjustedColumn: DefaultAdjustedColumn, XMin: DefaultXMin, XMax: DefaultXMax}
}

type Point struct {
	Row int
	OR  float64
}

// ErrorBar spans the confidence interval of one row.
type ErrorBar struct {
	Row       int
	Low, High float64
}

type Annotation struct {
	Row  int
	X, Y float64
	Text string
}

// Plot holds everything the renderer draws. Row i is labelled Labels[i].
type Plot struct {
	Title       string
	XLabel      string
	Labels      []string
	Points      []Point
	Bars        []ErrorBar
	Annotations []Annotation
	RefLine     float64
	XMin, XMax  float64
}

var requiredColumns = []string{"SNP", "A1", "OR", "L95", "U95"}

// Build lays out one row per SNP/allele pair of t. Rows with a missing OR
// keep their label but get no point, bar or annotation.
func Build(t *assoc.Table, model string, o Options) (*Plot, error) {
	if o.AdjustedColumn == "" {
		o.AdjustedColumn = DefaultAdjustedColumn
	}
	for _, c := range requiredColumns {
		if t.Col(c) < 0 {
			return nil, fmt.Errorf("%w: %s", assoc.ErrMissingColumn, c)
		}
	}

	p := &Plot{
		Title:   fmt.Sprintf("%s MODEL", model),
		XLabel:  "Odds Ratio",
		RefLine: 1,
		XMin:    o.XMin,
		XMax:    o.XMax,
	}
	if t.Empty() {
		return p, nil
	}

	stats, err := t.Matrix("OR", "L95", "U95", o.AdjustedColumn)
	if err != nil {
		return nil, err
	}
	or := mat.Col(nil, 0, stats)
	low := mat.Col(nil, 1, stats)
	high := mat.Col(nil, 2, stats)
	adj := mat.Col(nil, 3, stats)

	for i := range or {
		p.Labels = append(p.Labels, t.Get(i, "SNP")+" "+t.Get(i, "A1"))
		if math.IsNaN(or[i]) {
			continue
		}
		p.Points = append(p.Points, Point{Row: i, OR: or[i]})
		if !math.IsNaN(low[i]) && !math.IsNaN(high[i]) {
			p.Bars = append(p.Bars, ErrorBar{Row: i, Low: low[i], High: high[i]})
		}
		p.Annotations = append(p.Annotations, Annotation{
			Row:  i,
			X:    or[i],
			Y:    float64(i) - 0.1,
			Text: "p_adj=" + formatP(adj[i]),
		})
	}

	if p.XMin >= p.XMax {
		p.XMin, p.XMax = autoBounds(or, low, high)
	}
	return p, nil
}

func formatP(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}

// autoBounds covers every finite value plus the reference line.
func autoBounds(cols ...[]float64) (float64, float64) {
	finite := []float64{1}
	for _, c := range cols {
		for _, v := range c {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				finite = append(finite, v)
			}
		}
	}
	lo, hi := floats.Min(finite), floats.Max(finite)
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	return lo - pad, hi + pad
}
