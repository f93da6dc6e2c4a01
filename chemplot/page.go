/*
 * page.go, part of zonerdf
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package chemplot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rmera/zonerdf/histo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CoordBins is the number of bins in the coordination number histograms of DistributionPage.
var CoordBins = 20

// DistributionPage writes an HTML page with the RDFs and cumulative RDFs of all the
// series, the mean and standard deviation of their coordination numbers, and a
// histogram of the per-frame coordination numbers of each series.
func DistributionPage(w io.Writer, series []Series) error {
	if len(series) == 0 {
		return fmt.Errorf("DistributionPage: no series given")
	}
	page := components.NewPage()
	page.SetPageTitle("Coordination numbers by zone")
	page.AddCharts(
		zoneLines(series, "RDF by zone", "g(r)", func(s Series) []float64 { return s.RDF }),
		zoneLines(series, "Cumulative RDF by zone", "Coordination number", func(s Series) []float64 { return s.Cumulative }),
		meanBars(series),
	)
	for _, s := range series {
		if len(s.Coordination) == 0 {
			continue
		}
		page.AddCharts(coordHisto(s))
	}
	return page.Render(w)
}

func zoneLines(series []Series, title, ylabel string, y func(Series) []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30px"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Radius (Å)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: ylabel}),
	)
	//all series share the binning of the first one.
	x := make([]string, len(series[0].Bins))
	for i, v := range series[0].Bins {
		x[i] = fmt.Sprintf("%.2f", v)
	}
	line.SetXAxis(x)
	for _, s := range series {
		vals := y(s)
		data := make([]opts.LineData, len(vals))
		for i, v := range vals {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(s.Name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}
	return line
}

func meanBars(series []Series) *charts.Bar {
	names := make([]string, 0, len(series))
	means := make([]opts.BarData, 0, len(series))
	sds := make([]opts.BarData, 0, len(series))
	for _, s := range series {
		names = append(names, s.Name)
		var m, sd float64
		if len(s.Coordination) > 0 {
			m = stat.Mean(s.Coordination, nil)
		}
		if len(s.Coordination) > 1 {
			sd = stat.StdDev(s.Coordination, nil)
		}
		means = append(means, opts.BarData{Value: fmt.Sprintf("%.3f", m)})
		sds = append(sds, opts.BarData{Value: fmt.Sprintf("%.3f", sd)})
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Coordination number", Subtitle: "mean and standard deviation over frames"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30px"}),
	)
	bar.SetXAxis(names).
		AddSeries("mean", means, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"})).
		AddSeries("sd", sds)
	return bar
}

// coordHisto is the distribution of the coordination number of one zone over the frames.
func coordHisto(s Series) *charts.Bar {
	lo, hi := floats.Min(s.Coordination), floats.Max(s.Coordination)
	//the last divider is excluded from the histogram
	hi += 1e-6 * (1 + hi - lo)
	h := histo.NewUniform(CoordBins, lo, hi)
	h.AddData(s.Coordination...)
	centers := h.Centers()
	x := make([]string, len(centers))
	y := make([]opts.BarData, len(centers))
	for i, c := range centers {
		x[i] = fmt.Sprintf("%.2f", c)
		y[i] = opts.BarData{Value: h.View()[i]}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Coordination number distribution - " + s.Name, Subtitle: fmt.Sprintf("%d frames", len(s.Coordination))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Coordination number", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Frames"}),
	)
	bar.SetXAxis(x).AddSeries(s.Name, y)
	return bar
}
