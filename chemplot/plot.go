/*
 * plot.go, part of zonerdf
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

// Package chemplot produces figures for RDF results: PNG files with gonum/plot
// and an interactive HTML page with go-echarts.
package chemplot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Series is the result of one zone, as needed for the figures.
type Series struct {
	Name         string
	Bins         []float64
	RDF          []float64
	Cumulative   []float64
	Coordination []float64 //one value per frame
}

func basicPlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Radius (Å)"
	p.Y.Label.Text = ylabel
	p.X.Min = 0
	p.Add(plotter.NewGrid())
	return p
}

func xys(x, y []float64) (plotter.XYs, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%d x values for %d y values", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("no data to plot")
	}
	ret := make(plotter.XYs, len(x))
	for i := range x {
		ret[i].X = x[i]
		ret[i].Y = y[i]
	}
	return ret, nil
}

func linePlot(x, y []float64, title, ylabel, filename string) error {
	pts, err := xys(x, y)
	if err != nil {
		return fmt.Errorf("%s: %w", title, err)
	}
	p := basicPlot(title, ylabel)
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.Width = vg.Points(1.5)
	l.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	p.Add(l)
	return p.Save(6*vg.Inch, 4.5*vg.Inch, filename)
}

// RDFPlot saves a PNG plot of the RDF of the zone name to filename.
func RDFPlot(bins, rdf []float64, name, filename string) error {
	return linePlot(bins, rdf, "RDF - "+name, "g(r)", filename)
}

// CumulativePlot saves a PNG plot of the cumulative RDF (the running
// coordination number) of the zone name to filename.
func CumulativePlot(bins, cumu []float64, name, filename string) error {
	return linePlot(bins, cumu, "Cumulative RDF - "+name, "Coordination Number", filename)
}

// ZonesPlot saves a PNG plot with the RDFs of all the series given, each in its own color.
func ZonesPlot(series []Series, filename string) error {
	if len(series) == 0 {
		return fmt.Errorf("ZonesPlot: no series given")
	}
	p := basicPlot("RDF by zone", "g(r)")
	for key, s := range series {
		pts, err := xys(s.Bins, s.RDF)
		if err != nil {
			return fmt.Errorf("ZonesPlot: zone %s: %w", s.Name, err)
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		r, g, b := colors(key, len(series))
		l.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		l.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(s.Name, l)
	}
	p.Legend.Top = true
	return p.Save(7*vg.Inch, 5*vg.Inch, filename)
}

// takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}

// colors returns a color for the element key of steps, going
// from red to violet, skipping the yellows.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64((float64(key) * norm) + 20.0)
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	return iHVS2RGB(h, 1, 1)
}
