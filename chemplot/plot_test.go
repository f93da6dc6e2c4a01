/*
 * plot_test.go
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package chemplot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// series returns a g(r) with a first peak at 3.2 A.
func series(name string, coord ...float64) Series {
	s := Series{Name: name, Coordination: coord}
	acc := 0.0
	for i := 0; i < 150; i++ {
		r := 0.05 + 0.1*float64(i)
		g := 0.0
		if r > 2.5 {
			g = 1 + 1.5*math.Exp(-(r-3.2)*(r-3.2)/0.1)
		}
		acc += g * 0.1
		s.Bins = append(s.Bins, r)
		s.RDF = append(s.RDF, g)
		s.Cumulative = append(s.Cumulative, acc)
	}
	return s
}

func checkPNG(Te *testing.T, name string) {
	b, err := os.ReadFile(name)
	require.NoError(Te, err)
	require.Greater(Te, len(b), 8)
	assert.Equal(Te, []byte("\x89PNG"), b[:4])
}

func TestRDFPlots(Te *testing.T) {
	dir := Te.TempDir()
	s := series("center", 5, 6)
	rdfname := filepath.Join(dir, "center_rdf.png")
	require.NoError(Te, RDFPlot(s.Bins, s.RDF, s.Name, rdfname))
	checkPNG(Te, rdfname)
	cname := filepath.Join(dir, "center_cumuav.png")
	require.NoError(Te, CumulativePlot(s.Bins, s.Cumulative, s.Name, cname))
	checkPNG(Te, cname)
	assert.Error(Te, RDFPlot(s.Bins, s.RDF[:3], s.Name, rdfname))
	assert.Error(Te, RDFPlot(nil, nil, s.Name, rdfname))

	zname := filepath.Join(dir, "zones.png")
	require.NoError(Te, ZonesPlot([]Series{s, series("bulk", 6)}, zname))
	checkPNG(Te, zname)
	assert.Error(Te, ZonesPlot(nil, zname))
}

func TestColors(Te *testing.T) {
	r, g, b := iHVS2RGB(0, 1, 1)
	assert.Equal(Te, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
	r, g, b = iHVS2RGB(240, 1, 1)
	assert.Equal(Te, [3]uint8{0, 0, 255}, [3]uint8{r, g, b})
	r, g, b = iHVS2RGB(100, 0.5, 0)
	assert.Equal(Te, [3]uint8{127, 127, 127}, [3]uint8{r, g, b})
	//different zones get different colors
	seen := map[[3]uint8]bool{}
	for i := 0; i < 5; i++ {
		r, g, b := colors(i, 5)
		seen[[3]uint8{r, g, b}] = true
	}
	assert.Len(Te, seen, 5)
}

func TestDistributionPage(Te *testing.T) {
	var buf bytes.Buffer
	zones := []Series{series("bulk", 5.5, 6, 6.5, 6), series("center", 3, 3, 3), series("empty")}
	require.NoError(Te, DistributionPage(&buf, zones))
	page := buf.String()
	for _, s := range []string{"RDF by zone", "Cumulative RDF by zone", "Coordination number distribution - bulk",
		"Coordination number distribution - center"} {
		assert.Contains(Te, page, s)
	}
	assert.NotContains(Te, page, "Coordination number distribution - empty")
	assert.Error(Te, DistributionPage(&buf, nil))
}
