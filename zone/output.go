/*
 * output.go, part of zonerdf
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

package zone

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rmera/zonerdf/rdf"
)

// writeColumns writes a CSV table with a header and one row per element of the columns.
func writeColumns(w io.Writer, header []string, cols ...[]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(cols))
	for i := range cols[0] {
		for j, c := range cols {
			row[j] = strconv.FormatFloat(c[i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRDF writes the bins and the average RDF as CSV.
func WriteRDF(w io.Writer, res *rdf.Result) error {
	return writeColumns(w, []string{"Radius (Å)", "RDF"}, res.Bins, res.RDF)
}

// WriteCumulative writes the bins and the average cumulative RDF as CSV.
func WriteCumulative(w io.Writer, res *rdf.Result) error {
	return writeColumns(w, []string{"Radius (Å)", "Coordination number"}, res.Bins, res.Cumulative)
}

// WriteCoordination writes the coordination number of each frame, one per line, after
// a commented header, with the layout numpy's savetxt uses.
func WriteCoordination(w io.Writer, res *rdf.Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Coordination number")
	for _, v := range res.Coordination {
		fmt.Fprintf(bw, "%.18e\n", v)
	}
	return bw.Flush()
}

func writeFile(name string, res *rdf.Result, f func(io.Writer, *rdf.Result) error) error {
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := f(out, res); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return out.Close()
}
