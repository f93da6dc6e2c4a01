/*
 * gro.go, part of zonerdf.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
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
 */

// Package gro reads and writes GROMACS structure files (.gro). A gro file
// can contain several frames, so the package also offers a trajectory
// reader. Coordinates in the files are in nm and are converted to Angstrom.
package gro

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
)

const (
	nm2A   = 10.0
	format = "gro"
)

// frame is what a single gro frame contains.
type frame struct {
	title  string
	atoms  []*chem.Atom
	coords []float64 //Angstrom, 3 per atom
	box    []float64 //Angstrom, 9 components, row vectors
}

// Read reads the first frame of a gro file, returning the topology,
// the coordinates and the box.
func Read(name string) (*chem.Topology, *v3.Matrix, *chem.Box, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()
	return ReadFrom(f, name)
}

// ReadFrom is like Read, but takes the data from r. The name is
// only used for error messages.
func ReadFrom(r io.Reader, name string) (*chem.Topology, *v3.Matrix, *chem.Box, error) {
	fr, err := readFrame(bufio.NewReader(r), name, true)
	if err != nil {
		if chem.IsLastFrame(err) {
			return nil, nil, nil, chem.NewTrajError("empty file", name, format, "ReadFrom")
		}
		return nil, nil, nil, err
	}
	coords, err := v3.NewMatrix(fr.coords)
	if err != nil {
		return nil, nil, nil, chem.NewTrajError(err.Error(), name, format, "ReadFrom")
	}
	box, err := chem.NewBox(fr.box)
	if err != nil {
		return nil, nil, nil, chem.NewTrajError(err.Error(), name, format, "ReadFrom")
	}
	return chem.NewTopology(fr.atoms), coords, box, nil
}

// readFrame reads one frame from r. If withAtoms is false, only coordinates and box
// are kept. It returns a chem.LastFrameError if r is exhausted before the frame starts.
func readFrame(r *bufio.Reader, name string, withAtoms bool) (*frame, error) {
	fr := new(frame)
	title, err := r.ReadString('\n')
	if err != nil && strings.TrimSpace(title) == "" {
		if err == io.EOF {
			return nil, chem.NewLastFrameError(name, format, "readFrame")
		}
		return nil, chem.NewTrajError(err.Error(), name, format, "readFrame")
	}
	fr.title = strings.TrimRight(title, "\r\n")
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, chem.NewTrajError("can't read the number of atoms", name, format, "readFrame")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return nil, chem.NewTrajError(fmt.Sprintf("can't read the number of atoms from '%s'", strings.TrimSpace(line)), name, format, "readFrame")
	}
	if withAtoms {
		fr.atoms = make([]*chem.Atom, 0, natoms)
	}
	fr.coords = make([]float64, 3*natoms)
	width := 0
	for i := 0; i < natoms; i++ {
		line, err := r.ReadString('\n')
		if err != nil && len(line) == 0 {
			return nil, chem.NewTrajError(fmt.Sprintf("file ended after %d of %d atoms", i, natoms), name, format, "readFrame")
		}
		line = strings.TrimRight(line, "\r\n")
		if width == 0 {
			width, err = fieldWidth(line)
			if err != nil {
				return nil, chem.NewTrajError(err.Error(), name, format, "readFrame")
			}
		}
		at, c, err := parseAtomLine(line, width, withAtoms)
		if err != nil {
			return nil, chem.NewTrajError(fmt.Sprintf("atom %d: %s", i+1, err.Error()), name, format, "readFrame")
		}
		copy(fr.coords[3*i:3*i+3], c[:])
		if withAtoms {
			fr.atoms = append(fr.atoms, at)
		}
	}
	line, err = r.ReadString('\n')
	if err != nil && len(strings.TrimSpace(line)) == 0 {
		return nil, chem.NewTrajError("missing box line", name, format, "readFrame")
	}
	fr.box, err = parseBox(line)
	if err != nil {
		return nil, chem.NewTrajError(err.Error(), name, format, "readFrame")
	}
	return fr, nil
}

// fieldWidth obtains the width of the coordinate fields from the distance between
// the decimal points of the first 2 coordinates, so files written with more
// precision than the default %8.3f can also be read.
func fieldWidth(line string) (int, error) {
	if len(line) < 20 {
		return 0, fmt.Errorf("atom line too short: '%s'", line)
	}
	p1 := strings.IndexByte(line[20:], '.')
	if p1 < 0 {
		return 0, fmt.Errorf("no coordinates in line: '%s'", line)
	}
	p2 := strings.IndexByte(line[20+p1+1:], '.')
	if p2 < 0 {
		return 0, fmt.Errorf("can't determine coordinate width from line: '%s'", line)
	}
	return p2 + 1, nil
}

func parseAtomLine(line string, width int, withAtoms bool) (*chem.Atom, [3]float64, error) {
	var c [3]float64
	if len(line) < 20+3*width {
		return nil, c, fmt.Errorf("line too short: '%s'", line)
	}
	for j := 0; j < 3; j++ {
		s := strings.TrimSpace(line[20+j*width : 20+(j+1)*width])
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, c, fmt.Errorf("can't parse coordinate '%s'", s)
		}
		c[j] = f * nm2A
	}
	if !withAtoms {
		return nil, c, nil
	}
	at := new(chem.Atom)
	var err error
	at.MolID, err = strconv.Atoi(strings.TrimSpace(line[0:5]))
	if err != nil {
		return nil, c, fmt.Errorf("can't parse residue number '%s'", line[0:5])
	}
	at.MolName = strings.TrimSpace(line[5:10])
	at.Name = strings.TrimSpace(line[10:15])
	at.ID, err = strconv.Atoi(strings.TrimSpace(line[15:20]))
	if err != nil {
		return nil, c, fmt.Errorf("can't parse atom number '%s'", line[15:20])
	}
	at.Symbol = symbolFromName(at.Name)
	return at, c, nil
}

// parseBox reads the last line of a gro frame. The gro order is
// v1(x) v2(y) v3(z) v1(y) v1(z) v2(x) v2(z) v3(x) v3(y), the last 6 being optional.
func parseBox(line string) ([]float64, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 && len(fields) != 9 {
		return nil, fmt.Errorf("box line must have 3 or 9 numbers: '%s'", strings.TrimSpace(line))
	}
	g := make([]float64, 9)
	for i, v := range fields {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("can't parse box component '%s'", v)
		}
		g[i] = f * nm2A
	}
	return []float64{
		g[0], g[3], g[4],
		g[5], g[1], g[6],
		g[7], g[8], g[2],
	}, nil
}

var twoLetter = map[string]string{
	"CL": "Cl", "NA": "Na", "MG": "Mg", "ZN": "Zn", "LI": "Li", "BR": "Br", "CS": "Cs", "RB": "Rb",
}

// symbolFromName guesses the element from the atom name. It only knows about
// the usual ions, everything else gets the first letter of the name.
func symbolFromName(name string) string {
	n := strings.ToUpper(strings.TrimLeft(name, "0123456789"))
	if s, ok := twoLetter[n]; ok {
		return s
	}
	for k, s := range twoLetter {
		if strings.HasPrefix(n, k) && len(n) > 2 && n[2] >= '0' && n[2] <= '9' {
			return s
		}
	}
	if n == "" {
		return ""
	}
	return n[:1]
}

// Write writes a gro frame with the given title, topology, coordinates (Angstrom) and box.
// box can be nil, in which case a zero box is written.
func Write(w io.Writer, title string, top chem.Atomer, coords *v3.Matrix, box *chem.Box) error {
	if top.Len() != coords.NVecs() {
		return fmt.Errorf("gro.Write: %d atoms in the topology but %d coordinates", top.Len(), coords.NVecs())
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n%5d\n", title, top.Len())
	for i := 0; i < top.Len(); i++ {
		at := top.Atom(i)
		c := coords.Vec(i)
		fmt.Fprintf(bw, "%5d%-5s%5s%5d%8.3f%8.3f%8.3f\n", at.MolID%100000, at.MolName, at.Name, at.ID%100000, c[0]/nm2A, c[1]/nm2A, c[2]/nm2A)
	}
	b := box.Vectors()
	for i := range b {
		b[i] /= nm2A
	}
	if box == nil || !box.Valid() || box.Orthorhombic() {
		fmt.Fprintf(bw, "%10.5f%10.5f%10.5f\n", b[0], b[4], b[8])
	} else {
		fmt.Fprintf(bw, "%10.5f%10.5f%10.5f%10.5f%10.5f%10.5f%10.5f%10.5f%10.5f\n", b[0], b[4], b[8], b[1], b[2], b[3], b[5], b[6], b[7])
	}
	return bw.Flush()
}

// WriteFile writes a single-frame gro file.
func WriteFile(name, title string, top chem.Atomer, coords *v3.Matrix, box *chem.Box) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Write(f, title, top, coords, box); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
