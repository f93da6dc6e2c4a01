/*
 * crd.go, part of zonerdf
 *
 * Copyright 2018 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

// Package amber reads AMBER ASCII trajectories (mdcrd). The format doesn't
// store the number of atoms, so it has to be given when opening the file.
package amber

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
)

const (
	format     = "mdcrd"
	fieldWidth = 8 //coordinates are written as 10F8.3
)

// CrdObj is an AMBER ASCII trajectory opened for reading.
type CrdObj struct {
	natoms   int
	readable bool
	filename string
	title    string
	f        *os.File
	z        io.ReadCloser
	r        *bufio.Reader
	hasbox   int       //-1 not yet known, 0 no, 1 yes
	vals     []float64 //the current frame
	pending  []float64 //values read while looking for a box, belonging to the next frame
}

// New opens the trajectory filename, with natoms atoms per frame. Files ending in .gz
// are decompressed on the fly. Whether the frames carry a box is found out when reading
// the first frame.
func New(filename string, natoms int) (*CrdObj, error) {
	if natoms <= 0 {
		return nil, chem.NewTrajError(fmt.Sprintf("invalid number of atoms %d", natoms), filename, format, "New")
	}
	C := &CrdObj{filename: filename, natoms: natoms, hasbox: -1}
	var err error
	C.f, err = os.Open(filename)
	if err != nil {
		return nil, err
	}
	var src io.Reader = C.f
	if strings.HasSuffix(strings.ToLower(filename), ".gz") {
		C.z, err = gzip.NewReader(bufio.NewReader(C.f))
		if err != nil {
			C.f.Close()
			return nil, chem.NewTrajError("can't decompress: "+err.Error(), filename, format, "New")
		}
		src = C.z
	}
	C.r = bufio.NewReader(src)
	//The first line is just a comment
	C.title, err = C.r.ReadString('\n')
	if err != nil {
		C.close()
		return nil, chem.NewTrajError("can't read the title line", filename, format, "New")
	}
	C.title = strings.TrimSpace(C.title)
	C.vals = make([]float64, 0, 3*natoms)
	C.readable = true
	return C, nil
}

// Readable returns true if the object is ready to be read from.
func (C *CrdObj) Readable() bool {
	return C.readable
}

// Len returns the number of atoms per frame.
func (C *CrdObj) Len() int {
	return C.natoms
}

// Title returns the title line of the file.
func (C *CrdObj) Title() string {
	return C.title
}

func (C *CrdObj) close() {
	if C.z != nil {
		C.z.Close()
	}
	C.f.Close()
}

// Close closes the file. The object can't be read after this.
func (C *CrdObj) Close() {
	if !C.readable {
		return
	}
	C.readable = false
	C.close()
}

// parseLine reads the fixed-width fields of a line. Fields can
// touch each other, as in "  10.000-100.000".
func parseLine(line string) ([]float64, error) {
	line = strings.TrimRight(line, "\r\n")
	var ret []float64
	for i := 0; i < len(line); i += fieldWidth {
		field := strings.TrimSpace(line[i:min(i+fieldWidth, len(line))])
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("can't parse '%s'", field)
		}
		ret = append(ret, v)
	}
	return ret, nil
}

// Next reads the next frame into c, which can be nil to discard the frame. If box
// is given, and the trajectory has box information, it is filled with the box vectors.
// At the end of the trajectory it returns a chem.LastFrameError.
func (C *CrdObj) Next(c *v3.Matrix, box ...[]float64) error {
	if !C.readable {
		return chem.NewTrajError(chem.TrajUnIniRead, C.filename, format, "Next")
	}
	if c != nil && c.NVecs() < C.natoms {
		return chem.NewTrajError(chem.NotEnoughSpace, C.filename, format, "Next")
	}
	need := 3 * C.natoms
	C.vals = append(C.vals[:0], C.pending...)
	C.pending = nil
	for len(C.vals) < need {
		line, err := C.r.ReadString('\n')
		if err != nil && (err != io.EOF || len(line) == 0) {
			if err == io.EOF && len(C.vals) == 0 {
				C.Close()
				return chem.NewLastFrameError(C.filename, format, "Next")
			}
			if err == io.EOF {
				return chem.NewTrajError(fmt.Sprintf("frame ended after %d of %d coordinates", len(C.vals), need), C.filename, format, "Next")
			}
			return chem.NewTrajError(err.Error(), C.filename, format, "Next")
		}
		v, err := parseLine(line)
		if err != nil {
			return chem.NewTrajError(err.Error(), C.filename, format, "Next")
		}
		if len(C.vals)+len(v) > need {
			return chem.NewTrajError("a line goes beyond the end of the frame", C.filename, format, "Next")
		}
		C.vals = append(C.vals, v...)
	}
	b, err := C.nextBox()
	if err != nil {
		return err
	}
	if len(box) > 0 && len(box[0]) >= 9 && b != nil {
		copy(box[0], chem.OrthoBox(b[0], b[1], b[2]).Vectors())
	}
	if c == nil {
		return nil
	}
	for i := 0; i < C.natoms; i++ {
		c.SetVec(i, [3]float64{C.vals[3*i], C.vals[3*i+1], C.vals[3*i+2]})
	}
	return nil
}

// nextBox reads the box line that may follow a frame. A line with 3 values after the first
// frame means the trajectory has boxes, anything else is the beginning of the next frame.
func (C *CrdObj) nextBox() ([]float64, error) {
	if C.hasbox == 0 {
		return nil, nil
	}
	line, err := C.r.ReadString('\n')
	if err != nil && len(line) == 0 {
		//end of the trajectory, reported by the next call to Next.
		return nil, nil
	}
	v, err := parseLine(line)
	if err != nil {
		return nil, chem.NewTrajError(err.Error(), C.filename, format, "Next")
	}
	if C.hasbox == 1 {
		if len(v) != 3 {
			return nil, chem.NewTrajError(fmt.Sprintf("expected a box line, got %d values", len(v)), C.filename, format, "Next")
		}
		return v, nil
	}
	//With 1 atom a box line and a frame line can't be told apart.
	if len(v) == 3 && C.natoms > 1 {
		C.hasbox = 1
		return v, nil
	}
	C.hasbox = 0
	C.pending = v
	return nil, nil
}
