/*
 * dcd.go, part of zonerdf
 *
 * Copyright 2012 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
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

// Package dcd reads and writes CHARMM/NAMD binary trajectories (dcd).
// Both endiannesses are supported, as are gzip-compressed files (.gz).
// When the file has unit cell information, it is returned as the box.
package dcd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
)

const (
	mAXTITLE = 80
	format   = "dcd"
	cellSize = 48 //6 float64
)

// DCDObj is a Charmm/NAMD binary trajectory file opened for reading.
type DCDObj struct {
	natoms     int
	nset       int //frames, according to the header
	readable   bool
	filename   string
	charmm     bool
	extrablock bool //unit cell in every frame
	fourdim    bool
	f          *os.File
	z          io.ReadCloser //decompressor, if any
	r          *bufio.Reader
	endian     binary.ByteOrder
	fields     [3][]float32
	cell       [6]float64
	hascell    bool //the last frame read had a unit cell
	title      string
}

// New opens the DCD file filename for reading. Files ending in .gz are
// decompressed on the fly.
func New(filename string) (*DCDObj, error) {
	D := &DCDObj{filename: filename}
	var err error
	D.f, err = os.Open(filename)
	if err != nil {
		return nil, err
	}
	var src io.Reader = D.f
	if strings.HasSuffix(strings.ToLower(filename), ".gz") {
		D.z, err = gzip.NewReader(bufio.NewReader(D.f))
		if err != nil {
			D.f.Close()
			return nil, chem.NewTrajError("can't decompress: "+err.Error(), filename, format, "New")
		}
		src = D.z
	}
	D.r = bufio.NewReaderSize(src, 1<<16)
	if err := D.initRead(); err != nil {
		D.close()
		return nil, chem.ErrDecorate(err, "New")
	}
	for i := range D.fields {
		D.fields[i] = make([]float32, D.natoms)
	}
	D.readable = true
	return D, nil
}

func (D *DCDObj) err(message, caller string) error {
	return chem.NewTrajError(message, D.filename, format, caller)
}

// initRead reads the header. It supports big and little endianness, charmm or
// namd>=2.1 and X-plor files, but no fixed atoms.
func (D *DCDObj) initRead() error {
	head := make([]byte, 92) //84, CORD, 20 int32, 84
	if _, err := io.ReadFull(D.r, head); err != nil {
		return D.err("can't read header: "+err.Error(), "initRead")
	}
	//the first thing in the file is the size of the first record, 84.
	//If it doesn't read as 84 the file is big endian.
	D.endian = binary.LittleEndian
	if D.endian.Uint32(head[0:4]) != 84 {
		D.endian = binary.BigEndian
		if D.endian.Uint32(head[0:4]) != 84 {
			return D.err(chem.WrongFormat, "initRead")
		}
	}
	if string(head[4:8]) != "CORD" {
		return D.err("wrong magic number", "initRead")
	}
	icntrl := func(i int) int32 {
		return int32(D.endian.Uint32(head[8+4*i : 12+4*i]))
	}
	if int32(D.endian.Uint32(head[88:92])) != 84 {
		return D.err(chem.WrongFormat, "initRead")
	}
	D.nset = int(icntrl(0))
	//X-plor sets this last int to zero, charmm sets it to its version number.
	//only charmm files have the additional flags.
	if icntrl(19) != 0 {
		D.charmm = true
		D.extrablock = icntrl(10) != 0
		D.fourdim = icntrl(11) == 1
	}
	if icntrl(8) != 0 {
		return D.err("fixed atoms not supported", "initRead")
	}
	//title record
	var size, ntitle int32
	if err := binary.Read(D.r, D.endian, &size); err != nil {
		return D.err(chem.WrongFormat, "initRead")
	}
	if err := binary.Read(D.r, D.endian, &ntitle); err != nil {
		return D.err(chem.WrongFormat, "initRead")
	}
	if ntitle < 0 || size != 4+mAXTITLE*ntitle {
		return D.err("wrong title record", "initRead")
	}
	title := make([]byte, mAXTITLE*ntitle)
	if _, err := io.ReadFull(D.r, title); err != nil {
		return D.err(chem.WrongFormat, "initRead")
	}
	D.title = strings.TrimRight(string(title), "\x00 ")
	natoms := make([]int32, 4) //size, end of title record; 4, natoms, 4
	if err := binary.Read(D.r, D.endian, natoms); err != nil {
		return D.err(chem.WrongFormat, "initRead")
	}
	if natoms[0] != size || natoms[1] != 4 || natoms[3] != 4 || natoms[2] <= 0 {
		return D.err(chem.WrongFormat, "initRead")
	}
	D.natoms = int(natoms[2])
	return nil
}

// Readable returns true if the object is ready to be read from.
// It doesn't guarantee that there is something left to read.
func (D *DCDObj) Readable() bool {
	return D.readable
}

// Len returns the number of atoms per frame.
func (D *DCDObj) Len() int {
	return D.natoms
}

// NFrames returns the number of frames the header declares. Some programs
// don't update it, so it should not be trusted.
func (D *DCDObj) NFrames() int {
	return D.nset
}

// Title returns the title records of the file, joined.
func (D *DCDObj) Title() string {
	return D.title
}

func (D *DCDObj) close() {
	if D.z != nil {
		D.z.Close()
	}
	D.f.Close()
}

// Close closes the file. The object can't be read after this call.
func (D *DCDObj) Close() {
	if !D.readable {
		return
	}
	D.close()
	D.readable = false
}

// Next reads the next frame into keep, or discards it if keep is nil.
// If the file has unit cell information and a box slice is given, the box vectors
// are put there. At the end of the trajectory it returns a chem.LastFrameError.
func (D *DCDObj) Next(keep *v3.Matrix, box ...[]float64) error {
	if !D.readable {
		return D.err(chem.TrajUnIniRead, "Next")
	}
	if keep != nil && keep.NVecs() < D.natoms {
		return D.err(chem.NotEnoughSpace, "Next")
	}
	err := D.nextRaw()
	if err == io.EOF {
		D.Close()
		return chem.NewLastFrameError(D.filename, format, "Next")
	}
	if err != nil {
		return chem.ErrDecorate(err, "Next")
	}
	if len(box) > 0 && len(box[0]) >= 9 && D.hascell {
		copy(box[0], cellToBox(D.cell))
	}
	if keep == nil {
		return nil
	}
	for i := 0; i < D.natoms; i++ {
		keep.Set(i, 0, float64(D.fields[0][i]))
		keep.Set(i, 1, float64(D.fields[1][i]))
		keep.Set(i, 2, float64(D.fields[2][i]))
	}
	return nil
}

// nextRaw reads a frame into D.fields. It returns io.EOF only if the file ended
// before the frame started.
func (D *DCDObj) nextRaw() error {
	var blocksize int32
	if err := binary.Read(D.r, D.endian, &blocksize); err != nil {
		if err == io.EOF {
			return err
		}
		return D.err("truncated frame", "nextRaw")
	}
	D.hascell = false
	//Even when the header announces the unit cell, it is not present in all
	//frames for some trajectories, so the block size tells whether this
	//is the cell or already the X block.
	if D.extrablock && blocksize != int32(4*D.natoms) {
		if blocksize != cellSize {
			return D.err(fmt.Sprintf("unexpected extra block of %d bytes", blocksize), "nextRaw")
		}
		if err := binary.Read(D.r, D.endian, D.cell[:]); err != nil {
			return D.err("truncated unit cell", "nextRaw")
		}
		if err := D.checkEnd(blocksize); err != nil {
			return err
		}
		D.hascell = true
		blocksize = 0
	}
	for i := 0; i < 3; i++ {
		if blocksize == 0 {
			if err := binary.Read(D.r, D.endian, &blocksize); err != nil {
				return D.err("truncated frame", "nextRaw")
			}
		}
		if blocksize != int32(4*D.natoms) {
			return D.err(fmt.Sprintf("coordinate block of %d bytes for %d atoms", blocksize, D.natoms), "nextRaw")
		}
		if err := binary.Read(D.r, D.endian, D.fields[i]); err != nil {
			return D.err("truncated frame", "nextRaw")
		}
		if err := D.checkEnd(blocksize); err != nil {
			return err
		}
		blocksize = 0
	}
	//The 4th dimension is just skipped.
	if D.fourdim {
		if err := binary.Read(D.r, D.endian, &blocksize); err != nil {
			if err == io.EOF {
				return nil //some programs omit it in the last frame.
			}
			return D.err("truncated frame", "nextRaw")
		}
		if _, err := D.r.Discard(int(blocksize)); err != nil {
			return D.err("truncated frame", "nextRaw")
		}
		if err := D.checkEnd(blocksize); err != nil {
			return err
		}
	}
	return nil
}

// checkEnd reads the trailing size of a record and checks it against its leading one.
func (D *DCDObj) checkEnd(blocksize int32) error {
	var check int32
	if err := binary.Read(D.r, D.endian, &check); err != nil {
		return D.err("truncated frame", "checkEnd")
	}
	if check != blocksize {
		return D.err("failed security check", "checkEnd")
	}
	return nil
}

// cellToBox converts a CHARMM unit cell (A, gamma, B, beta, alpha, C) to box vectors.
// Newer CHARMM versions store the cosines of the angles instead of the angles in degrees.
func cellToBox(cell [6]float64) []float64 {
	a, b, c := cell[0], cell[2], cell[5]
	angles := [3]float64{cell[4], cell[3], cell[1]} //alpha beta gamma
	cosines := true
	for _, v := range angles {
		if math.Abs(v) > 1 {
			cosines = false
		}
	}
	var cos [3]float64
	for i, v := range angles {
		if cosines {
			cos[i] = v
		} else {
			cos[i] = math.Cos(v * math.Pi / 180)
		}
		if math.Abs(cos[i]) < 1e-9 {
			cos[i] = 0 //so right angles give exactly orthorhombic boxes
		}
	}
	sing := math.Sqrt(1 - cos[2]*cos[2])
	cy := (cos[0] - cos[1]*cos[2]) / sing
	cz := math.Sqrt(math.Max(0, 1-cos[1]*cos[1]-cy*cy))
	return []float64{
		a, 0, 0,
		b * cos[2], b * sing, 0,
		c * cos[1], c * cy, c * cz,
	}
}

// boxToCell is the inverse of cellToBox, with the angles in degrees as NAMD writes them.
func boxToCell(b []float64) [6]float64 {
	v := [3][3]float64{{b[0], b[1], b[2]}, {b[3], b[4], b[5]}, {b[6], b[7], b[8]}}
	var l [3]float64
	for i := range v {
		l[i] = math.Sqrt(v[i][0]*v[i][0] + v[i][1]*v[i][1] + v[i][2]*v[i][2])
	}
	angle := func(i, j int) float64 {
		if l[i] == 0 || l[j] == 0 {
			return 90
		}
		d := (v[i][0]*v[j][0] + v[i][1]*v[j][1] + v[i][2]*v[j][2]) / (l[i] * l[j])
		return math.Acos(math.Max(-1, math.Min(1, d))) * 180 / math.Pi
	}
	return [6]float64{l[0], angle(0, 1), l[1], angle(0, 2), angle(1, 2), l[2]}
}
