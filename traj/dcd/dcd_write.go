/*
 * dcd_write.go, part of zonerdf
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
 *
 */

package dcd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
)

// DCDWObj is a Charmm/NAMD binary trajectory file opened for writing.
// Files are always little endian.
type DCDWObj struct {
	natoms   int
	writable bool
	filename string
	withCell bool
	frames   int32
	dcd      *os.File
	w        *bufio.Writer
	fields   [3][]float32
	endian   binary.ByteOrder
}

// NewWriter creates filename for frames of natoms atoms. If withCell is given and true,
// every frame carries the unit cell obtained from the box given to WNext.
func NewWriter(filename string, natoms int, withCell ...bool) (*DCDWObj, error) {
	if natoms <= 0 {
		return nil, chem.NewTrajError(fmt.Sprintf("invalid number of atoms %d", natoms), filename, format, "NewWriter")
	}
	D := &DCDWObj{natoms: natoms, filename: filename, endian: binary.LittleEndian}
	D.withCell = len(withCell) > 0 && withCell[0]
	var err error
	D.dcd, err = os.Create(filename)
	if err != nil {
		return nil, err
	}
	D.w = bufio.NewWriter(D.dcd)
	if err := D.initWrite(); err != nil {
		D.dcd.Close()
		return nil, chem.ErrDecorate(err, "NewWriter")
	}
	for i := range D.fields {
		D.fields[i] = make([]float32, natoms)
	}
	D.writable = true
	return D, nil
}

func (D *DCDWObj) initWrite() error {
	icntrl := make([]int32, 20)
	icntrl[0] = 0 //frames, updated when closing
	icntrl[2] = 1 //nsavc
	if D.withCell {
		icntrl[10] = 1
	}
	icntrl[19] = 24 //charmm version
	title := make([]byte, 2*mAXTITLE)
	copy(title, fmt.Sprintf("%-80s", "Created by zonerdf"))
	copy(title[mAXTITLE:], fmt.Sprintf("%-80s", fmt.Sprintf("%d atoms", D.natoms)))
	var record []any
	record = append(record, int32(84), []byte("CORD"), icntrl[:9])
	record = append(record, float32(1)) //delta, in place of icntrl[9]
	record = append(record, icntrl[10:], int32(84))
	record = append(record, int32(4+2*mAXTITLE), int32(2), title, int32(4+2*mAXTITLE))
	record = append(record, int32(4), int32(D.natoms), int32(4))
	for _, v := range record {
		if err := binary.Write(D.w, D.endian, v); err != nil {
			return chem.NewTrajError(err.Error(), D.filename, format, "initWrite")
		}
	}
	return nil
}

// Len returns the number of atoms per frame.
func (D *DCDWObj) Len() int {
	return D.natoms
}

// WNext writes the next frame to the trajectory. The box is only used
// if the writer was created with unit cell information, in which case it is required.
func (D *DCDWObj) WNext(towrite *v3.Matrix, box ...[]float64) error {
	if !D.writable {
		return chem.NewTrajError(chem.TrajUnIniWrite, D.filename, format, "WNext")
	}
	if towrite == nil {
		return chem.NewTrajError(chem.NilCoordinates, D.filename, format, "WNext")
	}
	if towrite.NVecs() != D.natoms {
		return chem.NewTrajError(fmt.Sprintf("%d coordinates given, but %d expected", towrite.NVecs(), D.natoms), D.filename, format, "WNext")
	}
	var record []any
	if D.withCell {
		if len(box) == 0 || len(box[0]) < 9 {
			return chem.NewTrajError("this trajectory needs a box for each frame", D.filename, format, "WNext")
		}
		cell := boxToCell(box[0])
		record = append(record, int32(cellSize), cell[:], int32(cellSize))
	}
	for i := 0; i < D.natoms; i++ {
		D.fields[0][i] = float32(towrite.At(i, 0))
		D.fields[1][i] = float32(towrite.At(i, 1))
		D.fields[2][i] = float32(towrite.At(i, 2))
	}
	blocksize := int32(4 * D.natoms)
	for _, f := range D.fields {
		record = append(record, blocksize, f, blocksize)
	}
	for _, v := range record {
		if err := binary.Write(D.w, D.endian, v); err != nil {
			return chem.NewTrajError(err.Error(), D.filename, format, "WNext")
		}
	}
	D.frames++
	return nil
}

// Close writes the number of frames in the header and closes the file.
// DCD requires the number of frames at the begining, so it is only
// updated here.
func (D *DCDWObj) Close() error {
	if !D.writable {
		return nil
	}
	D.writable = false
	fail := func(err error) error {
		D.dcd.Close()
		return chem.NewTrajError(err.Error(), D.filename, format, "Close")
	}
	if err := D.w.Flush(); err != nil {
		return fail(err)
	}
	//84 and CORD go before the number of frames.
	if _, err := D.dcd.Seek(8, io.SeekStart); err != nil {
		return fail(err)
	}
	if err := binary.Write(D.dcd, D.endian, D.frames); err != nil {
		return fail(err)
	}
	return D.dcd.Close()
}
