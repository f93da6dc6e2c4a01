/*
 * traj.go, part of zonerdf.
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

package gro

import (
	"bufio"
	"fmt"
	"os"

	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
)

// Traj is a multi-frame gro file opened for reading. It implements chem.Traj.
type Traj struct {
	f        *os.File
	r        *bufio.Reader
	filename string
	natoms   int
	first    *frame //the first frame is read on opening, to learn the number of atoms.
	readable bool
}

// New opens a gro file for reading as a trajectory.
func New(name string) (*Traj, error) {
	G := &Traj{filename: name}
	var err error
	G.f, err = os.Open(name)
	if err != nil {
		return nil, err
	}
	G.r = bufio.NewReader(G.f)
	G.first, err = readFrame(G.r, name, false)
	if err != nil {
		G.f.Close()
		if chem.IsLastFrame(err) {
			return nil, chem.NewTrajError("empty file", name, format, "New")
		}
		return nil, err
	}
	G.natoms = len(G.first.coords) / 3
	G.readable = true
	return G, nil
}

// Readable returns true if the object is ready to be read from.
func (G *Traj) Readable() bool {
	return G.readable
}

// Len returns the number of atoms per frame.
func (G *Traj) Len() int {
	return G.natoms
}

// Next reads the next frame into coords, which can be nil to skip the frame.
// If a box slice with at least 9 elements is given, it is filled with the box vectors.
func (G *Traj) Next(coords *v3.Matrix, box ...[]float64) error {
	if !G.readable {
		return chem.NewTrajError(chem.TrajUnIniRead, G.filename, format, "Next")
	}
	fr := G.first
	G.first = nil
	if fr == nil {
		var err error
		fr, err = readFrame(G.r, G.filename, false)
		if err != nil {
			if chem.IsLastFrame(err) {
				G.Close()
			}
			return chem.ErrDecorate(err, "Next")
		}
	}
	if len(fr.coords)/3 != G.natoms {
		return chem.NewTrajError(fmt.Sprintf("frame has %d atoms, %d expected", len(fr.coords)/3, G.natoms), G.filename, format, "Next")
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		copy(box[0], fr.box)
	}
	if coords == nil {
		return nil
	}
	if coords.NVecs() < G.natoms {
		return chem.NewTrajError(chem.NotEnoughSpace, G.filename, format, "Next")
	}
	for i := 0; i < G.natoms; i++ {
		coords.SetVec(i, [3]float64{fr.coords[3*i], fr.coords[3*i+1], fr.coords[3*i+2]})
	}
	return nil
}

// Close closes the file. The object can't be read after this call.
func (G *Traj) Close() {
	if !G.readable {
		return
	}
	G.f.Close()
	G.readable = false
}
