/*
 * chem.go, part of zonerdf.
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
 */

package chem

import (
	"fmt"
	"path"
)

/**Note: Many functions here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong here, the program is most likely wrong and should
 * crash. Most panics are related to using the function on a nil object or trying to access out-of bounds
 * fields**/

// Atom contains the static information of an atom, i.e. everything but the
// coordinates, which go in a v3.Matrix.
type Atom struct {
	Name    string
	ID      int //the atom number in the structure file
	Index   int //the 0-based position in the topology
	MolName string
	MolID   int
	Symbol  string
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	ret := *A
	return &ret
}

// String returns a short description of the atom.
func (A *Atom) String() string {
	return fmt.Sprintf("%s%d:%s(%d)", A.MolName, A.MolID, A.Name, A.ID)
}

/*****Topology type***/

// Topology contains the information about a system which is not expected to change in time.
type Topology struct {
	Atoms []*Atom
}

// NewTopology returns a topology with the given atoms. The Index
// field of each atom is set to its position in the slice.
func NewTopology(ats []*Atom) *Topology {
	T := &Topology{Atoms: ats}
	T.ResetIndexes()
	return T
}

// ResetIndexes sets the Index of every atom to its position in the topology.
func (T *Topology) ResetIndexes() {
	for i, v := range T.Atoms {
		v.Index = i
	}
}

// Atom returns the Atom corresponding to the index i
// of the Atom slice in the Topology. Panics if
// out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() || i < 0 {
		panic(fmt.Sprintf("Topology.Atom: requested atom %d out of range (%d atoms)", i, T.Len()))
	}
	return T.Atoms[i]
}

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// Match returns the indexes of the atoms for which f returns true.
func Match(A Atomer, f func(*Atom) bool) []int {
	ret := make([]int, 0, 10)
	for i := 0; i < A.Len(); i++ {
		if f(A.Atom(i)) {
			ret = append(ret, i)
		}
	}
	return ret
}

// ByName returns the indexes of the atoms whose name matches any of the
// given shell patterns (e.g. "CL", "O*").
func ByName(A Atomer, patterns ...string) []int {
	return Match(A, func(at *Atom) bool { return globAny(patterns, at.Name) })
}

// ByMolName returns the indexes of the atoms whose residue name matches any of the
// given shell patterns.
func ByMolName(A Atomer, patterns ...string) []int {
	return Match(A, func(at *Atom) bool { return globAny(patterns, at.MolName) })
}

// globAny returns true if s matches any of the patterns. Malformed patterns
// are compared literally.
func globAny(patterns []string, s string) bool {
	for _, p := range patterns {
		ok, err := path.Match(p, s)
		if err != nil {
			ok = p == s
		}
		if ok {
			return true
		}
	}
	return false
}

// GlobAny is the exported version of globAny, for use by the selection
// language.
func GlobAny(patterns []string, s string) bool {
	return globAny(patterns, s)
}
