/*
 * gocoords.go, part of zonerdf.
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

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

// NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

// Vec returns the ith vector of F as an array, so it can be
// used without allocations in tight loops.
func (F *Matrix) Vec(i int) [3]float64 {
	return [3]float64{F.At(i, 0), F.At(i, 1), F.At(i, 2)}
}

// SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v [3]float64) {
	F.Set(i, 0, v[0])
	F.Set(i, 1, v[1])
	F.Set(i, 2, v[2])
}


// Centroid returns the geometric center of the vectors of A with indexes in clist,
// or of all the vectors in A if clist is nil. It panics for an empty set.
func Centroid(A *Matrix, clist []int) [3]float64 {
	var c [3]float64
	n := 0
	add := func(i int) {
		v := A.Vec(i)
		c[0] += v[0]
		c[1] += v[1]
		c[2] += v[2]
		n++
	}
	if clist == nil {
		for i := 0; i < A.NVecs(); i++ {
			add(i)
		}
	} else {
		for _, i := range clist {
			add(i)
		}
	}
	if n == 0 {
		panic(ErrEmpty)
	}
	fn := float64(n)
	return [3]float64{c[0] / fn, c[1] / fn, c[2] / fn}
}

// String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r, c := F.Dims()
	v := make([]string, r)
	for i := 0; i < r; i++ {
		row := make([]string, c)
		for j := 0; j < c; j++ {
			row[j] = fmt.Sprintf("%8.3f", F.At(i, j))
		}
		v[i] = strings.Join(row, " ")
	}
	return strings.Join(v, "\n")
}
