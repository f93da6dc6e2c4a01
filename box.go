/*
 * box.go, part of zonerdf.
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

package chem

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const boxEpsilon = 1e-6

// Box is a periodic simulation cell. The three box vectors (Angstrom) are the
// rows of a 3x3 matrix, stored row-major. The zero value is a non-periodic
// "box", for which MinImage does nothing and Valid returns false.
type Box struct {
	vecs  [9]float64
	inv   [9]float64
	ortho bool
	valid bool
}

// NewBox returns a Box from the 9 components of the box vectors, row-major
// (a_x a_y a_z b_x b_y b_z c_x c_y c_z), in Angstrom. An all-zero slice gives
// a non-periodic box.
func NewBox(b []float64) (*Box, error) {
	B := new(Box)
	if len(b) < 9 {
		return nil, fmt.Errorf("NewBox: 9 box components needed, got %d", len(b))
	}
	copy(B.vecs[:], b[:9])
	zero := true
	for _, v := range B.vecs {
		if v != 0 {
			zero = false
			break
		}
	}
	if zero {
		return B, nil
	}
	H := mat.NewDense(3, 3, B.vecs[:])
	if math.Abs(mat.Det(H)) < boxEpsilon {
		return nil, fmt.Errorf("NewBox: degenerate box vectors %v", b[:9])
	}
	var inv mat.Dense
	if err := inv.Inverse(H); err != nil {
		return nil, fmt.Errorf("NewBox: %w", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			B.inv[3*i+j] = inv.At(i, j)
		}
	}
	B.ortho = true
	for _, i := range []int{1, 2, 3, 5, 6, 7} {
		if math.Abs(B.vecs[i]) > boxEpsilon {
			B.ortho = false
		}
	}
	B.valid = true
	return B, nil
}

// OrthoBox returns an orthorhombic box with the given side lengths.
func OrthoBox(x, y, z float64) *Box {
	B, err := NewBox([]float64{x, 0, 0, 0, y, 0, 0, 0, z})
	if err != nil {
		panic(err.Error())
	}
	return B
}

// Valid returns true if the box is periodic, i.e. it has non-degenerate vectors.
func (B *Box) Valid() bool {
	return B != nil && B.valid
}

// Orthorhombic returns true if the box vectors are along the cartesian axes.
func (B *Box) Orthorhombic() bool {
	return B.Valid() && B.ortho
}

// Vectors returns a copy of the 9 box components.
func (B *Box) Vectors() []float64 {
	ret := make([]float64, 9)
	if B != nil {
		copy(ret, B.vecs[:])
	}
	return ret
}

// Lengths returns the lengths of the three box vectors.
func (B *Box) Lengths() [3]float64 {
	var ret [3]float64
	if !B.Valid() {
		return ret
	}
	for i := 0; i < 3; i++ {
		v := B.vecs[3*i : 3*i+3]
		ret[i] = math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	}
	return ret
}

// Volume returns the volume of the box, or 0 for a non-periodic box.
func (B *Box) Volume() float64 {
	if !B.Valid() {
		return 0
	}
	return math.Abs(mat.Det(mat.NewDense(3, 3, B.vecs[:])))
}

// MinImage returns the minimum image of the distance vector d.
// For non-periodic boxes d is returned unchanged.
func (B *Box) MinImage(d [3]float64) [3]float64 {
	if !B.Valid() {
		return d
	}
	if B.ortho {
		for i := 0; i < 3; i++ {
			l := B.vecs[4*i]
			d[i] -= l * math.Round(d[i]/l)
		}
		return d
	}
	//fractional coordinates (row vector times the inverse), wrapped.
	var f [3]float64
	for j := 0; j < 3; j++ {
		f[j] = d[0]*B.inv[j] + d[1]*B.inv[3+j] + d[2]*B.inv[6+j]
		f[j] -= math.Round(f[j])
	}
	w := B.cart(f)
	//With skewed cells the wrapped vector might not be the shortest one,
	//so we check the neighbouring images.
	best := w
	bestd := norm2(w)
	for i := -1.0; i <= 1; i++ {
		for j := -1.0; j <= 1; j++ {
			for k := -1.0; k <= 1; k++ {
				c := B.cart([3]float64{f[0] + i, f[1] + j, f[2] + k})
				if n := norm2(c); n < bestd {
					bestd = n
					best = c
				}
			}
		}
	}
	return best
}

// Dist returns the minimum-image distance between the points a and b.
func (B *Box) Dist(a, b [3]float64) float64 {
	d := B.MinImage([3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]})
	return math.Sqrt(norm2(d))
}

func (B *Box) cart(f [3]float64) [3]float64 {
	var ret [3]float64
	for j := 0; j < 3; j++ {
		ret[j] = f[0]*B.vecs[j] + f[1]*B.vecs[3+j] + f[2]*B.vecs[6+j]
	}
	return ret
}

// String returns the box vectors in a readable way.
func (B *Box) String() string {
	if !B.Valid() {
		return "non-periodic"
	}
	v := B.vecs
	return fmt.Sprintf("a=(%.3f %.3f %.3f) b=(%.3f %.3f %.3f) c=(%.3f %.3f %.3f)", v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8])
}

func norm2(d [3]float64) float64 {
	return d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
}
