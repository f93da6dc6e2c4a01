/*
 * v3_test.go, part of zonerdf.
 *
 * Copyright 2013 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(Te *testing.T) {
	_, err := NewMatrix([]float64{1, 2, 3, 4})
	require.Error(Te, err)
	_, err = NewMatrix(nil)
	require.Error(Te, err)
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(Te, err)
	assert.Equal(Te, 3, A.NVecs())
	assert.Equal(Te, [3]float64{4, 5, 6}, A.Vec(1))
}

func TestViews(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(Te, err)
	v := A.VecView(1)
	v.Set(0, 0, 100)
	assert.Equal(Te, 100.0, A.At(1, 0), "changes in the view must reach the original")
	w := A.View(1, 2)
	assert.Equal(Te, 2, w.NVecs())
	assert.Equal(Te, [3]float64{7, 8, 9}, w.Vec(1))
}

func TestCentroid(Te *testing.T) {
	A, err := NewMatrix([]float64{0, 0, 0, 2, 0, 0, 2, 2, 0, 0, 2, 4})
	require.NoError(Te, err)
	assert.Equal(Te, [3]float64{1, 1, 1}, Centroid(A, nil))
	assert.Equal(Te, [3]float64{1, 0, 0}, Centroid(A, []int{0, 1}))
	assert.Panics(Te, func() { Centroid(A, []int{}) })
}

func TestString(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3})
	require.NoError(Te, err)
	assert.Equal(Te, "   1.000    2.000    3.000", A.String())
}
