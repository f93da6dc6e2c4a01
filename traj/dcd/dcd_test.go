/*
 * dcd_test.go, part of zonerdf
 *
 * Copyright 2012 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
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
 */

package dcd

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coords(i int) *v3.Matrix {
	m, err := v3.NewMatrix([]float64{
		1, 2, 3,
		-4.5, 5.25, 6 + float64(i),
	})
	if err != nil {
		panic(err)
	}
	return m
}

func readAll(Te *testing.T, name string) ([]*v3.Matrix, [][]float64) {
	traj, err := New(name)
	require.NoError(Te, err)
	var frames []*v3.Matrix
	var boxes [][]float64
	for {
		c := v3.Zeros(traj.Len())
		box := make([]float64, 9)
		err := traj.Next(c, box)
		if err != nil {
			if _, ok := err.(chem.LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		frames = append(frames, c)
		boxes = append(boxes, box)
	}
	assert.False(Te, traj.Readable())
	return frames, boxes
}

func TestDCDWrite(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "test.dcd")
	w, err := NewWriter(name, 2)
	require.NoError(Te, err)
	for i := 0; i < 3; i++ {
		require.NoError(Te, w.WNext(coords(i)))
	}
	assert.Error(Te, w.WNext(v3.Zeros(3)))
	require.NoError(Te, w.Close())
	assert.Error(Te, w.WNext(coords(0)))

	traj, err := New(name)
	require.NoError(Te, err)
	assert.Equal(Te, 2, traj.Len())
	assert.Equal(Te, 3, traj.NFrames())
	assert.Contains(Te, traj.Title(), "Created by zonerdf")
	traj.Close()

	frames, boxes := readAll(Te, name)
	require.Len(Te, frames, 3)
	for i, f := range frames {
		assert.InDeltaSlice(Te, []float64{-4.5, 5.25, 6 + float64(i)}, sliceOf(f.Vec(1)), 1e-6)
		//no unit cell, the box is left alone.
		assert.Equal(Te, make([]float64, 9), boxes[i])
	}
}

func TestDCDCell(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "cell.dcd")
	w, err := NewWriter(name, 2, true)
	require.NoError(Te, err)
	assert.Error(Te, w.WNext(coords(0)))
	ortho := []float64{30, 0, 0, 0, 40, 0, 0, 0, 50}
	tric := []float64{40, 0, 0, 0, 40, 0, 20, 20, 28.2843}
	require.NoError(Te, w.WNext(coords(0), ortho))
	require.NoError(Te, w.WNext(coords(1), tric))
	require.NoError(Te, w.Close())
	frames, boxes := readAll(Te, name)
	require.Len(Te, frames, 2)
	assert.InDeltaSlice(Te, ortho, boxes[0], 1e-9)
	assert.InDeltaSlice(Te, tric, boxes[1], 1e-6)
	b, err := chem.NewBox(boxes[0])
	require.NoError(Te, err)
	assert.True(Te, b.Orthorhombic())
}

func TestCellCosines(Te *testing.T) {
	//newer CHARMM: A, cos(gamma), B, cos(beta), cos(alpha), C
	b := cellToBox([6]float64{10, 0, 20, 0, 0, 30})
	assert.Equal(Te, []float64{10, 0, 0, 0, 20, 0, 0, 0, 30}, b)
	b = cellToBox([6]float64{10, 90, 20, 90, 90, 30})
	assert.Equal(Te, []float64{10, 0, 0, 0, 20, 0, 0, 0, 30}, b)
	b = cellToBox([6]float64{10, 0.5, 10, 0, 0, 10}) //gamma = 60
	assert.InDeltaSlice(Te, []float64{10, 0, 0, 5, 8.660254, 0, 0, 0, 10}, b, 1e-6)
}

func TestGzip(Te *testing.T) {
	dir := Te.TempDir()
	name := filepath.Join(dir, "test.dcd")
	w, err := NewWriter(name, 2)
	require.NoError(Te, err)
	require.NoError(Te, w.WNext(coords(7)))
	require.NoError(Te, w.Close())
	raw, err := os.ReadFile(name)
	require.NoError(Te, err)
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write(raw)
	require.NoError(Te, err)
	require.NoError(Te, gz.Close())
	require.NoError(Te, os.WriteFile(name+".gz", buf.Bytes(), 0o644))
	frames, _ := readAll(Te, name+".gz")
	require.Len(Te, frames, 1)
	assert.InDelta(Te, 13.0, frames[0].At(1, 2), 1e-6)
}

// TestBigEndian builds a big endian X-plor-like file by hand.
func TestBigEndian(Te *testing.T) {
	var buf bytes.Buffer
	put := func(v ...any) {
		for _, w := range v {
			require.NoError(Te, binary.Write(&buf, binary.BigEndian, w))
		}
	}
	icntrl := make([]int32, 20)
	icntrl[0] = 1
	put(int32(84), []byte("CORD"), icntrl, int32(84))
	put(int32(4+mAXTITLE), int32(1), make([]byte, mAXTITLE), int32(4+mAXTITLE))
	put(int32(4), int32(1), int32(4))
	for _, v := range []float32{1.5, -2.5, 3.5} {
		put(int32(4), v, int32(4))
	}
	name := filepath.Join(Te.TempDir(), "be.dcd")
	require.NoError(Te, os.WriteFile(name, buf.Bytes(), 0o644))
	frames, _ := readAll(Te, name)
	require.Len(Te, frames, 1)
	assert.Equal(Te, []float64{1.5, -2.5, 3.5}, sliceOf(frames[0].Vec(0)))
}

func TestBadFiles(Te *testing.T) {
	dir := Te.TempDir()
	_, err := New(filepath.Join(dir, "nothere.dcd"))
	assert.Error(Te, err)
	bad := filepath.Join(dir, "bad.dcd")
	require.NoError(Te, os.WriteFile(bad, []byte("this is not a dcd file at all, but it has to be long enough for the header of 92 bytes."), 0o644))
	_, err = New(bad)
	assert.Error(Te, err)

	name := filepath.Join(dir, "trunc.dcd")
	w, err := NewWriter(name, 2)
	require.NoError(Te, err)
	require.NoError(Te, w.WNext(coords(0)))
	require.NoError(Te, w.Close())
	raw, err := os.ReadFile(name)
	require.NoError(Te, err)
	require.NoError(Te, os.WriteFile(name, raw[:len(raw)-6], 0o644))
	traj, err := New(name)
	require.NoError(Te, err)
	err = traj.Next(nil)
	require.Error(Te, err)
	assert.False(Te, chem.IsLastFrame(err))
}

func sliceOf(a [3]float64) []float64 {
	return a[:]
}
