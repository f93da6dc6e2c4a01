package gro

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `CNT with water and chloride
    5
    1UNL     C1    1   1.000   1.000   0.500
    1UNL     C2    2   1.100   1.000   0.500
    2SOL     OW    3   1.000   1.200   0.600
    2SOL    HW1    4   1.050   1.250   0.600
    3CL      CL    5   0.900   0.800   0.700
   2.00000   3.00000   4.00000
`

func TestRead(Te *testing.T) {
	top, coords, box, err := ReadFrom(strings.NewReader(sample), "sample.gro")
	require.NoError(Te, err)
	require.Equal(Te, 5, top.Len())
	require.Equal(Te, 5, coords.NVecs())
	at := top.Atom(4)
	assert.Equal(Te, "CL", at.Name)
	assert.Equal(Te, "CL", at.MolName)
	assert.Equal(Te, 3, at.MolID)
	assert.Equal(Te, 5, at.ID)
	assert.Equal(Te, 4, at.Index)
	assert.Equal(Te, "Cl", at.Symbol)
	assert.Equal(Te, "H", top.Atom(3).Symbol)
	assert.InDeltaSlice(Te, []float64{10, 12, 6}, sliceOf(coords.Vec(2)), 1e-9)
	assert.True(Te, box.Orthorhombic())
	assert.InDeltaSlice(Te, []float64{20, 30, 40}, sliceOf(box.Lengths()), 1e-9)
}

func TestReadErrors(Te *testing.T) {
	_, _, _, err := ReadFrom(strings.NewReader(""), "empty.gro")
	assert.Error(Te, err)
	truncated := strings.Join(strings.Split(sample, "\n")[:4], "\n")
	_, _, _, err = ReadFrom(strings.NewReader(truncated), "truncated.gro")
	assert.Error(Te, err)
	badbox := strings.Replace(sample, "   2.00000   3.00000   4.00000", "   2.00000   3.00000", 1)
	_, _, _, err = ReadFrom(strings.NewReader(badbox), "badbox.gro")
	assert.Error(Te, err)
	_, _, _, err = Read(filepath.Join(Te.TempDir(), "nothere.gro"))
	assert.Error(Te, err)
}

func TestHighPrecision(Te *testing.T) {
	hp := "hp\n    1\n    1SOL     OW    1   1.12345   2.12345   3.12345\n   1.0 1.0 1.0\n"
	_, coords, _, err := ReadFrom(strings.NewReader(hp), "hp.gro")
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{11.2345, 21.2345, 31.2345}, sliceOf(coords.Vec(0)), 1e-9)
}

func TestTriclinicBoxLine(Te *testing.T) {
	b, err := parseBox("4.0 4.0 2.82843 0.0 0.0 0.0 0.0 2.0 2.0")
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{40, 0, 0, 0, 40, 0, 20, 20, 28.2843}, b, 1e-9)
}

func TestWriteAndTraj(Te *testing.T) {
	top, coords, box, err := ReadFrom(strings.NewReader(sample), "sample.gro")
	require.NoError(Te, err)
	var buf bytes.Buffer
	require.NoError(Te, Write(&buf, "frame 0", top, coords, box))
	top2, coords2, _, err := ReadFrom(bytes.NewReader(buf.Bytes()), "rw.gro")
	require.NoError(Te, err)
	assert.Equal(Te, top.Atom(2).Name, top2.Atom(2).Name)
	assert.InDeltaSlice(Te, sliceOf(coords.Vec(1)), sliceOf(coords2.Vec(1)), 1e-9)

	//a 3-frame trajectory where the chloride moves 1 A along x per frame.
	name := filepath.Join(Te.TempDir(), "traj.gro")
	f, err := os.Create(name)
	require.NoError(Te, err)
	for i := 0; i < 3; i++ {
		c := v3.Zeros(coords.NVecs())
		c.Copy(coords)
		v := c.Vec(4)
		v[0] += float64(i)
		c.SetVec(4, v)
		require.NoError(Te, Write(f, "frame", top, c, box))
	}
	require.NoError(Te, f.Close())

	traj, err := New(name)
	require.NoError(Te, err)
	require.Equal(Te, 5, traj.Len())
	c := v3.Zeros(traj.Len())
	b := make([]float64, 9)
	xs := []float64{}
	for {
		err := traj.Next(c, b)
		if chem.IsLastFrame(err) {
			break
		}
		require.NoError(Te, err)
		xs = append(xs, c.At(4, 0))
	}
	assert.InDeltaSlice(Te, []float64{9, 10, 11}, xs, 1e-9)
	assert.InDelta(Te, 20.0, b[0], 1e-9)
	assert.False(Te, traj.Readable())
}

func TestSkipFrames(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "two.gro")
	require.NoError(Te, os.WriteFile(name, []byte(sample+sample), 0o644))
	traj, err := New(name)
	require.NoError(Te, err)
	defer traj.Close()
	require.NoError(Te, traj.Next(nil))
	c := v3.Zeros(5)
	require.NoError(Te, traj.Next(c))
	assert.InDelta(Te, 9.0, c.At(4, 0), 1e-9)
	assert.True(Te, chem.IsLastFrame(traj.Next(c)))
}

func sliceOf(a [3]float64) []float64 {
	return a[:]
}
