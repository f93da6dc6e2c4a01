package amber

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mdcrd returns an mdcrd trajectory with 4 atoms per frame. Atom j of frame i
// is at (i, j, -100-j).
func mdcrd(nframes int, box bool) string {
	var b strings.Builder
	b.WriteString("test trajectory\n")
	for i := 0; i < nframes; i++ {
		n := 0
		for j := 0; j < 4; j++ {
			for _, v := range []float64{float64(i), float64(j), -100 - float64(j)} {
				fmt.Fprintf(&b, "%8.3f", v)
				n++
				if n%10 == 0 {
					b.WriteString("\n")
				}
			}
		}
		if n%10 != 0 {
			b.WriteString("\n")
		}
		if box {
			fmt.Fprintf(&b, "%8.3f%8.3f%8.3f\n", 30.0, 31.0, 32.0)
		}
	}
	return b.String()
}

func write(Te *testing.T, name, content string) string {
	name = filepath.Join(Te.TempDir(), name)
	require.NoError(Te, os.WriteFile(name, []byte(content), 0o644))
	return name
}

func readAll(Te *testing.T, t *CrdObj) ([]*v3.Matrix, [][]float64) {
	var frames []*v3.Matrix
	var boxes [][]float64
	for {
		c := v3.Zeros(t.Len())
		box := make([]float64, 9)
		err := t.Next(c, box)
		if chem.IsLastFrame(err) {
			break
		}
		require.NoError(Te, err)
		frames = append(frames, c)
		boxes = append(boxes, box)
	}
	assert.False(Te, t.Readable())
	return frames, boxes
}

func TestParseLine(Te *testing.T) {
	v, err := parseLine("   1.000-100.123  20.5\n")
	require.NoError(Te, err)
	assert.Equal(Te, []float64{1, -100.123, 20.5}, v)
	v, err = parseLine("\n")
	require.NoError(Te, err)
	assert.Empty(Te, v)
	_, err = parseLine("   1.000  a.bcde")
	assert.Error(Te, err)
}

func TestCrd(Te *testing.T) {
	for _, box := range []bool{true, false} {
		t, err := New(write(Te, "traj.mdcrd", mdcrd(3, box)), 4)
		require.NoError(Te, err)
		assert.Equal(Te, "test trajectory", t.Title())
		frames, boxes := readAll(Te, t)
		require.Len(Te, frames, 3, "box: %v", box)
		for i, f := range frames {
			assert.Equal(Te, [3]float64{float64(i), 3, -103}, f.Vec(3))
			assert.Equal(Te, [3]float64{float64(i), 0, -100}, f.Vec(0))
			if box {
				assert.Equal(Te, chem.OrthoBox(30, 31, 32).Vectors(), boxes[i])
			} else {
				assert.Equal(Te, make([]float64, 9), boxes[i])
			}
		}
	}
}

func TestCrdGzip(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "traj.mdcrd.gz")
	f, err := os.Create(name)
	require.NoError(Te, err)
	z := gzip.NewWriter(f)
	_, err = z.Write([]byte(mdcrd(2, true)))
	require.NoError(Te, err)
	require.NoError(Te, z.Close())
	require.NoError(Te, f.Close())

	t, err := New(name, 4)
	require.NoError(Te, err)
	//the first frame is skipped.
	require.NoError(Te, t.Next(nil))
	c := v3.Zeros(4)
	require.NoError(Te, t.Next(c))
	assert.Equal(Te, [3]float64{1, 1, -101}, c.Vec(1))
	assert.True(Te, chem.IsLastFrame(t.Next(c)))
}

func TestCrdErrors(Te *testing.T) {
	_, err := New(write(Te, "a.mdcrd", mdcrd(1, false)), 0)
	assert.Error(Te, err)
	_, err = New(filepath.Join(Te.TempDir(), "nothere.mdcrd"), 4)
	assert.Error(Te, err)

	//wrong number of atoms: the second line crosses the frame boundary.
	t, err := New(write(Te, "b.mdcrd", mdcrd(2, false)), 3)
	require.NoError(Te, err)
	assert.Error(Te, t.Next(nil))
	t.Close()

	//truncated frame
	full := mdcrd(1, false)
	t, err = New(write(Te, "c.mdcrd", full[:len(full)-10]), 4)
	require.NoError(Te, err)
	err = t.Next(nil)
	assert.Error(Te, err)
	assert.False(Te, chem.IsLastFrame(err))
	t.Close()

	t, err = New(write(Te, "d.mdcrd", mdcrd(1, false)), 4)
	require.NoError(Te, err)
	assert.Error(Te, t.Next(v3.Zeros(2)))
	t.Close()
	assert.Error(Te, t.Next(nil))
}
