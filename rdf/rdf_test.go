package rdf

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestOptions(Te *testing.T) {
	o := DefaultOptions()
	assert.Equal(Te, 150, o.NBins())
	assert.Equal(Te, 38, o.CutoffBin())
	assert.InDelta(Te, 0.1, o.Width(), 1e-12)
	//bin 38 ends at 3.9, past a cutoff in the middle of it.
	o.CoordCutoff(3.85)
	assert.Equal(Te, 37, o.CutoffBin())
	o.CoordCutoff(3.9)
	o.Range(5, 1) //ignored
	lo, hi := o.Range()
	assert.Equal(Te, [2]float64{0, 15}, [2]float64{lo, hi})
	o.NBins(300)
	assert.Equal(Te, 77, o.CutoffBin())
	o.CoordCutoff(100)
	assert.Equal(Te, 299, o.CutoffBin())
	o.CoordCutoff(-1) //ignored
	assert.Equal(Te, 100.0, o.CoordCutoff())
	assert.False(Te, o.ExcludeSelf(true))
	assert.True(Te, o.ExcludeSelf())
}

// pairs builds 2 ions and 6 partners in a 50 A box. Ion 0 has 3 partners
// closer than 3.9 A, ion 6 has one, across the periodic boundary.
func pairs(Te *testing.T) (*v3.Matrix, *chem.Box) {
	c, err := v3.NewMatrix([]float64{
		25, 25, 25, //0 ion
		26.05, 25, 25, //1.05
		25, 27.55, 25, //2.55
		25, 25, 28.85, //3.85
		28.95, 25, 25, //3.95
		25, 25, 35.05, //10.05
		1, 25, 25, //6 ion
		48.95, 25, 25, //2.05 from 6
	})
	require.NoError(Te, err)
	return c, chem.OrthoBox(50, 50, 50)
}

func TestFrame(Te *testing.T) {
	coords, box := pairs(Te)
	ions := []int{0, 6}
	partners := []int{1, 2, 3, 4, 5, 7}
	f, err := Frame(coords, box, ions, partners)
	require.NoError(Te, err)
	assert.Equal(Te, 2, f.NIons)
	assert.Equal(Te, 6, f.NPartners)
	assert.InDelta(Te, 125000.0, f.Volume, 1e-6)
	assert.Equal(Te, 6, f.Count.Total())
	assert.InDelta(Te, 6.0, f.Count.Sum(), 1e-12)
	assert.InDelta(Te, 2.0, f.Coordination, 1e-12)
	assert.InDelta(Te, 3.0, f.Cumulative[149], 1e-12)
	assert.InDelta(Te, 1.0, f.Count.View()[10], 1e-12)
	assert.InDelta(Te, 1.0, f.Count.View()[39], 1e-12)
	density := 12.0 / 125000
	vol := 4.0 / 3.0 * math.Pi * (math.Pow(1.1, 3) - 1)
	assert.InEpsilon(Te, 1/(density*vol), f.RDF[10], 1e-6)
	assert.Equal(Te, 0.0, f.RDF[0])

	_, err = Frame(coords, box, nil, partners)
	assert.True(Te, errors.Is(err, ErrNoIons))
	_, err = Frame(coords, nil, ions, partners)
	assert.Error(Te, err)
}

func TestExcludeSelf(Te *testing.T) {
	coords, box := pairs(Te)
	sel := []int{0, 1}
	f, err := Frame(coords, box, sel, sel)
	require.NoError(Te, err)
	assert.InDelta(Te, 2.0, f.Count.View()[0], 1e-12)
	assert.InDelta(Te, 2.0, f.Coordination, 1e-12)
	o := DefaultOptions()
	o.ExcludeSelf(true)
	f, err = Frame(coords, box, sel, sel, o)
	require.NoError(Te, err)
	assert.InDelta(Te, 0.0, f.Count.View()[0], 1e-12)
	assert.InDelta(Te, 1.0, f.Coordination, 1e-12)
	assert.Equal(Te, 2, f.Count.Total())
}

// An ideal gas has g(r)=1 at every distance.
func TestIdealGas(Te *testing.T) {
	const L = 30.0
	r := rand.New(rand.NewPCG(1, 2))
	box := chem.OrthoBox(L, L, L)
	natoms := 510
	ions := make([]int, 10)
	partners := make([]int, natoms-10)
	for i := range ions {
		ions[i] = i
	}
	for i := range partners {
		partners[i] = i + 10
	}
	acc := NewAccumulator()
	coords := v3.Zeros(natoms)
	for frame := 0; frame < 50; frame++ {
		for i := 0; i < natoms; i++ {
			coords.SetVec(i, [3]float64{r.Float64() * L, r.Float64() * L, r.Float64() * L})
		}
		f, err := Frame(coords, box, ions, partners)
		require.NoError(Te, err)
		require.NoError(Te, acc.Add(f))
	}
	res, err := acc.Result()
	require.NoError(Te, err)
	assert.Equal(Te, 50, res.Frames)
	assert.Equal(Te, 10.0, res.MeanIons)
	//the first bins have very few pairs.
	g := floats.Sum(res.RDF[50:]) / 100
	assert.InDelta(Te, 1.0, g, 0.05)
	//average number of partners within 3.9 A
	want := 500 * (4.0 / 3.0) * math.Pi * math.Pow(3.9, 3) / (L * L * L)
	assert.InDelta(Te, want, res.MeanCoordination(), 0.1*want)
	assert.Greater(Te, res.StdDevCoordination(), 0.0)
	assert.InDelta(Te, 0.1, res.Bins[1]-res.Bins[0], 1e-9)
	assert.InDelta(Te, 0.05, res.Bins[0], 1e-9)
}

func TestAccumulator(Te *testing.T) {
	coords, box := pairs(Te)
	acc := NewAccumulator()
	_, err := acc.Result()
	assert.True(Te, errors.Is(err, ErrNoFrames))
	f1, err := Frame(coords, box, []int{0}, []int{1, 2, 3, 4, 5, 7})
	require.NoError(Te, err)
	f2, err := Frame(coords, box, []int{6}, []int{1, 2, 3, 4, 5, 7})
	require.NoError(Te, err)
	require.NoError(Te, acc.Add(f1))
	acc.Skip()
	require.NoError(Te, acc.Add(f2))
	assert.Equal(Te, 2, acc.Frames())
	assert.Equal(Te, 1, acc.Skipped())
	res, err := acc.Result()
	require.NoError(Te, err)
	assert.Equal(Te, []float64{3, 1}, res.Coordination)
	assert.Equal(Te, []int{0, 2}, res.FrameIndexes)
	assert.InDelta(Te, 2.0, res.MeanCoordination(), 1e-12)
	assert.InDelta(Te, math.Sqrt2, res.StdDevCoordination(), 1e-12)
	assert.Equal(Te, 1, res.Skipped)
	assert.InDelta(Te, 3.0, res.Cumulative[149], 1e-12) //(5+1)/2
	assert.Equal(Te, 6, res.Counts.Total())
	assert.InDeltaSlice(Te, floats.AddTo(make([]float64, 150), f1.RDF, f2.RDF), scaled(res.RDF, 2), 1e-9)

	o := DefaultOptions()
	o.NBins(10)
	small, err := Frame(coords, box, []int{0}, []int{1}, o)
	require.NoError(Te, err)
	assert.Error(Te, acc.Add(small))

	acc = NewAccumulator()
	require.NoError(Te, acc.Add(f1, 20000))
	acc.Skip()
	require.NoError(Te, acc.Add(f2, 20004))
	res, err = acc.Result()
	require.NoError(Te, err)
	assert.Equal(Te, []int{20000, 20004}, res.FrameIndexes)
}

func scaled(a []float64, f float64) []float64 {
	r := make([]float64, len(a))
	floats.ScaleTo(r, f, a)
	return r
}
