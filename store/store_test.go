package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	chem "github.com/rmera/zonerdf"
	"github.com/rmera/zonerdf/rdf"
	v3 "github.com/rmera/zonerdf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// result builds an RDF result from two frames with one ion and three partners.
func result(Te *testing.T) *rdf.Result {
	c, err := v3.NewMatrix([]float64{
		10, 10, 10,
		11, 10, 10,
		10, 13, 10,
		10, 10, 18,
	})
	require.NoError(Te, err)
	box := chem.OrthoBox(30, 30, 30)
	acc := rdf.NewAccumulator()
	acc.Skip()
	for i, p := range [][]int{{1, 2, 3}, {1, 3}} {
		f, err := rdf.Frame(c, box, []int{0}, p)
		require.NoError(Te, err)
		require.NoError(Te, acc.Add(f, 101+2*i))
	}
	res, err := acc.Result()
	require.NoError(Te, err)
	return res
}

func TestStore(Te *testing.T) {
	db, err := Open(filepath.Join(Te.TempDir(), "results.db"))
	require.NoError(Te, err)
	defer db.Close()
	res := result(Te)
	assert.Equal(Te, []float64{2, 1}, res.Coordination)

	run, err := db.NewRun("system.gro", "traj.xtc")
	require.NoError(Te, err)
	require.NoError(Te, db.SaveZone(run, "center", "name CL", "name OW", res))
	require.NoError(Te, db.SaveZone(run, "bulk", "name CL and prop 80 < z", "name OW", res))
	//saving again replaces the zone.
	require.NoError(Te, db.SaveZone(run, "center", "name CL", "name OW", res))

	zones, err := db.Zones(run)
	require.NoError(Te, err)
	require.Len(Te, zones, 2)
	want := &Zone{
		RunID:              run,
		Name:               "bulk",
		Ions:               "name CL and prop 80 < z",
		Partners:           "name OW",
		Frames:             2,
		Skipped:            1,
		MeanCoordination:   1.5,
		StdDevCoordination: 0.7071067811865476,
		Bins:               res.Bins,
		RDF:                res.RDF,
		Cumulative:         res.Cumulative,
	}
	if diff := cmp.Diff(want, zones[0], cmpopts.EquateApprox(0, 1e-12), cmpopts.IgnoreFields(Zone{}, "Counts")); diff != "" {
		Te.Errorf("unexpected zone (-want +got):\n%s", diff)
	}
	assert.Equal(Te, "center", zones[1].Name)
	assert.Equal(Te, res.Counts.View(), zones[1].Counts.View())
	assert.Equal(Te, 5, zones[1].Counts.Total())

	frames, coord, err := db.Coordination(run, "center")
	require.NoError(Te, err)
	assert.Equal(Te, []int{101, 103}, frames)
	assert.Equal(Te, []float64{2, 1}, coord)
	frames, coord, err = db.Coordination(run, "nothere")
	require.NoError(Te, err)
	assert.Empty(Te, frames)
	assert.Empty(Te, coord)

	run2, err := db.NewRun("system.gro", "traj2.xtc")
	require.NoError(Te, err)
	zones, err = db.Zones(run2)
	require.NoError(Te, err)
	assert.Empty(Te, zones)
	runs, err := db.Runs()
	require.NoError(Te, err)
	require.Len(Te, runs, 2)
	assert.ElementsMatch(Te, []string{run, run2}, []string{runs[0].RunID, runs[1].RunID})
	//unknown runs violate the foreign key.
	assert.Error(Te, db.SaveZone("not-a-run", "center", "name CL", "name OW", res))
	res.FrameIndexes = res.FrameIndexes[:1]
	assert.Error(Te, db.SaveZone(run2, "center", "name CL", "name OW", res))
}

func TestMemory(Te *testing.T) {
	db, err := Open(":memory:")
	require.NoError(Te, err)
	defer db.Close()
	run, err := db.NewRun("a.gro", "a.stf")
	require.NoError(Te, err)
	require.NoError(Te, db.SaveZone(run, "center", "name CL", "name OW", result(Te)))
	zones, err := db.Zones(run)
	require.NoError(Te, err)
	assert.Len(Te, zones, 1)
}
