package sel

import (
	"testing"

	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// system returns a small pore: 4 carbons around the axis x=y=20 centered at z=50,
// 8 chlorides and 3 water atoms.
func system(Te *testing.T) (*chem.Topology, *v3.Matrix) {
	var ats []*chem.Atom
	var c []float64
	add := func(name, res string, resid int, sym string, x, y, z float64) {
		ats = append(ats, &chem.Atom{Name: name, MolName: res, MolID: resid, Symbol: sym, ID: len(ats) + 1})
		c = append(c, x, y, z)
	}
	add("C1", "UNL", 1, "C", 19, 20, 40)
	add("C2", "UNL", 1, "C", 21, 20, 40)
	add("C3", "UNL", 1, "C", 20, 19, 60)
	add("C4", "UNL", 1, "C", 20, 21, 60)
	add("CL", "CL", 10, "Cl", 20, 20, 50)    //4  r=0
	add("CL", "CL", 11, "Cl", 20.5, 20, 45)  //5  r=0.5
	add("CL", "CL", 12, "Cl", 21.75, 20, 50) //6  r=1.75, on the boundary
	add("CL", "CL", 13, "Cl", 20, 22.5, 55)  //7  r=2.5
	add("CL", "CL", 14, "Cl", 26, 20, 50)    //8  r=6
	add("CL", "CL", 15, "Cl", 20.5, 20, 65)  //9  too high
	add("CL", "CL", 16, "Cl", 60.3, 20, 50)  //10 r=0.3 through x periodicity
	add("CL", "CL", 17, "Cl", 20, 20, 155)   //11 r=0 through z periodicity
	add("OW", "SOL", 20, "O", 5, 5, 85)      //12
	add("HW1", "SOL", 20, "H", 5.5, 5, 85)   //13
	add("OW", "SOL", 21, "O", 5, 5, 30)      //14
	coords, err := v3.NewMatrix(c)
	require.NoError(Te, err)
	return chem.NewTopology(ats), coords
}

func sel(Te *testing.T, expr string, top *chem.Topology, coords *v3.Matrix, box *chem.Box) []int {
	s, err := Parse(expr)
	require.NoError(Te, err, expr)
	r, err := s.Select(top, coords, box)
	require.NoError(Te, err, expr)
	return r
}

func TestStatic(Te *testing.T) {
	top, _ := system(Te)
	cases := []struct {
		expr string
		want []int
	}{
		{"name CL", []int{4, 5, 6, 7, 8, 9, 10, 11}},
		{"resname SOL", []int{12, 13, 14}},
		{"resid 20-21", []int{12, 13, 14}},
		{"resid 1", []int{0, 1, 2, 3}},
		{"index 0:1 13", []int{0, 1, 13}},
		{"element Cl and resid 10 11", []int{4, 5}},
		{"not name CL and resname SOL", []int{12, 13, 14}},
		{"name CL or name OW and resid 21", []int{4, 5, 6, 7, 8, 9, 10, 11, 14}},
		{"(name CL or name OW) and resid 21", []int{14}},
		{"not (name C* or resname SOL)", []int{}},
		{"name C?", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
		{"all and not all", []int{}},
		{"none or index 3", []int{3}},
		{"name OW HW1", []int{12, 13, 14}},
	}
	for _, c := range cases {
		s, err := Parse(c.expr)
		require.NoError(Te, err, c.expr)
		assert.False(Te, s.Dynamic(), c.expr)
		//static selections don't need coordinates.
		r, err := s.Select(top, nil, nil)
		require.NoError(Te, err, c.expr)
		assert.Equal(Te, c.want, r, c.expr)
	}
}

func TestProp(Te *testing.T) {
	top, coords := system(Te)
	s, err := Parse("name OW and prop 80 < z")
	require.NoError(Te, err)
	assert.True(Te, s.Dynamic())
	assert.Equal(Te, "name OW and prop 80 < z", s.String())
	_, err = s.Select(top, nil, nil)
	assert.Error(Te, err)
	assert.Equal(Te, []int{12}, sel(Te, "name OW and prop 80 < z", top, coords, nil))
	assert.Equal(Te, []int{12}, sel(Te, "name OW and prop z>80", top, coords, nil))
	assert.Equal(Te, []int{14}, sel(Te, "name OW and prop z <= 30", top, coords, nil))
	assert.Equal(Te, []int{4, 5, 7, 9, 11}, sel(Te, "name CL and prop abs x <= 20.5", top, coords, nil))
	assert.Equal(Te, []int{13}, sel(Te, "resname SOL and prop x != 5", top, coords, nil))
}

func TestCylayer(Te *testing.T) {
	top, coords := system(Te)
	box := chem.OrthoBox(40, 40, 100)
	center := "name CL and cylayer 0 1.75 10 -10 (resname UNL)"
	assert.Equal(Te, []int{4, 5, 10, 11}, sel(Te, center, top, coords, box))
	assert.Equal(Te, []int{7}, sel(Te, "name CL and cylayer 1.75 3.5 10 -10 (resname UNL)", top, coords, box))
	assert.Equal(Te, []int{}, sel(Te, "name CL and cylayer 3.5 5.25 10 -10 (resname UNL)", top, coords, box))
	assert.Equal(Te, []int{8}, sel(Te, "name CL and cylayer 5.25 7 10 -10 (resname UNL)", top, coords, box))
	assert.Equal(Te, []int{4, 5, 6, 10, 11}, sel(Te, "name CL and cyzone 2 10 -10 (resname UNL)", top, coords, box))
	//the sub-selection takes the rest of the expression.
	assert.Equal(Te, []int{4, 5, 10, 11}, sel(Te, "name CL and cylayer 0 1.75 10 -10 resname UNL or name C1", top, coords, box))

	//without periodic boundaries only the atoms inside the box are found.
	assert.Equal(Te, []int{4, 5}, sel(Te, center, top, coords, nil))
	//no reference atoms, nothing selected.
	assert.Equal(Te, []int{}, sel(Te, "cylayer 0 1.75 10 -10 (resname XXX)", top, coords, box))
}

func TestCylayerShiftedWindow(Te *testing.T) {
	top, coords := system(Te)
	box := chem.OrthoBox(40, 40, 100)
	//the window is 50+5 +- 4. The atom at z=155 is an image of one at z=55.
	assert.Equal(Te, []int{7, 11}, sel(Te, "name CL and cyzone 3 9 1 (resname UNL)", top, coords, box))
	assert.Equal(Te, []int{7}, sel(Te, "name CL and cyzone 3 9 1 (resname UNL)", top, coords, nil))
}

func TestCylayerErrors(Te *testing.T) {
	top, coords := system(Te)
	s, err := Parse("name CL and cylayer 5.25 7 10 -10 (resname UNL)")
	require.NoError(Te, err)
	_, err = s.Select(top, coords, chem.OrthoBox(10, 40, 100))
	assert.Error(Te, err)
	_, err = s.Select(top, coords, chem.OrthoBox(40, 40, 15))
	assert.Error(Te, err)
	_, err = s.Select(top, v3.Zeros(3), nil)
	assert.Error(Te, err)
}

func TestParseErrors(Te *testing.T) {
	bad := []string{
		"",
		"name",
		"resid",
		"resid 5-3",
		"index a",
		"prop q < 3",
		"prop z = 3",
		"prop z < a",
		"prop z 3",
		"cylayer 2 1 10 -10 all",
		"cyzone 2 -10 10 all",
		"cylayer 0 1 10",
		"(name CL",
		"name CL )",
		"name CL and",
		"not",
		"name [",
		"foo",
	}
	for _, b := range bad {
		_, err := Parse(b)
		assert.Error(Te, err, b)
	}
}

func TestRanges(Te *testing.T) {
	r, err := parseRange("-3")
	require.NoError(Te, err)
	assert.Equal(Te, [2]int{-3, -3}, r)
	r, err = parseRange("-3:4")
	require.NoError(Te, err)
	assert.Equal(Te, [2]int{-3, 4}, r)
	r, err = parseRange("3-4")
	require.NoError(Te, err)
	assert.Equal(Te, [2]int{3, 4}, r)
}
