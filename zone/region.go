/*
 * region.go, part of zonerdf
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package zone

import (
	"fmt"
	"strings"

	"github.com/rmera/zonerdf/sel"
)

// Region is one zone of the system for which an RDF is calculated.
type Region struct {
	// Name is used for the output files, so it can't contain path separators.
	Name string `yaml:"name"`

	// Ions selects the atoms at the center of the RDF.
	Ions string `yaml:"ion_selection"`

	// Partners selects the atoms counted around the ions.
	Partners string `yaml:"partner_selection"`

	// Radial, if given, is a [lower, upper] radial range in A. The ions
	// selection is then restricted to the cylindrical layer of the pore
	// between those radii.
	Radial []float64 `yaml:"region,omitempty"`

	// Frames is an optional half-open [start, end) frame range. An end
	// lower than 0 means the last frame of the trajectory.
	Frames []int `yaml:"frame_range,omitempty"`
}

// DefaultRegions returns the bulk and the four radial layers of the pore.
func DefaultRegions() []Region {
	layer := func(name string, lo, hi float64) Region {
		return Region{
			Name:     name,
			Ions:     fmt.Sprintf("name CL and cylayer %g %g 10 -10 (resname UNL)", lo, hi),
			Partners: "name OW",
		}
	}
	return []Region{
		{Name: "bulk", Ions: "name CL and prop 80 < z", Partners: "name OW"},
		layer("center", 0, 1.75),
		layer("midinner", 1.75, 3.5),
		layer("midouter", 3.5, 5.25),
		layer("interface", 5.25, 7),
	}
}

// IonExpr returns the selection for the ions, restricted to the
// radial range of the region, if any. pore selects the atoms whose
// center of geometry defines the axis of the pore.
func (R Region) IonExpr(pore string) string {
	if len(R.Radial) != 2 {
		return R.Ions
	}
	return fmt.Sprintf("%s and cylayer %g %g 10 -10 (%s)", R.Ions, R.Radial[0], R.Radial[1], pore)
}

// FrameRange returns the frame range of the region, or def if the region doesn't set one.
func (R Region) FrameRange(def [2]int) (int, int) {
	if len(R.Frames) == 2 {
		return R.Frames[0], R.Frames[1]
	}
	return def[0], def[1]
}

// Check returns an error if the region is not valid.
func (R Region) Check(pore string) error {
	if R.Name == "" || strings.ContainsAny(R.Name, `/\`) {
		return fmt.Errorf("invalid region name '%s'", R.Name)
	}
	if len(R.Radial) != 0 {
		if len(R.Radial) != 2 || R.Radial[0] < 0 || R.Radial[1] <= R.Radial[0] {
			return fmt.Errorf("region %s: the radial range must be [lower, upper] with 0 <= lower < upper, got %v", R.Name, R.Radial)
		}
	}
	if len(R.Frames) != 0 {
		if err := checkFrames(R.Frames); err != nil {
			return fmt.Errorf("region %s: %w", R.Name, err)
		}
	}
	if _, err := sel.Parse(R.IonExpr(pore)); err != nil {
		return fmt.Errorf("region %s: %w", R.Name, err)
	}
	if _, err := sel.Parse(R.Partners); err != nil {
		return fmt.Errorf("region %s: %w", R.Name, err)
	}
	return nil
}

func checkFrames(f []int) error {
	if len(f) != 2 {
		return fmt.Errorf("the frame range must be [start, end), got %v", f)
	}
	if f[0] < 0 {
		return fmt.Errorf("the first frame must be 0 or larger, got %d", f[0])
	}
	if f[1] >= 0 && f[1] <= f[0] {
		return fmt.Errorf("the frame range [%d, %d) is empty", f[0], f[1])
	}
	return nil
}
