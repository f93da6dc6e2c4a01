/*
 * open.go, part of zonerdf
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
	"path/filepath"
	"strings"

	chem "github.com/rmera/zonerdf"
	"github.com/rmera/zonerdf/gro"
	"github.com/rmera/zonerdf/traj/amber"
	"github.com/rmera/zonerdf/traj/dcd"
	"github.com/rmera/zonerdf/traj/stf"
	"github.com/rmera/zonerdf/traj/xtc"
)

// OpenTraj opens a trajectory, choosing the reader from the extension of the file name:
// xtc, dcd (or dcd.gz), gro, stf (stf, stz or stfr) and AMBER mdcrd (mdcrd, crd, or
// either with .gz). AMBER trajectories need the number of atoms, given as natoms.
func OpenTraj(name string, natoms ...int) (chem.Traj, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".gz" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(name, filepath.Ext(name)))) + ext
	}
	var t chem.Traj
	var err error
	switch ext {
	case ".xtc":
		var x *xtc.XTCObj
		x, err = xtc.New(name)
		t = x
	case ".dcd", ".dcd.gz":
		var d *dcd.DCDObj
		d, err = dcd.New(name)
		t = d
	case ".gro":
		var g *gro.Traj
		g, err = gro.New(name)
		t = g
	case ".stf", ".stz", ".stfr":
		var s *stf.StfR
		s, _, err = stf.New(name)
		t = s
	case ".mdcrd", ".crd", ".mdcrd.gz", ".crd.gz":
		if len(natoms) == 0 {
			return nil, fmt.Errorf("the number of atoms is needed to read '%s'", name)
		}
		var a *amber.CrdObj
		a, err = amber.New(name, natoms[0])
		t = a
	default:
		return nil, fmt.Errorf("unknown trajectory format for '%s'", name)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}
