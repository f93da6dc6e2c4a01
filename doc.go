/*
 * doc.go, part of zonerdf.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

/*
Package chem is the root package of zonerdf. It provides the atom and topology
structures, the simulation box, the trajectory interfaces and the error types
shared by all the readers.

zonerdf computes radial distribution functions (RDFs) of ions relative to water
oxygens inside radial zones of a carbon nanotube pore. Ions are selected
dynamically: in each frame only the ions that are inside the zone contribute.

	**zonerdf packages**

	chem (this package): Atom, Topology, Box, Traj, errors.

	v3: Nx3 coordinate matrices over gonum.

	gro: GROMACS structure (and multi-frame) files.

	traj/xtc, traj/dcd, traj/stf, traj/amber: trajectory readers (dcd and stf also write).

	sel: the atom selection language, evaluated frame by frame.

	histo: histograms.

	rdf: per-frame RDFs, cumulative counts and coordination numbers.

	zone: the zone sweep that writes CSV files, plots and reports.

	chemplot: PNG plots and the HTML distribution report.

	store: SQLite database for results.

	cmd/zonerdf runs the analysis, cmd/trjconv converts trajectories to stf or dcd.

All lengths are in Angstrom. Readers of GROMACS files convert from nm.
*/
package chem
