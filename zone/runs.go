/*
 * runs.go, part of zonerdf
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
	"io"
	"time"

	"github.com/rmera/zonerdf/store"
)

// ListRuns writes to w a summary of every run stored in the database dbname,
// the newest first, with the mean coordination number of each of its zones.
func ListRuns(w io.Writer, dbname string) error {
	db, err := store.Open(dbname)
	if err != nil {
		return err
	}
	defer db.Close()
	runs, err := db.Runs()
	if err != nil {
		return err
	}
	for _, r := range runs {
		created := time.Unix(0, r.CreatedAt).UTC().Format(time.RFC3339)
		fmt.Fprintf(w, "%s %s %s %s\n", r.RunID, created, r.Structure, r.Trajectory)
		zones, err := db.Zones(r.RunID)
		if err != nil {
			return err
		}
		for _, z := range zones {
			frames, _, err := db.Coordination(r.RunID, z.Name)
			if err != nil {
				return err
			}
			first, last := -1, -1
			if len(frames) > 0 {
				first, last = frames[0], frames[len(frames)-1]
			}
			fmt.Fprintf(w, "  %-12s frames %d-%d (%d used, %d skipped) coordination number: %.3f +/- %.3f\n",
				z.Name, first, last, z.Frames, z.Skipped, z.MeanCoordination, z.StdDevCoordination)
		}
	}
	return nil
}
