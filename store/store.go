/*
 * store.go, part of zonerdf
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

// Package store keeps the results of zone analyses in a SQLite database,
// so runs over different trajectories can be compared later.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rmera/zonerdf/histo"
	"github.com/rmera/zonerdf/rdf"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	structure  TEXT NOT NULL,
	trajectory TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS zones (
	run_id            TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	name              TEXT NOT NULL,
	ion_selection     TEXT NOT NULL,
	partner_selection TEXT NOT NULL,
	frames            INTEGER NOT NULL,
	skipped           INTEGER NOT NULL,
	mean_coordination REAL,
	sd_coordination   REAL,
	bins_json         TEXT NOT NULL,
	rdf_json          TEXT NOT NULL,
	cumulative_json   TEXT NOT NULL,
	counts_json       TEXT NOT NULL,
	PRIMARY KEY (run_id, name)
);
CREATE TABLE IF NOT EXISTS coordination (
	run_id TEXT NOT NULL,
	zone   TEXT NOT NULL,
	frame  INTEGER NOT NULL,
	value  REAL NOT NULL,
	PRIMARY KEY (run_id, zone, frame),
	FOREIGN KEY (run_id, zone) REFERENCES zones(run_id, name) ON DELETE CASCADE
);`

// DB is a results database.
type DB struct {
	db *sql.DB
}

// Run is one execution of the analysis.
type Run struct {
	RunID      string
	Structure  string
	Trajectory string
	CreatedAt  int64
}

// Zone is the stored result for one zone of a run.
type Zone struct {
	RunID              string
	Name               string
	Ions               string
	Partners           string
	Frames             int
	Skipped            int
	MeanCoordination   float64
	StdDevCoordination float64
	Bins               []float64
	RDF                []float64
	Cumulative         []float64
	Counts             *histo.Data
}

// Open opens (creating it if needed) the database at path. ":memory:" gives a
// temporary database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	//each connection to a memory database is a different database.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// NewRun registers a new run and returns its ID.
func (d *DB) NewRun(structure, trajectory string) (string, error) {
	id := uuid.New().String()
	_, err := d.db.Exec(`INSERT INTO runs (run_id, structure, trajectory, created_at) VALUES (?, ?, ?, ?)`,
		id, structure, trajectory, time.Now().UnixNano())
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// Runs returns all the runs, the newest first.
func (d *DB) Runs() ([]Run, error) {
	rows, err := d.db.Query(`SELECT run_id, structure, trajectory, created_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	var ret []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Structure, &r.Trajectory, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		ret = append(ret, r)
	}
	return ret, rows.Err()
}

func marshal(v ...any) ([]string, error) {
	ret := make([]string, len(v))
	for i, w := range v {
		b, err := json.Marshal(w)
		if err != nil {
			return nil, err
		}
		ret[i] = string(b)
	}
	return ret, nil
}

// SaveZone stores the result of the zone name, with the given selections, for the run runID.
// A zone saved twice for the same run replaces the previous result.
func (d *DB) SaveZone(runID, name, ions, partners string, res *rdf.Result) error {
	js, err := marshal(res.Bins, res.RDF, res.Cumulative, res.Counts)
	if err != nil {
		return fmt.Errorf("marshal zone %s: %w", name, err)
	}
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM zones WHERE run_id = ? AND name = ?`, runID, name); err != nil {
		return fmt.Errorf("delete zone %s: %w", name, err)
	}
	_, err = tx.Exec(`
		INSERT INTO zones (
			run_id, name, ion_selection, partner_selection, frames, skipped,
			mean_coordination, sd_coordination, bins_json, rdf_json, cumulative_json, counts_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, name, ions, partners, res.Frames, res.Skipped,
		res.MeanCoordination(), res.StdDevCoordination(), js[0], js[1], js[2], js[3])
	if err != nil {
		return fmt.Errorf("insert zone %s: %w", name, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO coordination (run_id, zone, frame, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	if len(res.FrameIndexes) != len(res.Coordination) {
		return fmt.Errorf("zone %s: %d frame numbers for %d coordination numbers", name, len(res.FrameIndexes), len(res.Coordination))
	}
	for i, v := range res.Coordination {
		if _, err := stmt.Exec(runID, name, res.FrameIndexes[i], v); err != nil {
			return fmt.Errorf("insert coordination for zone %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// Zones returns the zones of a run, in the order they were saved.
func (d *DB) Zones(runID string) ([]*Zone, error) {
	rows, err := d.db.Query(`
		SELECT run_id, name, ion_selection, partner_selection, frames, skipped,
		       mean_coordination, sd_coordination, bins_json, rdf_json, cumulative_json, counts_json
		FROM zones
		WHERE run_id = ?
		ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query zones: %w", err)
	}
	defer rows.Close()
	var ret []*Zone
	for rows.Next() {
		var z Zone
		var bins, rdfs, cumu, counts string
		err := rows.Scan(&z.RunID, &z.Name, &z.Ions, &z.Partners, &z.Frames, &z.Skipped,
			&z.MeanCoordination, &z.StdDevCoordination, &bins, &rdfs, &cumu, &counts)
		if err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		z.Counts = new(histo.Data)
		for _, f := range []struct {
			s string
			v any
		}{{bins, &z.Bins}, {rdfs, &z.RDF}, {cumu, &z.Cumulative}, {counts, z.Counts}} {
			if err := json.Unmarshal([]byte(f.s), f.v); err != nil {
				return nil, fmt.Errorf("zone %s: %w", z.Name, err)
			}
		}
		ret = append(ret, &z)
	}
	return ret, rows.Err()
}

// Coordination returns the coordination numbers of a zone and the trajectory
// frames they belong to, in frame order.
func (d *DB) Coordination(runID, zone string) ([]int, []float64, error) {
	rows, err := d.db.Query(`SELECT frame, value FROM coordination WHERE run_id = ? AND zone = ? ORDER BY frame`, runID, zone)
	if err != nil {
		return nil, nil, fmt.Errorf("query coordination: %w", err)
	}
	defer rows.Close()
	var frames []int
	var values []float64
	for rows.Next() {
		var f int
		var v float64
		if err := rows.Scan(&f, &v); err != nil {
			return nil, nil, err
		}
		frames = append(frames, f)
		values = append(values, v)
	}
	return frames, values, rows.Err()
}
