/*
 * analyser.go, part of zonerdf
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
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	chem "github.com/rmera/zonerdf"
	"github.com/rmera/zonerdf/chemplot"
	"github.com/rmera/zonerdf/gro"
	"github.com/rmera/zonerdf/rdf"
	"github.com/rmera/zonerdf/sel"
	"github.com/rmera/zonerdf/store"
	v3 "github.com/rmera/zonerdf/v3"
)

// LogV logs d if the verbosity level v is at least vref.
func LogV(v int, vref int, d ...interface{}) {
	if v >= vref {
		log.Println(d...)
	}
}

// ZoneResult is the result of the analysis of one region.
type ZoneResult struct {
	Region Region
	*rdf.Result
}

// Analyser runs the RDF analysis of the regions of a system over a trajectory.
type Analyser struct {
	cfg   *Config
	top   *chem.Topology
	box   *chem.Box //from the structure file, used for frames without box.
	o     *rdf.Options
	db    *store.DB
	runID string
}

// New returns an Analyser for the given configuration. It creates the output directory,
// reads the topology from the structure file and, if the configuration
// asks for it, opens the results database and registers a new run.
func New(cfg *Config) (*Analyser, error) {
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("Check: %w", err)
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, err
	}
	top, _, box, err := gro.Read(cfg.Structure)
	if err != nil {
		return nil, fmt.Errorf("reading structure %s: %w", cfg.Structure, err)
	}
	A := &Analyser{cfg: cfg, top: top, box: box, o: cfg.Options()}
	if cfg.DB == "" {
		return A, nil
	}
	A.db, err = store.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	A.runID, err = A.db.NewRun(cfg.Structure, cfg.Trajectory)
	if err != nil {
		A.db.Close()
		return nil, err
	}
	LogV(cfg.Verbose, 1, "Results will be stored in", cfg.DB, "with run ID", A.runID)
	return A, nil
}

// Close releases the results database, if any.
func (A *Analyser) Close() error {
	if A.db == nil {
		return nil
	}
	return A.db.Close()
}

// Topology returns the topology of the system.
func (A *Analyser) Topology() *chem.Topology {
	return A.top
}

// RunID returns the ID of the run in the results database, or an empty string if
// results are not stored.
func (A *Analyser) RunID() string {
	return A.runID
}

// frameBox returns the box for a frame with the box vectors vecs. Frames without
// box information get the box of the structure file.
func (A *Analyser) frameBox(vecs []float64) (*chem.Box, error) {
	b, err := chem.NewBox(vecs)
	if err != nil {
		return nil, err
	}
	if !b.Valid() {
		b = A.box
	}
	if !b.Valid() {
		return nil, fmt.Errorf("neither the frame nor the structure file %s have a periodic box", A.cfg.Structure)
	}
	return b, nil
}

// AnalyzeRDF calculates the RDF of the partners around the ions of a region, over
// the frame range of the region. Both selections are evaluated again
// for every frame, if they depend on the coordinates. Frames with no ions are skipped.
// It returns an error wrapping rdf.ErrNoFrames if no frame had ions.
func (A *Analyser) AnalyzeRDF(ctx context.Context, r Region) (*rdf.Result, error) {
	ions, err := sel.Parse(r.IonExpr(A.cfg.Pore))
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", r.Name, err)
	}
	partners, err := sel.Parse(r.Partners)
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", r.Name, err)
	}
	start, end := r.FrameRange(A.cfg.Frames)
	traj, err := OpenTraj(A.cfg.Trajectory, A.top.Len())
	if err != nil {
		return nil, err
	}
	defer traj.Close()
	if traj.Len() != A.top.Len() {
		return nil, fmt.Errorf("the trajectory %s has %d atoms, but the structure %s has %d", A.cfg.Trajectory, traj.Len(), A.cfg.Structure, A.top.Len())
	}
	var ionindexes, partindexes []int
	if !ions.Dynamic() {
		if ionindexes, err = ions.Select(A.top, nil, nil); err != nil {
			return nil, err
		}
	}
	if !partners.Dynamic() {
		if partindexes, err = partners.Select(A.top, nil, nil); err != nil {
			return nil, err
		}
	}
	LogV(A.cfg.Verbose, 1, "Analysing region", r.Name, "with selection:", ions.String())
	coords := v3.Zeros(traj.Len())
	vecs := make([]float64, 9)
	acc := rdf.NewAccumulator(A.o)
reading:
	for i := 0; end < 0 || i < end; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var c *v3.Matrix
		if i >= start {
			c = coords
		}
		clear(vecs)
		err := traj.Next(c, vecs)
		if err != nil {
			switch err := err.(type) {
			case chem.LastFrameError:
				break reading
			case chem.Error:
				err.Decorate(fmt.Sprintf("AnalyzeRDF: Failed while reading the %d th frame", i))
				return nil, err
			default:
				return nil, err
			}
		}
		if c == nil {
			continue
		}
		LogV(A.cfg.Verbose, 2, "Analysing frame", i)
		box, err := A.frameBox(vecs)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if ions.Dynamic() {
			if ionindexes, err = ions.Select(A.top, coords, box); err != nil {
				return nil, fmt.Errorf("frame %d: %w", i, err)
			}
		}
		if partners.Dynamic() {
			if partindexes, err = partners.Select(A.top, coords, box); err != nil {
				return nil, fmt.Errorf("frame %d: %w", i, err)
			}
		}
		f, err := rdf.Frame(coords, box, ionindexes, partindexes, A.o)
		if errors.Is(err, rdf.ErrNoIons) {
			LogV(A.cfg.Verbose, 2, "No ions in frame", i, "skipping")
			acc.Skip()
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if err := acc.Add(f, i); err != nil {
			return nil, err
		}
	}
	res, err := acc.Result()
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", r.Name, err)
	}
	log.Printf("Average coordination number for %s: %.3f (%d frames, %d skipped)", r.Name, res.MeanCoordination(), res.Frames, res.Skipped)
	return res, nil
}

func (A *Analyser) outName(name, suffix string) string {
	return filepath.Join(A.cfg.OutDir, name+suffix)
}

// WriteResults writes the RDF, cumulative RDF and coordination numbers of the region
// name as CSV files in the output directory.
func (A *Analyser) WriteResults(name string, res *rdf.Result) error {
	if err := writeFile(A.outName(name, "_rdf.csv"), res, WriteRDF); err != nil {
		return err
	}
	if err := writeFile(A.outName(name, "_coordno.csv"), res, WriteCoordination); err != nil {
		return err
	}
	return writeFile(A.outName(name, "_cumulative.csv"), res, WriteCumulative)
}

// PlotResults saves PNG plots of the RDF and the cumulative RDF of the region name
// in the output directory.
func (A *Analyser) PlotResults(name string, res *rdf.Result) error {
	if err := chemplot.RDFPlot(res.Bins, res.RDF, name, A.outName(name, "_rdf.png")); err != nil {
		return err
	}
	return chemplot.CumulativePlot(res.Bins, res.Cumulative, name, A.outName(name, "_cumuav.png"))
}

// Series returns the results in the form needed by the chemplot functions.
func Series(results []ZoneResult) []chemplot.Series {
	ret := make([]chemplot.Series, 0, len(results))
	for _, z := range results {
		ret = append(ret, chemplot.Series{
			Name:         z.Region.Name,
			Bins:         z.Bins,
			RDF:          z.RDF,
			Cumulative:   z.Cumulative,
			Coordination: z.Coordination,
		})
	}
	return ret
}

// RunAnalysis analyses the regions one after the other, writing the CSV files and
// plots for each. Regions where no frame contained ions are skipped. When all regions are done,
// a plot comparing their RDFs and, if the configuration asks for it, an HTML page
// with the distributions are written.
func (A *Analyser) RunAnalysis(ctx context.Context, regions []Region) ([]ZoneResult, error) {
	var ret []ZoneResult
	for _, r := range regions {
		if err := r.Check(A.cfg.Pore); err != nil {
			return ret, err
		}
		res, err := A.AnalyzeRDF(ctx, r)
		if errors.Is(err, rdf.ErrNoFrames) {
			log.Printf("No frames with ions for region %s, skipping it", r.Name)
			continue
		}
		if err != nil {
			return ret, err
		}
		if err := A.WriteResults(r.Name, res); err != nil {
			return ret, err
		}
		if err := A.PlotResults(r.Name, res); err != nil {
			return ret, fmt.Errorf("plotting region %s: %w", r.Name, err)
		}
		if A.db != nil {
			if err := A.db.SaveZone(A.runID, r.Name, r.IonExpr(A.cfg.Pore), r.Partners, res); err != nil {
				return ret, err
			}
		}
		ret = append(ret, ZoneResult{Region: r, Result: res})
	}
	if len(ret) == 0 {
		log.Printf("No region produced results")
		return ret, nil
	}
	series := Series(ret)
	if err := chemplot.ZonesPlot(series, A.outName("rdf", "_zones.png")); err != nil {
		return ret, err
	}
	if !A.cfg.HTML {
		return ret, nil
	}
	name := A.outName("distribution", ".html")
	f, err := os.Create(name)
	if err != nil {
		return ret, err
	}
	if err := chemplot.DistributionPage(f, series); err != nil {
		f.Close()
		return ret, fmt.Errorf("writing %s: %w", name, err)
	}
	return ret, f.Close()
}
