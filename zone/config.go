/*
 * config.go, part of zonerdf
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
	"bufio"
	"fmt"
	"os"

	"github.com/rmera/zonerdf/rdf"
	"gopkg.in/yaml.v3"
)

// Config contains the parameters of an analysis. It can be obtained from
// a YAML file with New, from Default, or filled by hand, in which case
// Check should be called before using it.
type Config struct {
	// Structure is the GRO file with the topology.
	Structure string `yaml:"structure"`

	// Trajectory is the XTC, DCD, STF, AMBER or GRO trajectory.
	Trajectory string `yaml:"trajectory"`

	// OutDir is the directory for the CSV files and plots.
	OutDir string `yaml:"outdir"`

	// Pore selects the atoms of the nanotube, used by regions with a radial range.
	Pore string `yaml:"pore"`

	Regions []Region `yaml:"regions"`

	// Bins is the number of bins of the RDF.
	Bins int `yaml:"bins"`

	// Range is the distance range of the RDF, in A.
	Range [2]float64 `yaml:"range"`

	// Cutoff is the distance, in A, up to which the coordination number is counted.
	Cutoff float64 `yaml:"cutoff"`

	// Frames is the [start, end) frame range for regions that don't set their own.
	Frames [2]int `yaml:"frame_range"`

	// ExcludeSelf excludes pairs of an atom with itself.
	ExcludeSelf bool `yaml:"exclude_self"`

	// DB, if not empty, is a SQLite database where the results are also stored.
	DB string `yaml:"db"`

	// HTML produces an interactive page with the results of all regions.
	HTML bool `yaml:"html"`

	Verbose int `yaml:"verbose"`
}

// Default returns the default configuration for the given files.
func Default(structure, trajectory string) *Config {
	return &Config{
		Structure:  structure,
		Trajectory: trajectory,
		OutDir:     "analysis_results",
		Pore:       "resname UNL",
		Regions:    DefaultRegions(),
		Bins:       150,
		Range:      [2]float64{0, 15},
		Cutoff:     3.9,
		Frames:     [2]int{20000, 25000},
		HTML:       true,
	}
}

// NewConfig opens and decodes the specified configuration file. The file must be
// a YAML file. Fields not present in the file keep their default values.
// NewConfig calls Check on the result.
func NewConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := Default("", "")
	dec := yaml.NewDecoder(bufio.NewReader(f))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := c.Check(); err != nil {
		return nil, fmt.Errorf("Check: %w", err)
	}
	return c, nil
}

// Check returns an error if a field doesn't meet the requirements.
func (c *Config) Check() error {
	if c.Structure == "" || c.Trajectory == "" {
		return fmt.Errorf("both a structure and a trajectory are needed")
	}
	if c.OutDir == "" {
		return fmt.Errorf("the output directory can't be empty")
	}
	if c.Bins <= 0 {
		return fmt.Errorf("the number of bins must be positive, got %d", c.Bins)
	}
	if c.Range[0] < 0 || c.Range[1] <= c.Range[0] {
		return fmt.Errorf("invalid RDF range %v", c.Range)
	}
	if c.Cutoff <= c.Range[0] || c.Cutoff > c.Range[1] {
		return fmt.Errorf("the cutoff (%g) must be inside the RDF range %v", c.Cutoff, c.Range)
	}
	if err := checkFrames(c.Frames[:]); err != nil {
		return err
	}
	if len(c.Regions) == 0 {
		return fmt.Errorf("no regions given")
	}
	names := make(map[string]bool, len(c.Regions))
	for _, r := range c.Regions {
		if names[r.Name] {
			return fmt.Errorf("repeated region name '%s'", r.Name)
		}
		names[r.Name] = true
		if err := r.Check(c.Pore); err != nil {
			return err
		}
	}
	return nil
}

// Options returns the RDF options corresponding to the configuration.
func (c *Config) Options() *rdf.Options {
	o := rdf.DefaultOptions()
	o.NBins(c.Bins)
	o.Range(c.Range[0], c.Range[1])
	o.CoordCutoff(c.Cutoff)
	o.ExcludeSelf(c.ExcludeSelf)
	return o
}
