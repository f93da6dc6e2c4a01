/*
 * main.go, part of zonerdf
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

// zonerdf calculates the RDF of chloride ions around water oxygens in radial
// zones of a nanotube pore, and the corresponding coordination numbers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/rmera/zonerdf/zone"
)

func CErr(err error, info string) {
	if err != nil {
		log.Fatal(err, info)
	}
}

func main() {
	config := flag.String("config", "", "YAML file with the analysis parameters and regions. Flags given explicitly override its values")
	outdir := flag.String("outdir", "analysis_results", "directory for the CSV files and plots")
	start := flag.Int("start", 20000, "first frame to analyse (0-based)")
	end := flag.Int("end", 25000, "frame where the analysis stops (not included). A negative number means the end of the trajectory")
	bins := flag.Int("bins", 150, "number of bins of the RDF")
	rmax := flag.Float64("rmax", 15, "largest distance, in A, of the RDF")
	cutoff := flag.Float64("cutoff", 3.9, "distance, in A, up to which the coordination number is counted")
	db := flag.String("db", "", "SQLite database where the results are also stored")
	html := flag.Bool("html", true, "write an HTML page with the distributions of all regions")
	verbose := flag.Int("verbose", 0, "Level of verbosity, the higher, the more verbose.")
	runs := flag.Bool("runs", false, "list the runs stored in the -db database and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [flags] structure.gro trajectory\n  %s -runs -db results.db\n\nflags:\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *runs {
		if *db == "" {
			log.Fatal("-runs needs a database (-db)")
		}
		CErr(zone.ListRuns(os.Stdout, *db), " listing runs")
		return
	}
	args := flag.Args()
	var cfg *zone.Config
	var err error
	switch {
	case *config != "":
		cfg, err = zone.NewConfig(*config)
		CErr(err, "reading the configuration")
		if len(args) == 2 {
			cfg.Structure, cfg.Trajectory = args[0], args[1]
		} else if len(args) != 0 {
			flag.Usage()
			os.Exit(1)
		}
	case len(args) == 2:
		cfg = zone.Default(args[0], args[1])
	default:
		flag.Usage()
		os.Exit(1)
	}
	//only the flags given override the configuration file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "outdir":
			cfg.OutDir = *outdir
		case "start":
			cfg.Frames[0] = *start
		case "end":
			cfg.Frames[1] = *end
		case "bins":
			cfg.Bins = *bins
		case "rmax":
			cfg.Range[1] = *rmax
		case "cutoff":
			cfg.Cutoff = *cutoff
		case "db":
			cfg.DB = *db
		case "html":
			cfg.HTML = *html
		case "verbose":
			cfg.Verbose = *verbose
		}
	})
	zone.LogV(cfg.Verbose, 1, "Structure:", cfg.Structure, "Trajectory:", cfg.Trajectory, "Frames:", cfg.Frames)
	A, err := zone.New(cfg)
	CErr(err, "setting up the analysis")
	defer A.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := A.RunAnalysis(ctx, cfg.Regions)
	if err != nil {
		A.Close()
		log.Fatal(err, " running the analysis")
	}
	for _, r := range results {
		fmt.Printf("%-12s frames: %6d skipped: %6d coordination number: %.3f +/- %.3f\n", r.Region.Name, r.Frames, r.Skipped, r.MeanCoordination(), r.StdDevCoordination())
	}
	zone.LogV(cfg.Verbose, 1, "Results written to", cfg.OutDir)
}
