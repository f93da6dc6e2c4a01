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

// trjconv converts a trajectory in any of the formats zonerdf reads into an stf
// or a DCD file, optionally keeping only a range of the frames.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	chem "github.com/rmera/zonerdf"
	"github.com/rmera/zonerdf/traj/dcd"
	"github.com/rmera/zonerdf/traj/stf"
	v3 "github.com/rmera/zonerdf/v3"
	"github.com/rmera/zonerdf/zone"
)

// writer is implemented by the stf and DCD writers.
type writer interface {
	WNext(*v3.Matrix, ...[]float64) error
	Close() error
}

func newWriter(name, source string, natoms, start, skip int) (writer, error) {
	lname := strings.ToLower(name)
	var w writer
	var err error
	switch {
	case strings.HasSuffix(lname, ".dcd"):
		var d *dcd.DCDWObj
		d, err = dcd.NewWriter(name, natoms, true)
		w = d
	case strings.HasPrefix(filepath.Ext(lname), ".stf"), strings.HasSuffix(lname, ".stz"):
		header := map[string]string{
			"source": filepath.Base(source),
			"first":  strconv.Itoa(start),
			"stride": strconv.Itoa(skip),
		}
		var s *stf.StfW
		s, err = stf.NewWriter(name, natoms, header)
		w = s
	default:
		return nil, fmt.Errorf("unknown output format for '%s'. Use stf (stf, stfr, stz) or dcd", name)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// convert writes every skip-th frame of the range [start, end) of in to out.
// A negative end means the end of the trajectory. It returns the number of frames written.
func convert(in chem.Traj, out writer, start, end, skip int, verbose int) (int, error) {
	coords := v3.Zeros(in.Len())
	box := make([]float64, 9)
	written := 0
	for i := 0; end < 0 || i < end; i++ {
		var c *v3.Matrix
		if i >= start && (i-start)%skip == 0 {
			c = coords
		}
		clear(box)
		err := in.Next(c, box)
		if err != nil {
			switch err := err.(type) {
			case chem.LastFrameError:
				return written, nil
			case chem.Error:
				err.Decorate(fmt.Sprintf("convert: Failed while reading the %d th frame", i))
				return written, err
			default:
				return written, err
			}
		}
		if c == nil {
			continue
		}
		zone.LogV(verbose, 2, "Writing frame", i)
		if err := out.WNext(c, box); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func CErr(err error, info string) {
	if err != nil {
		log.Fatal(err, info)
	}
}

func main() {
	start := flag.Int("start", 0, "first frame to write (0-based)")
	end := flag.Int("end", -1, "frame where the conversion stops (not included). A negative number means the end of the trajectory")
	skip := flag.Int("skip", 1, "write only every skip-th frame")
	natoms := flag.Int("natoms", 0, "number of atoms per frame, only needed for AMBER (mdcrd) input")
	verbose := flag.Int("verbose", 0, "Level of verbosity, the higher, the more verbose.")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [flags] input output.stf\n\nflags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 || *skip < 1 || *start < 0 {
		flag.Usage()
		os.Exit(1)
	}
	in, err := zone.OpenTraj(args[0], *natoms)
	CErr(err, "opening "+args[0])
	defer in.Close()
	out, err := newWriter(args[1], args[0], in.Len(), *start, *skip)
	CErr(err, "creating "+args[1])
	n, err := convert(in, out, *start, *end, *skip, *verbose)
	if err2 := out.Close(); err == nil {
		err = err2
	}
	CErr(err, "converting "+args[0])
	log.Printf("%d frames written to %s", n, args[1])
}
