/*
 * rdf.go, part of zonerdf
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

// Package rdf computes radial distribution functions between two
// sets of atoms, one frame at a time, and averages them over a trajectory.
package rdf

import (
	"errors"
	"fmt"
	"math"

	chem "github.com/rmera/zonerdf"
	"github.com/rmera/zonerdf/histo"
	v3 "github.com/rmera/zonerdf/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoIons is returned by Frame when the reference selection is empty.
var ErrNoIons = errors.New("rdf: no reference atoms in the frame")

// ErrNoFrames is returned by Accumulator.Result when no frame was added.
var ErrNoFrames = errors.New("rdf: no frames were accumulated")

// FrameResult is the RDF of one frame.
type FrameResult struct {
	Count        *histo.Data //pair counts per bin
	RDF          []float64
	Cumulative   []float64 //cumulative pair count per reference atom
	Coordination float64   //Cumulative at the cutoff bin
	NIons        int
	NPartners    int
	Volume       float64
}

// Frame calculates the RDF of the partners atoms around the ions atoms for one
// set of coordinates. The box must be periodic, as its volume gives the density.
// It returns ErrNoIons if the ions slice is empty.
func Frame(coords *v3.Matrix, box *chem.Box, ions, partners []int, options ...*Options) (*FrameResult, error) {
	var o *Options
	if len(options) > 0 {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if len(ions) == 0 {
		return nil, ErrNoIons
	}
	if !box.Valid() {
		return nil, fmt.Errorf("rdf: a periodic box is needed")
	}
	lo, hi := o.Range()
	dists := make([]float64, 0, len(ions)*8)
	npairs := 0
	for _, i := range ions {
		ci := coords.Vec(i)
		for _, j := range partners {
			if o.exclude && i == j {
				continue
			}
			npairs++
			d := box.Dist(ci, coords.Vec(j))
			if d <= hi {
				dists = append(dists, d)
			}
		}
	}
	ret := &FrameResult{
		Count:     histo.NewUniform(o.nbins, lo, hi),
		NIons:     len(ions),
		NPartners: len(partners),
		Volume:    box.Volume(),
	}
	ret.Count.Accumulate(dists)
	ret.RDF = normalize(ret.Count, float64(npairs)/ret.Volume)
	ret.Cumulative = ret.Count.Cumulative()
	floats.Scale(1/float64(len(ions)), ret.Cumulative)
	ret.Coordination = ret.Cumulative[o.CutoffBin()]
	return ret, nil
}

// normalize divides the counts by the number of pairs expected in each
// spherical shell for a uniform system with the given pair density.
func normalize(count *histo.Data, density float64) []float64 {
	div := count.CopyDividers()
	ret := count.Copy()
	if density == 0 {
		return make([]float64, len(ret))
	}
	for i := range ret {
		vol := (4.0 / 3.0) * math.Pi * (math.Pow(div[i+1], 3) - math.Pow(div[i], 3))
		ret[i] /= density * vol
	}
	return ret
}

// Accumulator averages the RDF over several frames.
type Accumulator struct {
	o       *Options
	counts  *histo.Data
	rdf     []float64
	cumu    []float64
	coord   []float64
	nions   []float64
	frames  []int
	skipped int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator(options ...*Options) *Accumulator {
	A := new(Accumulator)
	if len(options) > 0 {
		A.o = options[0]
	} else {
		A.o = DefaultOptions()
	}
	lo, hi := A.o.Range()
	A.counts = histo.NewUniform(A.o.nbins, lo, hi)
	A.rdf = make([]float64, A.o.nbins)
	A.cumu = make([]float64, A.o.nbins)
	return A
}

// Add adds a frame to the average. frame is the number of the frame in the
// trajectory. If not given, frames are numbered from 0 in the order they were
// added or skipped.
func (A *Accumulator) Add(f *FrameResult, frame ...int) error {
	if f.Count.Len() != A.o.nbins {
		return fmt.Errorf("rdf: frame with %d bins added to an accumulator with %d", f.Count.Len(), A.o.nbins)
	}
	A.counts.Add(A.counts, f.Count)
	floats.Add(A.rdf, f.RDF)
	floats.Add(A.cumu, f.Cumulative)
	A.coord = append(A.coord, f.Coordination)
	A.nions = append(A.nions, float64(f.NIons))
	if len(frame) > 0 {
		A.frames = append(A.frames, frame[0])
	} else {
		A.frames = append(A.frames, len(A.coord)-1+A.skipped)
	}
	return nil
}

// Skip records a frame that could not be used.
func (A *Accumulator) Skip() {
	A.skipped++
}

// Frames returns the number of frames added.
func (A *Accumulator) Frames() int {
	return len(A.coord)
}

// Skipped returns the number of frames skipped.
func (A *Accumulator) Skipped() int {
	return A.skipped
}

// Result returns the frame-averaged RDF. It returns ErrNoFrames if no frame was added.
func (A *Accumulator) Result() (*Result, error) {
	n := len(A.coord)
	if n == 0 {
		return nil, ErrNoFrames
	}
	R := &Result{
		Bins:         A.counts.Centers(),
		RDF:          make([]float64, A.o.nbins),
		Cumulative:   make([]float64, A.o.nbins),
		Coordination: append([]float64(nil), A.coord...),
		FrameIndexes: append([]int(nil), A.frames...),
		Counts:       histo.NewData(A.counts.CopyDividers(), nil),
		Frames:       n,
		Skipped:      A.skipped,
		MeanIons:     stat.Mean(A.nions, nil),
	}
	R.Counts.Add(R.Counts, A.counts)
	floats.ScaleTo(R.RDF, 1/float64(n), A.rdf)
	floats.ScaleTo(R.Cumulative, 1/float64(n), A.cumu)
	return R, nil
}

// Result is the RDF averaged over a trajectory.
type Result struct {
	Bins         []float64   //bin centers
	RDF          []float64   //average g(r)
	Cumulative   []float64   //average cumulative count per ion
	Coordination []float64   //coordination number of each frame used
	FrameIndexes []int       //trajectory frame of each Coordination value
	Counts       *histo.Data //pair counts summed over all frames
	Frames       int
	Skipped      int
	MeanIons     float64
}

// MeanCoordination returns the average coordination number.
func (R *Result) MeanCoordination() float64 {
	return stat.Mean(R.Coordination, nil)
}

// StdDevCoordination returns the standard deviation of the coordination number,
// or 0 if only one frame was used.
func (R *Result) StdDevCoordination() float64 {
	if len(R.Coordination) < 2 {
		return 0
	}
	return stat.StdDev(R.Coordination, nil)
}
