/*
 * options.go, part of zonerdf
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

package rdf

import (
	"fmt"
	"math"
)

// Options for the RDF calculation.
type Options struct {
	nbins   int
	lo, hi  float64
	cutoff  float64
	exclude bool
}

// DefaultOptions returns the default options: 150 bins between 0 and 15 A,
// and a cutoff of 3.9 A for the coordination number.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.nbins = 150
	ret.lo = 0
	ret.hi = 15
	ret.cutoff = 3.9
	return ret
}

// NBins returns the number of bins and sets it, if a valid value is given.
func (o *Options) NBins(nbins ...int) int {
	ret := o.nbins
	if len(nbins) > 0 && nbins[0] > 0 {
		o.nbins = nbins[0]
	}
	return ret
}

// Range returns the distance range of the histogram and sets it if
// two values, the second larger than the first, are given.
func (o *Options) Range(r ...float64) (float64, float64) {
	lo, hi := o.lo, o.hi
	if len(r) >= 2 && r[0] >= 0 && r[1] > r[0] {
		o.lo, o.hi = r[0], r[1]
	}
	return lo, hi
}

// CoordCutoff returns the distance up to which the coordination
// number is counted, and sets it if a valid value is given.
func (o *Options) CoordCutoff(cutoff ...float64) float64 {
	ret := o.cutoff
	if len(cutoff) > 0 && cutoff[0] > 0 {
		o.cutoff = cutoff[0]
	}
	return ret
}

// ExcludeSelf returns whether pairs formed by an atom with itself
// are excluded, and sets the value to the one given, if any.
func (o *Options) ExcludeSelf(exclude ...bool) bool {
	ret := o.exclude
	if len(exclude) > 0 {
		o.exclude = exclude[0]
	}
	return ret
}

// Width returns the width of each bin.
func (o *Options) Width() float64 {
	return (o.hi - o.lo) / float64(o.nbins)
}

// CutoffBin returns the index of the last bin that lies completely
// below the coordination cutoff (38 for the defaults).
func (o *Options) CutoffBin() int {
	x := (o.cutoff - o.lo) / o.Width()
	//3.9/0.1 is not exactly 39 in floating point.
	n := int(math.Floor(x+1e-6)) - 1
	if n < 0 {
		return 0
	}
	if n >= o.nbins {
		return o.nbins - 1
	}
	return n
}

func (o *Options) String() string {
	return fmt.Sprintf("%d bins in [%.3f, %.3f) A, coordination cutoff %.3f A (bin %d)", o.nbins, o.lo, o.hi, o.cutoff, o.CutoffBin())
}
