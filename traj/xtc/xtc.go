/*
 * xtc.go, part of zonerdf.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
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

// Package xtc reads GROMACS compressed trajectories (xtc) in pure Go.
// Coordinates and box vectors are converted from nm to Angstrom.
package xtc

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
)

const (
	magic  = 1995
	nm2A   = 10.0
	format = "xtc"
)

// XTCObj is a GROMACS XTC binary trajectory file opened for reading.
type XTCObj struct {
	readable bool
	natoms   int
	filename string
	f        *os.File
	r        *bufio.Reader
	step     int
	time     float32
	prec     float32
	raw      []float32 //the decoded coordinates of the last frame, in nm.
	buf      []byte    //the compressed block.
	frames   int       //frames read so far.
}

// New opens the xtc file filename for reading. The header of the first
// frame is read to learn the number of atoms.
func New(filename string) (*XTCObj, error) {
	X := &XTCObj{filename: filename}
	var err error
	X.f, err = os.Open(filename)
	if err != nil {
		return nil, err
	}
	X.r = bufio.NewReaderSize(X.f, 1<<16)
	head, err := X.r.Peek(8)
	if err != nil {
		X.f.Close()
		return nil, chem.NewTrajError("can't read the first frame header: "+err.Error(), filename, format, "New")
	}
	if m := int32(binary.BigEndian.Uint32(head[0:4])); m != magic {
		X.f.Close()
		return nil, chem.NewTrajError(fmt.Sprintf("wrong magic number %d", m), filename, format, "New")
	}
	X.natoms = int(int32(binary.BigEndian.Uint32(head[4:8])))
	if X.natoms <= 0 {
		X.f.Close()
		return nil, chem.NewTrajError(fmt.Sprintf("invalid number of atoms %d", X.natoms), filename, format, "New")
	}
	X.raw = make([]float32, 3*X.natoms)
	X.readable = true
	return X, nil
}

// Readable returns true if the object is ready to be read from.
// It doesn't guarantee that there is something left to read.
func (X *XTCObj) Readable() bool {
	return X.readable
}

// Len returns the number of atoms per frame.
func (X *XTCObj) Len() int {
	return X.natoms
}

// Step returns the MD step of the last frame read.
func (X *XTCObj) Step() int {
	return X.step
}

// Time returns the time (ps) of the last frame read.
func (X *XTCObj) Time() float64 {
	return float64(X.time)
}

// Precision returns the precision of the last frame read (0 for uncompressed frames)
func (X *XTCObj) Precision() float64 {
	return float64(X.prec)
}

// Close closes the file. The object can't be read after this call.
func (X *XTCObj) Close() {
	if !X.readable {
		return
	}
	X.f.Close()
	X.readable = false
}

// Next reads the next frame and puts the coordinates in coords, or only decodes the
// header and skips the coordinates if coords is nil. If a box slice is given, it is filled
// with the box vectors. At the end of the trajectory it returns a chem.LastFrameError.
func (X *XTCObj) Next(coords *v3.Matrix, box ...[]float64) error {
	if !X.readable {
		return chem.NewTrajError(chem.TrajUnIniRead, X.filename, format, "Next")
	}
	var b [9]float32
	err := X.header(&b)
	if err == io.EOF {
		X.Close()
		return chem.NewLastFrameError(X.filename, format, "Next")
	}
	if err != nil {
		return chem.ErrDecorate(X.frameErr(err), "Next")
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		for i, v := range b {
			box[0][i] = float64(v) * nm2A
		}
	}
	if err := X.coords(coords == nil); err != nil {
		return chem.ErrDecorate(X.frameErr(err), "Next")
	}
	X.frames++
	if coords == nil {
		return nil
	}
	if coords.NVecs() < X.natoms {
		return chem.NewTrajError(chem.NotEnoughSpace, X.filename, format, "Next")
	}
	for i := 0; i < X.natoms; i++ {
		coords.Set(i, 0, float64(X.raw[3*i])*nm2A)
		coords.Set(i, 1, float64(X.raw[3*i+1])*nm2A)
		coords.Set(i, 2, float64(X.raw[3*i+2])*nm2A)
	}
	return nil
}

func (X *XTCObj) frameErr(err error) error {
	if err == io.ErrUnexpectedEOF {
		err = fmt.Errorf("truncated frame")
	}
	return chem.NewTrajError(fmt.Sprintf("frame %d: %s", X.frames, err.Error()), X.filename, format, "")
}

func (X *XTCObj) readInt() (int, error) {
	var i int32
	err := binary.Read(X.r, binary.BigEndian, &i)
	return int(i), err
}

func (X *XTCObj) readFloat() (float32, error) {
	var f float32
	err := binary.Read(X.r, binary.BigEndian, &f)
	return f, err
}

// header reads the frame header. It returns io.EOF only if the file ended
// exactly at the beginning of a frame.
func (X *XTCObj) header(box *[9]float32) error {
	m, err := X.readInt()
	if err != nil {
		return err
	}
	if m != magic {
		return fmt.Errorf("wrong magic number %d", m)
	}
	nat, err := X.readInt()
	if err != nil {
		return unexpected(err)
	}
	if nat != X.natoms {
		return fmt.Errorf("frame has %d atoms, %d expected", nat, X.natoms)
	}
	if X.step, err = X.readInt(); err != nil {
		return unexpected(err)
	}
	if X.time, err = X.readFloat(); err != nil {
		return unexpected(err)
	}
	if err := binary.Read(X.r, binary.BigEndian, box[:]); err != nil {
		return unexpected(err)
	}
	return nil
}

// coords reads (and, unless skip is true, decodes) the coordinates of a frame into X.raw.
func (X *XTCObj) coords(skip bool) error {
	lsize, err := X.readInt()
	if err != nil {
		return unexpected(err)
	}
	if lsize != X.natoms {
		return fmt.Errorf("coordinate block has %d atoms, %d expected", lsize, X.natoms)
	}
	if lsize <= 9 {
		X.prec = 0
		return unexpected(binary.Read(X.r, binary.BigEndian, X.raw))
	}
	var p compressedHeader
	if err := binary.Read(X.r, binary.BigEndian, &p); err != nil {
		return unexpected(err)
	}
	X.prec = p.Precision
	if p.ByteCount < 0 {
		return fmt.Errorf("negative compressed block size")
	}
	padded := (int(p.ByteCount) + 3) &^ 3
	if skip {
		_, err := X.r.Discard(padded)
		return unexpected(err)
	}
	if cap(X.buf) < padded {
		X.buf = make([]byte, padded)
	}
	X.buf = X.buf[:padded]
	if _, err := io.ReadFull(X.r, X.buf); err != nil {
		return unexpected(err)
	}
	return decompress(X.buf[:p.ByteCount], &p, X.raw)
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// compressedHeader is the part of a compressed frame that comes between
// the number of atoms and the compressed block itself.
type compressedHeader struct {
	Precision float32
	MinInt    [3]int32
	MaxInt    [3]int32
	SmallIdx  int32
	ByteCount int32
}

// decompress decodes the compressed coordinates in data into out (nm).
func decompress(data []byte, p *compressedHeader, out []float32) error {
	natoms := len(out) / 3
	if p.Precision <= 0 {
		return fmt.Errorf("invalid precision %g", p.Precision)
	}
	var minint, sizeint, bitsizeint [3]int
	for i := 0; i < 3; i++ {
		minint[i] = int(p.MinInt[i])
		size := int64(p.MaxInt[i]) - int64(p.MinInt[i]) + 1
		if size <= 0 || size > math.MaxInt32 {
			return fmt.Errorf("invalid coordinate range [%d, %d]", p.MinInt[i], p.MaxInt[i])
		}
		sizeint[i] = int(size)
	}
	bitsize := 0
	//large ranges can't be packed together.
	if (sizeint[0] | sizeint[1] | sizeint[2]) > 0xffffff {
		for i := 0; i < 3; i++ {
			bitsizeint[i] = sizeOfInt(sizeint[i])
		}
	} else {
		bitsize = sizeOfInts(sizeint)
	}
	smallidx := int(p.SmallIdx)
	if smallidx < firstIdx || smallidx >= len(magicInts) {
		return fmt.Errorf("invalid small index %d", smallidx)
	}
	smaller := magicInts[max(firstIdx, smallidx-1)] / 2
	smallnum := magicInts[smallidx] / 2
	sizesmall := [3]int{magicInts[smallidx], magicInts[smallidx], magicInts[smallidx]}
	inv := 1 / p.Precision
	br := newBitReader(data)
	var thiscoord, prevcoord [3]int
	written := 0
	write := func(c [3]int) error {
		if written >= natoms {
			return fmt.Errorf("more coordinates than atoms in the compressed block")
		}
		out[3*written] = float32(c[0]) * inv
		out[3*written+1] = float32(c[1]) * inv
		out[3*written+2] = float32(c[2]) * inv
		written++
		return nil
	}
	run := 0 //The run length is kept until a new one is read.
	for i := 0; i < natoms; {
		if bitsize == 0 {
			for j := 0; j < 3; j++ {
				thiscoord[j] = br.bits(bitsizeint[j])
			}
		} else {
			br.ints(bitsize, sizeint, &thiscoord)
		}
		i++
		for j := 0; j < 3; j++ {
			thiscoord[j] += minint[j]
		}
		prevcoord = thiscoord
		isSmaller := 0
		if br.bits(1) == 1 {
			run = br.bits(5)
			isSmaller = run % 3
			run -= isSmaller
			isSmaller--
		}
		if run > 0 {
			for k := 0; k < run; k += 3 {
				br.ints(smallidx, sizesmall, &thiscoord)
				i++
				for j := 0; j < 3; j++ {
					thiscoord[j] += prevcoord[j] - smallnum
				}
				if k == 0 {
					//The first 2 atoms of a run are swapped, which compresses
					//water molecules better.
					thiscoord, prevcoord = prevcoord, thiscoord
					if err := write(prevcoord); err != nil {
						return err
					}
				} else {
					prevcoord = thiscoord
				}
				if err := write(thiscoord); err != nil {
					return err
				}
			}
		} else {
			if err := write(thiscoord); err != nil {
				return err
			}
		}
		if br.err != nil {
			return br.err
		}
		smallidx += isSmaller
		if smallidx < firstIdx || smallidx >= len(magicInts) {
			return fmt.Errorf("small index %d out of range", smallidx)
		}
		if isSmaller < 0 {
			smallnum = smaller
			if smallidx > firstIdx {
				smaller = magicInts[smallidx-1] / 2
			} else {
				smaller = 0
			}
		} else if isSmaller > 0 {
			smaller = smallnum
			smallnum = magicInts[smallidx] / 2
		}
		sizesmall = [3]int{magicInts[smallidx], magicInts[smallidx], magicInts[smallidx]}
	}
	if written != natoms {
		return fmt.Errorf("%d coordinates decoded, %d expected", written, natoms)
	}
	return nil
}
