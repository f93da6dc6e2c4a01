/*
 * stf.go, part of zonerdf.
 *
 * Copyright 2021 Raul Mera <rauldotmeraatusachdotcl>
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

package stf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
)

const (
	format      = "stf"
	defaultPrec = 2
)

// compressor returns the compression used for a file name: the last letter
// selects gzip ('z') or raw deflate ('r'). Everything else uses zstd.
func compressor(name string) byte {
	if name == "" {
		return 's'
	}
	switch c := strings.ToLower(name)[len(name)-1]; c {
	case 'z', 'r':
		return c
	default:
		return 's'
	}
}

// StfW writes stf trajectories.
type StfW struct {
	f         *os.File
	h         io.WriteCloser
	w         *bufio.Writer
	natoms    int
	filename  string
	writeable bool
	prec      int
	mult      float64
}

// NewWriter creates the stf file name for frames of natoms atoms. The header map is written
// as key=value lines. The "prec" key, if present, sets the precision (number of decimals kept
// for the coordinates), which otherwise defaults to 2. The optional level is only used for
// gzip/deflate files.
func NewWriter(name string, natoms int, header map[string]string, compressionLevel ...int) (*StfW, error) {
	level := flate.BestCompression
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	S := &StfW{filename: name, natoms: natoms, prec: defaultPrec}
	if p, ok := header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec < 0 {
			return nil, chem.NewTrajError(fmt.Sprintf("invalid precision '%s'", p), name, format, "NewWriter")
		}
		S.prec = prec
	}
	S.mult = math.Pow(10, float64(S.prec))
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, err
	}
	switch compressor(name) {
	case 'z':
		S.h, err = gzip.NewWriterLevel(S.f, level)
	case 'r':
		S.h, err = flate.NewWriter(S.f, level)
	default:
		S.h, err = zstd.NewWriter(S.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	if err != nil {
		S.f.Close()
		return nil, chem.NewTrajError("can't create the compressor: "+err.Error(), name, format, "NewWriter")
	}
	S.w = bufio.NewWriter(S.h)
	//sorted, so the same header always gives the same file.
	keys := make([]string, 0, len(header)+1)
	for k := range header {
		if k != "prec" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	fmt.Fprintf(S.w, "prec=%d\n", S.prec)
	for _, k := range keys {
		v := header[k]
		if strings.ContainsAny(k, "=\n") || strings.Contains(v, "\n") || strings.Contains(k+v, "**") {
			S.h.Close()
			S.f.Close()
			return nil, chem.NewTrajError(fmt.Sprintf("invalid header entry %q=%q", k, v), name, format, "NewWriter")
		}
		fmt.Fprintf(S.w, "%s=%s\n", k, v)
	}
	fmt.Fprintf(S.w, "** %d\n", S.natoms)
	S.writeable = true
	return S, nil
}

// Len returns the number of atoms per frame.
func (S *StfW) Len() int {
	return S.natoms
}

// WNext writes a frame, with the box vectors (Angstrom) if given.
func (S *StfW) WNext(coord *v3.Matrix, box ...[]float64) error {
	if !S.writeable {
		return chem.NewTrajError(chem.TrajUnIniWrite, S.filename, format, "WNext")
	}
	if coord == nil {
		return chem.NewTrajError(chem.NilCoordinates, S.filename, format, "WNext")
	}
	if v := coord.NVecs(); v != S.natoms {
		return chem.NewTrajError(fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.filename, format, "WNext")
	}
	for i := 0; i < S.natoms; i++ {
		S.w.WriteString(coordsEncode(coord.Vec(i), S.mult))
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		b := box[0]
		fmt.Fprintf(S.w, "* %.4f %.4f %.4f %.4f %.4f %.4f %.4f %.4f %.4f\n", b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7], b[8])
	} else {
		S.w.WriteString("*\n")
	}
	return nil
}

// Close flushes and closes the file. The object can't be written to after this.
func (S *StfW) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	err := S.w.Flush()
	if err2 := S.h.Close(); err == nil {
		err = err2
	}
	if err2 := S.f.Close(); err == nil {
		err = err2
	}
	return err
}

func coordsEncode(f [3]float64, mult float64) string {
	return fmt.Sprintf("%d %d %d\n", int(math.RoundToEven(f[0]*mult)), int(math.RoundToEven(f[1]*mult)), int(math.RoundToEven(f[2]*mult)))
}

func coordsDecode(str string, temp *[3]float64, mult float64) error {
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("ill formated coordinates line: %d fields in '%s'", len(s), str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("can't parse coordinate %d (%s)", i, v)
		}
		temp[i] = float64(f) / mult
	}
	return nil
}

// StfR reads stf trajectories. It implements chem.Traj.
type StfR struct {
	f        *os.File
	dec      io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	mult     float64
	readable bool
}

// zstdCloser adapts *zstd.Decoder, whose Close doesn't return an error, to io.ReadCloser.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// New opens a STF trajectory for reading, and returns a pointer
// to the handle, a map with the header and error or nil.
func New(name string) (*StfR, map[string]string, error) {
	S := &StfR{filename: name, natoms: -1, prec: defaultPrec}
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	raw := bufio.NewReader(S.f)
	switch compressor(name) {
	case 'z':
		S.dec, err = gzip.NewReader(raw)
	case 'r':
		S.dec = flate.NewReader(raw)
	default:
		var d *zstd.Decoder
		d, err = zstd.NewReader(raw)
		if err == nil {
			S.dec = zstdCloser{d}
		}
	}
	if err != nil {
		S.f.Close()
		return nil, nil, chem.NewTrajError("can't read header: "+err.Error(), name, format, "New")
	}
	S.h = bufio.NewReader(S.dec)
	m := make(map[string]string)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			S.close()
			return nil, nil, chem.NewTrajError("can't read header: "+err.Error(), name, format, "New")
		}
		str = strings.TrimRight(str, "\r\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				S.close()
				return nil, nil, chem.NewTrajError(fmt.Sprintf("can't read atom number from '%s'", str), name, format, "New")
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil || S.natoms <= 0 {
				S.close()
				return nil, nil, chem.NewTrajError(fmt.Sprintf("can't read atom number from '%s'", nat[1]), name, format, "New")
			}
			break
		}
		k, v, ok := strings.Cut(str, "=")
		if !ok {
			S.close()
			return nil, nil, chem.NewTrajError(fmt.Sprintf("malformed header line '%s'", str), name, format, "New")
		}
		m[k] = v
	}
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec >= 0 {
			S.prec = prec
		} else {
			log.Printf("Invalid precision '%s' for trajectory %s. Will assume the default", p, name)
		}
	}
	S.mult = math.Pow(10, float64(S.prec))
	S.readable = true
	return S, m, nil
}

// Readable returns true if the handle is readable (if it is possible to call Next on it)
func (S *StfR) Readable() bool {
	return S.readable
}

// Len returns the number of atoms in each frame of the trajectory.
func (S *StfR) Len() int {
	return S.natoms
}

// Prec returns the number of decimals kept in the coordinates of the file.
func (S *StfR) Prec() int {
	return S.prec
}

// Next puts in c the coordinates for the next frame of the trajectory
// and, if given, and the information is present, puts the box vectors in box.
// If c is nil, the frame is read and checked, but discarded.
// At the end of the trajectory it returns a chem.LastFrameError.
func (S *StfR) Next(c *v3.Matrix, box ...[]float64) error {
	if !S.readable {
		return chem.NewTrajError(chem.TrajUnIniRead, S.filename, format, "Next")
	}
	if c != nil && c.NVecs() < S.natoms {
		return chem.NewTrajError(chem.NotEnoughSpace, S.filename, format, "Next")
	}
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		b, err := S.h.ReadString('\n')
		if err != nil {
			//EOF is only fine before the first atom of a frame.
			if err == io.EOF && i == 0 && len(b) == 0 {
				S.Close()
				return chem.NewLastFrameError(S.filename, format, "Next")
			}
			return chem.NewTrajError(fmt.Sprintf("frame ended after %d of %d atoms", i, S.natoms), S.filename, format, "Next")
		}
		if err := coordsDecode(b, &temp, S.mult); err != nil {
			return chem.NewTrajError(err.Error(), S.filename, format, "Next")
		}
		if c == nil {
			continue
		}
		c.SetVec(i, temp)
	}
	s, err := S.h.ReadString('\n')
	if err != nil && len(s) == 0 {
		return chem.NewTrajError("can't read the frame termination mark", S.filename, format, "Next")
	}
	if s[0] != '*' {
		return chem.NewTrajError("wrong number of atoms in frame", S.filename, format, "Next")
	}
	if len(box) == 0 || len(box[0]) < 9 {
		return nil
	}
	fields := strings.Fields(s)
	if len(fields) < 10 {
		log.Printf("Trajectory file %s does not contain (correct) box information: %v", S.filename, fields)
		return nil
	}
	for j, v := range fields[1:10] {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return chem.NewTrajError(fmt.Sprintf("can't parse box component '%s'", v), S.filename, format, "Next")
		}
		box[0][j] = f
	}
	return nil
}

func (S *StfR) close() {
	S.dec.Close()
	S.f.Close()
}

// Close closes the object, and marks it as unreadable
func (S *StfR) Close() {
	if !S.readable {
		return
	}
	S.close()
	S.readable = false
}
