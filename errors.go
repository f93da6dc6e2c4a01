/*
 * errors.go, part of zonerdf.
 *
 * Copyright 2020 Raul Mera A. (raulpuntomeraatusachpuntocl)
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

package chem

import (
	"fmt"
	"strings"
)

// TrajFileError is the general structure for trajectory errors. It fulfills Error and TrajError.
// The trajectory readers of the library return it, so callers can handle all formats alike.
type TrajFileError struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	format   string
	deco     *[]string
	critical bool
}

// NewTrajError returns a critical TrajFileError for the given file and format,
// decorated with the name of the calling function.
func NewTrajError(message, filename, format, caller string) TrajFileError {
	d := []string{}
	if caller != "" {
		d = append(d, caller)
	}
	return TrajFileError{message: message, filename: filename, format: format, deco: &d, critical: true}
}

func (err TrajFileError) Error() string {
	deco := ""
	if err.deco != nil && len(*err.deco) > 0 {
		deco = " (" + strings.Join(*err.deco, ": ") + ")"
	}
	return fmt.Sprintf("%s file %s error: %s%s", err.format, err.filename, err.message, deco)
}

// Decorate adds new information to the error
func (err TrajFileError) Decorate(deco string) []string {
	if err.deco == nil {
		return nil
	}
	if deco != "" {
		*err.deco = append(*err.deco, deco)
	}
	return *err.deco
}

// FileName returns the file to which the failing trajectory was associated
func (err TrajFileError) FileName() string { return err.filename }

// Format returns the format of the file associated to the error
func (err TrajFileError) Format() string { return err.format }

// Critical returns true if the error is critical, false otherwise
func (err TrajFileError) Critical() bool { return err.critical }

// lastFrameError implements LastFrameError
type lastFrameError struct {
	deco     *[]string
	fileName string
	format   string
}

// NewLastFrameError returns the error that trajectory readers give when
// there are no more frames to read.
func NewLastFrameError(filename, format, caller string) LastFrameError {
	d := []string{caller}
	return lastFrameError{deco: &d, fileName: filename, format: format}
}

// NormalLastFrameTermination does nothing
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return E.format }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		*E.deco = append(*E.deco, deco)
	}
	return *E.deco
}

// ErrDecorate decorates err with the caller's name, if err implements Error,
// and returns it. Other errors are returned unchanged.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return err
}

// IsLastFrame returns true if err signals the normal end of a trajectory.
func IsLastFrame(err error) bool {
	_, ok := err.(LastFrameError)
	return ok
}

//Common error messages
const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the file or frame"
	NotEnoughSpace = "Not enough space in given matrix"
)
