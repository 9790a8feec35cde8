/*
 * errors.go, part of gostar
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
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

package star

import (
	"fmt"
	"strings"
)

// Error is the interface implemented by all errors produced in this
// library. The Decorate method allows adding information to an error
// as it is passed up, without changing its type or wrapping it in
// something else. Passing an empty string returns the current
// decoration without adding to it.
type Error interface {
	error
	Decorate(string) []string
}

type errBase struct {
	message string
	cause   error
	deco    []string
}

func (e *errBase) Error() string {
	if len(e.deco) == 0 {
		return e.message
	}
	return strings.Join(e.deco, ": ") + ": " + e.message
}

func (e *errBase) Decorate(dec string) []string {
	if dec != "" {
		e.deco = append(e.deco, dec)
	}
	return e.deco
}

func (e *errBase) Unwrap() error {
	return e.cause
}

// FormatError signals malformed or missing input structure: a required
// column or section is absent, or the on-disk file can't be parsed.
type FormatError struct {
	errBase
}

func formatError(format string, a ...interface{}) *FormatError {
	return &FormatError{errBase{message: fmt.Sprintf(format, a...)}}
}

// FormatErrorf builds a FormatError. Exported so callers that check a
// table's structure themselves can fail with the same type this
// library uses.
func FormatErrorf(format string, a ...interface{}) *FormatError {
	return formatError(format, a...)
}

// ProcessingError signals that a transform could not complete on
// otherwise well-formed input.
type ProcessingError struct {
	errBase
}

func processingError(format string, a ...interface{}) *ProcessingError {
	return &ProcessingError{errBase{message: fmt.Sprintf(format, a...)}}
}

// WrapProcessing returns a ProcessingError carrying cause, so callers
// can still reach the original error with errors.As/Is.
func WrapProcessing(cause error, format string, a ...interface{}) *ProcessingError {
	return &ProcessingError{errBase{message: fmt.Sprintf(format, a...) + ": " + cause.Error(), cause: cause}}
}
