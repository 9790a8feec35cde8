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

package spatial

import (
	"fmt"
	"strings"
)

type errBase struct {
	message string
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

// MathError signals a failed geometric computation, such as a
// degenerate vector where a direction was needed.
type MathError struct {
	errBase
}

func mathError(format string, a ...interface{}) *MathError {
	return &MathError{errBase{message: fmt.Sprintf(format, a...)}}
}

// ClusteringError signals invalid input to adjacency construction or
// cluster extraction.
type ClusteringError struct {
	errBase
}

func clusteringError(format string, a ...interface{}) *ClusteringError {
	return &ClusteringError{errBase{message: fmt.Sprintf(format, a...)}}
}

// RadialError signals invalid input to one of the radial
// normalizations, such as a histogram that doesn't match its bin
// edges.
type RadialError struct {
	errBase
}

func radialError(format string, a ...interface{}) *RadialError {
	return &RadialError{errBase{message: fmt.Sprintf(format, a...)}}
}
