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

package analyze

import (
	"fmt"
	"strings"
)

// AnalysisError is the single error type an analyzer's Process run
// surfaces. Whatever failed inside, callers get one of these with the
// original cause preserved.
type AnalysisError struct {
	message string
	cause   error
	deco    []string
}

func analysisError(format string, a ...interface{}) *AnalysisError {
	return &AnalysisError{message: fmt.Sprintf(format, a...)}
}

func wrapAnalysis(cause error, format string, a ...interface{}) *AnalysisError {
	if ae, ok := cause.(*AnalysisError); ok {
		return ae //don't wrap twice
	}
	return &AnalysisError{message: fmt.Sprintf(format, a...), cause: cause}
}

func (e *AnalysisError) Error() string {
	msg := e.message
	if e.cause != nil {
		msg = msg + ": " + e.cause.Error()
	}
	if len(e.deco) > 0 {
		msg = strings.Join(e.deco, "\n") + "\n" + msg
	}
	return msg
}

// Decorate adds context to the error. It returns the current
// decoration stack, latest first.
func (e *AnalysisError) Decorate(dec string) []string {
	if dec != "" {
		e.deco = append([]string{dec}, e.deco...)
	}
	return e.deco
}

func (e *AnalysisError) Unwrap() error {
	return e.cause
}
