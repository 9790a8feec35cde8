/*
 * table.go, part of gostar
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
	"strconv"
)

// Names of the RELION metadata labels this library needs to know about.
// Every other label is carried through transforms untouched.
const (
	CoordX     = "rlnCoordinateX"
	CoordY     = "rlnCoordinateY"
	CoordZ     = "rlnCoordinateZ"
	AngleRot   = "rlnAngleRot"
	AngleTilt  = "rlnAngleTilt"
	AnglePsi   = "rlnAnglePsi"
	OriginX    = "rlnOriginXAngst"
	OriginY    = "rlnOriginYAngst"
	OriginZ    = "rlnOriginZAngst"
	Micrograph = "rlnMicrographName"
	PixelSize  = "rlnImagePixelSize"
)

// Table is one tabular block of a STAR file: an ordered set of named
// columns over an ordered set of rows. Values are kept as the strings
// read from disk so that columns this library never touches round-trip
// byte for byte.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// NewTable returns an empty table with the given columns, in order.
func NewTable(cols []string) *Table {
	t := &Table{
		cols:  append([]string{}, cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range t.cols {
		t.index[c] = i
	}
	return t
}

// Cols returns the column names in their on-disk order.
// The returned slice is a copy.
func (t *Table) Cols() []string {
	return append([]string{}, t.cols...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasCol returns whether the named column exists.
func (t *Table) HasCol(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AppendRow adds a row. It returns a FormatError if the number of
// fields doesn't match the number of columns.
func (t *Table) AppendRow(fields []string) error {
	if len(fields) != len(t.cols) {
		return formatError("Table.AppendRow: row has %d fields, table has %d columns", len(fields), len(t.cols))
	}
	t.rows = append(t.rows, append([]string{}, fields...))
	return nil
}

// Get returns the value at row i, column name, as a string.
// It panics if i is out of range and returns "" for a missing column.
func (t *Table) Get(i int, name string) string {
	j, ok := t.index[name]
	if !ok {
		return ""
	}
	return t.rows[i][j]
}

// Set overwrites the value at row i, column name.
func (t *Table) Set(i int, name, value string) error {
	j, ok := t.index[name]
	if !ok {
		return processingError("Table.Set: missing column %s", name)
	}
	t.rows[i][j] = value
	return nil
}

// Strings returns the named column as a string slice.
func (t *Table) Strings(name string) ([]string, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, processingError("Table.Strings: missing column %s", name)
	}
	ret := make([]string, len(t.rows))
	for i, r := range t.rows {
		ret[i] = r[j]
	}
	return ret, nil
}

// Floats parses the named column as float64s.
func (t *Table) Floats(name string) ([]float64, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, processingError("Table.Floats: missing column %s", name)
	}
	ret := make([]float64, len(t.rows))
	for i, r := range t.rows {
		v, err := strconv.ParseFloat(r[j], 64)
		if err != nil {
			return nil, formatError("Table.Floats: column %s, row %d: %s is not a number", name, i, r[j])
		}
		ret[i] = v
	}
	return ret, nil
}

// SetFloats overwrites the named column with the given values,
// formatted with 6 decimals as RELION writes them.
func (t *Table) SetFloats(name string, vals []float64) error {
	j, ok := t.index[name]
	if !ok {
		return processingError("Table.SetFloats: missing column %s", name)
	}
	if len(vals) != len(t.rows) {
		return processingError("Table.SetFloats: %d values for %d rows", len(vals), len(t.rows))
	}
	for i := range t.rows {
		t.rows[i][j] = strconv.FormatFloat(vals[i], 'f', 6, 64)
	}
	return nil
}

// Subset returns a new table with the rows at the given indexes, in
// the given order, sharing no storage with the receiver.
func (t *Table) Subset(indexes []int) *Table {
	sub := NewTable(t.cols)
	for _, i := range indexes {
		sub.rows = append(sub.rows, append([]string{}, t.rows[i]...))
	}
	return sub
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	c := NewTable(t.cols)
	for _, r := range t.rows {
		c.rows = append(c.rows, append([]string{}, r...))
	}
	return c
}

// Star is a parsed STAR file: named tabular sections in file order.
// Particle analysis only ever looks at the "particles" and "optics"
// sections, but all sections are preserved on write.
type Star struct {
	order  []string
	tables map[string]*Table
}

// NewStar returns an empty sectioned file.
func NewStar() *Star {
	return &Star{tables: make(map[string]*Table)}
}

// Sections returns the section names in file order.
func (s *Star) Sections() []string {
	return append([]string{}, s.order...)
}

// Table returns the named section, or nil if absent.
func (s *Star) Table(name string) *Table {
	return s.tables[name]
}

// SetTable adds or replaces a section. New sections go at the end.
func (s *Star) SetTable(name string, t *Table) {
	if _, ok := s.tables[name]; !ok {
		s.order = append(s.order, name)
	}
	s.tables[name] = t
}

// Particles returns the "particles" section or a FormatError if the
// file has none.
func (s *Star) Particles() (*Table, error) {
	t := s.tables["particles"]
	if t == nil {
		return nil, formatError("missing 'particles' section")
	}
	return t, nil
}

// Copy returns a deep copy of the sectioned file.
func (s *Star) Copy() *Star {
	c := NewStar()
	for _, name := range s.order {
		c.SetTable(name, s.tables[name].Copy())
	}
	return c
}

// PixelSize returns the image pixel size from the optics section, and
// whether the file carries one. As in RELION, the first optics group's
// value is used.
func (s *Star) PixelSize() (float64, bool) {
	optics := s.tables["optics"]
	if optics == nil || optics.Len() == 0 || !optics.HasCol(PixelSize) {
		return 0, false
	}
	v, err := strconv.ParseFloat(optics.Get(0, PixelSize), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
