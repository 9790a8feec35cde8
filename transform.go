/*
 * transform.go, part of gostar
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

var coordCols = []string{CoordX, CoordY, CoordZ}
var originCols = []string{OriginX, OriginY, OriginZ}

// ScaleCoords multiplies the three coordinate columns by the given
// per-axis factors, in place. Returns a ProcessingError if any
// coordinate column is missing.
func ScaleCoords(t *Table, x, y, z float64) error {
	factors := []float64{x, y, z}
	for i, col := range coordCols {
		vals, err := t.Floats(col)
		if err != nil {
			return err
		}
		for j := range vals {
			vals[j] *= factors[i]
		}
		if err := t.SetFloats(col, vals); err != nil {
			return err
		}
	}
	return nil
}

// ApplyShift subtracts the refinement origin shifts from the particle
// coordinates, in place. The shifts are stored in Angstroms and must
// be converted to pixels with the optics pixel size:
//
//	coord' = coord - originAngst/pixelSize
//
// Files without an optics section or without origin columns are left
// untouched; the bool return says whether a shift was applied.
func ApplyShift(s *Star) (bool, error) {
	p, err := s.Particles()
	if err != nil {
		return false, err
	}
	pixel, ok := s.PixelSize()
	if !ok || pixel == 0 {
		return false, nil
	}
	for _, col := range originCols {
		if !p.HasCol(col) {
			return false, nil
		}
	}
	for i, col := range coordCols {
		coords, err := p.Floats(col)
		if err != nil {
			return false, err
		}
		origins, err := p.Floats(originCols[i])
		if err != nil {
			return false, err
		}
		for j := range coords {
			coords[j] -= origins[j] / pixel
		}
		if err := p.SetFloats(col, coords); err != nil {
			return false, err
		}
	}
	return true, nil
}
