/*
 * euler.go, part of gostar
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

import "math"

const deg2rad = math.Pi / 180.0
const rad2deg = 180.0 / math.Pi

//used to correct floating point errors. Everything with an absolute
//value equal or less than this is considered zero.
const appzero float64 = 0.0000001

// EulerToDirection converts RELION Euler angles (degrees, intrinsic
// Z-Y-Z) to the particle's direction vector: the rotation applied to
// the unit z vector, with the first component negated afterwards to
// match the handedness convention of the metadata format. The third
// rotation (psi) spins around z and so drops out on the z unit
// vector. NaN angles propagate as NaN components.
func EulerToDirection(rot, tilt, psi float64) [3]float64 {
	_ = psi
	sinrot := math.Sin(rot * deg2rad)
	cosrot := math.Cos(rot * deg2rad)
	sintilt := math.Sin(tilt * deg2rad)
	costilt := math.Cos(tilt * deg2rad)
	return [3]float64{
		-cosrot * sintilt,
		sinrot * sintilt,
		costilt,
	}
}

// AngleBetween returns the angle between v1 and v2 in degrees, in
// [0, 180]. The dot product of the normalized vectors is clamped to
// [-1, 1] before the arccosine, so nearly-parallel vectors don't fall
// victim to floating point overshoot. A zero-length input makes the
// result NaN; callers must guard degenerate vectors themselves.
func AngleBetween(v1, v2 [3]float64) float64 {
	normprod := norm(v1) * norm(v2)
	argument := dot(v1, v2) / normprod
	if argument > 1 {
		argument = 1
	} else if argument < -1 {
		argument = -1
	}
	angle := math.Acos(argument) * rad2deg
	if math.Abs(angle) <= appzero {
		return 0.0
	}
	return angle
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func norm(a [3]float64) float64 {
	return math.Sqrt(dot(a, a))
}
