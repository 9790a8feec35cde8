/*
 * doc.go, part of gostar
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

/*Package star is the root package of the gostar library. It reads and
writes STAR particle metadata tables as produced by cryo-ET particle
picking and refinement pipelines, and provides the table transforms the
analysis packages build on.


	**gostar Capabilities**

    Reads/writes STAR files, plain or gzip-compressed, preserving every
	column it does not explicitly transform.

    Applies refinement origin shifts and pixel-size scaling to particle
	coordinates.

    Splits a particle table into per-tomogram partitions by any metadata
	tag, exactly or by path prefix, and filters particles by the numeric
	value of any column.

    Computes spatial statistics over the partitioned particles
	(subpackage analyze, with the geometry kernel in subpackage
	spatial): radial distribution function g(r), distance-threshold
	clustering via union-find, and nearest-neighbor orientation
	angles, each analysis fanned out over tomograms in parallel and
	reduced into combined statistics, plots and a text report.

The command-line interface to all of the above lives in cmd/gostar.
*/
package star
