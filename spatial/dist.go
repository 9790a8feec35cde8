/*
 * dist.go, part of gostar
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

// DistMatrix holds the full symmetric pairwise Euclidean distance
// matrix of a particle set, zero on the diagonal.
type DistMatrix struct {
	n    int
	data []float64
}

// NewDistMatrix computes all pairwise distances for pts.
func NewDistMatrix(pts Points) *DistMatrix {
	n := len(pts)
	dm := &DistMatrix{n: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Sqrt(pts[i].Distance(pts[j]))
			dm.data[i*n+j] = d
			dm.data[j*n+i] = d
		}
	}
	return dm
}

// N returns the number of particles.
func (dm *DistMatrix) N() int { return dm.n }

// At returns the distance between particles i and j.
func (dm *DistMatrix) At(i, j int) float64 { return dm.data[i*dm.n+j] }

// UpperTri returns the distances of all unordered pairs (i<j), so
// each pair is counted once.
func (dm *DistMatrix) UpperTri() []float64 {
	ret := make([]float64, 0, dm.n*(dm.n-1)/2)
	for i := 0; i < dm.n; i++ {
		for j := i + 1; j < dm.n; j++ {
			ret = append(ret, dm.data[i*dm.n+j])
		}
	}
	return ret
}

// NearestNeighbors returns, for every particle, the index of and the
// distance to its closest other particle. Diagonal entries are
// excluded. Needs at least 2 particles; otherwise returns nil slices.
func (dm *DistMatrix) NearestNeighbors() ([]int, []float64) {
	if dm.n < 2 {
		return nil, nil
	}
	idx := make([]int, dm.n)
	dist := make([]float64, dm.n)
	for i := 0; i < dm.n; i++ {
		best := math.Inf(1)
		bestj := -1
		for j := 0; j < dm.n; j++ {
			if j == i {
				continue
			}
			if d := dm.data[i*dm.n+j]; d < best {
				best = d
				bestj = j
			}
		}
		idx[i] = bestj
		dist[i] = best
	}
	return idx, dist
}
