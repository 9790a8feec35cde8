/*
 * kd.go, part of gostar
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
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// Point is one particle position. ID is the particle's index in its
// partition, so query results can be mapped back to table rows.
type Point struct {
	X, Y, Z float64
	ID      int
}

// Compare implements kdtree.Comparable.
func (p Point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(Point)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	case 2:
		return p.Z - q.Z
	default:
		panic("illegal dimension")
	}
}

// Dims implements kdtree.Comparable.
func (p Point) Dims() int { return 3 }

// Distance implements kdtree.Comparable. It returns the squared
// Euclidean distance; the square root is taken only at the API
// boundary.
func (p Point) Distance(c kdtree.Comparable) float64 {
	q := c.(Point)
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return dx*dx + dy*dy + dz*dz
}

// Points is a set of particle positions satisfying kdtree.Interface.
type Points []Point

func (p Points) Index(i int) kdtree.Comparable         { return p[i] }
func (p Points) Len() int                              { return len(p) }
func (p Points) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p Points) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(pointPlane{Points: p, Dim: d}, kdtree.MedianOfRandoms(pointPlane{Points: p, Dim: d}, 100))
}

type pointPlane struct {
	Points
	kdtree.Dim
}

func (p pointPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.Points[i].X < p.Points[j].X
	case 1:
		return p.Points[i].Y < p.Points[j].Y
	case 2:
		return p.Points[i].Z < p.Points[j].Z
	default:
		panic("illegal dimension")
	}
}

func (p pointPlane) Slice(start, end int) kdtree.SortSlicer {
	return pointPlane{Points: p.Points[start:end], Dim: p.Dim}
}

func (p pointPlane) Swap(i, j int) {
	p.Points[i], p.Points[j] = p.Points[j], p.Points[i]
}

// NewPoints builds a Points set from coordinate triplets, assigning
// IDs in input order.
func NewPoints(coords [][3]float64) Points {
	ret := make(Points, len(coords))
	for i, c := range coords {
		ret[i] = Point{X: c[0], Y: c[1], Z: c[2], ID: i}
	}
	return ret
}

// Adjacency is a symmetric boolean relation over particle indexes
// with a false diagonal: true where two particles lie within the
// clustering threshold of each other.
type Adjacency struct {
	n int
	m []bool
}

// N returns the number of particles.
func (a *Adjacency) N() int { return a.n }

// At returns whether particles i and j are adjacent.
func (a *Adjacency) At(i, j int) bool { return a.m[i*a.n+j] }

func (a *Adjacency) set(i, j int, v bool) { a.m[i*a.n+j] = v }

// BuildAdjacency returns the adjacency relation of pts under the
// given distance threshold. Pairs are found with a KD-tree range
// query rather than the full pairwise enumeration, so cost stays
// subquadratic for the particle counts a crowded tomogram can reach.
// Self-loops are never set.
func BuildAdjacency(pts Points, threshold float64) (*Adjacency, error) {
	if threshold < 0 {
		return nil, clusteringError("BuildAdjacency: negative threshold %f", threshold)
	}
	n := len(pts)
	adj := &Adjacency{n: n, m: make([]bool, n*n)}
	if n < 2 {
		return adj, nil
	}
	tree := kdtree.New(pts, false)
	for _, p := range pts {
		keeper := kdtree.NewDistKeeper(threshold * threshold)
		tree.NearestSet(keeper, p)
		for _, c := range keeper.Heap {
			if c.Comparable == nil {
				continue
			}
			q := c.Comparable.(Point)
			if q.ID == p.ID {
				continue
			}
			adj.set(p.ID, q.ID, true)
			adj.set(q.ID, p.ID, true)
		}
	}
	return adj, nil
}

// NearestNeighborDistances returns, for each point of a, the Euclidean
// distance to its closest point in b. Returns a MathError when b is
// empty, since "closest point of nothing" has no answer.
func NearestNeighborDistances(a, b Points) ([]float64, error) {
	if len(b) == 0 {
		return nil, mathError("NearestNeighborDistances: empty reference set")
	}
	tree := kdtree.New(b, false)
	ret := make([]float64, len(a))
	for i, p := range a {
		_, d := tree.Nearest(p)
		ret[i] = math.Sqrt(d)
	}
	return ret, nil
}
