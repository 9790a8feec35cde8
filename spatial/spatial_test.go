/*
 * spatial_test.go, part of gostar
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
	"math"
	"testing"
)

func TestAngleBetweenSelf(Te *testing.T) {
	//the dot product overshoots 1.0 for some of these; the clamp must
	//keep Acos from returning NaN
	vectors := [][3]float64{
		{1, 0, 0},
		{0.1, 0.2, 0.3},
		{-5, 2, 7},
		{1e-3, 1e-3, 1e-3},
	}
	for _, v := range vectors {
		angle := AngleBetween(v, v)
		if angle != 0.0 {
			Te.Errorf("AngleBetween(%v, %v) = %v, want 0", v, v, angle)
		}
	}
}

func TestAngleBetween(Te *testing.T) {
	a := [3]float64{1, 0, 0}
	b := [3]float64{0, 1, 0}
	if angle := AngleBetween(a, b); math.Abs(angle-90) > 1e-9 {
		Te.Errorf("expected 90 degrees, got %v", angle)
	}
	c := [3]float64{-2, 0, 0}
	if angle := AngleBetween(a, c); math.Abs(angle-180) > 1e-9 {
		Te.Errorf("expected 180 degrees, got %v", angle)
	}
	//zero-length input has no defined angle
	if angle := AngleBetween(a, [3]float64{0, 0, 0}); !math.IsNaN(angle) {
		Te.Errorf("expected NaN for a zero vector, got %v", angle)
	}
}

func TestEulerToDirection(Te *testing.T) {
	//tilt 0 leaves the reference vector on the z axis whatever rot is
	v := EulerToDirection(37.0, 0.0, 12.0)
	if math.Abs(v[0]) > 1e-9 || math.Abs(v[1]) > 1e-9 || math.Abs(v[2]-1) > 1e-9 {
		Te.Errorf("tilt 0 should give (0,0,1), got %v", v)
	}
	//tilt 90, rot 0 puts it in the xy plane, x negated by convention
	v = EulerToDirection(0.0, 90.0, 0.0)
	if math.Abs(v[0]+1) > 1e-9 || math.Abs(v[1]) > 1e-9 || math.Abs(v[2]) > 1e-9 {
		Te.Errorf("expected (-1,0,0), got %v", v)
	}
	//psi rotates about the final axis so it cannot move the axis itself
	v1 := EulerToDirection(20, 50, 0)
	v2 := EulerToDirection(20, 50, 133)
	for i := range v1 {
		if math.Abs(v1[i]-v2[i]) > 1e-9 {
			Te.Errorf("psi changed the direction: %v vs %v", v1, v2)
		}
	}
}

func TestFindClusters(Te *testing.T) {
	pts := NewPoints([][3]float64{{0, 0, 0}, {10, 0, 0}, {1000, 0, 0}})
	adj, err := BuildAdjacency(pts, 50)
	if err != nil {
		Te.Fatal(err)
	}
	clusters, sizes := FindClusters(adj)
	if len(clusters) != 2 {
		Te.Fatalf("expected 2 clusters, got %d: %v", len(clusters), clusters)
	}
	if len(clusters[0]) != 2 || clusters[0][0] != 0 || clusters[0][1] != 1 {
		Te.Errorf("expected cluster {0,1}, got %v", clusters[0])
	}
	if len(clusters[1]) != 1 || clusters[1][0] != 2 {
		Te.Errorf("expected singleton {2}, got %v", clusters[1])
	}
	if sizes[2] != 1 || sizes[1] != 1 {
		Te.Errorf("wrong size histogram: %v", sizes)
	}
	fmt.Println("clusters:", clusters, "sizes:", sizes)
}

// Clusters must partition the index set: every index exactly once,
// isolated particles as singletons.
func TestClusterPartitionInvariant(Te *testing.T) {
	coords := [][3]float64{
		{0, 0, 0}, {5, 0, 0}, {9, 0, 0},
		{500, 500, 500},
		{1000, 0, 0}, {1003, 0, 0},
	}
	pts := NewPoints(coords)
	adj, err := BuildAdjacency(pts, 10)
	if err != nil {
		Te.Fatal(err)
	}
	clusters, _ := FindClusters(adj)
	seen := make(map[int]int)
	for _, c := range clusters {
		for _, i := range c {
			seen[i]++
		}
	}
	if len(seen) != len(coords) {
		Te.Fatalf("expected %d particles covered, got %d", len(coords), len(seen))
	}
	for i := 0; i < len(coords); i++ {
		if seen[i] != 1 {
			Te.Errorf("particle %d appears %d times", i, seen[i])
		}
	}
}

func TestBuildAdjacency(Te *testing.T) {
	pts := NewPoints([][3]float64{{0, 0, 0}, {10, 0, 0}, {1000, 0, 0}})
	adj, err := BuildAdjacency(pts, 50)
	if err != nil {
		Te.Fatal(err)
	}
	if !adj.At(0, 1) || !adj.At(1, 0) {
		Te.Error("0 and 1 are within threshold and should be adjacent")
	}
	if adj.At(0, 2) || adj.At(1, 2) {
		Te.Error("2 is far away and should not be adjacent to anything")
	}
	for i := 0; i < adj.N(); i++ {
		if adj.At(i, i) {
			Te.Errorf("self-loop at %d", i)
		}
	}
	if _, err := BuildAdjacency(pts, -1); err == nil {
		Te.Error("expected an error for a negative threshold")
	}
}

func TestDistMatrix(Te *testing.T) {
	pts := NewPoints([][3]float64{{0, 0, 0}, {3, 4, 0}, {100, 0, 0}})
	dm := NewDistMatrix(pts)
	if dm.At(0, 1) != 5.0 || dm.At(1, 0) != 5.0 {
		Te.Errorf("expected distance 5, got %v", dm.At(0, 1))
	}
	if dm.At(2, 2) != 0 {
		Te.Error("diagonal must be zero")
	}
	ut := dm.UpperTri()
	if len(ut) != 3 {
		Te.Errorf("expected 3 unordered pairs, got %d", len(ut))
	}
}

// Particle 0's nearest neighbor is particle 2, not 1.
func TestNearestNeighbors(Te *testing.T) {
	pts := NewPoints([][3]float64{{0, 0, 0}, {100, 0, 0}, {10, 0, 0}})
	dm := NewDistMatrix(pts)
	idx, dist := dm.NearestNeighbors()
	if idx[0] != 2 {
		Te.Errorf("particle 0's nearest neighbor should be 2, got %d", idx[0])
	}
	if dist[0] != 10.0 {
		Te.Errorf("expected distance 10, got %v", dist[0])
	}
	if idx[1] != 2 || idx[2] != 0 {
		Te.Errorf("wrong neighbors: %v", idx)
	}
}

func TestNearestNeighborDistances(Te *testing.T) {
	a := NewPoints([][3]float64{{0, 0, 0}, {100, 0, 0}})
	b := NewPoints([][3]float64{{0, 0, 3}, {100, 0, 4}})
	dists, err := NearestNeighborDistances(a, b)
	if err != nil {
		Te.Fatal(err)
	}
	if dists[0] != 3.0 || dists[1] != 4.0 {
		Te.Errorf("wrong distances: %v", dists)
	}
	if _, err := NearestNeighborDistances(a, nil); err == nil {
		Te.Error("expected an error for an empty reference set")
	}
}

func TestBinEdges(Te *testing.T) {
	edges, err := BinEdges(50, 200)
	if err != nil {
		Te.Fatal(err)
	}
	want := []float64{0, 50, 100, 150, 200}
	if len(edges) != len(want) {
		Te.Fatalf("expected %d edges, got %d: %v", len(want), len(edges), edges)
	}
	for i := range want {
		if math.Abs(edges[i]-want[i]) > 1e-9 {
			Te.Errorf("edge %d: expected %v, got %v", i, want[i], edges[i])
		}
	}
	// a max distance between multiples still gets a bin: the last
	// edge extends past it so no distance up to max is dropped
	edges, err = BinEdges(50, 120)
	if err != nil {
		Te.Fatal(err)
	}
	want = []float64{0, 50, 100, 150}
	if len(edges) != len(want) {
		Te.Fatalf("expected %d edges, got %d: %v", len(want), len(edges), edges)
	}
	if edges[len(edges)-1] < 120 {
		Te.Errorf("last edge %v below the max distance", edges[len(edges)-1])
	}
	for i := range want {
		if math.Abs(edges[i]-want[i]) > 1e-9 {
			Te.Errorf("edge %d: expected %v, got %v", i, want[i], edges[i])
		}
	}
	if _, err := BinEdges(0, 100); err == nil {
		Te.Error("expected an error for zero bin size")
	}
}

func TestHistogram(Te *testing.T) {
	edges := []float64{0, 10, 20, 30}
	hist, err := Histogram([]float64{1, 5, 15, 25, 29, 500}, edges)
	if err != nil {
		Te.Fatal(err)
	}
	if hist[0] != 2 || hist[1] != 1 || hist[2] != 2 {
		Te.Errorf("wrong counts: %v", hist)
	}
}

// Degenerate geometry must give all-zero bins, never NaN or Inf.
func TestShellNormalizeDegenerate(Te *testing.T) {
	edges := []float64{0, 10, 20}
	hist := []float64{1, 0}
	gr, err := ShellNormalize(hist, edges, 0.0, 2)
	if err != nil {
		Te.Fatal(err)
	}
	for i, v := range gr {
		if v != 0 {
			Te.Errorf("bin %d: expected 0 for zero box volume, got %v", i, v)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			Te.Errorf("bin %d is not finite: %v", i, v)
		}
	}
	gr, err = ShellNormalize(hist, edges, 1000.0, 0)
	if err != nil {
		Te.Fatal(err)
	}
	for i, v := range gr {
		if v != 0 {
			Te.Errorf("bin %d: expected 0 for zero particles, got %v", i, v)
		}
	}
}

func TestShellNormalize(Te *testing.T) {
	edges := []float64{0, 10}
	hist := []float64{6.0}
	vol := 1000.0
	n := 4
	gr, err := ShellNormalize(hist, edges, vol, n)
	if err != nil {
		Te.Fatal(err)
	}
	shell := 4.0 / 3.0 * math.Pi * 1000.0
	want := (6.0 / 4.0) / ((4.0 / vol) * shell)
	if math.Abs(gr[0]-want) > 1e-12 {
		Te.Errorf("expected %v, got %v", want, gr[0])
	}
}

func TestLocalDensityNormalize(Te *testing.T) {
	edges := []float64{0, 10}
	hist := []float64{3.0}
	vol := 1000.0
	ld, err := LocalDensityNormalize(hist, edges, vol, 4)
	if err != nil {
		Te.Fatal(err)
	}
	shell := 4.0 / 3.0 * math.Pi * 1000.0
	want := 3.0 / (6.0 * shell / vol) //C(4,2) = 6 expected pairs per unit
	if math.Abs(ld[0]-want) > 1e-12 {
		Te.Errorf("expected %v, got %v", want, ld[0])
	}
}

func TestDistanceWeighted(Te *testing.T) {
	edges := []float64{0, 10, 20}
	hist := []float64{4.0, 8.0}
	dw, err := DistanceWeighted(hist, edges)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(dw[0]-4.0/25.0) > 1e-12 { //center 5
		Te.Errorf("bin 0: expected %v, got %v", 4.0/25.0, dw[0])
	}
	if math.Abs(dw[1]-8.0/225.0) > 1e-12 { //center 15
		Te.Errorf("bin 1: expected %v, got %v", 8.0/225.0, dw[1])
	}
	//an r=0 centered bin cannot be normalized, it stays 0
	dw, err = DistanceWeighted([]float64{5}, []float64{-5, 5})
	if err != nil {
		Te.Fatal(err)
	}
	if dw[0] != 0 {
		Te.Errorf("expected 0 for the r=0 bin, got %v", dw[0])
	}
}
