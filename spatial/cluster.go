/*
 * cluster.go, part of gostar
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

// unionFind is a disjoint-set forest with path compression and
// union by rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]] //halve the path as we go
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(i, j int) {
	ri, rj := uf.find(i), uf.find(j)
	if ri == rj {
		return
	}
	if uf.rank[ri] < uf.rank[rj] {
		ri, rj = rj, ri
	}
	uf.parent[rj] = ri
	if uf.rank[ri] == uf.rank[rj] {
		uf.rank[ri]++
	}
}

// FindClusters partitions the particle indexes of adj into connected
// components. Every index appears in exactly one cluster; particles
// with no neighbors form singleton clusters. Clusters are returned in
// order of their lowest member index, members ascending within each.
// The second return value is the cluster size distribution
// (size -> number of clusters of that size).
func FindClusters(adj *Adjacency) ([][]int, map[int]int) {
	n := adj.N()
	uf := newUnionFind(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if adj.At(i, j) {
				uf.union(i, j)
			}
		}
	}
	var clusters [][]int
	where := make(map[int]int) //root -> position in clusters
	for i := 0; i < n; i++ {
		r := uf.find(i)
		k, ok := where[r]
		if !ok {
			k = len(clusters)
			where[r] = k
			clusters = append(clusters, nil)
		}
		clusters[k] = append(clusters[k], i)
	}
	sizes := make(map[int]int)
	for _, c := range clusters {
		sizes[len(c)]++
	}
	return clusters, sizes
}
