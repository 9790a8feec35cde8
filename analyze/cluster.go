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

package analyze

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	star "github.com/rmera/gostar"
	"github.com/rmera/gostar/logg"
	"github.com/rmera/gostar/spatial"
	"github.com/rmera/gostar/starplot"
	"gonum.org/v1/gonum/stat"
)

// ClusterStats are the headline numbers of one tomogram's clustering.
type ClusterStats struct {
	NClusters      int
	TotalParticles int
	LargestSize    int
	AvgSize        float64
}

// ClusterResult is one tomogram's clustering output.
type ClusterResult struct {
	// Clusters lists the surviving clusters as particle index sets.
	Clusters [][]int
	// SizeDist maps cluster size to count, before the minimum-size
	// filter, as FindClusters returned it.
	SizeDist map[int]int
	Stats    ClusterStats
}

// ClusterSummary is what a cluster run leaves behind for reporting
// and for the composite analyzer.
type ClusterSummary struct {
	Tomograms      int
	TotalClusters  int
	TotalParticles int
	// Sizes is the pooled multiset of cluster sizes over all
	// tomograms, respecting the minimum-size filter.
	Sizes   []int
	AvgSize float64
	Largest int
	StdSize float64
}

// ClusterAnalyzer finds connected components of the particle set
// under a distance threshold, per tomogram.
type ClusterAnalyzer struct {
	opts    *ClusterOptions
	dirs    outDirs
	log     *logg.Logger
	summary *ClusterSummary
}

// NewClusterAnalyzer returns a cluster analyzer writing under
// outDir/cluster/. nil opts means defaults.
func NewClusterAnalyzer(outDir string, opts *ClusterOptions, log *logg.Logger) (*ClusterAnalyzer, error) {
	if opts == nil {
		opts = DefaultClusterOptions()
	}
	if log == nil {
		log = logg.Nop()
	}
	dirs, err := newOutDirs(outDir, "cluster")
	if err != nil {
		return nil, wrapAnalysis(err, "failed to set up cluster output directories")
	}
	return &ClusterAnalyzer{opts: opts, dirs: dirs, log: log}, nil
}

func (a *ClusterAnalyzer) Kind() string { return "cluster" }

// Analyze builds the threshold adjacency relation, extracts connected
// components with union-find and filters them by the minimum cluster
// size. An empty outcome is not an error: sparse particle fields
// legitimately have no clusters above the size floor.
func (a *ClusterAnalyzer) Analyze(t *star.Table, pts spatial.Points, dm *spatial.DistMatrix) (*ClusterResult, error) {
	adj, err := spatial.BuildAdjacency(pts, a.opts.Threshold)
	if err != nil {
		return nil, err
	}
	clusters, sizeDist := spatial.FindClusters(adj)
	var filtered [][]int
	for _, c := range clusters {
		if len(c) >= a.opts.MinClusterSize {
			filtered = append(filtered, c)
		}
	}
	res := &ClusterResult{Clusters: filtered, SizeDist: sizeDist}
	if len(filtered) == 0 {
		a.log.Warnf("no clusters found above minimum size")
		res.SizeDist = map[int]int{}
		return res, nil
	}
	sizes := make([]float64, len(filtered))
	total := 0
	largest := 0
	for i, c := range filtered {
		sizes[i] = float64(len(c))
		total += len(c)
		if len(c) > largest {
			largest = len(c)
		}
	}
	res.Stats = ClusterStats{
		NClusters:      len(filtered),
		TotalParticles: total,
		LargestSize:    largest,
		AvgSize:        stat.Mean(sizes, nil),
	}
	return res, nil
}

// sizeMultiset expands a size distribution into the flat list of
// cluster sizes it describes, smallest first, dropping sizes below
// the minimum.
func (a *ClusterAnalyzer) sizeMultiset(sizeDist map[int]int) []int {
	keys := make([]int, 0, len(sizeDist))
	for size := range sizeDist {
		if size >= a.opts.MinClusterSize {
			keys = append(keys, size)
		}
	}
	sort.Ints(keys)
	var out []int
	for _, size := range keys {
		for i := 0; i < sizeDist[size]; i++ {
			out = append(out, size)
		}
	}
	return out
}

// SaveTomogram writes one tomogram's cluster membership table and its
// size histogram.
func (a *ClusterAnalyzer) SaveTomogram(stem string, r *ClusterResult) error {
	rows := make([][]string, len(r.Clusters))
	for i, c := range r.Clusters {
		members := make([]string, len(c))
		for j, m := range c {
			members[j] = strconv.Itoa(m)
		}
		rows[i] = []string{strconv.Itoa(i + 1), strconv.Itoa(len(c)), strings.Join(members, ", ")}
	}
	clustersFile := filepath.Join(a.dirs.data, stem+"_clusters.txt")
	if err := saveRows(clustersFile, []string{"Cluster", "Size", "Members"}, rows); err != nil {
		return err
	}
	sizes := a.sizeMultiset(r.SizeDist)
	if len(sizes) == 0 {
		return nil
	}
	fsizes := make([]float64, len(sizes))
	for i, s := range sizes {
		fsizes[i] = float64(s)
	}
	sizesFile := filepath.Join(a.dirs.data, stem+"_sizes.txt")
	if err := saveColumns(sizesFile, []string{"Size"}, fsizes); err != nil {
		return err
	}
	plotFile := filepath.Join(a.dirs.plots, stem+"_sizes.png")
	nbins := sizes[len(sizes)-1] //sizes are sorted ascending
	return starplot.Histogram(fsizes, nbins, plotFile, "Cluster Sizes", "Cluster Size", "Count")
}

// Combine pools every tomogram's cluster sizes into one global
// distribution and sums the per-tomogram statistics.
func (a *ClusterAnalyzer) Combine(results []Result[*ClusterResult]) error {
	summary := &ClusterSummary{Tomograms: len(results)}
	statRows := make([][]string, len(results))
	for i, r := range results {
		st := r.Data.Stats
		summary.TotalClusters += st.NClusters
		summary.TotalParticles += st.TotalParticles
		summary.Sizes = append(summary.Sizes, a.sizeMultiset(r.Data.SizeDist)...)
		statRows[i] = []string{
			r.Stem,
			strconv.Itoa(st.NClusters),
			strconv.Itoa(st.TotalParticles),
			strconv.Itoa(st.LargestSize),
			fmt.Sprintf("%g", st.AvgSize),
		}
	}
	statsFile := filepath.Join(a.dirs.combined, "cluster_statistics.txt")
	headers := []string{"Tomogram", "n_clusters", "total_particles", "largest_size", "avg_size"}
	if err := saveRows(statsFile, headers, statRows); err != nil {
		return err
	}
	if len(summary.Sizes) > 0 {
		fsizes := make([]float64, len(summary.Sizes))
		largest := 0
		for i, s := range summary.Sizes {
			fsizes[i] = float64(s)
			if s > largest {
				largest = s
			}
		}
		summary.AvgSize = stat.Mean(fsizes, nil)
		summary.StdSize = stat.PopStdDev(fsizes, nil)
		summary.Largest = largest
		sizesFile := filepath.Join(a.dirs.combined, "all_sizes.txt")
		if err := saveColumns(sizesFile, []string{"Size"}, fsizes); err != nil {
			return err
		}
		plotFile := filepath.Join(a.dirs.combined, "size_distribution.png")
		if err := starplot.Histogram(fsizes, largest, plotFile, "Cluster Sizes (All Tomograms)", "Cluster Size", "Count"); err != nil {
			return err
		}
	}
	a.summary = summary
	return nil
}

// Summary returns the combined statistics. Valid after Combine.
func (a *ClusterAnalyzer) Summary() *ClusterSummary { return a.summary }

// Report renders the cluster report under the analyzer's output root.
func (a *ClusterAnalyzer) Report() error {
	s := a.summary
	if s == nil {
		return analysisError("cluster report requested before combining results")
	}
	sections := []section{
		{"Particle Cluster Analysis", []kv{
			{"Distance threshold", fmt.Sprintf("%g Å", a.opts.Threshold)},
			{"Minimum cluster size", strconv.Itoa(a.opts.MinClusterSize)},
		}},
		{"Dataset Statistics", []kv{
			{"Number of tomograms", strconv.Itoa(s.Tomograms)},
			{"Total clusters", strconv.Itoa(s.TotalClusters)},
			{"Total clustered particles", strconv.Itoa(s.TotalParticles)},
		}},
	}
	if len(s.Sizes) > 0 {
		sections = append(sections, section{"Cluster Statistics", []kv{
			{"Average cluster size", fmt.Sprintf("%.1f", s.AvgSize)},
			{"Largest cluster", fmt.Sprintf("%d particles", s.Largest)},
			{"Size standard deviation", fmt.Sprintf("%.1f", s.StdSize)},
		}})
		counts := make(map[int]int)
		for _, sz := range s.Sizes {
			counts[sz]++
		}
		sizes := make([]int, 0, len(counts))
		for sz := range counts {
			sizes = append(sizes, sz)
		}
		sort.Ints(sizes)
		dist := section{title: "Size Distribution"}
		for _, sz := range sizes {
			dist.items = append(dist.items, kv{
				fmt.Sprintf("%d particles", sz),
				fmt.Sprintf("%d clusters", counts[sz]),
			})
		}
		sections = append(sections, dist)
	}
	path := filepath.Join(a.dirs.root, "cluster_report.txt")
	if err := writeReport(path, sections); err != nil {
		return err
	}
	a.log.Infof("analysis report saved to %s", path)
	return nil
}
