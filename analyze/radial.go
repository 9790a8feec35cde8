/*
 * radial.go, part of gostar
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
	"math"
	"path/filepath"
	"strings"

	star "github.com/rmera/gostar"
	"github.com/rmera/gostar/logg"
	"github.com/rmera/gostar/spatial"
	"github.com/rmera/gostar/starplot"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RadialResult is one tomogram's radial distribution output.
type RadialResult struct {
	BinCenters []float64
	// RawDistances keeps the upper-triangular pairwise distances for
	// the global frequency histogram built at combine time.
	RawDistances     []float64
	ParticleDensity  float64
	GR               []float64
	LocalDensity     []float64
	DistanceWeighted []float64
	// Insufficient flags tomograms below the 3-particle floor: curves
	// are all zeros and the tomogram contributes nothing to the
	// combined averages.
	Insufficient bool
}

// radialCurve describes one of the three normalizations, mostly for
// output naming.
type radialCurve struct {
	name  string
	key   string
	label string
	note  string
	sel   func(*RadialResult) []float64
}

var radialCurves = []radialCurve{
	{"rdf", "g_r", "g(r)", "Shell Volume Normalization", func(r *RadialResult) []float64 { return r.GR }},
	{"local_density", "local_density", "Local Density", "Expected Pairs Normalization", func(r *RadialResult) []float64 { return r.LocalDensity }},
	{"distance_weighted", "distance_weighted", "Distance Weighted Density", "r² Normalization", func(r *RadialResult) []float64 { return r.DistanceWeighted }},
}

// Peak locates the maximum of one averaged curve.
type Peak struct {
	Curve    string
	Label    string
	Distance float64
	Mean     float64
	Std      float64
	// Max is the largest single-tomogram value of the curve.
	Max float64
}

// DensityStats aggregates per-tomogram particle densities.
type DensityStats struct {
	Mean, Std, Min, Max float64
}

// RadialSummary is what a radial run leaves behind for reporting and
// for the composite analyzer.
type RadialSummary struct {
	Tomograms    int
	Measurements int
	Skipped      []string
	Density      *DensityStats
	Peaks        []Peak
}

// RadialAnalyzer computes the radial distribution function g(r) and
// its two companion normalizations per tomogram, then averages them
// over the dataset.
type RadialAnalyzer struct {
	opts    *RadialOptions
	dirs    outDirs
	log     *logg.Logger
	summary *RadialSummary
}

// NewRadialAnalyzer returns a radial analyzer writing under
// outDir/radial/. nil opts means defaults.
func NewRadialAnalyzer(outDir string, opts *RadialOptions, log *logg.Logger) (*RadialAnalyzer, error) {
	if opts == nil {
		opts = DefaultRadialOptions()
	}
	if log == nil {
		log = logg.Nop()
	}
	dirs, err := newOutDirs(outDir, "radial")
	if err != nil {
		return nil, wrapAnalysis(err, "failed to set up radial output directories")
	}
	return &RadialAnalyzer{opts: opts, dirs: dirs, log: log}, nil
}

func (a *RadialAnalyzer) Kind() string { return "radial" }

// boxVolume estimates the volume the particles occupy as the product
// of per-axis coordinate ranges, each floored at 1.0. Degenerate
// geometries fall back to mean(distance)³·n, or 1000.0 with no
// distances at all.
func boxVolume(pts spatial.Points, distances []float64, n int) float64 {
	if n < 2 {
		return 1.0
	}
	min := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		c := [3]float64{p.X, p.Y, p.Z}
		for ax := 0; ax < 3; ax++ {
			if c[ax] < min[ax] {
				min[ax] = c[ax]
			}
			if c[ax] > max[ax] {
				max[ax] = c[ax]
			}
		}
	}
	vol := 1.0
	for ax := 0; ax < 3; ax++ {
		r := max[ax] - min[ax]
		if r < 1.0 {
			r = 1.0
		}
		vol *= r
	}
	if vol <= 0 {
		if len(distances) > 0 {
			m := stat.Mean(distances, nil)
			return m * m * m * float64(n)
		}
		return 1000.0
	}
	return vol
}

// Analyze computes all three normalized distributions for one
// tomogram. Below 3 particles the curves are all zeros and the result
// is flagged insufficient. Bins centered below MinDistance are zeroed
// out in every curve: near-contact bins are dominated by picking
// artifacts, not real structure.
func (a *RadialAnalyzer) Analyze(t *star.Table, pts spatial.Points, dm *spatial.DistMatrix) (*RadialResult, error) {
	n := len(pts)
	distances := dm.UpperTri()
	edges, err := spatial.BinEdges(a.opts.BinSize, a.opts.MaxDistance)
	if err != nil {
		return nil, err
	}
	centers := spatial.BinCenters(edges)
	vol := boxVolume(pts, distances, n)
	res := &RadialResult{BinCenters: centers, RawDistances: distances}
	if vol > 0 {
		res.ParticleDensity = float64(n) / vol
	}
	if n < 3 {
		a.log.Warnf("insufficient particles (%d) for radial analysis, returning zero distributions", n)
		res.GR = make([]float64, len(centers))
		res.LocalDensity = make([]float64, len(centers))
		res.DistanceWeighted = make([]float64, len(centers))
		res.Insufficient = true
		return res, nil
	}
	hist, err := spatial.Histogram(distances, edges)
	if err != nil {
		return nil, err
	}
	if res.GR, err = spatial.ShellNormalize(hist, edges, vol, n); err != nil {
		return nil, err
	}
	if res.LocalDensity, err = spatial.LocalDensityNormalize(hist, edges, vol, n); err != nil {
		return nil, err
	}
	if res.DistanceWeighted, err = spatial.DistanceWeighted(hist, edges); err != nil {
		return nil, err
	}
	for i, c := range centers {
		if c < a.opts.MinDistance {
			res.GR[i] = 0
			res.LocalDensity[i] = 0
			res.DistanceWeighted[i] = 0
		}
	}
	return res, nil
}

// SaveTomogram writes one tomogram's curves and plots. Insufficient
// tomograms are logged and skipped.
func (a *RadialAnalyzer) SaveTomogram(stem string, r *RadialResult) error {
	if r.Insufficient {
		a.log.Infof("skipping result saving for %s (insufficient particles)", stem)
		return nil
	}
	for _, c := range radialCurves {
		dataFile := filepath.Join(a.dirs.data, fmt.Sprintf("%s_%s.txt", stem, c.name))
		if err := saveColumns(dataFile, []string{"Distance", c.key}, r.BinCenters, c.sel(r)); err != nil {
			return err
		}
		plotFile := filepath.Join(a.dirs.plots, fmt.Sprintf("%s_%s.png", stem, c.name))
		if err := starplot.XY(r.BinCenters, c.sel(r), plotFile, c.label, "r (Å)", c.label); err != nil {
			return err
		}
	}
	return nil
}

// Combine averages all valid tomograms' curves per bin, builds the
// pooled distance frequency histogram and the per-tomogram density
// statistics, and records the peak of every averaged curve.
func (a *RadialAnalyzer) Combine(results []Result[*RadialResult]) error {
	var valid []Result[*RadialResult]
	var skipped []string
	var allDistances []float64
	var densities []float64
	var densityStems []string
	for _, r := range results {
		allDistances = append(allDistances, r.Data.RawDistances...)
		if r.Data.Insufficient {
			a.log.Infof("skipping tomogram %s due to insufficient particles", r.Stem)
			skipped = append(skipped, r.Stem)
			continue
		}
		valid = append(valid, r)
		if d := r.Data.ParticleDensity; !math.IsInf(d, 0) && !math.IsNaN(d) && d > 0 {
			densities = append(densities, d)
			densityStems = append(densityStems, r.Stem)
		}
	}
	summary := &RadialSummary{Tomograms: len(valid), Skipped: skipped}
	if len(valid) == 0 {
		a.log.Warnf("no tomograms with sufficient particles, combined radial output will be empty")
		a.summary = summary
		return nil
	}
	centers := valid[0].Data.BinCenters
	nbins := len(centers)
	summary.Measurements = len(valid) * nbins

	// per-bin pooled mean/std/count for every curve
	avgCols := []string{"Distance"}
	avgData := [][]float64{centers}
	for _, c := range radialCurves {
		means := make([]float64, nbins)
		stds := make([]float64, nbins)
		counts := make([]float64, nbins)
		binVals := make([]float64, 0, len(valid))
		curveMax := math.Inf(-1)
		for i := 0; i < nbins; i++ {
			binVals = binVals[:0]
			for _, r := range valid {
				v := c.sel(r.Data)[i]
				binVals = append(binVals, v)
				if v > curveMax {
					curveMax = v
				}
			}
			means[i] = stat.Mean(binVals, nil)
			if len(binVals) > 1 {
				stds[i] = stat.StdDev(binVals, nil)
			}
			counts[i] = float64(len(binVals))
		}
		avgCols = append(avgCols, c.key+"_mean", c.key+"_std", c.key+"_count")
		avgData = append(avgData, means, stds, counts)

		avgFile := filepath.Join(a.dirs.combined, "average_"+c.name+".txt")
		if err := saveColumns(avgFile, []string{"Distance", "mean", "std"}, centers, means, stds); err != nil {
			return err
		}
		plotFile := filepath.Join(a.dirs.combined, "average_"+c.name+".png")
		if err := starplot.XY(centers, means, plotFile, c.label+" (All Tomograms)", "r (Å)", c.label); err != nil {
			return err
		}

		peakIdx := floats.MaxIdx(means)
		summary.Peaks = append(summary.Peaks, Peak{
			Curve:    c.key,
			Label:    c.label,
			Distance: centers[peakIdx],
			Mean:     means[peakIdx],
			Std:      stds[peakIdx],
			Max:      curveMax,
		})
	}
	allFile := filepath.Join(a.dirs.combined, "average_all_methods.txt")
	if err := saveColumns(allFile, avgCols, avgData...); err != nil {
		return err
	}

	// pooled distance frequency histogram, windowed to the analysis range
	var filtered []float64
	for _, d := range allDistances {
		if d >= a.opts.MinDistance && d <= a.opts.MaxDistance {
			filtered = append(filtered, d)
		}
	}
	if len(filtered) > 0 {
		histFile := filepath.Join(a.dirs.combined, "distance_frequency.png")
		nbinsHist := int(a.opts.MaxDistance / a.opts.BinSize)
		if err := starplot.Histogram(filtered, nbinsHist, histFile, "Distribution of Particle-Particle Distances", "Distance (Å)", "Frequency"); err != nil {
			return err
		}
		a.log.Infof("distance frequency histogram saved to %s", histFile)
	}

	if len(densities) > 0 {
		ds := &DensityStats{
			Mean: stat.Mean(densities, nil),
			Min:  floats.Min(densities),
			Max:  floats.Max(densities),
		}
		if len(densities) > 1 {
			ds.Std = stat.StdDev(densities, nil)
		}
		summary.Density = ds
		rows := make([][]string, len(densities))
		for i := range densities {
			rows[i] = []string{densityStems[i], fmt.Sprintf("%g", densities[i])}
		}
		densityFile := filepath.Join(a.dirs.combined, "density_statistics.txt")
		if err := saveRows(densityFile, []string{"Tomogram", "Particle_Density"}, rows); err != nil {
			return err
		}
		a.log.Infof("density statistics saved to %s", densityFile)
	}
	a.summary = summary
	return nil
}

// Summary returns the combined statistics. Valid after Combine.
func (a *RadialAnalyzer) Summary() *RadialSummary { return a.summary }

// Report renders the radial report under the analyzer's output root.
func (a *RadialAnalyzer) Report() error {
	s := a.summary
	if s == nil {
		return analysisError("radial report requested before combining results")
	}
	sections := []section{
		{"Radial Distribution Function Analysis", []kv{
			{"Bin size", fmt.Sprintf("%g Å", a.opts.BinSize)},
			{"Minimum distance", fmt.Sprintf("%g Å", a.opts.MinDistance)},
			{"Maximum distance", fmt.Sprintf("%g Å", a.opts.MaxDistance)},
		}},
	}
	stats := section{"Dataset Statistics", []kv{
		{"Number of tomograms analyzed", fmt.Sprintf("%d", s.Tomograms)},
		{"Total measurements", fmt.Sprintf("%d", s.Measurements)},
	}}
	if len(s.Skipped) > 0 {
		stats.items = append(stats.items,
			kv{"Skipped tomograms (insufficient particles)", fmt.Sprintf("%d", len(s.Skipped))},
			kv{"Skipped tomogram names", strings.Join(s.Skipped, ", ")})
	}
	sections = append(sections, stats)
	if d := s.Density; d != nil {
		items := []kv{
			{"Mean density", fmt.Sprintf("%.2e particles/Å³", d.Mean)},
			{"Std density", fmt.Sprintf("%.2e particles/Å³", d.Std)},
			{"Min density", fmt.Sprintf("%.2e particles/Å³", d.Min)},
			{"Max density", fmt.Sprintf("%.2e particles/Å³", d.Max)},
		}
		if d.Min > 0 {
			items = append(items, kv{"Density range ratio", fmt.Sprintf("%.2f", d.Max/d.Min)})
		}
		sections = append(sections, section{"Particle Density Statistics", items})
	}
	for i, p := range s.Peaks {
		sections = append(sections, section{
			fmt.Sprintf("%s Statistics (%s)", p.Label, radialCurves[i].note),
			[]kv{
				{fmt.Sprintf("Maximum %s", p.Curve), fmt.Sprintf("%.2e", p.Max)},
				{"Peak position", fmt.Sprintf("%.1f Å", p.Distance)},
				{"Peak height", fmt.Sprintf("%.2e ± %.2e", p.Mean, p.Std)},
			},
		})
	}
	path := filepath.Join(a.dirs.root, "radial_report.txt")
	if err := writeReport(path, sections); err != nil {
		return err
	}
	a.log.Infof("analysis report saved to %s", path)
	return nil
}
