/*
 * orientation.go, part of gostar
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

var orientationColumns = []string{
	star.CoordX, star.CoordY, star.CoordZ,
	star.AngleRot, star.AngleTilt, star.AnglePsi,
}

// OrientationResult is one tomogram's nearest-neighbor orientation
// output. Angles and Distances are parallel, one entry per particle:
// the angle between a particle's direction and its nearest neighbor's
// direction, and the distance to that neighbor.
type OrientationResult struct {
	Angles    []float64
	Distances []float64
	// Neighbors holds each particle's nearest-neighbor index.
	Neighbors []int
}

// OrientationSummary is what an orientation run leaves behind for
// reporting and for the composite analyzer.
type OrientationSummary struct {
	Tomograms    int
	Measurements int
	MeanAngle    float64
	StdAngle     float64
	MedianAngle  float64
	MeanDistance float64
	StdDistance  float64
	// AngleBuckets counts angles into 10-degree buckets over
	// [0, 180); bucket i covers [10i, 10i+10).
	AngleBuckets [18]int
}

// OrientationAnalyzer measures the angle between each particle's
// orientation and that of its nearest neighbor, per tomogram.
type OrientationAnalyzer struct {
	opts    *OrientationOptions
	dirs    outDirs
	log     *logg.Logger
	summary *OrientationSummary
}

// NewOrientationAnalyzer returns an orientation analyzer writing
// under outDir/orientation/. nil opts means defaults.
func NewOrientationAnalyzer(outDir string, opts *OrientationOptions, log *logg.Logger) (*OrientationAnalyzer, error) {
	if opts == nil {
		opts = DefaultOrientationOptions()
	}
	if log == nil {
		log = logg.Nop()
	}
	dirs, err := newOutDirs(outDir, "orientation")
	if err != nil {
		return nil, wrapAnalysis(err, "failed to set up orientation output directories")
	}
	return &OrientationAnalyzer{opts: opts, dirs: dirs, log: log}, nil
}

func (a *OrientationAnalyzer) Kind() string { return "orientation" }

// Analyze converts every particle's Euler angles to a direction
// vector, finds each particle's nearest neighbor through the distance
// matrix and computes the angle between the two directions. All six
// coordinate/angle columns must be present; a table without
// orientations is a hard failure, not a soft skip.
func (a *OrientationAnalyzer) Analyze(t *star.Table, pts spatial.Points, dm *spatial.DistMatrix) (*OrientationResult, error) {
	var missing []string
	for _, col := range orientationColumns {
		if !t.HasCol(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, star.FormatErrorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	rot, err := t.Floats(star.AngleRot)
	if err != nil {
		return nil, err
	}
	tilt, err := t.Floats(star.AngleTilt)
	if err != nil {
		return nil, err
	}
	psi, err := t.Floats(star.AnglePsi)
	if err != nil {
		return nil, err
	}
	vectors := make([][3]float64, len(rot))
	for i := range rot {
		vectors[i] = spatial.EulerToDirection(rot[i], tilt[i], psi[i])
	}
	neighbors, distances := dm.NearestNeighbors()
	if neighbors == nil {
		return nil, star.FormatErrorf("orientation analysis needs at least 2 particles, got %d", len(rot))
	}
	angles := make([]float64, len(neighbors))
	for i, nn := range neighbors {
		angles[i] = spatial.AngleBetween(vectors[i], vectors[nn])
	}
	return &OrientationResult{Angles: angles, Distances: distances, Neighbors: neighbors}, nil
}

// SaveTomogram writes one tomogram's measurements and their
// histograms.
func (a *OrientationAnalyzer) SaveTomogram(stem string, r *OrientationResult) error {
	dataFile := filepath.Join(a.dirs.data, stem+".txt")
	if err := saveColumns(dataFile, []string{"angles", "distances"}, r.Angles, r.Distances); err != nil {
		return err
	}
	nbins := int(a.opts.MaxAngle / a.opts.BinWidth)
	angleFile := filepath.Join(a.dirs.plots, stem+"_angle.png")
	if err := starplot.Histogram(r.Angles, nbins, angleFile, "Distribution of Orientation Angles", "Orientation Angle", "Count"); err != nil {
		return err
	}
	distFile := filepath.Join(a.dirs.plots, stem+"_distance.png")
	return starplot.Histogram(r.Distances, nbins, distFile, "Distribution of Nearest Neighbor Distances", "Neighbor Distance", "Count")
}

// Combine concatenates every tomogram's angles and distances, and
// derives the dataset-wide statistics from the pooled arrays.
func (a *OrientationAnalyzer) Combine(results []Result[*OrientationResult]) error {
	summary := &OrientationSummary{Tomograms: len(results)}
	var allAngles, allDistances []float64
	rows := make([][]string, len(results))
	for i, r := range results {
		allAngles = append(allAngles, r.Data.Angles...)
		allDistances = append(allDistances, r.Data.Distances...)
		rows[i] = []string{
			r.Stem,
			joinFloats(r.Data.Angles),
			joinFloats(r.Data.Distances),
		}
	}
	summary.Measurements = len(allAngles)
	if len(allAngles) == 0 {
		a.log.Warnf("no orientation measurements collected")
		a.summary = summary
		return nil
	}
	measurementsFile := filepath.Join(a.dirs.combined, "measurements.txt")
	if err := saveRows(measurementsFile, []string{"Tomogram", "angles", "distances"}, rows); err != nil {
		return err
	}
	nbins := int(a.opts.MaxAngle / a.opts.BinWidth)
	anglePlot := filepath.Join(a.dirs.combined, "angle_distribution.png")
	if err := starplot.Histogram(allAngles, nbins, anglePlot, "Distribution of Orientation Angles (All Tomograms)", "Orientation Angle", "Count"); err != nil {
		return err
	}
	distPlot := filepath.Join(a.dirs.combined, "distance_distribution.png")
	if err := starplot.Histogram(allDistances, nbins, distPlot, "Distribution of Nearest Neighbor Distances (All Tomograms)", "Neighbor Distance", "Count"); err != nil {
		return err
	}
	summary.MeanAngle = stat.Mean(allAngles, nil)
	summary.StdAngle = stat.PopStdDev(allAngles, nil)
	summary.MeanDistance = stat.Mean(allDistances, nil)
	summary.StdDistance = stat.PopStdDev(allDistances, nil)
	sorted := make([]float64, len(allAngles))
	copy(sorted, allAngles)
	sort.Float64s(sorted)
	summary.MedianAngle = median(sorted)
	for _, ang := range allAngles {
		b := int(ang / 10.0)
		if b >= len(summary.AngleBuckets) { //180 exactly lands in the last bucket
			b = len(summary.AngleBuckets) - 1
		}
		summary.AngleBuckets[b]++
	}
	a.summary = summary
	return nil
}

// median of a sorted slice, averaging the two middle values when the
// length is even.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return 0.5 * (sorted[n/2-1] + sorted[n/2])
	}
	return sorted[n/2]
}

func joinFloats(vals []float64) string {
	fields := make([]string, len(vals))
	for i, v := range vals {
		fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(fields, ", ")
}

// Summary returns the combined statistics. Valid after Combine.
func (a *OrientationAnalyzer) Summary() *OrientationSummary { return a.summary }

// Report renders the orientation report under the analyzer's output
// root.
func (a *OrientationAnalyzer) Report() error {
	s := a.summary
	if s == nil {
		return analysisError("orientation report requested before combining results")
	}
	sections := []section{
		{"Particle Orientation Analysis", []kv{
			{"Maximum angle", fmt.Sprintf("%g°", a.opts.MaxAngle)},
			{"Bin width", fmt.Sprintf("%g°", a.opts.BinWidth)},
		}},
		{"Dataset Statistics", []kv{
			{"Number of tomograms", strconv.Itoa(s.Tomograms)},
			{"Total measurements", strconv.Itoa(s.Measurements)},
		}},
	}
	if s.Measurements > 0 {
		dist := section{title: "Angular Distribution"}
		for i, count := range s.AngleBuckets {
			if count == 0 {
				continue
			}
			dist.items = append(dist.items, kv{
				fmt.Sprintf("[%d, %d)", i*10, (i+1)*10),
				fmt.Sprintf("%d pairs", count),
			})
		}
		sections = append(sections,
			dist,
			section{"Orientation Angle Statistics", []kv{
				{"Mean orientation angle", fmt.Sprintf("%.2f ± %.2f", s.MeanAngle, s.StdAngle)},
				{"Median angle", fmt.Sprintf("%.2f°", s.MedianAngle)},
			}},
			section{"Neighbor Distance Statistics", []kv{
				{"Mean neighbor distance", fmt.Sprintf("%.2f ± %.2f", s.MeanDistance, s.StdDistance)},
			}})
	}
	path := filepath.Join(a.dirs.root, "orientation_report.txt")
	if err := writeReport(path, sections); err != nil {
		return err
	}
	a.log.Infof("analysis report saved to %s", path)
	return nil
}
