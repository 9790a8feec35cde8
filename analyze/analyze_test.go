/*
 * analyze_test.go, part of gostar
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
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	star "github.com/rmera/gostar"
	"github.com/rmera/gostar/logg"
	"github.com/rmera/gostar/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coordTable(t *testing.T, coords [][3]float64) *star.Table {
	t.Helper()
	tbl := star.NewTable([]string{star.CoordX, star.CoordY, star.CoordZ})
	for _, c := range coords {
		row := []string{
			strconv.FormatFloat(c[0], 'f', 6, 64),
			strconv.FormatFloat(c[1], 'f', 6, 64),
			strconv.FormatFloat(c[2], 'f', 6, 64),
		}
		require.NoError(t, tbl.AppendRow(row))
	}
	return tbl
}

func orientTable(t *testing.T, coords [][3]float64, eulers [][3]float64) *star.Table {
	t.Helper()
	tbl := star.NewTable([]string{
		star.CoordX, star.CoordY, star.CoordZ,
		star.AngleRot, star.AngleTilt, star.AnglePsi,
	})
	for i, c := range coords {
		row := []string{
			strconv.FormatFloat(c[0], 'f', 6, 64),
			strconv.FormatFloat(c[1], 'f', 6, 64),
			strconv.FormatFloat(c[2], 'f', 6, 64),
			strconv.FormatFloat(eulers[i][0], 'f', 6, 64),
			strconv.FormatFloat(eulers[i][1], 'f', 6, 64),
			strconv.FormatFloat(eulers[i][2], 'f', 6, 64),
		}
		require.NoError(t, tbl.AppendRow(row))
	}
	return tbl
}

func geometry(coords [][3]float64) (spatial.Points, *spatial.DistMatrix) {
	pts := spatial.NewPoints(coords)
	return pts, spatial.NewDistMatrix(pts)
}

func TestRunParallelOrder(t *testing.T) {
	toms := []Tomogram{{Stem: "A"}, {Stem: "B"}, {Stem: "C"}}
	// C finishes first; the result order must still be A, B, C
	delays := map[string]time.Duration{"A": 30 * time.Millisecond, "B": 15 * time.Millisecond, "C": 0}
	results, err := RunParallel(context.Background(), toms, func(tm Tomogram) (string, error) {
		time.Sleep(delays[tm.Stem])
		return "done-" + tm.Stem, nil
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "A", results[0].Stem)
	assert.Equal(t, "B", results[1].Stem)
	assert.Equal(t, "C", results[2].Stem)
	assert.Equal(t, "done-B", results[1].Data)
}

func TestRunParallelAbortsOnFailure(t *testing.T) {
	toms := []Tomogram{{Stem: "A"}, {Stem: "bad"}, {Stem: "C"}}
	results, err := RunParallel(context.Background(), toms, func(tm Tomogram) (int, error) {
		if tm.Stem == "bad" {
			return 0, star.FormatErrorf("broken tomogram")
		}
		return 1, nil
	})
	require.Error(t, err)
	assert.Nil(t, results, "a failed batch must not leak partial results")
	var perr *star.ProcessingError
	assert.ErrorAs(t, err, &perr)
}

func TestRadialInsufficientParticles(t *testing.T) {
	a, err := NewRadialAnalyzer(t.TempDir(), nil, logg.Nop())
	require.NoError(t, err)
	coords := [][3]float64{{0, 0, 0}, {100, 0, 0}}
	pts, dm := geometry(coords)
	res, err := a.Analyze(coordTable(t, coords), pts, dm)
	require.NoError(t, err)
	assert.True(t, res.Insufficient)
	for i := range res.GR {
		assert.Zero(t, res.GR[i])
		assert.Zero(t, res.LocalDensity[i])
		assert.Zero(t, res.DistanceWeighted[i])
	}
}

func TestRadialAnalyze(t *testing.T) {
	opts := &RadialOptions{BinSize: 100, MinDistance: 150, MaxDistance: 1000}
	a, err := NewRadialAnalyzer(t.TempDir(), opts, logg.Nop())
	require.NoError(t, err)
	coords := [][3]float64{{0, 0, 0}, {200, 0, 0}, {400, 0, 0}, {0, 200, 0}}
	pts, dm := geometry(coords)
	res, err := a.Analyze(coordTable(t, coords), pts, dm)
	require.NoError(t, err)
	assert.False(t, res.Insufficient)
	assert.Len(t, res.RawDistances, 6) //C(4,2) pairs
	assert.Greater(t, res.ParticleDensity, 0.0)
	// bins centered below MinDistance are masked to zero
	for i, c := range res.BinCenters {
		if c < opts.MinDistance {
			assert.Zerof(t, res.GR[i], "bin %d (center %v) should be masked", i, c)
		}
	}
	// something must survive the mask: there are pairs at 200 and 400
	total := 0.0
	for _, v := range res.GR {
		total += v
	}
	assert.Greater(t, total, 0.0)
}

// The combined per-bin statistics must pool the tomograms' values,
// not average their averages.
func TestRadialCombinePools(t *testing.T) {
	dir := t.TempDir()
	a, err := NewRadialAnalyzer(dir, &RadialOptions{BinSize: 10, MinDistance: 0, MaxDistance: 20}, logg.Nop())
	require.NoError(t, err)
	centers := []float64{5, 15}
	mk := func(gr0, gr1 float64) *RadialResult {
		return &RadialResult{
			BinCenters:       centers,
			GR:               []float64{gr0, gr1},
			LocalDensity:     []float64{gr0, gr1},
			DistanceWeighted: []float64{gr0, gr1},
			RawDistances:     []float64{10, 20},
			ParticleDensity:  1e-6,
		}
	}
	results := []Result[*RadialResult]{
		{Stem: "t1", Data: mk(2, 6)},
		{Stem: "t2", Data: mk(4, 2)},
	}
	require.NoError(t, a.Combine(results))
	s := a.Summary()
	require.NotNil(t, s)
	assert.Equal(t, 2, s.Tomograms)
	assert.Equal(t, 4, s.Measurements)
	// peak of the g(r) mean curve: bin 0 has mean 3, bin 1 mean 4
	gr := s.Peaks[0]
	assert.Equal(t, 15.0, gr.Distance)
	assert.InDelta(t, 4.0, gr.Mean, 1e-12)
	// sample std of {6, 2}
	assert.InDelta(t, math.Sqrt(8), gr.Std, 1e-12)
	assert.Equal(t, 6.0, gr.Max)
	// combined artifacts on disk
	_, err = os.Stat(filepath.Join(dir, "radial", "combined", "average_all_methods.txt"))
	assert.NoError(t, err)
}

func TestClusterAnalyzeScenario(t *testing.T) {
	coords := [][3]float64{{0, 0, 0}, {10, 0, 0}, {1000, 0, 0}}
	pts, dm := geometry(coords)
	tbl := coordTable(t, coords)

	a, err := NewClusterAnalyzer(t.TempDir(), &ClusterOptions{Threshold: 50, MinClusterSize: 1}, logg.Nop())
	require.NoError(t, err)
	res, err := a.Analyze(tbl, pts, dm)
	require.NoError(t, err)
	require.Len(t, res.Clusters, 2)
	assert.Equal(t, []int{0, 1}, res.Clusters[0])
	assert.Equal(t, []int{2}, res.Clusters[1])
	assert.Equal(t, 2, res.Stats.NClusters)
	assert.Equal(t, 3, res.Stats.TotalParticles)
	assert.Equal(t, 2, res.Stats.LargestSize)
	assert.InDelta(t, 1.5, res.Stats.AvgSize, 1e-12)

	// with a size floor of 2 only {0,1} survives
	a2, err := NewClusterAnalyzer(t.TempDir(), &ClusterOptions{Threshold: 50, MinClusterSize: 2}, logg.Nop())
	require.NoError(t, err)
	res2, err := a2.Analyze(tbl, pts, dm)
	require.NoError(t, err)
	require.Len(t, res2.Clusters, 1)
	assert.Equal(t, []int{0, 1}, res2.Clusters[0])
}

func TestClusterAnalyzeEmptyOutcome(t *testing.T) {
	coords := [][3]float64{{0, 0, 0}, {1000, 0, 0}, {2000, 0, 0}}
	pts, dm := geometry(coords)
	a, err := NewClusterAnalyzer(t.TempDir(), &ClusterOptions{Threshold: 50, MinClusterSize: 2}, logg.Nop())
	require.NoError(t, err)
	res, err := a.Analyze(coordTable(t, coords), pts, dm)
	require.NoError(t, err, "an empty cluster list is an expected outcome, not an error")
	assert.Empty(t, res.Clusters)
	assert.Zero(t, res.Stats.NClusters)
	assert.Zero(t, res.Stats.TotalParticles)
}

func TestClusterCombine(t *testing.T) {
	dir := t.TempDir()
	a, err := NewClusterAnalyzer(dir, &ClusterOptions{Threshold: 50, MinClusterSize: 1}, logg.Nop())
	require.NoError(t, err)
	results := []Result[*ClusterResult]{
		{Stem: "t1", Data: &ClusterResult{
			Clusters: [][]int{{0, 1}, {2}},
			SizeDist: map[int]int{2: 1, 1: 1},
			Stats:    ClusterStats{NClusters: 2, TotalParticles: 3, LargestSize: 2, AvgSize: 1.5},
		}},
		{Stem: "t2", Data: &ClusterResult{
			Clusters: [][]int{{0, 1, 2, 3}},
			SizeDist: map[int]int{4: 1},
			Stats:    ClusterStats{NClusters: 1, TotalParticles: 4, LargestSize: 4, AvgSize: 4},
		}},
	}
	require.NoError(t, a.Combine(results))
	s := a.Summary()
	require.NotNil(t, s)
	assert.Equal(t, 3, s.TotalClusters)
	assert.Equal(t, 7, s.TotalParticles)
	assert.ElementsMatch(t, []int{1, 2, 4}, s.Sizes)
	assert.Equal(t, 4, s.Largest)
	assert.InDelta(t, 7.0/3.0, s.AvgSize, 1e-12)
	require.NoError(t, a.Report())
	_, err = os.Stat(filepath.Join(dir, "cluster", "cluster_report.txt"))
	assert.NoError(t, err)
}

func TestOrientationIdenticalEulers(t *testing.T) {
	coords := [][3]float64{{0, 0, 0}, {100, 0, 0}, {10, 0, 0}}
	eulers := [][3]float64{{30, 60, 90}, {30, 60, 90}, {30, 60, 90}}
	pts, dm := geometry(coords)
	a, err := NewOrientationAnalyzer(t.TempDir(), nil, logg.Nop())
	require.NoError(t, err)
	res, err := a.Analyze(orientTable(t, coords, eulers), pts, dm)
	require.NoError(t, err)
	require.Len(t, res.Angles, 3)
	for i, ang := range res.Angles {
		assert.Zerof(t, ang, "identical orientations must give angle 0, particle %d got %v", i, ang)
	}
	// particle 0 is closer to 2 than to 1
	assert.Equal(t, 2, res.Neighbors[0])
	assert.InDelta(t, 10.0, res.Distances[0], 1e-12)
}

func TestOrientationMissingColumns(t *testing.T) {
	coords := [][3]float64{{0, 0, 0}, {100, 0, 0}, {10, 0, 0}}
	pts, dm := geometry(coords)
	a, err := NewOrientationAnalyzer(t.TempDir(), nil, logg.Nop())
	require.NoError(t, err)
	_, err = a.Analyze(coordTable(t, coords), pts, dm)
	require.Error(t, err, "a table without Euler angles is a hard failure")
	var ferr *star.FormatError
	assert.ErrorAs(t, err, &ferr)
}

func TestOrientationCombine(t *testing.T) {
	a, err := NewOrientationAnalyzer(t.TempDir(), nil, logg.Nop())
	require.NoError(t, err)
	results := []Result[*OrientationResult]{
		{Stem: "t1", Data: &OrientationResult{Angles: []float64{10, 20}, Distances: []float64{100, 200}, Neighbors: []int{1, 0}}},
		{Stem: "t2", Data: &OrientationResult{Angles: []float64{30, 40}, Distances: []float64{300, 400}, Neighbors: []int{1, 0}}},
	}
	require.NoError(t, a.Combine(results))
	s := a.Summary()
	require.NotNil(t, s)
	assert.Equal(t, 4, s.Measurements)
	assert.InDelta(t, 25.0, s.MeanAngle, 1e-12) //pooled over all 4 angles
	// even count, so the median averages the two middle angles
	assert.InDelta(t, 25.0, s.MedianAngle, 1e-12)
	assert.InDelta(t, 250.0, s.MeanDistance, 1e-12)
	// 10, 20, 30, 40 land in buckets 1 to 4
	for _, b := range []int{1, 2, 3, 4} {
		assert.Equal(t, 1, s.AngleBuckets[b])
	}
	require.NoError(t, a.Report())
}

const prepareStar = `data_optics

loop_
_rlnOpticsGroup #1
_rlnImagePixelSize #2
1	2.0

data_particles

loop_
_rlnCoordinateX #1
_rlnCoordinateY #2
_rlnCoordinateZ #3
_rlnMicrographName #4
10.0	20.0	30.0	TS_01.tomostar
11.0	21.0	31.0	TS_01.tomostar
12.0	22.0	32.0	TS_01.tomostar
13.0	23.0	33.0	TS_02.tomostar
14.0	24.0	34.0	TS_02.tomostar
`

func TestPrepare(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "particles.star")
	require.NoError(t, os.WriteFile(input, []byte(prepareStar), 0644))
	out := filepath.Join(dir, "analysis")
	run, err := Prepare(context.Background(), input, out, nil, logg.Nop())
	require.NoError(t, err)
	// TS_02 has only 2 particles and must be dropped, and reported
	require.Len(t, run.Tomograms, 1)
	assert.Equal(t, "TS_01", run.Tomograms[0].Stem)
	assert.Equal(t, []string{"TS_02"}, run.Excluded)
	// coordinates got scaled by the 2.0 pixel size
	x, err := run.Tomograms[0].Table.Floats(star.CoordX)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, x[0], 1e-9)
	// processed table and surviving sub-file on disk, dropped one gone
	_, err = os.Stat(filepath.Join(out, "processed.star"))
	assert.NoError(t, err)
	_, err = os.Stat(run.Tomograms[0].Path)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "sub_files", "TS_02.star"))
	assert.True(t, os.IsNotExist(err))
}

func TestProcessRadialEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "particles.star")
	require.NoError(t, os.WriteFile(input, []byte(prepareStar), 0644))
	out := filepath.Join(dir, "analysis")
	run, err := Prepare(context.Background(), input, out, nil, logg.Nop())
	require.NoError(t, err)
	a, err := NewRadialAnalyzer(out, &RadialOptions{BinSize: 10, MinDistance: 0, MaxDistance: 100}, logg.Nop())
	require.NoError(t, err)
	require.NoError(t, Process[*RadialResult](context.Background(), a, run))
	_, err = os.Stat(filepath.Join(out, "radial", "radial_report.txt"))
	assert.NoError(t, err)
	s := a.Summary()
	require.NotNil(t, s)
	assert.Equal(t, 1, s.Tomograms)
}
