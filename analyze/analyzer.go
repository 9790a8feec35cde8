/*
 * analyzer.go, part of gostar
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

//Package analyze implements spatial statistics over cryo-ET particle
//tables: radial distribution, distance-threshold clustering and
//nearest-neighbor orientation angles. All three analyzers share one
//workflow: prepare the table, split it by tomogram, analyze every
//tomogram in parallel, combine, report.
package analyze

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	star "github.com/rmera/gostar"
	"github.com/rmera/gostar/logg"
	"github.com/rmera/gostar/spatial"
)

// Analyzer is the contract every concrete analysis satisfies. Analyze
// and SaveTomogram run once per tomogram, possibly concurrently for
// different tomograms; Combine and Report run once after all
// tomograms are done.
type Analyzer[R any] interface {
	// Kind names the analysis. It is also the output subdirectory.
	Kind() string
	// Analyze computes this analysis' per-tomogram result from the
	// particle table, its coordinates and the full pairwise distance
	// matrix.
	Analyze(t *star.Table, pts spatial.Points, dm *spatial.DistMatrix) (R, error)
	// SaveTomogram persists one tomogram's results and plots.
	SaveTomogram(stem string, r R) error
	// Combine reduces all tomograms' results into combined statistics
	// and persists the combined artifacts.
	Combine(results []Result[R]) error
	// Report writes the human-readable report from the combined
	// statistics.
	Report() error
}

// Run is the shared output of Prepare: the corrected table and its
// per-tomogram splits. It is read-only after Prepare returns, so
// several analyzers can work from the same Run.
type Run struct {
	Star      *star.Star
	Tomograms []Tomogram
	// Excluded lists the tomograms dropped for having too few
	// particles.
	Excluded []string
	Log      *logg.Logger
}

// Prepare reads the STAR file at path, applies refinement shifts and
// pixel-size scaling, writes the corrected table to
// outDir/processed.star, splits it by opts.GroupTag into
// outDir/sub_files/ and drops splits below opts.MinPartitionSize
// (deleting their sub-files). Dropped tomograms are logged and
// reported in Run.Excluded.
func Prepare(ctx context.Context, path, outDir string, opts *PrepareOptions, log *logg.Logger) (*Run, error) {
	if opts == nil {
		opts = DefaultPrepareOptions()
	}
	if log == nil {
		log = logg.Nop()
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapAnalysis(err, "prepare aborted")
	}
	log.Infof("preparing input file %s", path)
	s, err := star.ReadStar(path)
	if err != nil {
		return nil, wrapAnalysis(err, "failed to prepare %s", path)
	}
	shifted, err := star.ApplyShift(s)
	if err != nil {
		return nil, wrapAnalysis(err, "failed to apply refinement shifts to %s", path)
	}
	if shifted {
		log.Infof("applied refinement shifts to coordinates")
	}
	particles, err := s.Particles()
	if err != nil {
		return nil, wrapAnalysis(err, "failed to prepare %s", path)
	}
	if px, ok := s.PixelSize(); ok {
		log.Infof("scaling coordinates by pixel size %v", px)
		if err := star.ScaleCoords(particles, px, px, px); err != nil {
			return nil, wrapAnalysis(err, "failed to scale coordinates of %s", path)
		}
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, wrapAnalysis(err, "failed to create output directory %s", outDir)
	}
	if err := star.WriteStar(s, filepath.Join(outDir, "processed.star")); err != nil {
		return nil, wrapAnalysis(err, "failed to write processed table")
	}
	parts, err := star.PartitionByTag(particles, opts.GroupTag, opts.PartialMatchDepth)
	if err != nil {
		return nil, wrapAnalysis(err, "failed to split %s by %s", path, opts.GroupTag)
	}
	subDir := filepath.Join(outDir, "sub_files")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		return nil, wrapAnalysis(err, "failed to create sub-file directory %s", subDir)
	}
	run := &Run{Star: s, Log: log}
	for _, p := range parts {
		stem := star.PartitionStem(p.Key)
		subPath := filepath.Join(subDir, stem+".star")
		sub := star.NewStar()
		if optics := s.Table("optics"); optics != nil {
			sub.SetTable("optics", optics.Copy())
		}
		sub.SetTable("particles", p.Table)
		if err := star.WriteStar(sub, subPath); err != nil {
			return nil, wrapAnalysis(err, "failed to write sub-file for %s", p.Key)
		}
		if p.Table.Len() < opts.MinPartitionSize {
			log.Infof("skipping %s: only %d particles (minimum required: %d)", stem, p.Table.Len(), opts.MinPartitionSize)
			os.Remove(subPath)
			run.Excluded = append(run.Excluded, stem)
			continue
		}
		run.Tomograms = append(run.Tomograms, Tomogram{Key: p.Key, Stem: stem, Table: p.Table, Path: subPath})
	}
	if len(run.Excluded) > 0 {
		log.Infof("filtered out %d tomograms with insufficient particles: %s", len(run.Excluded), strings.Join(run.Excluded, ", "))
	}
	log.Infof("proceeding with %d tomograms (filtered out %d)", len(run.Tomograms), len(run.Excluded))
	return run, nil
}

// Process drives one analyzer over a prepared Run: per-tomogram
// analysis in parallel, then combine, then report. Every failure
// anywhere in the workflow comes back as a single AnalysisError with
// the cause preserved.
func Process[R any](ctx context.Context, a Analyzer[R], run *Run) error {
	run.Log.Infof("starting parallel tomogram processing for %s analysis", a.Kind())
	fn := func(tm Tomogram) (R, error) {
		var zero R
		pts, err := particlePoints(tm.Table)
		if err != nil {
			return zero, err
		}
		dm := spatial.NewDistMatrix(pts)
		r, err := a.Analyze(tm.Table, pts, dm)
		if err != nil {
			return zero, err
		}
		if err := a.SaveTomogram(tm.Stem, r); err != nil {
			return zero, err
		}
		return r, nil
	}
	results, err := RunParallel(ctx, run.Tomograms, fn)
	if err != nil {
		return wrapAnalysis(err, "%s analysis failed", a.Kind())
	}
	run.Log.Infof("combining results")
	if err := a.Combine(results); err != nil {
		return wrapAnalysis(err, "%s analysis failed to combine results", a.Kind())
	}
	if err := a.Report(); err != nil {
		return wrapAnalysis(err, "%s analysis failed to write its report", a.Kind())
	}
	run.Log.Infof("%s analysis complete, processed %d tomograms", a.Kind(), len(run.Tomograms))
	return nil
}

func particlePoints(t *star.Table) (spatial.Points, error) {
	xs, err := t.Floats(star.CoordX)
	if err != nil {
		return nil, err
	}
	ys, err := t.Floats(star.CoordY)
	if err != nil {
		return nil, err
	}
	zs, err := t.Floats(star.CoordZ)
	if err != nil {
		return nil, err
	}
	pts := make(spatial.Points, len(xs))
	for i := range xs {
		pts[i] = spatial.Point{X: xs[i], Y: ys[i], Z: zs[i], ID: i}
	}
	return pts, nil
}

// outDirs is one analyzer's output layout under the run's output
// directory.
type outDirs struct {
	root     string
	data     string
	plots    string
	combined string
}

func newOutDirs(outRoot, kind string) (outDirs, error) {
	d := outDirs{root: filepath.Join(outRoot, kind)}
	d.data = filepath.Join(d.root, "data")
	d.plots = filepath.Join(d.root, "plots")
	d.combined = filepath.Join(d.root, "combined")
	for _, p := range []string{d.data, d.plots, d.combined} {
		if err := os.MkdirAll(p, 0755); err != nil {
			return d, err
		}
	}
	return d, nil
}

// saveColumns writes named float columns as tab-separated text, one
// header line then one row per index. All columns must be equally
// long.
func saveColumns(path string, headers []string, cols ...[]float64) error {
	if len(headers) != len(cols) {
		return fmt.Errorf("saveColumns: %d headers for %d columns", len(headers), len(cols))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Fprintln(f, strings.Join(headers, "\t"))
	n := 0
	if len(cols) > 0 {
		n = len(cols[0])
	}
	for i := 0; i < n; i++ {
		fields := make([]string, len(cols))
		for j, c := range cols {
			fields[j] = strconv.FormatFloat(c[i], 'g', -1, 64)
		}
		fmt.Fprintln(f, strings.Join(fields, "\t"))
	}
	return nil
}

// saveRows writes arbitrary string rows as tab-separated text under a
// header line.
func saveRows(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Fprintln(f, strings.Join(headers, "\t"))
	for _, r := range rows {
		fmt.Fprintln(f, strings.Join(r, "\t"))
	}
	return nil
}

// kv is one line of a report section. Sections keep insertion order.
type kv struct {
	k, v string
}

type section struct {
	title string
	items []kv
}

func writeReport(path string, sections []section) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, s := range sections {
		fmt.Fprintf(f, "=== %s ===\n", s.title)
		for _, it := range s.items {
			fmt.Fprintf(f, "- %s: %s\n", it.k, it.v)
		}
		fmt.Fprintln(f)
	}
	return nil
}
