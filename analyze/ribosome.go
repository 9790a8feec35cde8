/*
 * ribosome.go, part of gostar
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
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/rmera/gostar/logg"
)

// SpatialConfigs collects the options of every analysis the composite
// run performs. nil fields mean defaults.
type SpatialConfigs struct {
	Prepare     *PrepareOptions
	Radial      *RadialOptions
	Cluster     *ClusterOptions
	Orientation *OrientationOptions
}

// SpatialAnalyzer runs radial, cluster and orientation analysis over
// one shared prepared dataset, so the input is read, corrected and
// split only once, and merges the three summaries into one report.
type SpatialAnalyzer struct {
	starFile string
	outDir   string
	cfg      SpatialConfigs
	log      *logg.Logger
}

// NewSpatialAnalyzer returns a composite analyzer for the STAR file
// at path, writing under outDir.
func NewSpatialAnalyzer(path, outDir string, cfg SpatialConfigs, log *logg.Logger) *SpatialAnalyzer {
	if log == nil {
		log = logg.Nop()
	}
	return &SpatialAnalyzer{starFile: path, outDir: outDir, cfg: cfg, log: log}
}

// RunAnalysis prepares the dataset once and runs the three analyses
// over it. Preparation failing is fatal, but a single analysis
// failing is only logged: the combined report carries whichever
// sections succeeded. One broken analysis should not cost the user
// the other two.
func (a *SpatialAnalyzer) RunAnalysis(ctx context.Context) error {
	run, err := Prepare(ctx, a.starFile, a.outDir, a.cfg.Prepare, a.log)
	if err != nil {
		return err
	}
	var radialSum *RadialSummary
	var clusterSum *ClusterSummary
	var orientSum *OrientationSummary

	a.log.Infof("running radial distribution analysis")
	if radial, err := NewRadialAnalyzer(a.outDir, a.cfg.Radial, a.log); err != nil {
		a.log.Errorf("radial analysis setup failed: %v", err)
	} else if err := Process[*RadialResult](ctx, radial, run); err != nil {
		a.log.Errorf("radial analysis failed: %v", err)
	} else {
		radialSum = radial.Summary()
	}

	a.log.Infof("running cluster analysis")
	if cluster, err := NewClusterAnalyzer(a.outDir, a.cfg.Cluster, a.log); err != nil {
		a.log.Errorf("cluster analysis setup failed: %v", err)
	} else if err := Process[*ClusterResult](ctx, cluster, run); err != nil {
		a.log.Errorf("cluster analysis failed: %v", err)
	} else {
		clusterSum = cluster.Summary()
	}

	a.log.Infof("running orientation analysis")
	if orient, err := NewOrientationAnalyzer(a.outDir, a.cfg.Orientation, a.log); err != nil {
		a.log.Errorf("orientation analysis setup failed: %v", err)
	} else if err := Process[*OrientationResult](ctx, orient, run); err != nil {
		a.log.Errorf("orientation analysis failed: %v", err)
	} else {
		orientSum = orient.Summary()
	}

	return a.writeCombinedReport(run, radialSum, clusterSum, orientSum)
}

func (a *SpatialAnalyzer) writeCombinedReport(run *Run, radial *RadialSummary, cluster *ClusterSummary, orient *OrientationSummary) error {
	particles, err := run.Star.Particles()
	if err != nil {
		return wrapAnalysis(err, "failed to write combined report")
	}
	sections := []section{
		{"Dataset Summary", []kv{
			{"Input file", a.starFile},
			{"Total particles", strconv.Itoa(particles.Len())},
			{"Number of tomograms", strconv.Itoa(len(run.Tomograms) + len(run.Excluded))},
		}},
	}
	if radial != nil && len(radial.Peaks) > 0 {
		gr := radial.Peaks[0]
		sections = append(sections, section{"Radial Distribution Summary", []kv{
			{"Peak g(r) at", fmt.Sprintf("%.1f Å", gr.Distance)},
			{"Peak height", fmt.Sprintf("%.2e", gr.Mean)},
		}})
	}
	if cluster != nil {
		sections = append(sections, section{"Cluster Analysis Summary", []kv{
			{"Total clusters", strconv.Itoa(cluster.TotalClusters)},
			{"Average cluster size", fmt.Sprintf("%.1f particles", cluster.AvgSize)},
		}})
	}
	if orient != nil {
		sections = append(sections, section{"Orientation Analysis Summary", []kv{
			{"Mean angle", fmt.Sprintf("%.1f° ± %.1f°", orient.MeanAngle, orient.StdAngle)},
			{"Median angle", fmt.Sprintf("%.1f°", orient.MedianAngle)},
		}})
	}
	path := filepath.Join(a.outDir, "report.txt")
	if err := writeReport(path, sections); err != nil {
		return wrapAnalysis(err, "failed to write combined report")
	}
	a.log.Infof("combined report saved to %s", path)
	return nil
}
