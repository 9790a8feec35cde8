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

package spatial

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BinEdges returns distance bin edges starting at 0 in steps of
// binSize. The last edge is the first multiple of binSize at or past
// maxDistance, so every distance up to maxDistance lands in a bin.
// Returns a RadialError for non-positive binSize or maxDistance.
func BinEdges(binSize, maxDistance float64) ([]float64, error) {
	if binSize <= 0 {
		return nil, radialError("BinEdges: non-positive bin size %f", binSize)
	}
	if maxDistance <= 0 {
		return nil, radialError("BinEdges: non-positive max distance %f", maxDistance)
	}
	var edges []float64
	for i := 0; ; i++ {
		v := float64(i) * binSize
		edges = append(edges, v)
		if v >= maxDistance {
			break
		}
	}
	return edges, nil
}

// BinCenters returns the midpoint of each bin in edges.
func BinCenters(edges []float64) []float64 {
	if len(edges) < 2 {
		return nil
	}
	centers := make([]float64, len(edges)-1)
	for i := range centers {
		centers[i] = 0.5 * (edges[i] + edges[i+1])
	}
	return centers
}

// Histogram counts data into the bins defined by edges. Values outside
// [edges[0], edges[last]] are discarded; a value equal to the last
// edge falls into the last bin. The input slice is not modified.
func Histogram(data, edges []float64) ([]float64, error) {
	if len(edges) < 2 {
		return nil, radialError("Histogram: need at least 2 bin edges, got %d", len(edges))
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	lo, hi := edges[0], edges[len(edges)-1]
	// clip to the divider range so stat.Histogram doesn't panic; values
	// sitting exactly on the top edge belong to the last bin
	first := sort.SearchFloat64s(sorted, lo)
	last := len(sorted)
	atTop := 0.0
	for last > first && sorted[last-1] >= hi {
		if sorted[last-1] == hi {
			atTop++
		}
		last--
	}
	counts := make([]float64, len(edges)-1)
	stat.Histogram(counts, edges, sorted[first:last], nil)
	counts[len(counts)-1] += atTop
	return counts, nil
}

func shellVolumes(edges []float64) []float64 {
	vols := make([]float64, len(edges)-1)
	for i := range vols {
		lo, hi := edges[i], edges[i+1]
		vols[i] = 4.0 / 3.0 * math.Pi * (hi*hi*hi - lo*lo*lo)
	}
	return vols
}

// ShellNormalize turns a raw distance histogram into g(r): each bin
// count, per particle, divided by the expected density in that bin's
// spherical shell. Bins whose denominator is zero (degenerate box or
// shell) come out as 0 rather than NaN or Inf.
func ShellNormalize(hist, edges []float64, boxVolume float64, nParticles int) ([]float64, error) {
	if len(hist) != len(edges)-1 {
		return nil, radialError("ShellNormalize: %d bins do not match %d edges", len(hist), len(edges))
	}
	gr := make([]float64, len(hist))
	if nParticles <= 0 || boxVolume <= 0 {
		return gr, nil
	}
	density := float64(nParticles) / boxVolume
	vols := shellVolumes(edges)
	for i, h := range hist {
		norm := density * vols[i]
		if norm == 0 {
			continue
		}
		gr[i] = (h / float64(nParticles)) / norm
	}
	return gr, nil
}

// LocalDensityNormalize divides histogram counts by the expected pair
// count per shell under uniform density, C(n,2)*(shellVol/boxVol).
// Zero-denominator bins yield 0.
func LocalDensityNormalize(hist, edges []float64, boxVolume float64, nParticles int) ([]float64, error) {
	if len(hist) != len(edges)-1 {
		return nil, radialError("LocalDensityNormalize: %d bins do not match %d edges", len(hist), len(edges))
	}
	ld := make([]float64, len(hist))
	if nParticles < 2 || boxVolume <= 0 {
		return ld, nil
	}
	pairs := float64(nParticles) * float64(nParticles-1) / 2.0
	vols := shellVolumes(edges)
	for i, h := range hist {
		expected := pairs * (vols[i] / boxVolume)
		if expected == 0 {
			continue
		}
		ld[i] = h / expected
	}
	return ld, nil
}

// DistanceWeighted divides histogram counts by the square of each
// bin's center distance. The r=0 bin yields 0.
func DistanceWeighted(hist, edges []float64) ([]float64, error) {
	if len(hist) != len(edges)-1 {
		return nil, radialError("DistanceWeighted: %d bins do not match %d edges", len(hist), len(edges))
	}
	dw := make([]float64, len(hist))
	centers := BinCenters(edges)
	for i, h := range hist {
		r2 := centers[i] * centers[i]
		if r2 == 0 {
			continue
		}
		dw[i] = h / r2
	}
	return dw, nil
}
