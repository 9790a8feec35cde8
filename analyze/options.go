/*
 * options.go, part of gostar
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

import star "github.com/rmera/gostar"

// PrepareOptions controls the shared preparation step: how the
// particle table is split into tomograms and which splits survive.
type PrepareOptions struct {
	// GroupTag is the column used to assign particles to tomograms.
	GroupTag string
	// PartialMatchDepth, when positive, groups by the first N
	// '/'-separated segments of the tag value instead of the exact
	// value.
	PartialMatchDepth int
	// MinPartitionSize drops tomograms with fewer particles.
	// Pairwise statistics below 3 particles are not meaningful.
	MinPartitionSize int
}

// DefaultPrepareOptions returns options with the default values.
func DefaultPrepareOptions() *PrepareOptions {
	return &PrepareOptions{
		GroupTag:          star.Micrograph,
		PartialMatchDepth: -1,
		MinPartitionSize:  3,
	}
}

// RadialOptions controls radial distribution analysis. All distances
// in Angstroms.
type RadialOptions struct {
	BinSize     float64
	MinDistance float64
	MaxDistance float64
}

// DefaultRadialOptions returns options with the default values.
func DefaultRadialOptions() *RadialOptions {
	return &RadialOptions{
		BinSize:     50.0,
		MinDistance: 175.0,
		MaxDistance: 7000.0,
	}
}

// ClusterOptions controls cluster analysis.
type ClusterOptions struct {
	// Threshold is the maximum distance (Angstroms) at which two
	// particles count as neighbors.
	Threshold float64
	// MinClusterSize drops clusters with fewer members.
	MinClusterSize int
}

// DefaultClusterOptions returns options with the default values.
func DefaultClusterOptions() *ClusterOptions {
	return &ClusterOptions{
		Threshold:      380.0,
		MinClusterSize: 1,
	}
}

// OrientationOptions controls nearest-neighbor orientation analysis.
// Angles in degrees.
type OrientationOptions struct {
	MaxAngle float64
	BinWidth float64
}

// DefaultOrientationOptions returns options with the default values.
func DefaultOrientationOptions() *OrientationOptions {
	return &OrientationOptions{
		MaxAngle: 180.0,
		BinWidth: 3.0,
	}
}
