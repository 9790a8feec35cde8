/*
 * selection.go, part of gostar
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

package star

import (
	"strings"
)

// Partition is a disjoint subset of a particle table whose rows share
// one value of a grouping tag (typically one tomogram).
type Partition struct {
	Key   string
	Table *Table
}

// partitionKey derives the grouping key for one tag value. With
// depth > 0 only the first depth '/'-separated path segments count,
// so particles can be grouped by a shared directory prefix.
func partitionKey(value string, depth int) string {
	if depth <= 0 {
		return value
	}
	parts := strings.Split(value, "/")
	if len(parts) > depth {
		parts = parts[:depth]
	}
	return strings.Join(parts, "/")
}

// PartitionByTag splits t into per-key sub-tables by the values of the
// tag column, preserving first-appearance order of the keys and row
// order inside each partition. Every row lands in exactly one
// partition. Returns a ProcessingError if the tag column is absent.
func PartitionByTag(t *Table, tag string, partialMatchDepth int) ([]Partition, error) {
	if !t.HasCol(tag) {
		return nil, processingError("PartitionByTag: tag %s not found in table", tag)
	}
	values, err := t.Strings(tag)
	if err != nil {
		return nil, err
	}
	var order []string
	groups := make(map[string][]int)
	for i, v := range values {
		key := partitionKey(v, partialMatchDepth)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	ret := make([]Partition, 0, len(order))
	for _, key := range order {
		ret = append(ret, Partition{Key: key, Table: t.Subset(groups[key])})
	}
	return ret, nil
}

// PartitionStem turns a partition key into a filename stem: path
// separators become underscores and anything from the first dot on is
// dropped.
func PartitionStem(key string) string {
	stem := strings.ReplaceAll(key, "/", "_")
	if i := strings.Index(stem, "."); i >= 0 {
		stem = stem[:i]
	}
	return stem
}

// ThresholdFilter returns the rows of t whose tag value lies in
// [min, max]. The tag column must parse as numbers.
func ThresholdFilter(t *Table, tag string, min, max float64) (*Table, error) {
	if !t.HasCol(tag) {
		return nil, processingError("ThresholdFilter: missing column %s", tag)
	}
	vals, err := t.Floats(tag)
	if err != nil {
		return nil, err
	}
	var keep []int
	for i, v := range vals {
		if v >= min && v <= max {
			keep = append(keep, i)
		}
	}
	return t.Subset(keep), nil
}
