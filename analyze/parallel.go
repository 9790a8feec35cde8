/*
 * parallel.go, part of gostar
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
	"runtime"
	"sync"

	star "github.com/rmera/gostar"
)

// Tomogram is one partition of the input particle table: all particles
// sharing one grouping-tag value, plus the sub-file that partition was
// written to during preparation.
type Tomogram struct {
	// Key is the full grouping-tag value.
	Key string
	// Stem is Key flattened into a filesystem-safe identifier, used
	// to name every per-tomogram output file.
	Stem string
	// Table holds this tomogram's particles.
	Table *star.Table
	// Path is the sub-file this tomogram was written to.
	Path string
}

// Result pairs one tomogram's identity with what an analyzer computed
// for it.
type Result[R any] struct {
	Stem string
	Data R
}

// RunParallel fans fn out over toms with a fixed worker pool of
// max(1, NumCPU-1) goroutines and collects the results in submission
// order, whatever order the workers finish in. One tomogram failing
// fails the whole call: the first error in submission order is
// returned wrapped as a ProcessingError and all results are discarded.
// Tomograms are read-only to the workers.
func RunParallel[R any](ctx context.Context, toms []Tomogram, fn func(Tomogram) (R, error)) ([]Result[R], error) {
	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}
	if workers > len(toms) {
		workers = len(toms)
	}
	results := make([]Result[R], len(toms))
	errs := make([]error, len(toms))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				data, err := fn(toms[i])
				if err != nil {
					errs[i] = err
					continue
				}
				results[i] = Result[R]{Stem: toms[i].Stem, Data: data}
			}
		}()
	}
	for i := range toms {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, star.WrapProcessing(err, "parallel processing of tomogram %s failed", toms[i].Stem)
		}
	}
	return results, nil
}
