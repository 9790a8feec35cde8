/*
 * star.go, part of gostar
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ReadStar reads a STAR file from disk. Files ending in .gz are
// decompressed transparently. RELION 3.0 files name their single data
// block "data_"; that block is returned under the name "particles" so
// both 3.0 and 3.1 layouts look the same to callers.
func ReadStar(path string) (*Star, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, formatError("ReadStar: %v", err)
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, formatError("ReadStar: %s: %v", path, err)
		}
		defer gz.Close()
		r = gz
	}
	s, err := ParseStar(r)
	if err != nil {
		if serr, ok := err.(Error); ok {
			serr.Decorate(fmt.Sprintf("ReadStar: %s", path))
		}
		return nil, err
	}
	return s, nil
}

// ParseStar reads the STAR text format from r. Both loop_ blocks and
// simple key-value blocks are accepted; the latter become single-row
// tables.
func ParseStar(r io.Reader) (*Star, error) {
	s := NewStar()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	var name string
	var cols []string
	var t *Table
	var inLoop, inHeader bool
	var pairCols, pairVals []string

	flush := func() error {
		if name == "" && t == nil && pairCols == nil {
			return nil
		}
		if t == nil && pairCols != nil {
			t = NewTable(pairCols)
			if err := t.AppendRow(pairVals); err != nil {
				return err
			}
		}
		if t != nil {
			key := name
			if key == "" {
				key = "particles"
			}
			s.SetTable(key, t)
		}
		name, cols, t = "", nil, nil
		inLoop, inHeader = false, false
		pairCols, pairVals = nil, nil
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "data_"):
			if err := flush(); err != nil {
				return nil, err
			}
			name = strings.TrimPrefix(line, "data_")
		case line == "loop_":
			inLoop = true
			inHeader = true
			cols = nil
		case strings.HasPrefix(line, "_"):
			fields := strings.Fields(line)
			label := strings.TrimPrefix(fields[0], "_")
			if inLoop && inHeader {
				cols = append(cols, label)
			} else if !inLoop {
				// key-value block (e.g. data_general in some files)
				if len(fields) < 2 {
					return nil, formatError("ParseStar: key %s has no value", label)
				}
				pairCols = append(pairCols, label)
				pairVals = append(pairVals, fields[1])
			}
		default:
			if !inLoop {
				return nil, formatError("ParseStar: data row outside loop_ block: %q", line)
			}
			if inHeader {
				if len(cols) == 0 {
					return nil, formatError("ParseStar: loop_ block with no column labels")
				}
				t = NewTable(cols)
				inHeader = false
			}
			if err := t.AppendRow(strings.Fields(line)); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, formatError("ParseStar: %v", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(s.order) == 0 {
		return nil, formatError("ParseStar: no data blocks found")
	}
	return s, nil
}

// WriteStar writes s to path, gzip-compressed if the path ends in .gz.
// Sections are written in their stored order, each as a loop_ block.
func WriteStar(s *Star, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return processingError("WriteStar: %v", err)
	}
	defer f.Close()
	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}
	return FormatStar(s, w)
}

// FormatStar writes the STAR text format to w.
func FormatStar(s *Star, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, name := range s.order {
		t := s.tables[name]
		fmt.Fprintf(bw, "data_%s\n\nloop_\n", name)
		for i, c := range t.cols {
			fmt.Fprintf(bw, "_%s #%d\n", c, i+1)
		}
		for _, row := range t.rows {
			fmt.Fprintln(bw, strings.Join(row, "\t"))
		}
		fmt.Fprintln(bw)
	}
	if err := bw.Flush(); err != nil {
		return processingError("FormatStar: %v", err)
	}
	return nil
}
