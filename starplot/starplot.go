/*
 * starplot.go, part of gostar
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

//Package starplot writes the figures gostar produces: curve plots for
//radial distributions and histograms for cluster sizes and
//orientation angles. Everything goes to PNG.
package starplot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var curveColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// XY writes a line plot of y against x to path as a PNG.
func XY(x, y []float64, path, title, xlabel, ylabel string) error {
	if len(x) != len(y) {
		return fmt.Errorf("starplot.XY: %d x values but %d y values", len(x), len(y))
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("starplot.XY: %w", err)
	}
	line.Color = curveColor
	p.Add(line)
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("starplot.XY: %w", err)
	}
	return nil
}

// Histogram writes a histogram of vals with nbins bins to path as a
// PNG. Empty input is an error, as gonum cannot bin nothing.
func Histogram(vals []float64, nbins int, path, title, xlabel, ylabel string) error {
	if len(vals) == 0 {
		return fmt.Errorf("starplot.Histogram: no values to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	h, err := plotter.NewHist(plotter.Values(vals), nbins)
	if err != nil {
		return fmt.Errorf("starplot.Histogram: %w", err)
	}
	h.FillColor = curveColor
	p.Add(h)
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("starplot.Histogram: %w", err)
	}
	return nil
}
