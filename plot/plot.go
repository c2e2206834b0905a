// Package plot draws convergence traces with gonum/plot.
package plot

import (
	"errors"
	"fmt"
	"math"
	"sort"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/njchilds90/gorootfind/rootfind"
)

// ErrNothingToPlot is returned when no trace has a positive entry.
var ErrNothingToPlot = errors.New("plot: nothing to plot")

const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

// Histories plots log10(|f|) against the iteration index, one line per
// trace, and saves the figure to path. The format follows the extension
// (png, svg, pdf, ...). Zero entries have no logarithm and are skipped.
func Histories(path, title string, traces map[string]rootfind.History) error {
	names := make([]string, 0, len(traces))
	for name := range traces {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []interface{}
	for _, name := range names {
		pts := points(traces[name])
		if len(pts) == 0 {
			continue
		}
		lines = append(lines, name, pts)
	}
	if len(lines) == 0 {
		return ErrNothingToPlot
	}

	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "log10 |f(x)|"
	p.Add(plotter.NewGrid())
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("plot: save %s: %w", path, err)
	}
	return nil
}

func points(h rootfind.History) plotter.XYs {
	var pts plotter.XYs
	for i, v := range h {
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: math.Log10(v)})
	}
	return pts
}
