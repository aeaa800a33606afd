package report

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/liqcal/calibration-core/internal/optimize"
)

// SavePlot renders a score-versus-trial chart for a run and writes it to
// path. The format follows the file extension (.png, .svg, .pdf). Failed
// trials are skipped; the best-so-far line shows convergence.
func SavePlot(trials []optimize.TrialRecord, title, path string) error {
	if len(trials) == 0 {
		return fmt.Errorf("no trials to plot")
	}

	scorePts := make(plotter.XYs, 0, len(trials))
	bestPts := make(plotter.XYs, 0, len(trials))
	best := math.Inf(1)
	for _, t := range trials {
		if !t.Success {
			continue
		}
		scorePts = append(scorePts, plotter.XY{X: float64(t.Index), Y: t.Score})
		if t.Score < best {
			best = t.Score
		}
		bestPts = append(bestPts, plotter.XY{X: float64(t.Index), Y: best})
	}
	if len(scorePts) == 0 {
		return fmt.Errorf("no successful trials to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Trial"
	p.Y.Label.Text = "Score"

	scoreLine, err := plotter.NewLine(scorePts)
	if err != nil {
		return fmt.Errorf("failed to build score line: %w", err)
	}
	bestLine, err := plotter.NewLine(bestPts)
	if err != nil {
		return fmt.Errorf("failed to build best-score line: %w", err)
	}
	bestLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(scoreLine, bestLine)
	p.Legend.Add("score", scoreLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot to %s: %w", path, err)
	}
	return nil
}
