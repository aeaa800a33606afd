package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/liqcal/calibration-core/internal/calib"
	"github.com/liqcal/calibration-core/internal/optimize"
	"github.com/liqcal/calibration-core/pkg/utils"
)

// Summary condenses a calibration run into the numbers an operator cares
// about when deciding whether to accept the calibrated parameters.
type Summary struct {
	Strategy       string
	TrialCount     int
	SuccessCount   int
	FailureCount   int
	BestScore      float64
	BestTrialIndex int
	FirstScore     float64
	MeanScore      float64
	StdDevScore    float64
	ImprovementPct float64
	BestParameters optimize.ParameterVector
}

// Summarize computes the summary for a completed run.
func Summarize(result *calib.Result) Summary {
	s := Summary{
		Strategy:       result.Strategy,
		TrialCount:     len(result.Trials),
		BestScore:      result.BestScore,
		BestTrialIndex: -1,
		BestParameters: result.BestParameters,
	}

	var scores []float64
	for _, t := range result.Trials {
		if !t.Success {
			s.FailureCount++
			continue
		}
		s.SuccessCount++
		scores = append(scores, t.Score)
		if t.Score == result.BestScore && s.BestTrialIndex < 0 {
			s.BestTrialIndex = t.Index
		}
	}

	if len(scores) > 0 {
		s.FirstScore = scores[0]
		s.MeanScore = utils.Mean(scores)
		s.StdDevScore = utils.StdDev(scores)
		if s.FirstScore > 0 && !math.IsInf(s.BestScore, 1) {
			s.ImprovementPct = (s.FirstScore - s.BestScore) / s.FirstScore * 100
		}
	}
	return s
}

// Render formats the summary as a human-readable block.
func Render(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Strategy:        %s\n", s.Strategy)
	fmt.Fprintf(&b, "Trials:          %d (%d ok, %d failed)\n", s.TrialCount, s.SuccessCount, s.FailureCount)
	if math.IsInf(s.BestScore, 1) {
		b.WriteString("Best score:      none (no successful trial)\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Best score:      %.4f (trial %d)\n", s.BestScore, s.BestTrialIndex)
	fmt.Fprintf(&b, "First score:     %.4f\n", s.FirstScore)
	fmt.Fprintf(&b, "Mean score:      %.4f (stddev %.4f)\n", s.MeanScore, s.StdDevScore)
	fmt.Fprintf(&b, "Improvement:     %.1f%%\n", s.ImprovementPct)

	b.WriteString("Best parameters:\n")
	names := make([]string, 0, len(s.BestParameters))
	for name := range s.BestParameters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %-28s %g\n", name, s.BestParameters[name])
	}
	return b.String()
}
