package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/liqcal/calibration-core/internal/calib"
	"github.com/liqcal/calibration-core/internal/optimize"
)

func sampleResult() *calib.Result {
	params := optimize.ParameterVector{optimize.ParamAspirationRate: 160}
	return &calib.Result{
		Strategy:       "Simultaneous Gradient Descent",
		BestScore:      1.0,
		BestParameters: params,
		Trials: []optimize.TrialRecord{
			{Index: 0, Parameters: params, Score: 4.0, Success: true},
			{Index: 1, Parameters: params, Score: 1000, Success: false},
			{Index: 2, Parameters: params, Score: 2.0, Success: true},
			{Index: 3, Parameters: params, Score: 1.0, Success: true},
		},
		FailedTrials:      1,
		Improvements:      3,
		FinalLearningRate: 0.095,
		Duration:          2 * time.Second,
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResult())

	if s.TrialCount != 4 {
		t.Fatalf("expected 4 trials, got %d", s.TrialCount)
	}
	if s.SuccessCount != 3 || s.FailureCount != 1 {
		t.Fatalf("expected 3 ok / 1 failed, got %d / %d", s.SuccessCount, s.FailureCount)
	}
	if s.BestScore != 1.0 || s.BestTrialIndex != 3 {
		t.Fatalf("expected best 1.0 at trial 3, got %f at %d", s.BestScore, s.BestTrialIndex)
	}
	if s.FirstScore != 4.0 {
		t.Fatalf("expected first score 4.0, got %f", s.FirstScore)
	}
	// (4.0 - 1.0) / 4.0 = 75%.
	if math.Abs(s.ImprovementPct-75) > 1e-9 {
		t.Fatalf("expected 75%% improvement, got %f", s.ImprovementPct)
	}
}

func TestSummarizeNoSuccesses(t *testing.T) {
	result := &calib.Result{
		Strategy:  "Coordinate Descent",
		BestScore: optimize.NoScore(),
		Trials: []optimize.TrialRecord{
			{Index: 0, Score: 1000, Success: false},
		},
	}

	s := Summarize(result)
	if s.SuccessCount != 0 || s.FailureCount != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if !math.IsInf(s.BestScore, 1) {
		t.Fatalf("expected sentinel best score, got %f", s.BestScore)
	}

	out := Render(s)
	if !strings.Contains(out, "no successful trial") {
		t.Fatalf("expected no-success note, got:\n%s", out)
	}
}

func TestRenderListsBestParameters(t *testing.T) {
	out := Render(Summarize(sampleResult()))

	for _, want := range []string{
		"Simultaneous Gradient Descent",
		"Best score:",
		"aspiration_rate",
		"75.0%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
