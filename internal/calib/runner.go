package calib

import (
	"context"
	"fmt"
	"time"

	"github.com/liqcal/calibration-core/internal/optimize"
	"github.com/liqcal/calibration-core/pkg/logger"
)

// Runner drives one calibration run: it alternates GenerateParameters,
// external trial execution, and RecordResult in strict lock-step, and owns
// the learning-rate schedule. One runner serves one run; it is not safe for
// concurrent use.
type Runner struct {
	strategy    optimize.Strategy
	executor    TrialExecutor
	schedule    LearningRateSchedule
	sampleCount int
	onTrial     func(record optimize.TrialRecord, bestScore float64)
}

// Result summarizes a completed calibration run.
type Result struct {
	Strategy          string
	BestScore         float64
	BestParameters    optimize.ParameterVector
	Trials            []optimize.TrialRecord
	FailedTrials      int
	Improvements      int
	FinalLearningRate float64
	Duration          time.Duration
}

// NewRunner creates a runner with the default learning-rate schedule.
func NewRunner(strategy optimize.Strategy, executor TrialExecutor, sampleCount int) *Runner {
	return &Runner{
		strategy:    strategy,
		executor:    executor,
		schedule:    DefaultLearningRateSchedule(),
		sampleCount: sampleCount,
	}
}

// WithSchedule overrides the learning-rate schedule.
func (r *Runner) WithSchedule(schedule LearningRateSchedule) *Runner {
	r.schedule = schedule
	return r
}

// WithTrialReporter installs a callback invoked after every recorded trial.
func (r *Runner) WithTrialReporter(fn func(record optimize.TrialRecord, bestScore float64)) *Runner {
	r.onTrial = fn
	return r
}

// Run executes the calibration loop until the sample budget is spent or ctx
// is cancelled. Trial n's proposal depends on trial n-1's recorded outcome,
// so there is no parallelism to exploit here.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.strategy == nil {
		return nil, fmt.Errorf("strategy is required")
	}
	if r.executor == nil {
		return nil, fmt.Errorf("trial executor is required")
	}
	if r.sampleCount <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", r.sampleCount)
	}
	if !r.schedule.Valid() {
		return nil, fmt.Errorf("invalid learning-rate schedule: %+v", r.schedule)
	}

	start := time.Now()
	learningRate := r.schedule.Initial
	noImprovement := 0
	improvements := 0
	failed := 0

	logger.Info("calibration run started",
		"strategy", r.strategy.Name(),
		"sample_count", r.sampleCount,
		"learning_rate", learningRate,
	)

	for trial := 0; trial < r.sampleCount; trial++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("calibration cancelled at trial %d: %w", trial, err)
		}

		params := r.strategy.GenerateParameters(trial, r.strategy.History(), learningRate)

		outcome, err := r.executor.ExecuteTrial(ctx, trial, params)
		if err != nil {
			return nil, fmt.Errorf("trial %d failed: %w", trial, err)
		}

		previousBest := r.strategy.BestScore()
		r.strategy.RecordResult(trial, params, outcome.Score, outcome.Success, learningRate)

		if !outcome.Success {
			failed++
		}

		if r.strategy.BestScore() < previousBest {
			improvements++
			noImprovement = 0
			logger.Debug("new best score",
				"trial", trial,
				"score", outcome.Score,
				"learning_rate", learningRate,
			)
		} else {
			noImprovement++
		}

		if noImprovement >= r.schedule.Patience {
			old := learningRate
			learningRate = r.schedule.Next(learningRate)
			noImprovement = 0
			logger.Debug("learning rate decayed",
				"trial", trial,
				"old_rate", old,
				"new_rate", learningRate,
			)
		}

		if r.onTrial != nil {
			history := r.strategy.History()
			r.onTrial(history[len(history)-1], r.strategy.BestScore())
		}
	}

	result := &Result{
		Strategy:          r.strategy.Name(),
		BestScore:         r.strategy.BestScore(),
		BestParameters:    r.strategy.BestParameters(),
		Trials:            r.strategy.History(),
		FailedTrials:      failed,
		Improvements:      improvements,
		FinalLearningRate: learningRate,
		Duration:          time.Since(start),
	}

	logger.Info("calibration run completed",
		"strategy", r.strategy.Name(),
		"trials", len(result.Trials),
		"best_score", result.BestScore,
		"failed_trials", failed,
		"duration", result.Duration,
	)
	return result, nil
}
