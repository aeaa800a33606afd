package calib

import (
	"context"
	"math"

	"github.com/liqcal/calibration-core/internal/optimize"
	"github.com/liqcal/calibration-core/pkg/utils"
)

// TrialOutcome is the observed result of applying a parameter vector once.
// Score is a minimization target; Success reports whether the dispensed
// liquid passed the height check. Failed trials keep whatever score the
// executor assigned.
type TrialOutcome struct {
	Score   float64
	Success bool
}

// TrialExecutor applies a parameter vector in one real or simulated trial.
// Implementations may block on hardware motion; they must honor ctx.
type TrialExecutor interface {
	ExecuteTrial(ctx context.Context, trialIndex int, params optimize.ParameterVector) (TrialOutcome, error)
}

// failedTrialScore is assigned when the height check fails, mirroring the
// reference protocol's penalty for unusable wells.
const failedTrialScore = 1000.0

// SimulatedExecutor scores trials against a hidden target vector with
// optional Gaussian noise, standing in for the hardware executor during
// development and tests. Distances are normalized by per-parameter scales so
// rates and delays weigh comparably.
type SimulatedExecutor struct {
	target      optimize.ParameterVector
	scales      map[string]float64
	noise       float64
	failureRate float64
	rng         *utils.RandSource
}

// NewSimulatedExecutor builds a simulated executor whose optimum is the
// given target. A zero seed picks a time-based one.
func NewSimulatedExecutor(target optimize.ParameterVector, seed int64) *SimulatedExecutor {
	return &SimulatedExecutor{
		target: target.Clone(),
		scales: map[string]float64{
			optimize.ParamAspirationRate:           100.0,
			optimize.ParamAspirationDelay:          1.0,
			optimize.ParamAspirationWithdrawalRate: 5.0,
			optimize.ParamDispenseRate:             100.0,
			optimize.ParamDispenseDelay:            1.0,
			optimize.ParamBlowoutRate:              50.0,
		},
		rng: utils.NewRandSource(seed),
	}
}

// WithNoise sets the standard deviation of the Gaussian noise added to each
// score.
func (e *SimulatedExecutor) WithNoise(stddev float64) *SimulatedExecutor {
	e.noise = stddev
	return e
}

// WithFailureRate sets the probability that a trial fails its height check.
func (e *SimulatedExecutor) WithFailureRate(rate float64) *SimulatedExecutor {
	e.failureRate = rate
	return e
}

func (e *SimulatedExecutor) ExecuteTrial(ctx context.Context, trialIndex int, params optimize.ParameterVector) (TrialOutcome, error) {
	if err := ctx.Err(); err != nil {
		return TrialOutcome{}, err
	}

	if e.failureRate > 0 && e.rng.Float64() < e.failureRate {
		return TrialOutcome{Score: failedTrialScore, Success: false}, nil
	}

	score := 0.0
	for name, scale := range e.scales {
		tv, ok := e.target[name]
		if !ok {
			continue
		}
		pv, ok := params[name]
		if !ok {
			continue
		}
		d := (pv - tv) / scale
		score += d * d
	}
	if e.noise > 0 {
		score += e.rng.NormFloat64(0, e.noise)
	}
	return TrialOutcome{Score: math.Max(0, score), Success: true}, nil
}
