package optimize

import "math"

// Strategy decides the next parameter vector to try from one-trial-at-a-time
// feedback. Implementations are stateful and sequential by design: a host
// loop must alternate GenerateParameters and RecordResult in lock-step, with
// strictly increasing, gap-free trial indices. Concurrent use of a single
// instance is not supported; create one instance per calibration run.
type Strategy interface {
	// GenerateParameters proposes the vector for the given trial. It is
	// deterministic given its inputs and the strategy's cursor state, and
	// never mutates history.
	GenerateParameters(trialIndex int, history []TrialRecord, learningRate float64) ParameterVector

	// RecordResult appends the trial outcome to the strategy's own history
	// and updates best tracking. Best tracking moves only on a successful
	// trial with a strictly lower score.
	RecordResult(trialIndex int, params ParameterVector, score float64, success bool, learningRate float64)

	// BestScore returns the lowest successful score so far (NoScore until
	// a success is recorded). Monotonically non-increasing.
	BestScore() float64

	// BestParameters returns the parameters of the best successful trial.
	BestParameters() ParameterVector

	// History returns the trials recorded so far, ordered by index.
	History() []TrialRecord

	// Name and Description are static metadata.
	Name() string
	Description() string
}

// degenerateDelta is the threshold below which a parameter delta is treated
// as zero and contributes no gradient. Small-but-nonzero deltas still divide
// raw; that matches the established behavior and is intentionally not
// smoothed.
const degenerateDelta = 1e-6

// secantGradients estimates per-parameter gradients from the two most recent
// points. The sign convention follows score minimization: a move that reduced
// the score yields a positive gradient along that move. A previous score of
// NoScore means there is no usable pair yet and all gradients are zero.
func secantGradients(names []string, prev, cur TrialRecord) map[string]float64 {
	grads := make(map[string]float64, len(names))
	if math.IsInf(prev.Score, 1) {
		for _, name := range names {
			grads[name] = 0
		}
		return grads
	}

	for _, name := range names {
		pv, pok := prev.Parameters[name]
		cv, cok := cur.Parameters[name]
		if !pok || !cok {
			grads[name] = 0
			continue
		}
		delta := cv - pv
		if math.Abs(delta) <= degenerateDelta {
			grads[name] = 0
			continue
		}
		grads[name] = -(cur.Score - prev.Score) / delta
	}
	return grads
}

// applyGradientStep moves params along the estimated gradients, scaled by the
// learning rate and per-parameter step sizes.
func applyGradientStep(params ParameterVector, grads map[string]float64, steps map[string]float64, learningRate float64) ParameterVector {
	out := params.Clone()
	for name, g := range grads {
		step, ok := steps[name]
		if !ok {
			continue
		}
		if _, ok := out[name]; !ok {
			continue
		}
		out[name] += learningRate * step * g
	}
	return out
}

// baseStepSizes is the shared step-size table for full-space strategies.
func baseStepSizes() map[string]float64 {
	return map[string]float64{
		ParamAspirationRate:           10.0,
		ParamAspirationDelay:          0.05,
		ParamAspirationWithdrawalRate: 0.5,
		ParamDispenseRate:             10.0,
		ParamDispenseDelay:            0.05,
		ParamBlowoutRate:              5.0,
	}
}
