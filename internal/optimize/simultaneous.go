package optimize

// SimultaneousStrategy updates all six continuous parameters every trial
// using secant gradients from the two most recent records. It keeps no phase
// or cursor state beyond the shared best tracking.
type SimultaneousStrategy struct {
	state
	steps map[string]float64
}

// NewSimultaneousStrategy builds a whole-vector descent strategy starting
// from the given reference point.
func NewSimultaneousStrategy(reference ParameterVector, bounds Bounds) *SimultaneousStrategy {
	return &SimultaneousStrategy{
		state: newState(reference, bounds),
		steps: baseStepSizes(),
	}
}

func (s *SimultaneousStrategy) Name() string { return "Simultaneous Gradient Descent" }

func (s *SimultaneousStrategy) Description() string {
	return "Optimizes all 6 parameters simultaneously using gradient descent"
}

// GenerateParameters proposes the next vector. Trial 0 replays the reference
// vector; trial 1 perturbs every parameter by 10% of its step size to
// establish the second point for the secant estimate; later trials follow
// the gradient of the last two records.
func (s *SimultaneousStrategy) GenerateParameters(trialIndex int, history []TrialRecord, learningRate float64) ParameterVector {
	switch {
	case trialIndex == 0:
		return s.reference.Clone()

	case trialIndex == 1:
		params := s.reference.Clone()
		for name, step := range s.steps {
			if _, ok := params[name]; ok {
				params[name] += step * 0.1
			}
		}
		return ApplyConstraints(params, s.bounds)

	default:
		if len(history) < 2 {
			return s.reference.Clone()
		}
		prev := history[len(history)-2]
		cur := history[len(history)-1]
		grads := secantGradients(OptimizedParameters(), prev, cur)
		params := applyGradientStep(cur.Parameters, grads, s.steps, learningRate)
		return ApplyConstraints(params, s.bounds)
	}
}

func (s *SimultaneousStrategy) RecordResult(trialIndex int, params ParameterVector, score float64, success bool, learningRate float64) {
	s.record(TrialRecord{
		Index:        trialIndex,
		Parameters:   params.Clone(),
		Score:        score,
		Success:      success,
		LearningRate: learningRate,
	})
}
