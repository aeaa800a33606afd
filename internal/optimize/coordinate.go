package optimize

// coordinateAdvancePeriod is the number of trials spent on one parameter
// before the cursor moves to the next. A full sweep over the six parameters
// therefore needs 6 * coordinateAdvancePeriod trials.
const coordinateAdvancePeriod = 3

// CoordinateDescentStrategy optimizes one parameter at a time in a fixed
// cyclic order, carrying the other five unchanged from the previous trial.
// One-dimensional search is robust to noisy single-sample feedback at the
// cost of slower full-space convergence.
type CoordinateDescentStrategy struct {
	state
	order      []string
	steps      map[string]float64
	paramIndex int
	cycleCount int
}

// NewCoordinateDescentStrategy builds a cyclic one-parameter-at-a-time
// descent strategy starting from the given reference point.
func NewCoordinateDescentStrategy(reference ParameterVector, bounds Bounds) *CoordinateDescentStrategy {
	return &CoordinateDescentStrategy{
		state: newState(reference, bounds),
		order: []string{
			ParamAspirationRate,
			ParamDispenseRate,
			ParamBlowoutRate,
			ParamAspirationDelay,
			ParamDispenseDelay,
			ParamAspirationWithdrawalRate,
		},
		steps: baseStepSizes(),
	}
}

func (s *CoordinateDescentStrategy) Name() string { return "Coordinate Descent" }

func (s *CoordinateDescentStrategy) Description() string {
	return "Optimizes one parameter at a time in cycling order"
}

// CycleCount reports how many complete sweeps over all parameters have
// finished.
func (s *CoordinateDescentStrategy) CycleCount() int { return s.cycleCount }

// CurrentParameter returns the parameter the cursor is pointing at.
func (s *CoordinateDescentStrategy) CurrentParameter() string { return s.order[s.paramIndex] }

func (s *CoordinateDescentStrategy) GenerateParameters(trialIndex int, history []TrialRecord, learningRate float64) ParameterVector {
	if trialIndex == 0 {
		return s.reference.Clone()
	}

	current := s.order[s.paramIndex]

	if trialIndex == 1 {
		params := s.reference.Clone()
		if _, ok := params[current]; ok {
			params[current] += s.steps[current] * 0.1
		}
		return ApplyConstraints(params, s.bounds)
	}

	if len(history) < 2 {
		return s.reference.Clone()
	}

	prev := history[len(history)-2]
	cur := history[len(history)-1]
	params := cur.Parameters.Clone()
	grads := secantGradients([]string{current}, prev, cur)
	params = applyGradientStep(params, grads, s.steps, learningRate)
	return ApplyConstraints(params, s.bounds)
}

// RecordResult appends the trial outcome and advances the parameter cursor
// every coordinateAdvancePeriod trials, counting a cycle on wraparound.
func (s *CoordinateDescentStrategy) RecordResult(trialIndex int, params ParameterVector, score float64, success bool, learningRate float64) {
	s.record(TrialRecord{
		Index:        trialIndex,
		Parameters:   params.Clone(),
		Score:        score,
		Success:      success,
		LearningRate: learningRate,
	})

	if trialIndex > 0 && trialIndex%coordinateAdvancePeriod == 0 {
		s.paramIndex = (s.paramIndex + 1) % len(s.order)
		if s.paramIndex == 0 {
			s.cycleCount++
		}
	}
}
