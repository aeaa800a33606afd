package optimize

import "fmt"

// Phase names used by the hybrid strategy, in schedule order.
const (
	PhaseFlowRates  = "flow_rates"
	PhaseDelays     = "delays"
	PhaseWithdrawal = "withdrawal"
	PhaseFineTune   = "fine_tune"
)

// PhaseConfig describes one scheduled phase: the parameter subset it
// optimizes, the step sizes used for that subset, and its trial budget.
type PhaseConfig struct {
	Name        string
	Params      []string
	Steps       map[string]float64
	Budget      int
	Description string
}

// HybridPhaseStrategy runs ordered coarse-to-fine phases, each optimizing a
// parameter subset with a proportional trial budget. A new phase is seeded
// from the best point of the phase before it, so earlier gains survive the
// narrowing of focus.
type HybridPhaseStrategy struct {
	state
	sampleCount  int
	phases       []PhaseConfig
	currentPhase string
	phaseStart   int
	phaseSeed    ParameterVector
}

// NewHybridPhaseStrategy builds the phased strategy with budgets computed
// once from sampleCount.
func NewHybridPhaseStrategy(reference ParameterVector, bounds Bounds, sampleCount int) *HybridPhaseStrategy {
	return &HybridPhaseStrategy{
		state:        newState(reference, bounds),
		sampleCount:  sampleCount,
		phases:       buildPhaseSchedule(sampleCount),
		currentPhase: PhaseFlowRates,
		phaseSeed:    reference.Clone(),
	}
}

// buildPhaseSchedule allocates trial budgets of 25%/25%/12.5% to the first
// three phases (each floored at 1) and folds the remainder into fine_tune,
// floored at 1 as well.
func buildPhaseSchedule(sampleCount int) []PhaseConfig {
	flowBudget := max(1, int(float64(sampleCount)*0.25))
	delayBudget := max(1, int(float64(sampleCount)*0.25))
	withdrawalBudget := max(1, int(float64(sampleCount)*0.125))
	fineBudget := max(1, sampleCount-flowBudget-delayBudget-withdrawalBudget)

	return []PhaseConfig{
		{
			Name:   PhaseFlowRates,
			Params: []string{ParamAspirationRate, ParamDispenseRate, ParamBlowoutRate},
			Steps: map[string]float64{
				ParamAspirationRate: 10.0,
				ParamDispenseRate:   10.0,
				ParamBlowoutRate:    5.0,
			},
			Budget:      flowBudget,
			Description: fmt.Sprintf("Flow rate optimization (3 parameters, %d trials)", flowBudget),
		},
		{
			Name:   PhaseDelays,
			Params: []string{ParamAspirationDelay, ParamDispenseDelay},
			Steps: map[string]float64{
				ParamAspirationDelay: 0.05,
				ParamDispenseDelay:   0.05,
			},
			Budget:      delayBudget,
			Description: fmt.Sprintf("Delay optimization (2 parameters, %d trials)", delayBudget),
		},
		{
			Name:   PhaseWithdrawal,
			Params: []string{ParamAspirationWithdrawalRate},
			Steps: map[string]float64{
				ParamAspirationWithdrawalRate: 0.5,
			},
			Budget:      withdrawalBudget,
			Description: fmt.Sprintf("Withdrawal rate optimization (1 parameter, %d trials)", withdrawalBudget),
		},
		{
			Name:   PhaseFineTune,
			Params: OptimizedParameters(),
			Steps: map[string]float64{
				ParamAspirationRate:           5.0,
				ParamAspirationDelay:          0.02,
				ParamAspirationWithdrawalRate: 0.2,
				ParamDispenseRate:             5.0,
				ParamDispenseDelay:            0.02,
				ParamBlowoutRate:              2.0,
			},
			Budget:      fineBudget,
			Description: fmt.Sprintf("Fine-tuning all parameters (6 parameters, %d trials)", fineBudget),
		},
	}
}

func (s *HybridPhaseStrategy) Name() string { return "Hybrid Hierarchical Optimization" }

func (s *HybridPhaseStrategy) Description() string {
	return "Hierarchical optimization: flow rates, then delays, then withdrawal, then fine-tuning"
}

// Phases returns the computed phase schedule.
func (s *HybridPhaseStrategy) Phases() []PhaseConfig { return s.phases }

// CurrentPhase returns the phase the cursor is in.
func (s *HybridPhaseStrategy) CurrentPhase() string { return s.currentPhase }

// PhaseForTrial walks the schedule accumulating budgets and returns the
// first phase whose cumulative budget exceeds trialIndex. Indices past the
// schedule end resolve to fine_tune; rounding in the budget split can leave
// a trailing gap.
func (s *HybridPhaseStrategy) PhaseForTrial(trialIndex int) string {
	used := 0
	for _, phase := range s.phases {
		used += phase.Budget
		if trialIndex < used {
			return phase.Name
		}
	}
	return PhaseFineTune
}

func (s *HybridPhaseStrategy) phaseConfig(name string) PhaseConfig {
	for _, phase := range s.phases {
		if phase.Name == name {
			return phase
		}
	}
	return s.phases[len(s.phases)-1]
}

// seedFromPhase picks the starting point for a new phase: the best
// successful record of the finished phase, falling back to the most recent
// record when none succeeded.
func seedFromPhase(history []TrialRecord, phase string) (ParameterVector, bool) {
	if len(history) == 0 {
		return nil, false
	}
	best := NoScore()
	var seed ParameterVector
	for _, rec := range history {
		if rec.Phase != phase || !rec.Success {
			continue
		}
		if rec.Score < best {
			best = rec.Score
			seed = rec.Parameters
		}
	}
	if seed == nil {
		seed = history[len(history)-1].Parameters
	}
	return seed.Clone(), true
}

// GenerateParameters proposes the next vector. Phase transitions are derived
// from the trial index, which the host must supply strictly increasing and
// gap-free; the strategy does not defend against out-of-order calls.
func (s *HybridPhaseStrategy) GenerateParameters(trialIndex int, history []TrialRecord, learningRate float64) ParameterVector {
	phase := s.PhaseForTrial(trialIndex)
	if phase != s.currentPhase {
		previous := s.currentPhase
		s.currentPhase = phase
		s.phaseStart = trialIndex
		if seed, ok := seedFromPhase(history, previous); ok {
			s.phaseSeed = seed
		}
	}

	cfg := s.phaseConfig(phase)

	switch {
	case trialIndex == 0:
		return s.reference.Clone()

	case trialIndex == s.phaseStart:
		// First trial of a new phase replays the seeded point.
		return s.phaseSeed.Clone()

	case trialIndex == s.phaseStart+1:
		// Second trial of a phase perturbs only this phase's subset.
		params := s.phaseSeed.Clone()
		for _, name := range cfg.Params {
			if _, ok := params[name]; ok {
				params[name] += cfg.Steps[name] * 0.1
			}
		}
		return ApplyConstraints(params, s.bounds)

	default:
		var phaseRecords []TrialRecord
		for _, rec := range history {
			if rec.Phase == phase {
				phaseRecords = append(phaseRecords, rec)
			}
		}
		if len(phaseRecords) < 2 {
			return s.phaseSeed.Clone()
		}
		prev := phaseRecords[len(phaseRecords)-2]
		cur := phaseRecords[len(phaseRecords)-1]
		grads := secantGradients(cfg.Params, prev, cur)
		params := applyGradientStep(cur.Parameters, grads, cfg.Steps, learningRate)
		return ApplyConstraints(params, s.bounds)
	}
}

// RecordResult tags the record with the phase derived from its trial index
// before storing it.
func (s *HybridPhaseStrategy) RecordResult(trialIndex int, params ParameterVector, score float64, success bool, learningRate float64) {
	s.record(TrialRecord{
		Index:        trialIndex,
		Parameters:   params.Clone(),
		Score:        score,
		Success:      success,
		LearningRate: learningRate,
		Phase:        s.PhaseForTrial(trialIndex),
	})
}
