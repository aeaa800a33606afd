package optimize

import "math"

// Parameter keys adjusted by the optimization strategies. Every strategy
// operates on exactly this key set; anything else carried on a parameter
// vector passes through untouched.
const (
	ParamAspirationRate           = "aspiration_rate"
	ParamAspirationDelay          = "aspiration_delay"
	ParamAspirationWithdrawalRate = "aspiration_withdrawal_rate"
	ParamDispenseRate             = "dispense_rate"
	ParamDispenseDelay            = "dispense_delay"
	ParamBlowoutRate              = "blowout_rate"
)

// OptimizedParameters lists the six continuous parameters in a stable order.
func OptimizedParameters() []string {
	return []string{
		ParamAspirationRate,
		ParamAspirationDelay,
		ParamAspirationWithdrawalRate,
		ParamDispenseRate,
		ParamDispenseDelay,
		ParamBlowoutRate,
	}
}

// ParameterVector maps parameter names to values. Vectors are created per
// trial and must be treated as immutable once stored in a TrialRecord.
type ParameterVector map[string]float64

// Clone returns a copy of the vector.
func (p ParameterVector) Clone() ParameterVector {
	out := make(ParameterVector, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// TrialRecord is the immutable outcome of a single calibration trial.
// Failed trials (Success=false) are retained for audit and for gradient
// continuity but never update best tracking.
type TrialRecord struct {
	Index        int
	Parameters   ParameterVector
	Score        float64
	Success      bool
	LearningRate float64
	Phase        string // set by the hybrid strategy, empty otherwise
}

// NoScore is the "no prior data" sentinel. It must never count as an
// improvement when compared against a recorded score.
func NoScore() float64 {
	return math.Inf(1)
}

// state holds the mutable per-instance optimization state shared by all
// strategies: the recorded history plus best-so-far tracking. One state
// belongs to exactly one strategy instance; it is never shared.
type state struct {
	reference  ParameterVector
	bounds     Bounds
	history    []TrialRecord
	bestScore  float64
	bestParams ParameterVector
}

func newState(reference ParameterVector, bounds Bounds) state {
	return state{
		reference:  reference.Clone(),
		bounds:     bounds,
		bestScore:  NoScore(),
		bestParams: reference.Clone(),
	}
}

// record appends a trial record and updates best tracking. Only successful
// trials that strictly improve the best score move the best point.
func (s *state) record(rec TrialRecord) {
	s.history = append(s.history, rec)
	if rec.Success && rec.Score < s.bestScore {
		s.bestScore = rec.Score
		s.bestParams = rec.Parameters.Clone()
	}
}

// BestScore returns the lowest successful score recorded so far, or the
// NoScore sentinel when no successful trial has been recorded.
func (s *state) BestScore() float64 { return s.bestScore }

// BestParameters returns the parameters of the best successful trial, or the
// reference vector when no successful trial has been recorded.
func (s *state) BestParameters() ParameterVector { return s.bestParams.Clone() }

// History returns the recorded trials in order of trial index.
func (s *state) History() []TrialRecord { return s.history }
