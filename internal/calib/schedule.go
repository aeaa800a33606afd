package calib

// LearningRateSchedule owns the plateau-triggered decay of the learning
// rate. The rate is multiplied by Decay after Patience consecutive
// non-improving trials and never drops below Min. The schedule belongs to
// the host loop, not to the strategies.
type LearningRateSchedule struct {
	Initial  float64
	Decay    float64
	Min      float64
	Patience int
}

// DefaultLearningRateSchedule returns the schedule used by the reference
// calibration protocols.
func DefaultLearningRateSchedule() LearningRateSchedule {
	return LearningRateSchedule{
		Initial:  0.1,
		Decay:    0.95,
		Min:      0.01,
		Patience: 3,
	}
}

// Valid reports whether the schedule's fields are usable.
func (s LearningRateSchedule) Valid() bool {
	return s.Initial > 0 && s.Decay > 0 && s.Decay <= 1 && s.Min > 0 && s.Min <= s.Initial && s.Patience > 0
}

// Next applies one decay step to the rate, flooring at Min.
func (s LearningRateSchedule) Next(rate float64) float64 {
	decayed := rate * s.Decay
	if decayed < s.Min {
		return s.Min
	}
	return decayed
}
