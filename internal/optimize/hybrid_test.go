package optimize

import (
	"math"
	"testing"
)

func TestHybridBudgets96(t *testing.T) {
	s := NewHybridPhaseStrategy(testReference(), DefaultBounds(), 96)

	wants := []int{24, 24, 12, 36}
	phases := s.Phases()
	if len(phases) != 4 {
		t.Fatalf("expected 4 phases, got %d", len(phases))
	}
	total := 0
	for i, phase := range phases {
		if phase.Budget != wants[i] {
			t.Fatalf("phase %s: expected budget %d, got %d", phase.Name, wants[i], phase.Budget)
		}
		total += phase.Budget
	}
	if total != 96 {
		t.Fatalf("expected budgets to sum to 96, got %d", total)
	}
}

func TestHybridBudgetsTinySampleCount(t *testing.T) {
	s := NewHybridPhaseStrategy(testReference(), DefaultBounds(), 8)

	total := 0
	for _, phase := range s.Phases() {
		if phase.Budget < 1 {
			t.Fatalf("phase %s: budget %d below floor", phase.Name, phase.Budget)
		}
		total += phase.Budget
	}
	if total != 8 {
		t.Fatalf("expected budgets to sum to 8, got %d", total)
	}
}

func TestHybridPhaseOrder(t *testing.T) {
	s := NewHybridPhaseStrategy(testReference(), DefaultBounds(), 96)

	wantNames := []string{PhaseFlowRates, PhaseDelays, PhaseWithdrawal, PhaseFineTune}
	wantSizes := []int{3, 2, 1, 6}
	for i, phase := range s.Phases() {
		if phase.Name != wantNames[i] {
			t.Fatalf("phase %d: expected %s, got %s", i, wantNames[i], phase.Name)
		}
		if len(phase.Params) != wantSizes[i] {
			t.Fatalf("phase %s: expected %d params, got %d", phase.Name, wantSizes[i], len(phase.Params))
		}
	}
}

func TestHybridPhaseForTrial(t *testing.T) {
	s := NewHybridPhaseStrategy(testReference(), DefaultBounds(), 96)

	tests := []struct {
		trial int
		phase string
	}{
		{0, PhaseFlowRates},
		{23, PhaseFlowRates},
		{24, PhaseDelays},
		{47, PhaseDelays},
		{48, PhaseWithdrawal},
		{59, PhaseWithdrawal},
		{60, PhaseFineTune},
		{95, PhaseFineTune},
		{200, PhaseFineTune}, // past the schedule end
	}
	for _, tt := range tests {
		if got := s.PhaseForTrial(tt.trial); got != tt.phase {
			t.Fatalf("trial %d: expected phase %s, got %s", tt.trial, tt.phase, got)
		}
	}
}

func TestHybridTrialZeroReplaysReference(t *testing.T) {
	s := NewHybridPhaseStrategy(testReference(), DefaultBounds(), 96)

	params := s.GenerateParameters(0, nil, 0.1)

	for name, want := range testReference() {
		if params[name] != want {
			t.Fatalf("trial 0: expected %s=%g, got %g", name, want, params[name])
		}
	}
}

func TestHybridTrialOnePerturbsPhaseSubsetOnly(t *testing.T) {
	s := NewHybridPhaseStrategy(testReference(), DefaultBounds(), 96)
	s.RecordResult(0, testReference(), 3.0, true, 0.1)

	params := s.GenerateParameters(1, s.History(), 0.1)

	// flow_rates phase: only the three flow parameters move.
	if math.Abs(params[ParamAspirationRate]-151) > 1e-9 {
		t.Fatalf("expected aspiration_rate 151, got %g", params[ParamAspirationRate])
	}
	if math.Abs(params[ParamDispenseRate]-151) > 1e-9 {
		t.Fatalf("expected dispense_rate 151, got %g", params[ParamDispenseRate])
	}
	if math.Abs(params[ParamBlowoutRate]-100.5) > 1e-9 {
		t.Fatalf("expected blowout_rate 100.5, got %g", params[ParamBlowoutRate])
	}
	for _, name := range []string{ParamAspirationDelay, ParamDispenseDelay, ParamAspirationWithdrawalRate} {
		if params[name] != testReference()[name] {
			t.Fatalf("expected %s unchanged in flow_rates phase, got %g", name, params[name])
		}
	}
}

func TestHybridRecordsTagPhase(t *testing.T) {
	s := NewHybridPhaseStrategy(testReference(), DefaultBounds(), 8)

	for trial := 0; trial < 8; trial++ {
		params := s.GenerateParameters(trial, s.History(), 0.1)
		s.RecordResult(trial, params, float64(10-trial), true, 0.1)
	}

	// Budgets for 8 samples: flow 2, delays 2, withdrawal 1, fine_tune 3.
	wantPhases := []string{
		PhaseFlowRates, PhaseFlowRates,
		PhaseDelays, PhaseDelays,
		PhaseWithdrawal,
		PhaseFineTune, PhaseFineTune, PhaseFineTune,
	}
	for i, rec := range s.History() {
		if rec.Phase != wantPhases[i] {
			t.Fatalf("record %d: expected phase %s, got %s", i, wantPhases[i], rec.Phase)
		}
	}
}

func TestHybridPhaseTransitionSeedsFromBest(t *testing.T) {
	s := NewHybridPhaseStrategy(testReference(), DefaultBounds(), 8)

	// flow_rates spans trials 0 and 1; make trial 1 the best of the phase.
	p0 := s.GenerateParameters(0, s.History(), 0.1)
	s.RecordResult(0, p0, 5.0, true, 0.1)
	p1 := s.GenerateParameters(1, s.History(), 0.1)
	s.RecordResult(1, p1, 2.0, true, 0.1)

	// Trial 2 opens the delays phase and must replay the flow_rates best.
	p2 := s.GenerateParameters(2, s.History(), 0.1)

	if s.CurrentPhase() != PhaseDelays {
		t.Fatalf("expected current phase delays, got %s", s.CurrentPhase())
	}
	for name, want := range p1 {
		if p2[name] != want {
			t.Fatalf("expected new phase seeded from best (%s=%g), got %g", name, want, p2[name])
		}
	}
}

func TestHybridPhaseTransitionFallsBackToLastRecord(t *testing.T) {
	s := NewHybridPhaseStrategy(testReference(), DefaultBounds(), 8)

	// All flow_rates trials fail; the seed falls back to the last record.
	p0 := s.GenerateParameters(0, s.History(), 0.1)
	s.RecordResult(0, p0, 1000, false, 0.1)
	p1 := s.GenerateParameters(1, s.History(), 0.1)
	s.RecordResult(1, p1, 1000, false, 0.1)

	p2 := s.GenerateParameters(2, s.History(), 0.1)

	for name, want := range p1 {
		if p2[name] != want {
			t.Fatalf("expected fallback seed from last record (%s=%g), got %g", name, want, p2[name])
		}
	}
}

func TestHybridSecantRestrictedToPhaseSubset(t *testing.T) {
	s := NewHybridPhaseStrategy(testReference(), DefaultBounds(), 96)

	p0 := s.GenerateParameters(0, s.History(), 0.1)
	s.RecordResult(0, p0, 3.0, true, 0.1)
	p1 := s.GenerateParameters(1, s.History(), 0.1)
	s.RecordResult(1, p1, 2.0, true, 0.1)

	p2 := s.GenerateParameters(2, s.History(), 0.1)

	// Flow parameters improved and keep moving; the rest stay put.
	for _, name := range []string{ParamAspirationRate, ParamDispenseRate, ParamBlowoutRate} {
		if p2[name] <= p1[name] {
			t.Fatalf("expected %s to keep increasing: %g -> %g", name, p1[name], p2[name])
		}
	}
	for _, name := range []string{ParamAspirationDelay, ParamDispenseDelay, ParamAspirationWithdrawalRate} {
		if p2[name] != p1[name] {
			t.Fatalf("expected %s frozen outside its phase: %g -> %g", name, p1[name], p2[name])
		}
	}
}

func TestHybridFineTuneUsesSmallerSteps(t *testing.T) {
	s := NewHybridPhaseStrategy(testReference(), DefaultBounds(), 96)

	base := baseStepSizes()
	var fine PhaseConfig
	for _, phase := range s.Phases() {
		if phase.Name == PhaseFineTune {
			fine = phase
		}
	}
	for _, name := range OptimizedParameters() {
		if fine.Steps[name] >= base[name] {
			t.Fatalf("expected fine_tune step for %s below %g, got %g", name, base[name], fine.Steps[name])
		}
	}
}
