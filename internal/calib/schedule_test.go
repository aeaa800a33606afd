package calib

import (
	"math"
	"testing"
)

func TestDefaultLearningRateSchedule(t *testing.T) {
	s := DefaultLearningRateSchedule()

	if s.Initial != 0.1 {
		t.Fatalf("expected initial 0.1, got %f", s.Initial)
	}
	if s.Decay != 0.95 {
		t.Fatalf("expected decay 0.95, got %f", s.Decay)
	}
	if s.Min != 0.01 {
		t.Fatalf("expected min 0.01, got %f", s.Min)
	}
	if s.Patience != 3 {
		t.Fatalf("expected patience 3, got %d", s.Patience)
	}
	if !s.Valid() {
		t.Fatalf("expected default schedule to be valid")
	}
}

func TestScheduleNextDecaysAndFloors(t *testing.T) {
	s := DefaultLearningRateSchedule()

	next := s.Next(0.1)
	if math.Abs(next-0.095) > 1e-12 {
		t.Fatalf("expected 0.095, got %f", next)
	}

	// Repeated decay converges onto the floor and stays there.
	rate := s.Initial
	for i := 0; i < 100; i++ {
		rate = s.Next(rate)
	}
	if rate != s.Min {
		t.Fatalf("expected decay to floor at %f, got %f", s.Min, rate)
	}
	if s.Next(rate) != s.Min {
		t.Fatalf("expected floor to be stable, got %f", s.Next(rate))
	}
}

func TestScheduleValid(t *testing.T) {
	tests := []struct {
		name     string
		schedule LearningRateSchedule
		want     bool
	}{
		{"default", DefaultLearningRateSchedule(), true},
		{"zero initial", LearningRateSchedule{Initial: 0, Decay: 0.9, Min: 0.01, Patience: 3}, false},
		{"decay above one", LearningRateSchedule{Initial: 0.1, Decay: 1.5, Min: 0.01, Patience: 3}, false},
		{"min above initial", LearningRateSchedule{Initial: 0.1, Decay: 0.9, Min: 0.5, Patience: 3}, false},
		{"zero patience", LearningRateSchedule{Initial: 0.1, Decay: 0.9, Min: 0.01, Patience: 0}, false},
		{"no decay", LearningRateSchedule{Initial: 0.1, Decay: 1.0, Min: 0.01, Patience: 1}, true},
	}

	for _, tt := range tests {
		if got := tt.schedule.Valid(); got != tt.want {
			t.Fatalf("%s: expected valid=%t, got %t", tt.name, tt.want, got)
		}
	}
}
