package calibd

import (
	"math"
	"testing"

	"github.com/liqcal/calibration-core/internal/optimize"
	"github.com/liqcal/calibration-core/pkg/config"
)

func testSpec() *config.Calibration {
	return &config.Calibration{
		Strategy:       "hybrid",
		DeviceClass:    "P1000",
		SubstanceClass: "GLYCEROL_50",
		SampleCount:    8,
	}
}

func TestRunStoreCreate(t *testing.T) {
	store := NewRunStore()

	rec, err := store.Create("", testSpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Run.ID == "" {
		t.Fatalf("expected generated run ID")
	}
	if rec.Run.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", rec.Run.Status)
	}
	if rec.Run.CreatedAtUnixMs == 0 {
		t.Fatalf("expected creation timestamp")
	}
	if !math.IsInf(rec.BestScore, 1) {
		t.Fatalf("expected best score sentinel, got %f", rec.BestScore)
	}

	if _, err := store.Create(rec.Run.ID, testSpec()); err == nil {
		t.Fatalf("expected duplicate ID to be rejected")
	}
}

func TestRunStoreStatusTransitions(t *testing.T) {
	store := NewRunStore()
	if _, err := store.Create("run-1", testSpec()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := store.SetStatus("run-1", StatusRunning, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Run.StartedAtUnixMs == 0 {
		t.Fatalf("expected start timestamp on RUNNING")
	}
	if updated.Run.EndedAtUnixMs != 0 {
		t.Fatalf("unexpected end timestamp while running")
	}

	updated, err = store.SetStatus("run-1", StatusFailed, "executor exploded")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Run.EndedAtUnixMs == 0 {
		t.Fatalf("expected end timestamp on FAILED")
	}
	if updated.Run.Error != "executor exploded" {
		t.Fatalf("expected error message, got %q", updated.Run.Error)
	}
	if !updated.Run.Status.Terminal() {
		t.Fatalf("expected FAILED to be terminal")
	}

	if _, err := store.SetStatus("missing", StatusRunning, ""); err == nil {
		t.Fatalf("expected error for unknown run")
	}
}

func TestRunStoreListFiltersAndPaginates(t *testing.T) {
	store := NewRunStore()
	for _, id := range []string{"a", "b", "c"} {
		if _, err := store.Create(id, testSpec()); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if _, err := store.SetStatus("b", StatusRunning, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := store.List(10, 0, "")
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}

	running := store.List(10, 0, StatusRunning)
	if len(running) != 1 || running[0].Run.ID != "b" {
		t.Fatalf("expected only run b, got %v", running)
	}

	page := store.List(2, 0, "")
	if len(page) != 2 {
		t.Fatalf("expected limit 2, got %d", len(page))
	}
	rest := store.List(2, 2, "")
	if len(rest) != 1 {
		t.Fatalf("expected 1 run at offset 2, got %d", len(rest))
	}
	if len(store.List(10, 99, "")) != 0 {
		t.Fatalf("expected empty page past the end")
	}
}

func TestRunStoreTrialsAndBest(t *testing.T) {
	store := NewRunStore()
	if _, err := store.Create("run-1", testSpec()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	params := optimize.ParameterVector{optimize.ParamAspirationRate: 150}
	trial := optimize.TrialRecord{Index: 0, Parameters: params, Score: 2.5, Success: true, LearningRate: 0.1}
	if err := store.AppendTrial("run-1", trial, 2.5, params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trials, ok := store.Trials("run-1")
	if !ok || len(trials) != 1 {
		t.Fatalf("expected 1 trial, got %v (ok=%t)", trials, ok)
	}

	score, best, ok := store.Best("run-1")
	if !ok {
		t.Fatalf("expected best to resolve")
	}
	if score != 2.5 {
		t.Fatalf("expected best score 2.5, got %f", score)
	}
	if best[optimize.ParamAspirationRate] != 150 {
		t.Fatalf("expected best params, got %v", best)
	}

	if err := store.AppendTrial("missing", trial, 2.5, params); err == nil {
		t.Fatalf("expected error for unknown run")
	}
	if _, _, ok := store.Best("missing"); ok {
		t.Fatalf("expected miss for unknown run")
	}
}

func TestParseRunStatus(t *testing.T) {
	if got := ParseRunStatus("RUNNING"); got != StatusRunning {
		t.Fatalf("expected RUNNING, got %q", got)
	}
	if got := ParseRunStatus("bogus"); got != "" {
		t.Fatalf("expected empty status for unknown value, got %q", got)
	}
}
