package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()

	m.RecordRunStarted("hybrid")
	m.RecordTrial("hybrid", true)
	m.RecordTrial("hybrid", false)
	m.SetBestScore("run-1", 2.5)
	m.SetLearningRate("run-1", 0.095)
	m.RecordRunCompleted("hybrid", "COMPLETED", 3*time.Second)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`calibration_runs_started_total{strategy="hybrid"} 1`,
		`calibration_runs_completed_total{status="COMPLETED",strategy="hybrid"} 1`,
		`calibration_trials_executed_total{result="success",strategy="hybrid"} 1`,
		`calibration_trials_executed_total{result="failure",strategy="hybrid"} 1`,
		`calibration_best_score{run_id="run-1"} 2.5`,
		`calibration_active_runs 0`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}

func TestRemoveRunDropsGauges(t *testing.T) {
	m := NewMetrics()
	m.SetBestScore("run-1", 1.0)
	m.RemoveRun("run-1")

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if strings.Contains(rec.Body.String(), `run_id="run-1"`) {
		t.Fatalf("expected run gauges removed:\n%s", rec.Body.String())
	}
}
