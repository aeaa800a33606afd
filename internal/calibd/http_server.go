package calibd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/liqcal/calibration-core/internal/optimize"
	"github.com/liqcal/calibration-core/pkg/config"
	"github.com/liqcal/calibration-core/pkg/logger"
	"github.com/liqcal/calibration-core/pkg/telemetry"
)

type HTTPServer struct {
	mux      *http.ServeMux
	store    *RunStore
	Executor *RunExecutor
}

func NewHTTPServer(store *RunStore, executor *RunExecutor, metrics *telemetry.Metrics) *HTTPServer {
	s := &HTTPServer{
		mux:      http.NewServeMux(),
		store:    store,
		Executor: executor,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/runs", s.handleRuns)
	s.mux.HandleFunc("/v1/runs/", s.handleRunByID)
	s.mux.HandleFunc("/v1/strategies", s.handleStrategies)
	if metrics != nil {
		s.mux.Handle("/metrics", metrics.Handler())
	}

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// handleRuns handles /v1/runs
func (s *HTTPServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateRun(w, r)
	case http.MethodGet:
		s.handleListRuns(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleRunByID handles /v1/runs/{id} and related endpoints
func (s *HTTPServer) handleRunByID(w http.ResponseWriter, r *http.Request) {
	// Path shapes: /v1/runs/{id}, /v1/runs/{id}:start, /v1/runs/{id}:stop,
	// /v1/runs/{id}/history, /v1/runs/{id}/best
	path := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "run ID is required")
		return
	}

	if strings.HasSuffix(path, ":start") {
		runID := strings.TrimSuffix(path, ":start")
		if r.Method == http.MethodPost {
			s.handleStartRun(w, r, runID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if strings.HasSuffix(path, ":stop") {
		runID := strings.TrimSuffix(path, ":stop")
		if r.Method == http.MethodPost {
			s.handleStopRun(w, r, runID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if strings.HasSuffix(path, "/history") {
		runID := strings.TrimSuffix(path, "/history")
		if r.Method == http.MethodGet {
			s.handleRunHistory(w, r, runID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if strings.HasSuffix(path, "/best") {
		runID := strings.TrimSuffix(path, "/best")
		if r.Method == http.MethodGet {
			s.handleRunBest(w, r, runID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if r.Method == http.MethodGet {
		s.handleGetRun(w, r, path)
	} else {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCreateRun handles POST /v1/runs
func (s *HTTPServer) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RunID       string              `json:"run_id,omitempty"`
		Calibration *config.Calibration `json:"calibration"`
		Start       bool                `json:"start,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Calibration == nil {
		s.writeError(w, http.StatusBadRequest, "calibration is required")
		return
	}
	if req.Calibration.Strategy == "" {
		s.writeError(w, http.StatusBadRequest, "calibration strategy is required")
		return
	}
	if req.Calibration.SampleCount <= 0 {
		s.writeError(w, http.StatusBadRequest, "sample_count must be positive")
		return
	}

	rec, err := s.store.Create(req.RunID, req.Calibration)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			s.writeError(w, http.StatusConflict, err.Error())
		} else {
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if req.Start {
		if rec, err = s.Executor.Start(rec.Run.ID); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	logger.Info("run created", "run_id", rec.Run.ID, "strategy", rec.Run.Strategy, "started", req.Start)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"run": rec.Run,
	})
}

// handleListRuns handles GET /v1/runs with pagination and status filtering
func (s *HTTPServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			if limit > 1000 {
				limit = 1000
			}
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	status := ParseRunStatus(r.URL.Query().Get("status"))

	recs := s.store.List(limit, offset, status)
	runs := make([]*Run, 0, len(recs))
	for _, rec := range recs {
		runs = append(runs, rec.Run)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"runs": runs,
		"pagination": map[string]any{
			"limit":  limit,
			"offset": offset,
			"count":  len(runs),
		},
	})
}

// handleGetRun handles GET /v1/runs/{id}
func (s *HTTPServer) handleGetRun(w http.ResponseWriter, _ *http.Request, runID string) {
	rec, ok := s.store.Get(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}

	resp := map[string]any{
		"run": rec.Run,
	}
	if rec.Result != nil {
		resp["result"] = map[string]any{
			"strategy":            rec.Result.Strategy,
			"best_score":          rec.Result.BestScore,
			"best_parameters":     rec.Result.BestParameters,
			"trials":              len(rec.Result.Trials),
			"failed_trials":       rec.Result.FailedTrials,
			"improvements":        rec.Result.Improvements,
			"final_learning_rate": rec.Result.FinalLearningRate,
			"duration_ms":         rec.Result.Duration.Milliseconds(),
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleStartRun handles POST /v1/runs/{id}:start
func (s *HTTPServer) handleStartRun(w http.ResponseWriter, _ *http.Request, runID string) {
	updated, err := s.Executor.Start(runID)
	if err != nil {
		s.writeExecutorError(w, err)
		return
	}

	logger.Info("run started", "run_id", runID)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"run": updated.Run,
	})
}

// handleStopRun handles POST /v1/runs/{id}:stop
func (s *HTTPServer) handleStopRun(w http.ResponseWriter, _ *http.Request, runID string) {
	updated, err := s.Executor.Stop(runID)
	if err != nil {
		s.writeExecutorError(w, err)
		return
	}

	logger.Info("run cancelled", "run_id", runID)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"run": updated.Run,
	})
}

// handleRunHistory handles GET /v1/runs/{id}/history
func (s *HTTPServer) handleRunHistory(w http.ResponseWriter, _ *http.Request, runID string) {
	trials, ok := s.store.Trials(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}

	out := make([]map[string]any, 0, len(trials))
	for _, t := range trials {
		entry := map[string]any{
			"index":         t.Index,
			"parameters":    t.Parameters,
			"score":         t.Score,
			"success":       t.Success,
			"learning_rate": t.LearningRate,
		}
		if t.Phase != "" {
			entry["phase"] = t.Phase
		}
		out = append(out, entry)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"run_id": runID,
		"trials": out,
		"count":  len(out),
	})
}

// handleRunBest handles GET /v1/runs/{id}/best
func (s *HTTPServer) handleRunBest(w http.ResponseWriter, _ *http.Request, runID string) {
	score, params, ok := s.store.Best(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}

	if score == optimize.NoScore() {
		s.writeError(w, http.StatusPreconditionFailed, "no successful trial recorded yet")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"run_id":          runID,
		"best_score":      score,
		"best_parameters": params,
	})
}

// handleStrategies handles GET /v1/strategies
func (s *HTTPServer) handleStrategies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"strategies": optimize.AvailableStrategies(),
	})
}

// Helper functions

func (s *HTTPServer) writeExecutorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRunNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrRunIDMissing):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrRunTerminal):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}
