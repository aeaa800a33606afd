package calibd

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/liqcal/calibration-core/internal/calib"
	"github.com/liqcal/calibration-core/internal/optimize"
	"github.com/liqcal/calibration-core/pkg/config"
	"github.com/liqcal/calibration-core/pkg/utils"
)

// RunStatus is the lifecycle state of a calibration run.
type RunStatus string

const (
	StatusPending   RunStatus = "PENDING"
	StatusRunning   RunStatus = "RUNNING"
	StatusCompleted RunStatus = "COMPLETED"
	StatusFailed    RunStatus = "FAILED"
	StatusCancelled RunStatus = "CANCELLED"
)

// Terminal reports whether the status allows no further transitions.
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// ParseRunStatus maps a query-string value to a status. Unknown values
// return the empty status.
func ParseRunStatus(value string) RunStatus {
	switch RunStatus(value) {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed, StatusCancelled:
		return RunStatus(value)
	}
	return ""
}

// Run is the externally visible state of one calibration run.
type Run struct {
	ID              string    `json:"id"`
	Status          RunStatus `json:"status"`
	Strategy        string    `json:"strategy"`
	DeviceClass     string    `json:"device_class"`
	SubstanceClass  string    `json:"substance_class"`
	SampleCount     int       `json:"sample_count"`
	CreatedAtUnixMs int64     `json:"created_at_unix_ms"`
	StartedAtUnixMs int64     `json:"started_at_unix_ms,omitempty"`
	EndedAtUnixMs   int64     `json:"ended_at_unix_ms,omitempty"`
	Error           string    `json:"error,omitempty"`
}

// RunRecord couples a run with its calibration spec and accumulated state.
type RunRecord struct {
	Run    *Run
	Spec   *config.Calibration
	Trials []optimize.TrialRecord

	BestScore      float64
	BestParameters optimize.ParameterVector

	Result *calib.Result
}

// RunStore is an in-memory store of calibration runs.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*RunRecord
}

func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*RunRecord),
	}
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

// Create registers a new pending run. An empty runID gets a generated one.
func (s *RunStore) Create(runID string, spec *config.Calibration) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID == "" {
		runID = utils.GenerateRunID()
	}
	if _, exists := s.runs[runID]; exists {
		return nil, fmt.Errorf("run already exists: %s", runID)
	}

	rec := &RunRecord{
		Run: &Run{
			ID:              runID,
			Status:          StatusPending,
			Strategy:        spec.Strategy,
			DeviceClass:     spec.DeviceClass,
			SubstanceClass:  spec.SubstanceClass,
			SampleCount:     spec.SampleCount,
			CreatedAtUnixMs: nowUnixMs(),
		},
		Spec:      spec,
		BestScore: optimize.NoScore(),
	}
	s.runs[runID] = rec
	return rec, nil
}

func (s *RunStore) Get(runID string) (*RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[runID]
	return rec, ok
}

// List returns runs sorted by creation time, newest first, filtered by
// status when one is given.
func (s *RunStore) List(limit, offset int, status RunStatus) []*RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	all := make([]*RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		if status != "" && rec.Run.Status != status {
			continue
		}
		all = append(all, rec)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Run.CreatedAtUnixMs != all[j].Run.CreatedAtUnixMs {
			return all[i].Run.CreatedAtUnixMs > all[j].Run.CreatedAtUnixMs
		}
		return all[i].Run.ID < all[j].Run.ID
	})

	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// SetStatus transitions a run and stamps the start/end timestamps.
func (s *RunStore) SetStatus(runID string, status RunStatus, errMsg string) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run not found: %s", runID)
	}

	rec.Run.Status = status
	if errMsg != "" {
		rec.Run.Error = errMsg
	}

	switch status {
	case StatusRunning:
		if rec.Run.StartedAtUnixMs == 0 {
			rec.Run.StartedAtUnixMs = nowUnixMs()
		}
	case StatusCompleted, StatusFailed, StatusCancelled:
		rec.Run.EndedAtUnixMs = nowUnixMs()
	}

	return rec, nil
}

// AppendTrial records one executed trial and the run's best-so-far state.
func (s *RunStore) AppendTrial(runID string, trial optimize.TrialRecord, bestScore float64, bestParams optimize.ParameterVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("run not found: %s", runID)
	}
	rec.Trials = append(rec.Trials, trial)
	rec.BestScore = bestScore
	rec.BestParameters = bestParams
	return nil
}

// SetResult attaches the final run summary.
func (s *RunStore) SetResult(runID string, result *calib.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("run not found: %s", runID)
	}
	rec.Result = result
	return nil
}

// Status returns the run's current status.
func (s *RunStore) Status(runID string) (RunStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.runs[runID]
	if !ok {
		return "", false
	}
	return rec.Run.Status, true
}

// Trials returns a snapshot of the run's trial history.
func (s *RunStore) Trials(runID string) ([]optimize.TrialRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.runs[runID]
	if !ok {
		return nil, false
	}
	out := make([]optimize.TrialRecord, len(rec.Trials))
	copy(out, rec.Trials)
	return out, true
}

// Best returns the run's best score and parameters so far.
func (s *RunStore) Best(runID string) (float64, optimize.ParameterVector, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.runs[runID]
	if !ok {
		return 0, nil, false
	}
	return rec.BestScore, rec.BestParameters.Clone(), true
}
