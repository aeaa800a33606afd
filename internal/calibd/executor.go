package calibd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/liqcal/calibration-core/internal/calib"
	"github.com/liqcal/calibration-core/internal/optimize"
	"github.com/liqcal/calibration-core/internal/registry"
	"github.com/liqcal/calibration-core/pkg/config"
	"github.com/liqcal/calibration-core/pkg/logger"
	"github.com/liqcal/calibration-core/pkg/telemetry"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrRunTerminal  = errors.New("run is terminal")
	ErrRunIDMissing = errors.New("run_id is required")
)

// RunExecutor manages asynchronous calibration execution and per-run
// cancellation.
type RunExecutor struct {
	store   *RunStore
	classes *registry.Registry
	metrics *telemetry.Metrics

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func NewRunExecutor(store *RunStore, classes *registry.Registry, metrics *telemetry.Metrics) *RunExecutor {
	return &RunExecutor{
		store:   store,
		classes: classes,
		metrics: metrics,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Start begins executing a run asynchronously.
// Returns the updated run state (RUNNING) or an error.
func (e *RunExecutor) Start(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}

	rec, ok := e.store.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	if rec.Run.Status == StatusRunning {
		return rec, nil
	}
	if rec.Run.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s", ErrRunTerminal, runID)
	}

	updated, err := e.store.SetStatus(runID, StatusRunning, "")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	if old, exists := e.cancels[runID]; exists {
		old()
	}
	e.cancels[runID] = cancel
	e.mu.Unlock()

	go e.runCalibration(ctx, runID)
	return updated, nil
}

// Stop requests cancellation for a running run and marks it cancelled.
func (e *RunExecutor) Stop(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}

	if _, ok := e.store.Get(runID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	e.mu.Lock()
	cancel, ok := e.cancels[runID]
	e.mu.Unlock()

	if ok {
		cancel()
	}

	updated, err := e.store.SetStatus(runID, StatusCancelled, "")
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (e *RunExecutor) cleanup(runID string) {
	e.mu.Lock()
	if cancel, ok := e.cancels[runID]; ok {
		cancel()
		delete(e.cancels, runID)
	}
	e.mu.Unlock()
}

func (e *RunExecutor) runCalibration(ctx context.Context, runID string) {
	defer e.cleanup(runID)

	rec, ok := e.store.Get(runID)
	if !ok {
		logger.Error("run not found", "run_id", runID)
		return
	}
	spec := rec.Spec

	runner, strategyName, err := e.buildRunner(runID, spec)
	if err != nil {
		logger.Error("failed to build calibration run", "run_id", runID, "error", err)
		if _, setErr := e.store.SetStatus(runID, StatusFailed, err.Error()); setErr != nil {
			logger.Error("failed to set failed status", "run_id", runID, "error", setErr)
		}
		return
	}

	if e.metrics != nil {
		e.metrics.RecordRunStarted(strategyName)
	}
	start := time.Now()

	result, err := runner.Run(ctx)

	status := StatusCompleted
	errMsg := ""
	switch {
	case errors.Is(err, context.Canceled):
		status = StatusCancelled
	case err != nil:
		status = StatusFailed
		errMsg = err.Error()
	}

	if result != nil {
		if setErr := e.store.SetResult(runID, result); setErr != nil {
			logger.Error("failed to store result", "run_id", runID, "error", setErr)
		}
	}
	if _, setErr := e.store.SetStatus(runID, status, errMsg); setErr != nil {
		logger.Error("failed to set run status", "run_id", runID, "error", setErr)
	}
	if e.metrics != nil {
		e.metrics.RecordRunCompleted(strategyName, string(status), time.Since(start))
	}
	logger.Info("calibration run finished",
		"run_id", runID,
		"status", string(status),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// buildRunner assembles the strategy, trial executor, and runner for a spec.
func (e *RunExecutor) buildRunner(runID string, spec *config.Calibration) (*calib.Runner, string, error) {
	reference := e.referenceFor(spec)
	bounds := optimize.CalculateBounds(spec.DeviceClass, spec.SubstanceClass)

	strategy, err := optimize.NewStrategy(spec.Strategy, reference, bounds, spec.SampleCount)
	if err != nil {
		return nil, "", err
	}

	execCfg := spec.Executor
	if execCfg == nil {
		execCfg = &config.Executor{}
	}
	target := optimize.ParameterVector(execCfg.Target)
	if len(target) == 0 {
		target = defaultTarget(reference, bounds)
	}
	simExec := calib.NewSimulatedExecutor(target, execCfg.Seed).
		WithNoise(execCfg.Noise).
		WithFailureRate(execCfg.FailureRate)

	runner := calib.NewRunner(strategy, simExec, spec.SampleCount)
	if lr := spec.LearningRate; lr != nil {
		runner = runner.WithSchedule(calib.LearningRateSchedule{
			Initial:  lr.Initial,
			Decay:    lr.Decay,
			Min:      lr.Min,
			Patience: lr.Patience,
		})
	}

	runner = runner.WithTrialReporter(func(trial optimize.TrialRecord, bestScore float64) {
		if err := e.store.AppendTrial(runID, trial, bestScore, strategy.BestParameters()); err != nil {
			logger.Error("failed to append trial", "run_id", runID, "error", err)
		}
		if e.metrics != nil {
			e.metrics.RecordTrial(strategy.Name(), trial.Success)
			e.metrics.SetBestScore(runID, bestScore)
			e.metrics.SetLearningRate(runID, trial.LearningRate)
		}
	})

	return runner, strategy.Name(), nil
}

// referenceFor resolves the starting parameter vector for a spec: an
// explicit reference wins, otherwise the registry's liquid class for the
// device and substance pair.
func (e *RunExecutor) referenceFor(spec *config.Calibration) optimize.ParameterVector {
	if len(spec.Reference) > 0 {
		return optimize.ParameterVector(spec.Reference).Clone()
	}

	device, err := registry.ParseDeviceClass(spec.DeviceClass)
	if err != nil {
		return registry.FallbackReference().Parameters()
	}
	substance := registry.ParseSubstance(spec.SubstanceClass)
	return e.classes.Reference(device, substance).Parameters()
}

// defaultTarget derives a hidden optimum for the simulated executor by
// nudging each parameter away from the reference, within bounds. Gives the
// optimizer a non-trivial landscape when no explicit target is configured.
func defaultTarget(reference optimize.ParameterVector, bounds optimize.Bounds) optimize.ParameterVector {
	offsets := map[string]float64{
		optimize.ParamAspirationRate:           25.0,
		optimize.ParamAspirationDelay:          0.3,
		optimize.ParamAspirationWithdrawalRate: 2.0,
		optimize.ParamDispenseRate:             -20.0,
		optimize.ParamDispenseDelay:            0.2,
		optimize.ParamBlowoutRate:              10.0,
	}
	target := reference.Clone()
	for name, off := range offsets {
		target[name] += off
	}
	return optimize.ApplyConstraints(target, bounds)
}
