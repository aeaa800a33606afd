package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigYAMLDefaults(t *testing.T) {
	cfg, err := ParseConfigYAML([]byte("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default http addr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.Calibration == nil || cfg.Calibration.Strategy != "hybrid" {
		t.Fatalf("expected default hybrid calibration, got %+v", cfg.Calibration)
	}
}

func TestParseConfigYAMLFull(t *testing.T) {
	data := `
log_level: debug
http_addr: ":9090"
calibration:
  strategy: coordinate
  device_class: P300
  substance_class: DMSO
  sample_count: 36
  reference:
    aspiration_rate: 80
    dispense_rate: 80
  learning_rate:
    initial: 0.2
    decay: 0.9
    min: 0.02
    patience: 2
  executor:
    seed: 42
    noise: 0.1
    failure_rate: 0.05
`
	cfg, err := ParseConfigYAML([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cal := cfg.Calibration
	if cal.Strategy != "coordinate" || cal.DeviceClass != "P300" || cal.SampleCount != 36 {
		t.Fatalf("unexpected calibration: %+v", cal)
	}
	if cal.Reference["aspiration_rate"] != 80 {
		t.Fatalf("expected reference aspiration_rate 80, got %v", cal.Reference)
	}
	if cal.LearningRate.Patience != 2 {
		t.Fatalf("expected patience 2, got %d", cal.LearningRate.Patience)
	}
	if cal.Executor.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", cal.Executor.Seed)
	}
}

func TestParseConfigYAMLValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad log level", "log_level: loud", "invalid log_level"},
		{"empty strategy", "calibration:\n  strategy: \"\"\n  sample_count: 10", "strategy cannot be empty"},
		{"zero samples", "calibration:\n  strategy: hybrid\n  sample_count: 0", "sample_count must be positive"},
		{"negative reference", "calibration:\n  strategy: hybrid\n  sample_count: 10\n  reference:\n    aspiration_rate: -5", "cannot be negative"},
		{"bad decay", "calibration:\n  strategy: hybrid\n  sample_count: 10\n  learning_rate:\n    initial: 0.1\n    decay: 2\n    min: 0.01\n    patience: 3", "decay must be in"},
		{"min above initial", "calibration:\n  strategy: hybrid\n  sample_count: 10\n  learning_rate:\n    initial: 0.1\n    decay: 0.9\n    min: 0.5\n    patience: 3", "min must be in"},
		{"bad failure rate", "calibration:\n  strategy: hybrid\n  sample_count: 10\n  executor:\n    failure_rate: 1.5", "failure_rate must be in"},
		{"not yaml", "::::", "failed to parse"},
	}

	for _, tt := range tests {
		_, err := ParseConfigYAML([]byte(tt.yaml))
		if err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tt.name, tt.want, err)
		}
	}
}

func TestParseCalibrationYAML(t *testing.T) {
	data := "strategy: simultaneous\nsample_count: 12\n"

	cal, err := ParseCalibrationYAML([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cal.Strategy != "simultaneous" || cal.SampleCount != 12 {
		t.Fatalf("unexpected calibration: %+v", cal)
	}

	if _, err := ParseCalibrationYAML([]byte("strategy: hybrid\nsample_count: -1\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadConfig(t *testing.T) {
	// Empty path returns defaults.
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	// Missing file is an error.
	if _, err := LoadConfig("/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}

	// Real file loads and validates.
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected log level warn, got %s", cfg.LogLevel)
	}
}
