package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseConfigYAML parses a Config from YAML bytes, fills defaults, and
// validates it. Used both for config files and for API payloads.
func ParseConfigYAML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ParseCalibrationYAML parses a standalone Calibration block from YAML
// bytes and validates it.
func ParseCalibrationYAML(data []byte) (*Calibration, error) {
	var cal Calibration
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("failed to parse calibration yaml: %w", err)
	}

	if err := validateCalibration(&cal); err != nil {
		return nil, fmt.Errorf("invalid calibration: %w", err)
	}
	return &cal, nil
}

// MarshalCalibrationYAML renders a Calibration block as YAML.
func MarshalCalibrationYAML(cal *Calibration) (string, error) {
	out, err := yaml.Marshal(cal)
	if err != nil {
		return "", fmt.Errorf("failed to marshal calibration: %w", err)
	}
	return string(out), nil
}

func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if cfg.Calibration != nil {
		if err := validateCalibration(cfg.Calibration); err != nil {
			return fmt.Errorf("calibration validation failed: %w", err)
		}
	}
	return nil
}

func validateCalibration(cal *Calibration) error {
	if cal.Strategy == "" {
		return fmt.Errorf("strategy cannot be empty")
	}
	if cal.SampleCount <= 0 {
		return fmt.Errorf("sample_count must be positive, got %d", cal.SampleCount)
	}

	for name, v := range cal.Reference {
		if v < 0 {
			return fmt.Errorf("reference parameter %s cannot be negative, got %f", name, v)
		}
	}

	if lr := cal.LearningRate; lr != nil {
		if lr.Initial <= 0 {
			return fmt.Errorf("learning_rate initial must be positive, got %f", lr.Initial)
		}
		if lr.Decay <= 0 || lr.Decay > 1 {
			return fmt.Errorf("learning_rate decay must be in (0, 1], got %f", lr.Decay)
		}
		if lr.Min <= 0 || lr.Min > lr.Initial {
			return fmt.Errorf("learning_rate min must be in (0, initial], got %f", lr.Min)
		}
		if lr.Patience <= 0 {
			return fmt.Errorf("learning_rate patience must be positive, got %d", lr.Patience)
		}
	}

	if ex := cal.Executor; ex != nil {
		if ex.Noise < 0 {
			return fmt.Errorf("executor noise cannot be negative, got %f", ex.Noise)
		}
		if ex.FailureRate < 0 || ex.FailureRate >= 1 {
			return fmt.Errorf("executor failure_rate must be in [0, 1), got %f", ex.FailureRate)
		}
	}
	return nil
}
