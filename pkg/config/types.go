package config

// Config is the top-level configuration for the calibration tools.
type Config struct {
	LogLevel    string       `yaml:"log_level"`
	HTTPAddr    string       `yaml:"http_addr"`
	Calibration *Calibration `yaml:"calibration"`
}

// Calibration describes one calibration run: which strategy to use, the
// device/substance pair being calibrated, and the trial budget.
type Calibration struct {
	// Strategy is the optimization strategy name. Validity is checked by
	// the strategy factory at construction time.
	Strategy string `yaml:"strategy" json:"strategy"`

	// DeviceClass and SubstanceClass select the parameter bounds and the
	// reference liquid class.
	DeviceClass    string `yaml:"device_class" json:"device_class"`
	SubstanceClass string `yaml:"substance_class" json:"substance_class"`

	// SampleCount is the total number of trials for the run.
	SampleCount int `yaml:"sample_count" json:"sample_count"`

	// Reference optionally overrides the registry's reference parameters.
	Reference map[string]float64 `yaml:"reference,omitempty" json:"reference,omitempty"`

	LearningRate *LearningRate `yaml:"learning_rate,omitempty" json:"learning_rate,omitempty"`
	Executor     *Executor     `yaml:"executor,omitempty" json:"executor,omitempty"`
}

// LearningRate configures the host loop's plateau-triggered decay.
type LearningRate struct {
	Initial  float64 `yaml:"initial" json:"initial"`
	Decay    float64 `yaml:"decay" json:"decay"`
	Min      float64 `yaml:"min" json:"min"`
	Patience int     `yaml:"patience" json:"patience"`
}

// Executor configures the simulated trial executor.
type Executor struct {
	Seed        int64              `yaml:"seed" json:"seed"`
	Noise       float64            `yaml:"noise" json:"noise"`
	FailureRate float64            `yaml:"failure_rate" json:"failure_rate"`
	Target      map[string]float64 `yaml:"target,omitempty" json:"target,omitempty"`
}

// DefaultConfig returns a configuration with usable defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		HTTPAddr: ":8080",
		Calibration: &Calibration{
			Strategy:       "hybrid",
			DeviceClass:    "P1000",
			SubstanceClass: "GLYCEROL_50",
			SampleCount:    96,
		},
	}
}
