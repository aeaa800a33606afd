package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liqcal/calibration-core/internal/calib"
	"github.com/liqcal/calibration-core/internal/optimize"
	"github.com/liqcal/calibration-core/internal/registry"
	"github.com/liqcal/calibration-core/internal/report"
	"github.com/liqcal/calibration-core/pkg/config"
)

func newRunCommand() *cobra.Command {
	var (
		strategyName string
		device       string
		substance    string
		samples      int
		seed         int64
		noise        float64
		failureRate  float64
		plotPath     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a calibration against the simulated executor",
		Long: `Run one full calibration: the chosen strategy proposes a parameter
vector per trial, the simulated executor scores it against a hidden
target, and the run converges on the best-scoring parameters.

The starting point is the registry's liquid class for the device and
substance pair. With --config, the calibration block of the YAML file
provides the run settings and flags override them.`,
		Example: `  # Calibrate glycerol on a P1000 with the hybrid strategy
  liqcal run --strategy hybrid --device P1000 --substance GLYCEROL_50

  # Quick coordinate-descent run with a reproducible seed
  liqcal run --strategy coordinate --samples 36 --seed 42

  # Save a convergence chart
  liqcal run --strategy simultaneous --plot scores.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cal := cfg.Calibration
			if cal == nil {
				cal = config.DefaultConfig().Calibration
			}

			if cmd.Flags().Changed("strategy") {
				cal.Strategy = strategyName
			}
			if cmd.Flags().Changed("device") {
				cal.DeviceClass = device
			}
			if cmd.Flags().Changed("substance") {
				cal.SubstanceClass = substance
			}
			if cmd.Flags().Changed("samples") {
				cal.SampleCount = samples
			}

			classes := registry.New()
			reference := referenceFor(classes, cal)
			bounds := optimize.CalculateBounds(cal.DeviceClass, cal.SubstanceClass)

			strategy, err := optimize.NewStrategy(cal.Strategy, reference, bounds, cal.SampleCount)
			if err != nil {
				return err
			}

			target := defaultTarget(reference, bounds)
			executor := calib.NewSimulatedExecutor(target, seed).
				WithNoise(noise).
				WithFailureRate(failureRate)

			runner := calib.NewRunner(strategy, executor, cal.SampleCount)
			if lr := cal.LearningRate; lr != nil {
				runner = runner.WithSchedule(calib.LearningRateSchedule{
					Initial:  lr.Initial,
					Decay:    lr.Decay,
					Min:      lr.Min,
					Patience: lr.Patience,
				})
			}

			result, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Print(report.Render(report.Summarize(result)))

			if plotPath != "" {
				title := fmt.Sprintf("%s / %s / %s", cal.Strategy, cal.DeviceClass, cal.SubstanceClass)
				if err := report.SavePlot(result.Trials, title, plotPath); err != nil {
					return err
				}
				fmt.Printf("Plot saved to %s\n", plotPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "hybrid", "optimization strategy (simultaneous, coordinate, hybrid)")
	cmd.Flags().StringVarP(&device, "device", "d", "P1000", "device class (P20, P50, P300, P1000)")
	cmd.Flags().StringVar(&substance, "substance", "GLYCEROL_50", "substance class")
	cmd.Flags().IntVarP(&samples, "samples", "n", 96, "trial budget")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the simulated executor (0 = time-based)")
	cmd.Flags().Float64Var(&noise, "noise", 0.05, "score noise standard deviation")
	cmd.Flags().Float64Var(&failureRate, "failure-rate", 0, "fraction of trials that fail the height check")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a score-vs-trial chart to this file (.png/.svg/.pdf)")

	return cmd
}

// referenceFor resolves the starting vector: explicit config reference,
// else the registry's liquid class for the device and substance.
func referenceFor(classes *registry.Registry, cal *config.Calibration) optimize.ParameterVector {
	if len(cal.Reference) > 0 {
		return optimize.ParameterVector(cal.Reference).Clone()
	}
	device, err := registry.ParseDeviceClass(cal.DeviceClass)
	if err != nil {
		return registry.FallbackReference().Parameters()
	}
	return classes.Reference(device, registry.ParseSubstance(cal.SubstanceClass)).Parameters()
}

// defaultTarget nudges each parameter away from the reference so the
// simulated run has something to find.
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
