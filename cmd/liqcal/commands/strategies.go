package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liqcal/calibration-core/internal/optimize"
	"github.com/liqcal/calibration-core/internal/registry"
)

func newStrategiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the available optimization strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reference := registry.FallbackReference().Parameters()
			bounds := optimize.DefaultBounds()

			for _, name := range optimize.AvailableStrategies() {
				strategy, err := optimize.NewStrategy(name, reference, bounds, 96)
				if err != nil {
					return err
				}
				fmt.Printf("%-14s %s\n", name, strategy.Name())
				fmt.Printf("%-14s %s\n", "", strategy.Description())
			}
			return nil
		},
	}
}
