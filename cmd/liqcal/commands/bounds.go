package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/liqcal/calibration-core/internal/optimize"
)

func newBoundsCommand() *cobra.Command {
	var (
		device    string
		substance string
	)

	cmd := &cobra.Command{
		Use:   "bounds",
		Short: "Show the parameter bounds for a device and substance pair",
		Long: `Show the min/max constraints each proposed parameter vector is clamped
to. Bounds depend on the device class; delay bounds additionally tighten
for volatile substances and widen for viscous ones.`,
		Example: `  liqcal bounds --device P300 --substance DMSO
  liqcal bounds --device P20 --substance GLYCEROL_99`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bounds := optimize.CalculateBounds(device, substance)

			names := make([]string, 0, len(bounds))
			for name := range bounds {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Printf("Bounds for %s / %s:\n", device, substance)
			for _, name := range names {
				r := bounds[name]
				fmt.Printf("  %-28s %g .. %g\n", name, r.Min, r.Max)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "P1000", "device class (P20, P50, P300, P1000)")
	cmd.Flags().StringVar(&substance, "substance", "WATER", "substance class")

	return cmd
}
