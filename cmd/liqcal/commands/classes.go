package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liqcal/calibration-core/internal/registry"
)

func newClassesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Inspect and manage the liquid class registry",
		Long: `The liquid class registry maps each device/substance pair to its
handling parameters. Commands operate on the built-in defaults unless
--file points at a CSV registry exported earlier.`,
	}

	cmd.AddCommand(newClassesListCommand())
	cmd.AddCommand(newClassesShowCommand())
	cmd.AddCommand(newClassesExportCommand())
	cmd.AddCommand(newClassesImportCommand())
	cmd.AddCommand(newClassesDeleteCommand())

	return cmd
}

// loadRegistry returns the registry backing a classes command: the CSV file
// when given, otherwise the built-in defaults.
func loadRegistry(file string) (*registry.Registry, error) {
	if file == "" {
		return registry.New(), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %s: %w", file, err)
	}
	reg := registry.NewEmpty()
	if err := reg.ImportCSV(string(data)); err != nil {
		return nil, fmt.Errorf("failed to import registry from %s: %w", file, err)
	}
	return reg, nil
}

func newClassesListCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all liquid classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(file)
			if err != nil {
				return err
			}

			fmt.Printf("%-8s %-14s %8s %8s %8s %8s %8s %8s %-5s\n",
				"DEVICE", "SUBSTANCE", "ASP", "ASPDEL", "WDRAW", "DISP", "DISPDEL", "BLOW", "TOUCH")
			for _, lc := range reg.List() {
				touch := "no"
				if lc.TouchTip {
					touch = "yes"
				}
				fmt.Printf("%-8s %-14s %8g %8g %8g %8g %8g %8g %-5s\n",
					lc.Device, lc.Substance.Display(),
					lc.AspirationRate, lc.AspirationDelay, lc.AspirationWithdrawalRate,
					lc.DispenseRate, lc.DispenseDelay, lc.BlowoutRate, touch)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV registry file (default: built-in classes)")
	return cmd
}

func newClassesShowCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "show <device> <substance>",
		Short: "Show one liquid class",
		Example: `  liqcal classes show P1000 "Glycerol 99%"
  liqcal classes show P300 GLYCEROL_50`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(file)
			if err != nil {
				return err
			}

			device, err := registry.ParseDeviceClass(args[0])
			if err != nil {
				return err
			}
			substance := registry.ParseSubstance(args[1])

			lc, ok := reg.Get(device, substance)
			if !ok {
				return fmt.Errorf("no liquid class for %s / %s", device, substance.Display())
			}

			fmt.Printf("Device:                    %s\n", lc.Device)
			fmt.Printf("Substance:                 %s\n", lc.Substance.Display())
			fmt.Printf("Aspiration rate:           %g µL/s\n", lc.AspirationRate)
			fmt.Printf("Aspiration delay:          %g s\n", lc.AspirationDelay)
			fmt.Printf("Withdrawal rate:           %g mm/s\n", lc.AspirationWithdrawalRate)
			fmt.Printf("Dispense rate:             %g µL/s\n", lc.DispenseRate)
			fmt.Printf("Dispense delay:            %g s\n", lc.DispenseDelay)
			fmt.Printf("Blowout rate:              %g µL/s\n", lc.BlowoutRate)
			fmt.Printf("Touch tip:                 %t\n", lc.TouchTip)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV registry file (default: built-in classes)")
	return cmd
}

func newClassesExportCommand() *cobra.Command {
	var (
		file   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the registry as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(file)
			if err != nil {
				return err
			}

			csv, err := reg.ExportCSV()
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Print(csv)
				return nil
			}
			if err := os.WriteFile(output, []byte(csv), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Printf("Exported %d classes to %s\n", reg.Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV registry file (default: built-in classes)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write CSV to this file (default: stdout)")
	return cmd
}

func newClassesImportCommand() *cobra.Command {
	var merge bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validate and import a CSV registry",
		Long: `Import liquid classes from a CSV file, validating every row. With
--merge the file's classes are layered over the built-in defaults;
otherwise the file stands alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			reg := registry.NewEmpty()
			if merge {
				reg = registry.New()
			}
			if err := reg.ImportCSV(string(data)); err != nil {
				return err
			}

			fmt.Printf("Imported %s: %d classes in registry\n", args[0], reg.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "layer imported classes over the built-in defaults")
	return cmd
}

func newClassesDeleteCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "delete <device> <substance>",
		Short: "Delete a liquid class from a CSV registry file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required: deletions apply to a CSV registry file")
			}

			reg, err := loadRegistry(file)
			if err != nil {
				return err
			}

			device, err := registry.ParseDeviceClass(args[0])
			if err != nil {
				return err
			}
			substance := registry.ParseSubstance(args[1])

			if !reg.Remove(device, substance) {
				return fmt.Errorf("no liquid class for %s / %s", device, substance.Display())
			}

			csv, err := reg.ExportCSV()
			if err != nil {
				return err
			}
			if err := os.WriteFile(file, []byte(csv), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}

			fmt.Printf("Deleted %s / %s (%d classes remain)\n", device, substance.Display(), reg.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV registry file to modify")
	return cmd
}
