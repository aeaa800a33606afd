package registry

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// csvHeader is the canonical export header. Import accepts it with or
// without spaces after the commas.
var csvHeader = []string{
	"Pipette",
	"Liquid",
	"Aspiration Rate (µL/s)",
	"Aspiration Delay (s)",
	"Aspiration Withdrawal Rate (mm/s)",
	"Dispense Rate (µL/s)",
	"Dispense Delay (s)",
	"Blowout Rate (µL/s)",
	"Touch tip",
}

// ExportCSV renders all registered classes, sorted by key, in the canonical
// CSV format.
func (r *Registry) ExportCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, lc := range r.List() {
		touchTip := "No"
		if lc.TouchTip {
			touchTip = "Yes"
		}
		row := []string{
			string(lc.Device),
			lc.Substance.Display(),
			formatFloat(lc.AspirationRate),
			formatFloat(lc.AspirationDelay),
			formatFloat(lc.AspirationWithdrawalRate),
			formatFloat(lc.DispenseRate),
			formatFloat(lc.DispenseDelay),
			formatFloat(lc.BlowoutRate),
			touchTip,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.String(), nil
}

// ImportCSV merges classes from CSV data into the registry. Rows for already
// registered pairs replace the existing class. Substances outside the known
// catalogue import as custom substances.
func (r *Registry) ImportCSV(data string) error {
	reader := csv.NewReader(strings.NewReader(data))
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) < 2 {
		return fmt.Errorf("csv must have at least a header and one data row")
	}

	if err := validateHeader(records[0]); err != nil {
		return err
	}

	for i, row := range records[1:] {
		lc, err := parseRow(row)
		if err != nil {
			return fmt.Errorf("csv row %d: %w", i+2, err)
		}
		r.Add(lc)
	}
	return nil
}

func validateHeader(row []string) error {
	if len(row) != len(csvHeader) {
		return fmt.Errorf("csv header has %d columns, want %d", len(row), len(csvHeader))
	}
	for i, col := range row {
		if strings.ReplaceAll(col, " ", "") != strings.ReplaceAll(csvHeader[i], " ", "") {
			return fmt.Errorf("csv header column %d is %q, want %q", i+1, col, csvHeader[i])
		}
	}
	return nil
}

func parseRow(row []string) (LiquidClass, error) {
	if len(row) != len(csvHeader) {
		return LiquidClass{}, fmt.Errorf("invalid column count %d, want %d", len(row), len(csvHeader))
	}

	fields := make([]string, len(row))
	for i, f := range row {
		fields[i] = strings.TrimSpace(f)
	}

	device, err := ParseDeviceClass(fields[0])
	if err != nil {
		return LiquidClass{}, err
	}

	values := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(fields[2+i], 64)
		if err != nil {
			return LiquidClass{}, fmt.Errorf("invalid numeric field %q: %w", fields[2+i], err)
		}
		values[i] = v
	}

	return LiquidClass{
		Device:                   device,
		Substance:                ParseSubstance(fields[1]),
		AspirationRate:           values[0],
		AspirationDelay:          values[1],
		AspirationWithdrawalRate: values[2],
		DispenseRate:             values[3],
		DispenseDelay:            values[4],
		BlowoutRate:              values[5],
		TouchTip:                 strings.EqualFold(fields[8], "yes"),
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
