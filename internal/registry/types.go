package registry

import (
	"fmt"
	"strings"

	"github.com/liqcal/calibration-core/internal/optimize"
)

// DeviceClass identifies a pipette family. The class scales the flow,
// blowout, and withdrawal bounds used during calibration.
type DeviceClass string

const (
	DeviceP20   DeviceClass = "P20"
	DeviceP50   DeviceClass = "P50"
	DeviceP300  DeviceClass = "P300"
	DeviceP1000 DeviceClass = "P1000"
)

// DeviceClasses lists the supported device classes.
func DeviceClasses() []DeviceClass {
	return []DeviceClass{DeviceP20, DeviceP50, DeviceP300, DeviceP1000}
}

// ParseDeviceClass resolves a device class name case-insensitively.
func ParseDeviceClass(name string) (DeviceClass, error) {
	for _, dc := range DeviceClasses() {
		if strings.EqualFold(string(dc), name) {
			return dc, nil
		}
	}
	return "", fmt.Errorf("unknown device class: %q", name)
}

// Substance is a closed sum over the known substance catalogue plus custom
// substances identified only by name. Custom substances participate fully in
// the registry and CSV round-trips; only the known ones carry a curated
// delay-bounds profile.
type Substance struct {
	display string
	code    string
	custom  bool
}

// Known substances. Display names match the reference data; codes are the
// stable identifiers used for bound lookups and configuration.
var (
	SubstanceWater        = Substance{display: "Water", code: "WATER"}
	SubstanceGlycerol10   = Substance{display: "Glycerol 10%", code: "GLYCEROL_10"}
	SubstanceGlycerol50   = Substance{display: "Glycerol 50%", code: "GLYCEROL_50"}
	SubstanceGlycerol90   = Substance{display: "Glycerol 90%", code: "GLYCEROL_90"}
	SubstanceGlycerol99   = Substance{display: "Glycerol 99%", code: "GLYCEROL_99"}
	SubstancePEG800050    = Substance{display: "PEG 8000 50% w/v", code: "PEG_8000_50"}
	SubstanceSanitizer62  = Substance{display: "Sanitizer 62% Alcohol", code: "SANITIZER_62_ALCOHOL"}
	SubstanceTween20100   = Substance{display: "Tween 20 100%", code: "TWEEN_20_100"}
	SubstanceEngineOil100 = Substance{display: "Engine oil 100%", code: "ENGINE_OIL_100"}
	SubstanceDMSO         = Substance{display: "DMSO", code: "DMSO"}
	SubstanceEthanol      = Substance{display: "Ethanol", code: "ETHANOL"}
)

// KnownSubstances lists the curated substance catalogue.
func KnownSubstances() []Substance {
	return []Substance{
		SubstanceGlycerol10,
		SubstanceGlycerol50,
		SubstanceGlycerol90,
		SubstanceGlycerol99,
		SubstancePEG800050,
		SubstanceSanitizer62,
		SubstanceTween20100,
		SubstanceEngineOil100,
		SubstanceWater,
		SubstanceDMSO,
		SubstanceEthanol,
	}
}

// CustomSubstance builds a substance outside the known catalogue. The code
// is derived from the name the same way the reference data does it.
func CustomSubstance(name string) Substance {
	code := strings.ToUpper(name)
	code = strings.ReplaceAll(code, " ", "_")
	code = strings.ReplaceAll(code, "%", "PCT")
	return Substance{display: name, code: code, custom: true}
}

// ParseSubstance resolves a substance by display name or code. Names outside
// the known catalogue yield a custom substance rather than an error.
func ParseSubstance(name string) Substance {
	for _, s := range KnownSubstances() {
		if strings.EqualFold(s.display, name) || strings.EqualFold(s.code, name) {
			return s
		}
	}
	return CustomSubstance(name)
}

// Display returns the human-readable substance name.
func (s Substance) Display() string { return s.display }

// Code returns the stable identifier used for lookups.
func (s Substance) Code() string { return s.code }

// Custom reports whether the substance is outside the known catalogue.
func (s Substance) Custom() bool { return s.custom }

// LiquidClass holds the handling parameters for one device/substance pair.
type LiquidClass struct {
	Device                   DeviceClass
	Substance                Substance
	AspirationRate           float64 // µL/s
	AspirationDelay          float64 // s
	AspirationWithdrawalRate float64 // mm/s
	DispenseRate             float64 // µL/s
	DispenseDelay            float64 // s
	BlowoutRate              float64 // µL/s
	TouchTip                 bool
}

// Parameters returns the optimizable parameter vector of the class. TouchTip
// is not part of the vector; it is carried on the class itself and never
// adjusted by gradients.
func (lc LiquidClass) Parameters() optimize.ParameterVector {
	return optimize.ParameterVector{
		optimize.ParamAspirationRate:           lc.AspirationRate,
		optimize.ParamAspirationDelay:          lc.AspirationDelay,
		optimize.ParamAspirationWithdrawalRate: lc.AspirationWithdrawalRate,
		optimize.ParamDispenseRate:             lc.DispenseRate,
		optimize.ParamDispenseDelay:            lc.DispenseDelay,
		optimize.ParamBlowoutRate:              lc.BlowoutRate,
	}
}

// WithParameters returns a copy of the class with the vector's values
// applied. Keys absent from the vector keep their current values.
func (lc LiquidClass) WithParameters(params optimize.ParameterVector) LiquidClass {
	out := lc
	if v, ok := params[optimize.ParamAspirationRate]; ok {
		out.AspirationRate = v
	}
	if v, ok := params[optimize.ParamAspirationDelay]; ok {
		out.AspirationDelay = v
	}
	if v, ok := params[optimize.ParamAspirationWithdrawalRate]; ok {
		out.AspirationWithdrawalRate = v
	}
	if v, ok := params[optimize.ParamDispenseRate]; ok {
		out.DispenseRate = v
	}
	if v, ok := params[optimize.ParamDispenseDelay]; ok {
		out.DispenseDelay = v
	}
	if v, ok := params[optimize.ParamBlowoutRate]; ok {
		out.BlowoutRate = v
	}
	return out
}

// Key returns the registry key for the class.
func (lc LiquidClass) Key() string {
	return fmt.Sprintf("%s_%s", lc.Device, lc.Substance.Display())
}
