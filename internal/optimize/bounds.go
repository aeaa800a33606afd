package optimize

import "github.com/liqcal/calibration-core/pkg/utils"

// Range is an inclusive [Min, Max] bound for one parameter.
type Range struct {
	Min float64
	Max float64
}

// Bounds maps parameter names to their allowed ranges. Parameters without an
// entry pass through unclamped.
type Bounds map[string]Range

// ApplyConstraints clamps every bounded key of params into its range and
// returns a new vector. It is pure and idempotent; unknown bound keys are
// ignored.
func ApplyConstraints(params ParameterVector, bounds Bounds) ParameterVector {
	out := params.Clone()
	for name, r := range bounds {
		if v, ok := out[name]; ok {
			out[name] = utils.ClampFloat64(v, r.Min, r.Max)
		}
	}
	return out
}

// deviceBounds holds the flow/blowout/withdrawal ranges per device class.
// Delay ranges are substance-dependent and merged in by CalculateBounds.
var deviceBounds = map[string]Bounds{
	"P20": {
		ParamAspirationRate:           {1.0, 20.0},
		ParamDispenseRate:             {1.0, 20.0},
		ParamBlowoutRate:              {0.5, 10.0},
		ParamAspirationWithdrawalRate: {0.5, 5.0},
	},
	"P50": {
		ParamAspirationRate:           {2.0, 50.0},
		ParamDispenseRate:             {2.0, 50.0},
		ParamBlowoutRate:              {1.0, 20.0},
		ParamAspirationWithdrawalRate: {1.0, 10.0},
	},
	"P300": {
		ParamAspirationRate:           {5.0, 150.0},
		ParamDispenseRate:             {5.0, 150.0},
		ParamBlowoutRate:              {2.0, 50.0},
		ParamAspirationWithdrawalRate: {1.0, 15.0},
	},
	"P1000": {
		ParamAspirationRate:           {10.0, 300.0},
		ParamDispenseRate:             {10.0, 300.0},
		ParamBlowoutRate:              {5.0, 150.0},
		ParamAspirationWithdrawalRate: {2.0, 25.0},
	},
}

// Substance classes that shift the delay ranges away from the standard
// profile. Volatile liquids want short settling delays; viscous liquids
// tolerate long ones.
var (
	volatileSubstances = map[string]bool{
		"DMSO":    true,
		"ETHANOL": true,
	}
	viscousSubstances = map[string]bool{
		"GLYCEROL_99":    true,
		"PEG_8000_50":    true,
		"ENGINE_OIL_100": true,
	}
)

// CalculateBounds builds parameter bounds for a device class and substance
// class. Unknown device classes fall back to the broadest table (P1000);
// unknown substance classes get the standard delay profile. This is policy
// data, not an algorithm; callers may substitute their own Bounds.
func CalculateBounds(deviceClass, substanceClass string) Bounds {
	base, ok := deviceBounds[deviceClass]
	if !ok {
		base = deviceBounds["P1000"]
	}

	bounds := make(Bounds, len(base)+2)
	for name, r := range base {
		bounds[name] = r
	}

	var delay Range
	switch {
	case volatileSubstances[substanceClass]:
		delay = Range{0.0, 1.0}
	case viscousSubstances[substanceClass]:
		delay = Range{0.0, 3.0}
	default:
		delay = Range{0.0, 2.0}
	}
	bounds[ParamAspirationDelay] = delay
	bounds[ParamDispenseDelay] = delay

	return bounds
}

// DefaultBounds returns the generic fallback bounds used when no device or
// substance class is specified.
func DefaultBounds() Bounds {
	return Bounds{
		ParamAspirationRate:           {10.0, 300.0},
		ParamAspirationDelay:          {0.0, 2.0},
		ParamAspirationWithdrawalRate: {1.0, 20.0},
		ParamDispenseRate:             {10.0, 300.0},
		ParamDispenseDelay:            {0.0, 2.0},
		ParamBlowoutRate:              {5.0, 150.0},
	}
}
