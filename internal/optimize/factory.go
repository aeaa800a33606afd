package optimize

import (
	"fmt"
	"strings"
)

// UnknownStrategyError is returned when NewStrategy is asked for a name it
// does not recognize. It names the offending value and the valid options.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown optimization strategy: %q (valid strategies: %s)",
		e.Name, strings.Join(AvailableStrategies(), ", "))
}

// NewStrategy creates a strategy by name, case-insensitively. sampleCount is
// consumed only by the hybrid strategy.
func NewStrategy(name string, reference ParameterVector, bounds Bounds, sampleCount int) (Strategy, error) {
	switch strings.ToLower(name) {
	case "simultaneous":
		return NewSimultaneousStrategy(reference, bounds), nil
	case "hybrid":
		return NewHybridPhaseStrategy(reference, bounds, sampleCount), nil
	case "coordinate":
		return NewCoordinateDescentStrategy(reference, bounds), nil
	default:
		return nil, &UnknownStrategyError{Name: name}
	}
}

// AvailableStrategies returns the valid strategy names.
func AvailableStrategies() []string {
	return []string{"simultaneous", "hybrid", "coordinate"}
}
