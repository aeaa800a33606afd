package registry

import (
	"testing"

	"github.com/liqcal/calibration-core/internal/optimize"
)

func TestNewSeedsDefaults(t *testing.T) {
	r := New()

	if r.Len() != 18 {
		t.Fatalf("expected 18 seeded classes, got %d", r.Len())
	}

	lc, ok := r.Get(DeviceP1000, SubstanceGlycerol99)
	if !ok {
		t.Fatalf("expected P1000 / Glycerol 99%% to be seeded")
	}
	if lc.AspirationRate != 41.175 {
		t.Fatalf("expected aspiration rate 41.175, got %g", lc.AspirationRate)
	}
	if lc.DispenseRate != 19.215 {
		t.Fatalf("expected dispense rate 19.215, got %g", lc.DispenseRate)
	}
}

func TestNewEmptyHasNoClasses(t *testing.T) {
	if n := NewEmpty().Len(); n != 0 {
		t.Fatalf("expected empty registry, got %d classes", n)
	}
}

func TestAddReplaceRemove(t *testing.T) {
	r := NewEmpty()

	lc := FallbackReference()
	r.Add(lc)
	if r.Len() != 1 {
		t.Fatalf("expected 1 class, got %d", r.Len())
	}

	lc.AspirationRate = 200
	r.Add(lc)
	if r.Len() != 1 {
		t.Fatalf("expected replace, got %d classes", r.Len())
	}
	got, _ := r.Get(lc.Device, lc.Substance)
	if got.AspirationRate != 200 {
		t.Fatalf("expected replaced rate 200, got %g", got.AspirationRate)
	}

	if !r.Remove(lc.Device, lc.Substance) {
		t.Fatalf("expected remove to report existing class")
	}
	if r.Remove(lc.Device, lc.Substance) {
		t.Fatalf("expected second remove to report missing class")
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

func TestListSortedByKey(t *testing.T) {
	r := New()

	classes := r.List()
	if len(classes) != r.Len() {
		t.Fatalf("expected %d classes, got %d", r.Len(), len(classes))
	}
	for i := 1; i < len(classes); i++ {
		if classes[i-1].Key() > classes[i].Key() {
			t.Fatalf("list not sorted: %s before %s", classes[i-1].Key(), classes[i].Key())
		}
	}
}

func TestReferenceFallsBack(t *testing.T) {
	r := New()

	// A curated pair returns the curated class.
	lc := r.Reference(DeviceP1000, SubstanceGlycerol50)
	if lc.AspirationRate != 247.05 {
		t.Fatalf("expected curated rate 247.05, got %g", lc.AspirationRate)
	}

	// An unknown pair returns the fallback with the pair stamped on.
	lc = r.Reference(DeviceP300, SubstanceWater)
	fallback := FallbackReference()
	if lc.AspirationRate != fallback.AspirationRate {
		t.Fatalf("expected fallback rate %g, got %g", fallback.AspirationRate, lc.AspirationRate)
	}
	if lc.Device != DeviceP300 || lc.Substance != SubstanceWater {
		t.Fatalf("expected fallback stamped with requested pair, got %s / %s", lc.Device, lc.Substance.Display())
	}
}

func TestParameterRoundTrip(t *testing.T) {
	lc := FallbackReference()
	params := lc.Parameters()

	if len(params) != 6 {
		t.Fatalf("expected 6 parameters, got %d", len(params))
	}
	if params[optimize.ParamAspirationRate] != lc.AspirationRate {
		t.Fatalf("expected aspiration rate %g, got %g",
			lc.AspirationRate, params[optimize.ParamAspirationRate])
	}

	params[optimize.ParamBlowoutRate] = 42
	updated := lc.WithParameters(params)
	if updated.BlowoutRate != 42 {
		t.Fatalf("expected blowout 42, got %g", updated.BlowoutRate)
	}
	// Touch tip never travels through the vector.
	if updated.TouchTip != lc.TouchTip {
		t.Fatalf("touch tip changed through the parameter vector")
	}
}

func TestParseDeviceClass(t *testing.T) {
	for _, name := range []string{"P20", "p300", "p1000"} {
		if _, err := ParseDeviceClass(name); err != nil {
			t.Fatalf("ParseDeviceClass(%q): unexpected error %v", name, err)
		}
	}
	if _, err := ParseDeviceClass("P5"); err == nil {
		t.Fatalf("expected error for unknown device class")
	}
}

func TestCustomSubstanceNormalization(t *testing.T) {
	s := CustomSubstance("glycerol 42%")
	if s.Code() != "GLYCEROL_42PCT" {
		t.Fatalf("expected code GLYCEROL_42PCT, got %s", s.Code())
	}
	if !s.Custom() {
		t.Fatalf("expected custom substance")
	}

	known := ParseSubstance("GLYCEROL_99")
	if known.Custom() {
		t.Fatalf("expected known substance, got custom")
	}
}
