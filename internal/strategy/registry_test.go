package strategy

import (
	"errors"
	"testing"
)

func TestRegistryIDs(t *testing.T) {
	reg := NewRegistry()
	ids := reg.IDs()
	want := []string{StrategyMACross, StrategyDynamicDCA, StrategyTrendFollowing}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v", ids)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("ids[%d] = %s, want %s", i, ids[i], id)
		}
	}
}

func TestRegistryUnknownStrategy(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve("MOMENTUM", nil)
	var ue *UnknownStrategyError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnknownStrategyError, got %v", err)
	}
	if ue.StrategyID != "MOMENTUM" {
		t.Fatalf("id = %q", ue.StrategyID)
	}
}

func TestRegistryRejectsUnknownParameter(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve(StrategyMACross, map[string]any{"fast_window": 5})
	var pe *InvalidParameterError
	if !errors.As(err, &pe) {
		t.Fatalf("expected InvalidParameterError, got %v", err)
	}
	if pe.Field != "fast_window" {
		t.Fatalf("field = %q, want fast_window", pe.Field)
	}
}

func TestRegistryRejectsWrongType(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve(StrategyMACross, map[string]any{"short_window": "five"})
	var pe *InvalidParameterError
	if !errors.As(err, &pe) {
		t.Fatalf("expected InvalidParameterError, got %v", err)
	}
	if pe.Field != "short_window" {
		t.Fatalf("field = %q, want short_window", pe.Field)
	}
}

func TestRegistryRejectsOutOfRange(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve(StrategyDynamicDCA, map[string]any{"valuation_lookback": 0})
	var pe *InvalidParameterError
	if !errors.As(err, &pe) {
		t.Fatalf("expected InvalidParameterError, got %v", err)
	}
	if pe.Field != "valuation_lookback" {
		t.Fatalf("field = %q, want valuation_lookback", pe.Field)
	}
}

func TestRegistryDefaults(t *testing.T) {
	reg := NewRegistry()
	defaults, err := reg.Defaults(StrategyMACross)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if defaults["short_window"] != 5 || defaults["long_window"] != 20 {
		t.Fatalf("unexpected defaults: %v", defaults)
	}
}

func TestRegistrySetDefaults(t *testing.T) {
	reg := NewRegistry()
	if err := reg.SetDefaults(StrategyMACross, map[string]any{"short_window": 10, "long_window": 60}); err != nil {
		t.Fatalf("set defaults: %v", err)
	}
	defaults, err := reg.Defaults(StrategyMACross)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if defaults["short_window"] != 10 || defaults["long_window"] != 60 {
		t.Fatalf("overrides not applied: %v", defaults)
	}
}

func TestRegistrySetDefaultsRejectsInvalid(t *testing.T) {
	reg := NewRegistry()
	err := reg.SetDefaults(StrategyMACross, map[string]any{"short_window": 30, "long_window": 20})
	var pe *InvalidParameterError
	if !errors.As(err, &pe) {
		t.Fatalf("expected InvalidParameterError, got %v", err)
	}
	// The rejected overrides must not stick.
	defaults, derr := reg.Defaults(StrategyMACross)
	if derr != nil {
		t.Fatalf("defaults: %v", derr)
	}
	if defaults["short_window"] != 5 {
		t.Fatalf("rejected overrides leaked: %v", defaults)
	}
}
