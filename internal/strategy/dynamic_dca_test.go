package strategy

import (
	"strings"
	"testing"

	"FundPulse/internal/domain/models"
)

func TestDynamicDCAExpensiveValuation(t *testing.T) {
	engine := NewEngine(NewRegistry())
	// Strictly increasing: the latest NAV ranks at the 100th percentile
	// of its lookback window.
	series := linSeries(1.0, 0.002, 60)

	sig, err := engine.Apply(StrategyDynamicDCA, "000001", series, map[string]any{"valuation_lookback": 60})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if sig.Type != models.SignalSell {
		t.Fatalf("signal = %s, want sell", sig.Type)
	}
	if !almost(sig.Confidence, 100) {
		t.Fatalf("confidence = %v, want 100", sig.Confidence)
	}
	if !strings.Contains(sig.Reason, "100th percentile") {
		t.Fatalf("reason %q should report the percentile", sig.Reason)
	}
}

func TestDynamicDCACheapValuation(t *testing.T) {
	engine := NewEngine(NewRegistry())
	// Strictly decreasing: only the current point ranks at or below
	// itself, putting it near the bottom of the window.
	series := linSeries(2.0, -0.002, 60)

	sig, err := engine.Apply(StrategyDynamicDCA, "000001", series, map[string]any{"valuation_lookback": 60, "base_amount": 500.0})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if sig.Type != models.SignalBuy {
		t.Fatalf("signal = %s, want buy", sig.Type)
	}
	if sig.Confidence <= 90 || sig.Confidence > 100 {
		t.Fatalf("confidence = %v, want near 100", sig.Confidence)
	}
	if !strings.Contains(sig.Reason, "attractive") {
		t.Fatalf("reason %q should flag the cheap valuation", sig.Reason)
	}
}

func TestDynamicDCANeutralBand(t *testing.T) {
	engine := NewEngine(NewRegistry())
	// Zig-zag around 1.0 with the current point back at the middle of
	// the window's range.
	values := make([]float64, 60)
	for i := range values {
		if i%2 == 0 {
			values[i] = 1.0 + 0.001*float64(i%10)
		} else {
			values[i] = 1.0 - 0.001*float64(i%10)
		}
	}
	values[59] = 1.0
	series := mkSeries(values...)

	sig, err := engine.Apply(StrategyDynamicDCA, "000001", series, map[string]any{"valuation_lookback": 60})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if sig.Type != models.SignalHold {
		t.Fatalf("signal = %s (%q), want hold", sig.Type, sig.Reason)
	}
}

func TestDynamicDCAZeroDispersion(t *testing.T) {
	engine := NewEngine(NewRegistry())
	values := make([]float64, 60)
	for i := range values {
		values[i] = 1.2345
	}
	series := mkSeries(values...)

	sig, err := engine.Apply(StrategyDynamicDCA, "000001", series, map[string]any{"valuation_lookback": 60})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if sig.Type != models.SignalHold || sig.Confidence != 0 {
		t.Fatalf("flat window should hold with zero confidence, got %s/%v", sig.Type, sig.Confidence)
	}
	if sig.Reason != "no valuation dispersion observed" {
		t.Fatalf("unexpected reason %q", sig.Reason)
	}
}
