package strategy

import (
	"math"
	"strings"
	"testing"

	"FundPulse/internal/domain/models"
)

func TestVoteOutcome(t *testing.T) {
	tests := []struct {
		score      int
		want       models.SignalType
		confidence float64
	}{
		{3, models.SignalBuy, 100},
		{2, models.SignalBuy, 200.0 / 3},
		{1, models.SignalHold, 100.0 / 3},
		{0, models.SignalHold, 0},
		{-1, models.SignalHold, 100.0 / 3},
		{-2, models.SignalSell, 200.0 / 3},
		{-3, models.SignalSell, 100},
	}
	for _, tt := range tests {
		sig, conf := voteOutcome(tt.score)
		if sig != tt.want {
			t.Fatalf("score %d: signal = %s, want %s", tt.score, sig, tt.want)
		}
		if !almost(conf, tt.confidence) {
			t.Fatalf("score %d: confidence = %v, want %v", tt.score, conf, tt.confidence)
		}
	}
}

func TestTrendFollowingOverheatedRallySells(t *testing.T) {
	engine := NewEngine(NewRegistry())
	// An accelerating rally: RSI pegs at 100 and price breaks the upper
	// Bollinger band while the MACD histogram stays positive. Two sell
	// votes against one neutral vote.
	values := make([]float64, 40)
	for i := range values {
		values[i] = math.Pow(1.10, float64(i))
	}
	series := mkSeries(values...)

	sig, err := engine.Apply(StrategyTrendFollowing, "000001", series, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if sig.Type != models.SignalSell {
		t.Fatalf("signal = %s (%q), want sell", sig.Type, sig.Reason)
	}
	if !almost(sig.Confidence, 200.0/3) {
		t.Fatalf("confidence = %v, want %v", sig.Confidence, 200.0/3)
	}
	if !strings.Contains(sig.Reason, "RSI overbought") || !strings.Contains(sig.Reason, "upper Bollinger band") {
		t.Fatalf("reason %q should name the dissenting indicators", sig.Reason)
	}
	if !strings.Contains(sig.Reason, "MACD neutral") {
		t.Fatalf("reason %q should report the neutral MACD vote", sig.Reason)
	}
}

func TestTrendFollowingCrashRecoveryBuys(t *testing.T) {
	engine := NewEngine(NewRegistry())
	// A crash that levels off: RSI stays pegged oversold while the MACD
	// histogram crosses back above zero as the fast EMA stabilizes. Two
	// buy votes against one neutral Bollinger vote.
	values := make([]float64, 0, 38)
	for i := 0; i < 20; i++ {
		values = append(values, 100)
	}
	nav := 100.0
	for i := 0; i < 10; i++ {
		nav *= 0.97
		values = append(values, nav)
	}
	for i := 0; i < 8; i++ {
		values = append(values, nav)
	}
	series := mkSeries(values...)

	sig, err := engine.Apply(StrategyTrendFollowing, "000001", series, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if sig.Type != models.SignalBuy {
		t.Fatalf("signal = %s (%q), want buy", sig.Type, sig.Reason)
	}
	if !almost(sig.Confidence, 200.0/3) {
		t.Fatalf("confidence = %v, want %v", sig.Confidence, 200.0/3)
	}
	if !strings.Contains(sig.Reason, "RSI oversold") || !strings.Contains(sig.Reason, "MACD histogram crossed positive") {
		t.Fatalf("reason %q should name the agreeing indicators", sig.Reason)
	}
	if !strings.Contains(sig.Reason, "inside Bollinger bands") {
		t.Fatalf("reason %q should report the neutral Bollinger vote", sig.Reason)
	}
}

func TestTrendFollowingFlatSeriesHolds(t *testing.T) {
	engine := NewEngine(NewRegistry())
	values := make([]float64, 40)
	for i := range values {
		values[i] = 1.5
	}
	series := mkSeries(values...)

	sig, err := engine.Apply(StrategyTrendFollowing, "000001", series, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if sig.Type != models.SignalHold {
		t.Fatalf("signal = %s, want hold", sig.Type)
	}
}

func TestTrendFollowingMinPoints(t *testing.T) {
	tf := NewTrendFollowing(TrendFollowingParams{
		RSIPeriod: 14, RSIOversold: 30, RSIOverbought: 70,
		MACDFast: 12, MACDSlow: 26, MACDSignal: 9,
		BollingerPeriod: 20, BollingerK: 2,
	})
	// MACD dominates: slow + signal - 1, plus one point for the
	// histogram cross check.
	if got, want := tf.MinPoints(), 26+9-1+1; got != want {
		t.Fatalf("MinPoints = %d, want %d", got, want)
	}
}
