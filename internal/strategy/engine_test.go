package strategy

import (
	"errors"
	"math"
	"testing"
	"time"

	"FundPulse/internal/domain/models"
	"FundPulse/internal/indicator"
)

func TestEngineDeterminism(t *testing.T) {
	engine := NewEngine(NewRegistry())
	series := vSeries(30, 30)

	for _, id := range engine.Registry().IDs() {
		first, err := engine.Apply(id, "000001", series, nil)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		second, err := engine.Apply(id, "000001", series, nil)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		if first.Type != second.Type || first.Confidence != second.Confidence || first.Reason != second.Reason {
			t.Fatalf("%s not deterministic: %+v vs %+v", id, first, second)
		}
	}
}

func TestEngineConfidenceBounds(t *testing.T) {
	engine := NewEngine(NewRegistry())
	fixtures := []models.NavSeries{
		vSeries(30, 30),
		linSeries(1.0, 0.01, 80),
		linSeries(5.0, -0.03, 80),
		mkSeries(flat(80, 2.5)...),
	}
	for _, series := range fixtures {
		for _, id := range engine.Registry().IDs() {
			sig, err := engine.Apply(id, "000001", series, nil)
			if err != nil {
				t.Fatalf("%s: %v", id, err)
			}
			if sig.Confidence < 0 || sig.Confidence > 100 || math.IsNaN(sig.Confidence) {
				t.Fatalf("%s confidence out of bounds: %v", id, sig.Confidence)
			}
		}
	}
}

func TestEngineStampsResult(t *testing.T) {
	engine := NewEngine(NewRegistry())
	stamp := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return stamp }

	sig, err := engine.Apply(StrategyMACross, "110022", vSeries(30, 30), nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if sig.StrategyID != StrategyMACross || sig.FundCode != "110022" {
		t.Fatalf("identity not stamped: %+v", sig)
	}
	if !sig.EvaluatedAt.Equal(stamp) {
		t.Fatalf("evaluated_at = %v, want %v", sig.EvaluatedAt, stamp)
	}
}

func TestEngineMalformedSeries(t *testing.T) {
	engine := NewEngine(NewRegistry())

	dup := vSeries(30, 30)
	dup[10].Date = dup[9].Date
	_, err := engine.Apply(StrategyMACross, "000001", dup, nil)
	var me *MalformedSeriesError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedSeriesError for duplicate date, got %v", err)
	}
	if me.Index != 10 {
		t.Fatalf("index = %d, want 10", me.Index)
	}

	unordered := vSeries(30, 30)
	unordered[5].Date = unordered[7].Date.AddDate(0, 0, 1)
	_, err = engine.Apply(StrategyMACross, "000001", unordered, nil)
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedSeriesError for unordered dates, got %v", err)
	}
}

func TestEngineEmptySeries(t *testing.T) {
	engine := NewEngine(NewRegistry())

	// An empty series is a fund with no history yet, not a data-quality
	// failure: callers get the same error as any too-short series.
	_, err := engine.Apply(StrategyMACross, "000001", models.NavSeries{}, nil)
	var ie *indicator.InsufficientDataError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InsufficientDataError for empty series, got %v", err)
	}
	if ie.Have != 0 {
		t.Fatalf("have = %d, want 0", ie.Have)
	}
}

func TestEngineDoesNotMutateSeries(t *testing.T) {
	engine := NewEngine(NewRegistry())
	series := vSeries(30, 30)
	copied := make(models.NavSeries, len(series))
	copy(copied, series)

	if _, err := engine.Apply(StrategyTrendFollowing, "000001", series, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	for i := range series {
		if series[i] != copied[i] {
			t.Fatalf("series mutated at %d", i)
		}
	}
}

func TestEngineApplyAll(t *testing.T) {
	engine := NewEngine(NewRegistry())
	signals, errs := engine.ApplyAll("000001", vSeries(40, 40))
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(signals) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(signals))
	}
	for id, sig := range signals {
		if sig.StrategyID != id {
			t.Fatalf("signal %s mislabeled as %s", id, sig.StrategyID)
		}
	}
}

func TestEngineApplyAllReportsPerStrategyErrors(t *testing.T) {
	engine := NewEngine(NewRegistry())
	// 25 points: enough for MA_CROSS (21), too short for DYNAMIC_DCA
	// (60) and TREND_FOLLOWING (35).
	signals, errs := engine.ApplyAll("000001", vSeries(15, 10))
	if _, ok := signals[StrategyMACross]; !ok {
		t.Fatalf("MA_CROSS should succeed: %v", errs)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 failures, got %v", errs)
	}
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
