package indicator

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	got, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Valid(got[0]) || Valid(got[1]) {
		t.Fatalf("expected NaN warm-up, got %v", got[:2])
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(got[i+2], w) {
			t.Fatalf("sma[%d] = %v, want %v", i+2, got[i+2], w)
		}
	}
}

func TestSMAInsufficientData(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 3)
	var ie *InsufficientDataError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if ie.Need != 3 || ie.Have != 2 {
		t.Fatalf("unexpected bounds: %+v", ie)
	}
}

func TestEMASeededWithSMA(t *testing.T) {
	got, err := EMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// alpha = 0.5; seed = mean(1,2,3) = 2
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(got[i+2], w) {
			t.Fatalf("ema[%d] = %v, want %v", i+2, got[i+2], w)
		}
	}
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		period int
		want   float64
	}{
		{"all gains", []float64{1, 2, 3}, 2, 100},
		{"all losses", []float64{3, 2, 1}, 2, 0},
		{"balanced", []float64{1, 2, 1}, 2, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RSI(tt.values, tt.period)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			last := got[len(got)-1]
			if !almostEqual(last, tt.want) {
				t.Fatalf("rsi = %v, want %v", last, tt.want)
			}
		})
	}
}

func TestRSIWarmup(t *testing.T) {
	got, err := RSI([]float64{1, 2, 3, 4, 5, 6}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if Valid(got[i]) {
			t.Fatalf("rsi[%d] should be warm-up NaN", i)
		}
	}
	if !Valid(got[3]) {
		t.Fatalf("rsi[3] should be defined")
	}
}

func TestMACDFlatSeries(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 1.5
	}
	res, err := MACD(values, 5, 10, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A flat series has identical EMAs, so line, signal and histogram
	// are all zero once defined.
	firstHist := 10 + 4 - 2
	if Valid(res.Histogram[firstHist-1]) {
		t.Fatalf("histogram defined too early at %d", firstHist-1)
	}
	for i := firstHist; i < len(values); i++ {
		if !almostEqual(res.Line[i], 0) || !almostEqual(res.Signal[i], 0) || !almostEqual(res.Histogram[i], 0) {
			t.Fatalf("flat series macd not zero at %d: %v %v %v", i, res.Line[i], res.Signal[i], res.Histogram[i])
		}
	}
}

func TestMACDInsufficientData(t *testing.T) {
	_, err := MACD(make([]float64, 10), 5, 10, 4)
	var ie *InsufficientDataError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestBollinger(t *testing.T) {
	got, err := Bollinger([]float64{1, 2, 3}, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// mean 2, sample stddev 1, k=2
	if !almostEqual(got.Middle[2], 2) || !almostEqual(got.Upper[2], 4) || !almostEqual(got.Lower[2], 0) {
		t.Fatalf("bands = %v/%v/%v", got.Upper[2], got.Middle[2], got.Lower[2])
	}
}

func TestBollingerFlatSeries(t *testing.T) {
	got, err := Bollinger([]float64{2, 2, 2, 2}, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 2; i < 4; i++ {
		if !almostEqual(got.Upper[i], got.Lower[i]) {
			t.Fatalf("flat series should collapse bands at %d", i)
		}
	}
}

func TestRealizedVolatility(t *testing.T) {
	got, err := RealizedVolatility([]float64{0.01, 0.01, 0.01, 0.01}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got[3], 0) {
		t.Fatalf("constant returns should have zero volatility, got %v", got[3])
	}
	if Valid(got[1]) {
		t.Fatalf("warm-up should be NaN")
	}
}
