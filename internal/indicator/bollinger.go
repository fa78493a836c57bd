package indicator

// BollingerResult holds the three bands, each aligned with the input.
type BollingerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes Middle = SMA(period) flanked by bands at
// k standard deviations of the trailing period window.
func Bollinger(values []float64, period int, k float64) (*BollingerResult, error) {
	if len(values) < period {
		return nil, &InsufficientDataError{Indicator: "Bollinger", Need: period, Have: len(values)}
	}

	middle, err := SMA(values, period)
	if err != nil {
		return nil, err
	}

	upper := nanSlice(len(values))
	lower := nanSlice(len(values))
	for i := period - 1; i < len(values); i++ {
		band := k * stddev(values, i-period+1, i+1)
		upper[i] = middle[i] + band
		lower[i] = middle[i] - band
	}
	return &BollingerResult{Upper: upper, Middle: middle, Lower: lower}, nil
}
