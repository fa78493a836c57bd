package indicator

// RSI computes the Relative Strength Index from a rolling average of
// gains and losses over period daily deltas. RSI is 100 when the
// window contains no losses. Valid from index period onward.
func RSI(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		period = 1
	}
	if len(values) < period+1 {
		return nil, &InsufficientDataError{Indicator: "RSI", Need: period + 1, Have: len(values)}
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	out := nanSlice(len(values))
	var gainSum, lossSum float64
	for i := 1; i < len(values); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out, nil
}
