package indicator

// RealizedVolatility computes the standard deviation of daily returns
// over the trailing window. Annualization is left to the caller.
func RealizedVolatility(returns []float64, window int) ([]float64, error) {
	if window < 2 {
		window = 2
	}
	if len(returns) < window {
		return nil, &InsufficientDataError{Indicator: "RealizedVolatility", Need: window, Have: len(returns)}
	}

	out := nanSlice(len(returns))
	for i := window - 1; i < len(returns); i++ {
		out[i] = stddev(returns, i-window+1, i+1)
	}
	return out, nil
}
