package indicator

// SMA computes the simple moving average over the given window. The
// result is aligned with values; indices before window-1 hold NaN.
func SMA(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		window = 1
	}
	if len(values) < window {
		return nil, &InsufficientDataError{Indicator: "SMA", Need: window, Have: len(values)}
	}

	out := nanSlice(len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out, nil
}

// EMA computes the exponential moving average with smoothing factor
// alpha = 2/(window+1), seeded with the SMA of the first window points.
func EMA(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		window = 1
	}
	if len(values) < window {
		return nil, &InsufficientDataError{Indicator: "EMA", Need: window, Have: len(values)}
	}

	out := nanSlice(len(values))
	var seed float64
	for _, v := range values[:window] {
		seed += v
	}
	out[window-1] = seed / float64(window)

	alpha := 2.0 / (float64(window) + 1.0)
	for i := window; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}
