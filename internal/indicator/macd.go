package indicator

// MACDResult holds the three MACD series, each aligned with the input.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes Line = EMA(fast) - EMA(slow), Signal = EMA(signal) of
// Line, and Histogram = Line - Signal. Line is valid from index slow-1,
// Signal and Histogram from index slow+signal-2.
func MACD(values []float64, fast, slow, signal int) (*MACDResult, error) {
	minLen := slow + signal - 1
	if len(values) < minLen {
		return nil, &InsufficientDataError{Indicator: "MACD", Need: minLen, Have: len(values)}
	}

	emaFast, err := EMA(values, fast)
	if err != nil {
		return nil, err
	}
	emaSlow, err := EMA(values, slow)
	if err != nil {
		return nil, err
	}

	line := nanSlice(len(values))
	for i := slow - 1; i < len(values); i++ {
		line[i] = emaFast[i] - emaSlow[i]
	}

	// EMA of the valid part of the line, re-aligned to the input.
	sigTail, err := EMA(line[slow-1:], signal)
	if err != nil {
		return nil, err
	}
	sig := nanSlice(len(values))
	copy(sig[slow-1:], sigTail)

	hist := nanSlice(len(values))
	for i := slow + signal - 2; i < len(values); i++ {
		hist[i] = line[i] - sig[i]
	}

	return &MACDResult{Line: line, Signal: sig, Histogram: hist}, nil
}
