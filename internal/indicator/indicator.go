// Package indicator provides pure technical-indicator functions over a
// fund's NAV history. Every function returns a slice aligned with its
// input; positions before the indicator's warm-up point hold NaN.
package indicator

import (
	"fmt"
	"math"
)

// InsufficientDataError reports a series shorter than an indicator's
// minimum required length. Callers may treat it as "wait for more
// history" rather than a data-quality failure.
type InsufficientDataError struct {
	Indicator string
	Need      int
	Have      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need at least %d points, have %d", e.Indicator, e.Need, e.Have)
}

// Valid reports whether an indicator value is past its warm-up point.
func Valid(v float64) bool {
	return !math.IsNaN(v)
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// stddev computes the sample standard deviation of values[lo:hi].
func stddev(values []float64, lo, hi int) float64 {
	n := hi - lo
	if n < 2 {
		return 0
	}
	var sum float64
	for _, v := range values[lo:hi] {
		sum += v
	}
	mean := sum / float64(n)
	var ss float64
	for _, v := range values[lo:hi] {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
