package models

import "time"

// NavPoint is one day of a fund's net-asset-value history.
// DailyReturn is a fraction (0.01 == 1%).
type NavPoint struct {
	Date           time.Time
	UnitNav        float64
	AccumulatedNav float64
	DailyReturn    float64
}

// NavSeries is a date-ordered NAV history. The engine treats it as an
// immutable input: it is validated, never mutated and never retained
// across evaluations.
type NavSeries []NavPoint

// UnitNavs extracts the unit NAV column.
func (s NavSeries) UnitNavs() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.UnitNav
	}
	return out
}

// DailyReturns extracts the daily return column.
func (s NavSeries) DailyReturns() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.DailyReturn
	}
	return out
}

// Last returns the most recent point. Callers must check emptiness first.
func (s NavSeries) Last() NavPoint {
	return s[len(s)-1]
}
