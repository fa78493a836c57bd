package strategy

import (
	"math"
	"time"

	"FundPulse/internal/domain/models"
)

// mkSeries builds a daily NAV series from unit NAV values, deriving the
// daily returns. Dates start on 2024-01-02.
func mkSeries(values ...float64) models.NavSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make(models.NavSeries, len(values))
	for i, v := range values {
		var ret float64
		if i > 0 && values[i-1] != 0 {
			ret = v/values[i-1] - 1
		}
		out[i] = models.NavPoint{
			Date:           start.AddDate(0, 0, i),
			UnitNav:        v,
			AccumulatedNav: v,
			DailyReturn:    ret,
		}
	}
	return out
}

// linSeries builds a series rising (or falling) linearly from start by
// step per day over n days.
func linSeries(start, step float64, n int) models.NavSeries {
	values := make([]float64, n)
	for i := range values {
		values[i] = start + step*float64(i)
	}
	return mkSeries(values...)
}

// vSeries declines then rises, producing exactly one golden cross of the
// short average over the long average.
func vSeries(declineDays, riseDays int) models.NavSeries {
	values := make([]float64, 0, declineDays+riseDays)
	nav := 2.0
	for i := 0; i < declineDays; i++ {
		values = append(values, nav)
		nav -= 0.01
	}
	for i := 0; i < riseDays; i++ {
		values = append(values, nav)
		nav += 0.03
	}
	return mkSeries(values...)
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
