package strategy

import (
	"FundPulse/internal/domain/models"
)

// validateSeries checks the NAV series ordering invariants: strictly
// ascending dates, no duplicates. The engine fails fast on a bad series
// rather than silently reordering or interpolating. Length is not
// checked here; a short or empty series is an insufficient-data
// condition, reported against the strategy's minimum window.
func validateSeries(series models.NavSeries) error {
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1].Date, series[i].Date
		if cur.Equal(prev) {
			return &MalformedSeriesError{Index: i, Reason: "duplicate date " + cur.Format("2006-01-02")}
		}
		if cur.Before(prev) {
			return &MalformedSeriesError{Index: i, Reason: "dates not ascending at " + cur.Format("2006-01-02")}
		}
	}
	return nil
}
