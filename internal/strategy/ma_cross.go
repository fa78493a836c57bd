package strategy

import (
	"fmt"
	"math"

	"FundPulse/internal/domain/models"
	"FundPulse/internal/indicator"
)

// StrategyMACross identifies the moving-average crossover strategy.
const StrategyMACross = "MA_CROSS"

// MACrossParams configures the moving-average crossover evaluator.
type MACrossParams struct {
	ShortWindow     int     `json:"short_window" default:"5" validate:"gt=0"`
	LongWindow      int     `json:"long_window" default:"20" validate:"gt=0,gtfield=ShortWindow"`
	ScalingConstant float64 `json:"scaling_constant" default:"500" validate:"gt=0"`
}

// MACross signals on golden and death crosses of two simple moving
// averages over the fund's unit NAV.
type MACross struct {
	params MACrossParams
}

func NewMACross(params MACrossParams) *MACross {
	return &MACross{params: params}
}

func (s *MACross) ID() string { return StrategyMACross }

// MinPoints needs one point beyond the long warm-up so the diff has a
// previous value to cross against.
func (s *MACross) MinPoints() int { return s.params.LongWindow + 1 }

func (s *MACross) Evaluate(series models.NavSeries) (*models.Signal, error) {
	navs := series.UnitNavs()

	smaShort, err := indicator.SMA(navs, s.params.ShortWindow)
	if err != nil {
		return nil, err
	}
	smaLong, err := indicator.SMA(navs, s.params.LongWindow)
	if err != nil {
		return nil, err
	}

	last := len(navs) - 1
	if last < s.params.LongWindow {
		// fewer than two post-warm-up points to compare
		return &models.Signal{Type: models.SignalHold, Confidence: 0, Reason: "insufficient trend data"}, nil
	}

	diff := smaShort[last] - smaLong[last]
	prevDiff := smaShort[last-1] - smaLong[last-1]
	sepPct := math.Abs(diff) / smaLong[last] * 100

	goldenCross := prevDiff <= 0 && diff > 0
	deathCross := prevDiff >= 0 && diff < 0

	confidence := math.Min(100, sepPct*s.params.ScalingConstant)

	switch {
	case goldenCross:
		return &models.Signal{
			Type:       models.SignalBuy,
			Confidence: confidence,
			Reason: fmt.Sprintf("%d-day average crossed above %d-day average by %.2f%%",
				s.params.ShortWindow, s.params.LongWindow, sepPct),
		}, nil
	case deathCross:
		return &models.Signal{
			Type:       models.SignalSell,
			Confidence: confidence,
			Reason: fmt.Sprintf("%d-day average crossed below %d-day average by %.2f%%",
				s.params.ShortWindow, s.params.LongWindow, sepPct),
		}, nil
	}

	side := "above"
	if diff < 0 {
		side = "below"
	}
	return &models.Signal{
		Type:       models.SignalHold,
		Confidence: 0,
		Reason: fmt.Sprintf("no crossover; %d-day average sits %.2f%% %s %d-day average",
			s.params.ShortWindow, sepPct, side, s.params.LongWindow),
	}, nil
}

func (s *MACross) Describe() models.StrategyDescription {
	return models.StrategyDescription{
		ID:          StrategyMACross,
		Name:        "Moving-Average Crossover",
		Description: "Buys on a golden cross and sells on a death cross of short- and long-window simple moving averages over unit NAV.",
		Parameters: map[string]models.ParameterDoc{
			"short_window":     {Default: s.params.ShortWindow, Description: "short moving-average window in trading days, must be below long_window"},
			"long_window":      {Default: s.params.LongWindow, Description: "long moving-average window in trading days"},
			"scaling_constant": {Default: s.params.ScalingConstant, Description: "confidence scaling applied to the percentage separation between averages"},
		},
		Signals: map[string]string{
			"buy":  "short average crossed above long average",
			"sell": "short average crossed below long average",
			"hold": "no crossover at the most recent point",
		},
	}
}
