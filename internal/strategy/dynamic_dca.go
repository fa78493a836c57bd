package strategy

import (
	"fmt"
	"math"

	"FundPulse/internal/domain/models"
)

// StrategyDynamicDCA identifies the dynamic dollar-cost-averaging strategy.
const StrategyDynamicDCA = "DYNAMIC_DCA"

// DynamicDCAParams configures the dynamic DCA evaluator.
type DynamicDCAParams struct {
	ValuationLookback int     `json:"valuation_lookback" default:"60" validate:"gt=0"`
	BaseAmount        float64 `json:"base_amount" default:"1000" validate:"gt=0"`
	LowPercentile     float64 `json:"low_percentile" default:"20" validate:"gte=0,lt=50"`
	HighPercentile    float64 `json:"high_percentile" default:"80" validate:"gt=50,lte=100"`
}

// DynamicDCA sizes contributions by where the current unit NAV ranks
// within its trailing valuation window: cheap valuations increase the
// contribution, expensive ones reduce it.
type DynamicDCA struct {
	params DynamicDCAParams
}

func NewDynamicDCA(params DynamicDCAParams) *DynamicDCA {
	return &DynamicDCA{params: params}
}

func (s *DynamicDCA) ID() string { return StrategyDynamicDCA }

func (s *DynamicDCA) MinPoints() int { return s.params.ValuationLookback }

func (s *DynamicDCA) Evaluate(series models.NavSeries) (*models.Signal, error) {
	window := series[len(series)-s.params.ValuationLookback:]
	current := series.Last().UnitNav

	lo, hi := window[0].UnitNav, window[0].UnitNav
	ranked := 0
	for _, p := range window {
		if p.UnitNav <= current {
			ranked++
		}
		lo = math.Min(lo, p.UnitNav)
		hi = math.Max(hi, p.UnitNav)
	}

	if lo == hi {
		return &models.Signal{Type: models.SignalHold, Confidence: 0, Reason: "no valuation dispersion observed"}, nil
	}

	percentile := float64(ranked) / float64(len(window)) * 100
	confidence := math.Min(100, math.Abs(percentile-50)*2)
	lookback := s.params.ValuationLookback

	switch {
	case percentile < s.params.LowPercentile:
		// cheap: scale up the contribution toward 2x
		amount := s.params.BaseAmount * (1 + (s.params.LowPercentile-percentile)/s.params.LowPercentile)
		return &models.Signal{
			Type:       models.SignalBuy,
			Confidence: confidence,
			Reason: fmt.Sprintf("current NAV is in the %.0fth percentile of the trailing %d periods; valuation is attractive, increase contribution to %.2f",
				percentile, lookback, amount),
		}, nil
	case percentile > s.params.HighPercentile:
		amount := s.params.BaseAmount * (100 - percentile) / (100 - s.params.HighPercentile)
		return &models.Signal{
			Type:       models.SignalSell,
			Confidence: confidence,
			Reason: fmt.Sprintf("current NAV is in the %.0fth percentile of the trailing %d periods; valuation is expensive, reduce contribution to %.2f",
				percentile, lookback, amount),
		}, nil
	}

	return &models.Signal{
		Type:       models.SignalHold,
		Confidence: confidence,
		Reason: fmt.Sprintf("current NAV is in the %.0fth percentile of the trailing %d periods; keep the regular contribution of %.2f",
			percentile, lookback, s.params.BaseAmount),
	}, nil
}

func (s *DynamicDCA) Describe() models.StrategyDescription {
	return models.StrategyDescription{
		ID:          StrategyDynamicDCA,
		Name:        "Dynamic Dollar-Cost Averaging",
		Description: "Ranks the current unit NAV within a trailing valuation window and adjusts the periodic contribution accordingly.",
		Parameters: map[string]models.ParameterDoc{
			"valuation_lookback": {Default: s.params.ValuationLookback, Description: "trailing window length in trading days used for the percentile rank"},
			"base_amount":        {Default: s.params.BaseAmount, Description: "regular contribution per period before adjustment"},
			"low_percentile":     {Default: s.params.LowPercentile, Description: "percentile below which valuation is treated as cheap"},
			"high_percentile":    {Default: s.params.HighPercentile, Description: "percentile above which valuation is treated as expensive"},
		},
		Signals: map[string]string{
			"buy":  "valuation in the cheap band, increase the contribution",
			"sell": "valuation in the expensive band, reduce the contribution",
			"hold": "valuation in the neutral band, keep the regular contribution",
		},
	}
}
