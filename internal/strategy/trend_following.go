package strategy

import (
	"fmt"
	"math"
	"strings"

	"FundPulse/internal/domain/models"
	"FundPulse/internal/indicator"
)

// StrategyTrendFollowing identifies the multi-indicator trend-following strategy.
const StrategyTrendFollowing = "TREND_FOLLOWING"

// TrendFollowingParams configures the trend-following evaluator.
type TrendFollowingParams struct {
	RSIPeriod       int     `json:"rsi_period" default:"14" validate:"gt=1"`
	RSIOversold     float64 `json:"rsi_oversold" default:"30" validate:"gt=0,ltfield=RSIOverbought"`
	RSIOverbought   float64 `json:"rsi_overbought" default:"70" validate:"lt=100"`
	MACDFast        int     `json:"macd_fast" default:"12" validate:"gt=0"`
	MACDSlow        int     `json:"macd_slow" default:"26" validate:"gt=0,gtfield=MACDFast"`
	MACDSignal      int     `json:"macd_signal" default:"9" validate:"gt=0"`
	BollingerPeriod int     `json:"bollinger_period" default:"20" validate:"gt=1"`
	BollingerK      float64 `json:"bollinger_k" default:"2" validate:"gt=0"`
}

// TrendFollowing combines RSI, MACD and Bollinger sub-signals, each
// voting buy (+1), sell (-1) or hold (0). A single dissenting indicator
// is enough to keep the final signal at hold.
type TrendFollowing struct {
	params TrendFollowingParams
}

func NewTrendFollowing(params TrendFollowingParams) *TrendFollowing {
	return &TrendFollowing{params: params}
}

func (s *TrendFollowing) ID() string { return StrategyTrendFollowing }

// MinPoints is the longest sub-indicator warm-up plus one previous
// histogram value for the MACD cross check.
func (s *TrendFollowing) MinPoints() int {
	min := s.params.RSIPeriod + 1
	if m := s.params.MACDSlow + s.params.MACDSignal - 1; m > min {
		min = m
	}
	if s.params.BollingerPeriod > min {
		min = s.params.BollingerPeriod
	}
	return min + 1
}

func (s *TrendFollowing) Evaluate(series models.NavSeries) (*models.Signal, error) {
	navs := series.UnitNavs()
	last := len(navs) - 1

	rsi, err := indicator.RSI(navs, s.params.RSIPeriod)
	if err != nil {
		return nil, err
	}
	macd, err := indicator.MACD(navs, s.params.MACDFast, s.params.MACDSlow, s.params.MACDSignal)
	if err != nil {
		return nil, err
	}
	bands, err := indicator.Bollinger(navs, s.params.BollingerPeriod, s.params.BollingerK)
	if err != nil {
		return nil, err
	}

	score := 0
	readings := make([]string, 0, 3)

	switch r := rsi[last]; {
	case r < s.params.RSIOversold:
		score++
		readings = append(readings, fmt.Sprintf("RSI oversold (%.1f)", r))
	case r > s.params.RSIOverbought:
		score--
		readings = append(readings, fmt.Sprintf("RSI overbought (%.1f)", r))
	default:
		readings = append(readings, fmt.Sprintf("RSI neutral (%.1f)", r))
	}

	hist, prevHist := macd.Histogram[last], macd.Histogram[last-1]
	switch {
	case prevHist <= 0 && hist > 0:
		score++
		readings = append(readings, "MACD histogram crossed positive")
	case prevHist >= 0 && hist < 0:
		score--
		readings = append(readings, "MACD histogram crossed negative")
	default:
		readings = append(readings, "MACD neutral")
	}

	switch nav := navs[last]; {
	case nav < bands.Lower[last]:
		score++
		readings = append(readings, "price below lower Bollinger band")
	case nav > bands.Upper[last]:
		score--
		readings = append(readings, "price above upper Bollinger band")
	default:
		readings = append(readings, "price inside Bollinger bands")
	}

	sig, confidence := voteOutcome(score)
	return &models.Signal{
		Type:       sig,
		Confidence: confidence,
		Reason:     strings.Join(readings, "; "),
	}, nil
}

// voteOutcome maps the aggregate vote score in [-3,3] to the final
// signal. Ties and single-indicator majorities resolve to hold.
func voteOutcome(score int) (models.SignalType, float64) {
	sig := models.SignalHold
	if score >= 2 {
		sig = models.SignalBuy
	} else if score <= -2 {
		sig = models.SignalSell
	}
	return sig, math.Abs(float64(score)) / 3 * 100
}

func (s *TrendFollowing) Describe() models.StrategyDescription {
	return models.StrategyDescription{
		ID:          StrategyTrendFollowing,
		Name:        "Multi-Indicator Trend Following",
		Description: "Aggregates RSI, MACD and Bollinger votes; at least two agreeing indicators are required to leave hold.",
		Parameters: map[string]models.ParameterDoc{
			"rsi_period":       {Default: s.params.RSIPeriod, Description: "RSI averaging period in trading days"},
			"rsi_oversold":     {Default: s.params.RSIOversold, Description: "RSI level below which the RSI vote is buy"},
			"rsi_overbought":   {Default: s.params.RSIOverbought, Description: "RSI level above which the RSI vote is sell"},
			"macd_fast":        {Default: s.params.MACDFast, Description: "MACD fast EMA window, must be below macd_slow"},
			"macd_slow":        {Default: s.params.MACDSlow, Description: "MACD slow EMA window"},
			"macd_signal":      {Default: s.params.MACDSignal, Description: "MACD signal EMA window"},
			"bollinger_period": {Default: s.params.BollingerPeriod, Description: "Bollinger moving-average window"},
			"bollinger_k":      {Default: s.params.BollingerK, Description: "band width in rolling standard deviations"},
		},
		Signals: map[string]string{
			"buy":  "at least two of RSI, MACD and Bollinger vote buy",
			"sell": "at least two of RSI, MACD and Bollinger vote sell",
			"hold": "votes tie or disagree",
		},
	}
}
