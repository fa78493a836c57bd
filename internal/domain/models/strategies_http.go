package models

import "time"

// Requests and responses for the strategy HTTP endpoints. Defined in domain
// for consistency and reuse.

type ApplyStrategyRequest struct {
	FundCode   string         `json:"fund_code" validate:"required"`
	StrategyID string         `json:"strategy_id" validate:"required"`
	Days       int            `json:"days" default:"365" validate:"gte=1,lte=3650"`
	Parameters map[string]any `json:"parameters"`
}

type ApplyAllRequest struct {
	FundCode string `json:"fund_code" validate:"required"`
	Days     int    `json:"days" default:"365" validate:"gte=1,lte=3650"`
}

type NavHistoryRequest struct {
	From string `query:"from" json:"from"`
	To   string `query:"to" json:"to"`
	Days int    `query:"days" json:"days" default:"365" validate:"gte=1,lte=3650"`
	Last int    `query:"last" json:"last" validate:"omitempty,gte=1,lte=3650"`
}

type UpdateStrategyConfigRequest struct {
	Parameters map[string]any `json:"parameters" validate:"required"`
}

// SignalResponse is the wire shape consumed by the watchlist UI: a colored
// tag ("signal") plus a confidence bar.
type SignalResponse struct {
	Signal      string    `json:"signal"`
	Confidence  float64   `json:"confidence"`
	Reason      string    `json:"reason"`
	StrategyID  string    `json:"strategy_id,omitempty"`
	FundCode    string    `json:"fund_code,omitempty"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// NewSignalResponse maps a domain Signal to its wire shape.
func NewSignalResponse(s *Signal) *SignalResponse {
	return &SignalResponse{
		Signal:      string(s.Type),
		Confidence:  s.Confidence,
		Reason:      s.Reason,
		StrategyID:  s.StrategyID,
		FundCode:    s.FundCode,
		EvaluatedAt: s.EvaluatedAt,
	}
}

// NavPointResponse is one NAV history row on the wire.
type NavPointResponse struct {
	Date           string  `json:"date"`
	UnitNav        float64 `json:"unit_nav"`
	AccumulatedNav float64 `json:"accumulated_nav"`
	DailyReturn    float64 `json:"daily_return"`
}
