package models

import "time"

// SignalType is the discrete recommendation produced by a strategy.
type SignalType string

const (
	SignalBuy  SignalType = "buy"
	SignalSell SignalType = "sell"
	SignalHold SignalType = "hold"
)

// Signal is the sole output of a strategy evaluation. Created fresh per
// call and never mutated afterwards; persistence of signals (if any) is
// the caller's concern.
type Signal struct {
	Type        SignalType
	Confidence  float64 // 0..100
	Reason      string
	EvaluatedAt time.Time
	StrategyID  string
	FundCode    string
}

// FundInfo is the static metadata of a tracked fund.
type FundInfo struct {
	Code    string
	Name    string
	Type    string
	Manager string
	Company string
}

// StrategyDescription documents a registered strategy for the API layer.
type StrategyDescription struct {
	ID          string
	Name        string
	Description string
	Parameters  map[string]ParameterDoc
	Signals     map[string]string
}

// ParameterDoc documents one tunable parameter and its valid range.
type ParameterDoc struct {
	Default     any
	Description string
}
