package service

import "FundPulse/internal/domain/models"

// Evaluator computes a trade signal for one fund from its NAV history.
// Implementations are pure: no I/O, no state shared between calls.
type Evaluator interface {
	// ID returns the registry identifier, e.g. "MA_CROSS".
	ID() string
	// Evaluate runs the strategy over a validated series. The series is
	// guaranteed non-empty, date-ascending and at least MinPoints long.
	Evaluate(series models.NavSeries) (*models.Signal, error)
	// MinPoints reports the shortest series the strategy can evaluate.
	MinPoints() int
	// Describe documents the strategy and its parameters for the API layer.
	Describe() models.StrategyDescription
}
