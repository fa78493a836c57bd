package repository

import (
	"context"
	"time"

	"FundPulse/internal/domain/models"
)

// NavHistory supplies the ordered NAV series for a fund. Owned by the
// storage layer; the signal engine only ever consumes its output.
type NavHistory interface {
	GetSeries(ctx context.Context, fundCode string, from, to time.Time) (models.NavSeries, error)
	GetLatestN(ctx context.Context, fundCode string, n int) (models.NavSeries, error)
	Health(ctx context.Context) error
	Close() error
}

// SignalPublisher forwards evaluated signals to downstream consumers.
// PublishBatch groups one fund's sweep results into a single round trip.
type SignalPublisher interface {
	Publish(ctx context.Context, s *models.Signal) error
	PublishBatch(ctx context.Context, signals []*models.Signal) error
	Close() error
}

// Metrics records engine-level observability counters.
type Metrics interface {
	RecordEvaluation(strategyID, signal string)
	RecordEvaluationError(strategyID, kind string)
	RecordConfidence(fundCode, strategyID string, confidence float64)
	RecordLatency(op string, seconds float64)
}
