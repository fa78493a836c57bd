package strategy

import (
	"sync"
	"time"

	"FundPulse/internal/domain/models"
	"FundPulse/internal/indicator"
)

// Engine is the single entry point for strategy evaluation: resolve the
// evaluator, validate parameters and series, evaluate, stamp the result.
// It holds no state between calls and is safe for concurrent use.
type Engine struct {
	registry *Registry
	now      func() time.Time
}

func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry, now: time.Now}
}

// Registry exposes the underlying registry for description endpoints.
func (e *Engine) Registry() *Registry { return e.registry }

// Apply evaluates one strategy over one fund's NAV history. The series is
// never mutated or retained; apart from the EvaluatedAt stamp the result
// is a pure function of its inputs.
func (e *Engine) Apply(strategyID, fundCode string, series models.NavSeries, params map[string]any) (*models.Signal, error) {
	ev, err := e.registry.Resolve(strategyID, params)
	if err != nil {
		return nil, err
	}
	if err := validateSeries(series); err != nil {
		return nil, err
	}
	if min := ev.MinPoints(); len(series) < min {
		return nil, &indicator.InsufficientDataError{Indicator: strategyID, Need: min, Have: len(series)}
	}

	sig, err := ev.Evaluate(series)
	if err != nil {
		return nil, err
	}
	sig.StrategyID = strategyID
	sig.FundCode = fundCode
	sig.EvaluatedAt = e.now()
	return sig, nil
}

// ApplyAll evaluates every registered strategy with its default
// parameters, fanning out one goroutine per strategy. A failing strategy
// does not block the others; its error is reported alongside the signals.
func (e *Engine) ApplyAll(fundCode string, series models.NavSeries) (map[string]*models.Signal, map[string]error) {
	ids := e.registry.IDs()

	type item struct {
		id  string
		sig *models.Signal
		err error
	}
	ch := make(chan item, len(ids))
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			sig, err := e.Apply(id, fundCode, series, nil)
			ch <- item{id, sig, err}
		}(id)
	}
	go func() { wg.Wait(); close(ch) }()

	signals := make(map[string]*models.Signal, len(ids))
	errs := make(map[string]error)
	for it := range ch {
		if it.err != nil {
			errs[it.id] = it.err
			continue
		}
		signals[it.id] = it.sig
	}
	if len(errs) == 0 {
		errs = nil
	}
	return signals, errs
}
