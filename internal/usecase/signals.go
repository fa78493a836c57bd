package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"FundPulse/internal/domain/models"
	domrepo "FundPulse/internal/domain/repository"
	"FundPulse/internal/indicator"
	"FundPulse/internal/strategy"
	"FundPulse/pkg/cache"
	applogger "FundPulse/pkg/logger"
	"FundPulse/pkg/util"
)

// SignalService orchestrates one evaluation round trip: load the NAV
// series, run the engine, record metrics, publish and cache the result.
type SignalService struct {
	navs    domrepo.NavHistory
	engine  *strategy.Engine
	cache   cache.Service
	metrics domrepo.Metrics
	pub     domrepo.SignalPublisher
	l       *applogger.Logger

	signalTTL   time.Duration
	navTTL      time.Duration
	defaultDays int
	now         func() time.Time
}

// SignalServiceOption configures SignalService.
type SignalServiceOption func(*SignalService)

// WithCache enables signal result caching.
func WithCache(c cache.Service, ttl time.Duration) SignalServiceOption {
	return func(s *SignalService) {
		s.cache = c
		if ttl > 0 {
			s.signalTTL = ttl
		}
	}
}

// WithNavTTL sets how long a loaded NAV series is reused before the
// store is queried again. Only effective together with WithCache.
func WithNavTTL(ttl time.Duration) SignalServiceOption {
	return func(s *SignalService) {
		if ttl > 0 {
			s.navTTL = ttl
		}
	}
}

// WithMetrics enables evaluation metrics.
func WithMetrics(m domrepo.Metrics) SignalServiceOption {
	return func(s *SignalService) {
		s.metrics = m
	}
}

// WithPublisher forwards every fresh signal downstream.
func WithPublisher(p domrepo.SignalPublisher) SignalServiceOption {
	return func(s *SignalService) {
		s.pub = p
	}
}

// WithLogger sets the service logger.
func WithLogger(l *applogger.Logger) SignalServiceOption {
	return func(s *SignalService) {
		s.l = l
	}
}

// WithDefaultDays sets the history window used when a request omits days.
func WithDefaultDays(days int) SignalServiceOption {
	return func(s *SignalService) {
		if days > 0 {
			s.defaultDays = days
		}
	}
}

// NewSignalService creates the evaluation service.
func NewSignalService(navs domrepo.NavHistory, engine *strategy.Engine, opts ...SignalServiceOption) *SignalService {
	s := &SignalService{
		navs:        navs,
		engine:      engine,
		signalTTL:   15 * time.Minute,
		navTTL:      time.Hour,
		defaultDays: 365,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine exposes the underlying engine for description endpoints.
func (s *SignalService) Engine() *strategy.Engine { return s.engine }

// Apply evaluates one strategy for one fund.
func (s *SignalService) Apply(ctx context.Context, req *models.ApplyStrategyRequest) (*models.SignalResponse, error) {
	start := time.Now()
	days := req.Days
	if days <= 0 {
		days = s.defaultDays
	}

	key := s.signalKey(req.FundCode, req.StrategyID, days, req.Parameters)
	if s.cache != nil {
		var cached models.SignalResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	series, err := s.loadSeries(ctx, req.FundCode, days)
	if err != nil {
		s.recordError(req.StrategyID, err)
		return nil, err
	}

	sig, err := s.engine.Apply(req.StrategyID, req.FundCode, series, req.Parameters)
	if err != nil {
		s.recordError(req.StrategyID, err)
		return nil, err
	}

	s.recordSignal(sig)
	s.publish(ctx, sig)

	resp := models.NewSignalResponse(sig)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.signalTTL); err != nil && s.l != nil {
			s.l.Warn("signal cache set failed", applogger.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.RecordLatency("apply", time.Since(start).Seconds())
	}
	return resp, nil
}

// ApplyAll evaluates every registered strategy with default parameters.
// Per-strategy failures are reported alongside the signals that succeeded.
func (s *SignalService) ApplyAll(ctx context.Context, req *models.ApplyAllRequest) (map[string]*models.SignalResponse, map[string]string, error) {
	start := time.Now()
	days := req.Days
	if days <= 0 {
		days = s.defaultDays
	}

	series, err := s.loadSeries(ctx, req.FundCode, days)
	if err != nil {
		return nil, nil, err
	}

	signals, errs := s.engine.ApplyAll(req.FundCode, series)

	out := make(map[string]*models.SignalResponse, len(signals))
	batch := make([]*models.Signal, 0, len(signals))
	for id, sig := range signals {
		s.recordSignal(sig)
		batch = append(batch, sig)
		out[id] = models.NewSignalResponse(sig)
	}
	s.publishBatch(ctx, batch)

	var failures map[string]string
	if len(errs) > 0 {
		failures = make(map[string]string, len(errs))
		for id, err := range errs {
			s.recordError(id, err)
			failures[id] = err.Error()
		}
	}
	if s.metrics != nil {
		s.metrics.RecordLatency("apply_all", time.Since(start).Seconds())
	}
	return out, failures, nil
}

// NavHistory returns the NAV rows for one fund in wire shape.
func (s *SignalService) NavHistory(ctx context.Context, fundCode string, from, to time.Time) ([]models.NavPointResponse, error) {
	series, err := s.navs.GetSeries(ctx, fundCode, from, to)
	if err != nil {
		return nil, err
	}
	return navRows(series), nil
}

// NavLatest returns the most recent n NAV rows for one fund, oldest
// first, skipping the date arithmetic of a from/to query.
func (s *SignalService) NavLatest(ctx context.Context, fundCode string, n int) ([]models.NavPointResponse, error) {
	series, err := s.navs.GetLatestN(ctx, fundCode, n)
	if err != nil {
		return nil, err
	}
	return navRows(series), nil
}

func navRows(series models.NavSeries) []models.NavPointResponse {
	out := make([]models.NavPointResponse, len(series))
	for i, p := range series {
		out[i] = models.NavPointResponse{
			Date:           util.FormatDate(p.Date),
			UnitNav:        p.UnitNav,
			AccumulatedNav: p.AccumulatedNav,
			DailyReturn:    p.DailyReturn,
		}
	}
	return out
}

// Strategies lists every registered strategy description in stable order.
func (s *SignalService) Strategies() []*models.StrategyDescription {
	reg := s.engine.Registry()
	ids := reg.IDs()
	out := make([]*models.StrategyDescription, 0, len(ids))
	for _, id := range ids {
		if d, err := reg.Describe(id); err == nil {
			out = append(out, d)
		}
	}
	return out
}

// Describe documents one strategy.
func (s *SignalService) Describe(id string) (*models.StrategyDescription, error) {
	return s.engine.Registry().Describe(id)
}

// GetConfig returns the effective default parameters of a strategy.
func (s *SignalService) GetConfig(id string) (map[string]any, error) {
	return s.engine.Registry().Defaults(id)
}

// SetConfig overrides the default parameters of a strategy. Invalid
// overrides are rejected atomically.
func (s *SignalService) SetConfig(id string, params map[string]any) error {
	return s.engine.Registry().SetDefaults(id, params)
}

// Health checks the NAV store.
func (s *SignalService) Health(ctx context.Context) error {
	return s.navs.Health(ctx)
}

// loadSeries fetches the NAV window for one fund, caching it so that
// evaluating several strategies on the same day hits the store once.
func (s *SignalService) loadSeries(ctx context.Context, fundCode string, days int) (models.NavSeries, error) {
	key := s.navKey(fundCode, days)
	if s.cache != nil {
		var cached models.NavSeries
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	to := s.now()
	from := to.AddDate(0, 0, -days)
	series, err := s.navs.GetSeries(ctx, fundCode, from, to)
	if err != nil {
		return nil, fmt.Errorf("load nav series: %w", err)
	}
	// Empty series are not cached; a fund with no rows yet should be
	// retried on the next request rather than pinned for the full TTL.
	if s.cache != nil && len(series) > 0 {
		if err := s.cache.Set(ctx, key, series, s.navTTL); err != nil && s.l != nil {
			s.l.Warn("nav cache set failed", applogger.Error(err))
		}
	}
	return series, nil
}

// navKey scopes a cached series to fund, window and evaluation date, so
// a new NAV publication becomes visible at the day boundary at latest.
func (s *SignalService) navKey(fundCode string, days int) string {
	return fmt.Sprintf("nav:%s:%d:%s", fundCode, days, util.FormatDate(s.now()))
}

func (s *SignalService) recordSignal(sig *models.Signal) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordEvaluation(sig.StrategyID, string(sig.Type))
	s.metrics.RecordConfidence(sig.FundCode, sig.StrategyID, sig.Confidence)
}

func (s *SignalService) recordError(strategyID string, err error) {
	if s.metrics != nil {
		s.metrics.RecordEvaluationError(strategyID, errorKind(err))
	}
	if s.l != nil {
		s.l.Warn("evaluation failed",
			applogger.String("strategy", strategyID),
			applogger.Error(err),
		)
	}
}

func (s *SignalService) publish(ctx context.Context, sig *models.Signal) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, sig); err != nil && s.l != nil {
		s.l.Warn("signal publish failed",
			applogger.String("fund", sig.FundCode),
			applogger.String("strategy", sig.StrategyID),
			applogger.Error(err),
		)
	}
}

func (s *SignalService) publishBatch(ctx context.Context, sigs []*models.Signal) {
	if s.pub == nil || len(sigs) == 0 {
		return
	}
	if err := s.pub.PublishBatch(ctx, sigs); err != nil && s.l != nil {
		s.l.Warn("signal batch publish failed",
			applogger.String("fund", sigs[0].FundCode),
			applogger.Int("signals", len(sigs)),
			applogger.Error(err),
		)
	}
}

// signalKey builds a cache key covering everything the result depends on:
// fund, strategy, window, parameter overrides, and the evaluation date.
func (s *SignalService) signalKey(fundCode, strategyID string, days int, params map[string]any) string {
	return fmt.Sprintf("signal:%s:%s:%d:%s:%s",
		fundCode, strategyID, days, hashParams(params), util.FormatDate(s.now()))
}

func hashParams(params map[string]any) string {
	if len(params) == 0 {
		return "default"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		b, _ := json.Marshal(params[k])
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write(b)
		h.Write([]byte{';'})
	}
	return fmt.Sprintf("%x", h.Sum64())
}

func errorKind(err error) string {
	var unknown *strategy.UnknownStrategyError
	var invalid *strategy.InvalidParameterError
	var malformed *strategy.MalformedSeriesError
	var insufficient *indicator.InsufficientDataError
	switch {
	case errors.As(err, &unknown):
		return "unknown_strategy"
	case errors.As(err, &invalid):
		return "invalid_parameter"
	case errors.As(err, &malformed):
		return "malformed_series"
	case errors.As(err, &insufficient):
		return "insufficient_data"
	default:
		return "internal"
	}
}
