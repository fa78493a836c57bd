package usecase

import (
	"context"
	"sync"
	"time"

	"FundPulse/internal/domain/models"
	applogger "FundPulse/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Broadcaster pushes fresh signals to streaming subscribers.
type Broadcaster interface {
	Broadcast(v interface{})
}

// Sweeper re-evaluates the watchlist on a cron schedule so cached
// signals and downstream consumers stay current after each NAV update.
type Sweeper struct {
	svc       *SignalService
	cron      *cron.Cron
	schedule  string
	watchlist []string
	timeout   time.Duration
	bc        Broadcaster
	l         *applogger.Logger
}

// SweeperOption configures Sweeper.
type SweeperOption func(*Sweeper)

// WithBroadcaster forwards sweep results to a streaming hub.
func WithBroadcaster(bc Broadcaster) SweeperOption {
	return func(s *Sweeper) {
		s.bc = bc
	}
}

// WithSweepLogger sets the sweeper logger.
func WithSweepLogger(l *applogger.Logger) SweeperOption {
	return func(s *Sweeper) {
		s.l = l
	}
}

// WithSweepTimeout bounds one full watchlist sweep.
func WithSweepTimeout(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSweeper creates a watchlist sweeper. The schedule uses six-field
// cron syntax with seconds, e.g. "0 30 19 * * MON-FRI".
func NewSweeper(svc *SignalService, schedule string, watchlist []string, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		svc:       svc,
		cron:      cron.New(cron.WithSeconds()),
		schedule:  schedule,
		watchlist: watchlist,
		timeout:   time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the cron entry and starts the scheduler.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	if s.l != nil {
		s.l.Info("sweep scheduled",
			applogger.String("schedule", s.schedule),
			applogger.Int("funds", len(s.watchlist)),
		)
	}
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunNow triggers a sweep outside the schedule, e.g. at startup.
func (s *Sweeper) RunNow() {
	s.runOnce()
}

func (s *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	for _, fund := range s.watchlist {
		wg.Add(1)
		go func(fund string) {
			defer wg.Done()
			s.sweepFund(ctx, fund)
		}(fund)
	}
	wg.Wait()

	if s.l != nil {
		s.l.Info("sweep complete",
			applogger.Int("funds", len(s.watchlist)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
}

func (s *Sweeper) sweepFund(ctx context.Context, fund string) {
	signals, failures, err := s.svc.ApplyAll(ctx, &models.ApplyAllRequest{FundCode: fund})
	if err != nil {
		if s.l != nil {
			s.l.Warn("sweep fund failed", applogger.String("fund", fund), applogger.Error(err))
		}
		return
	}
	for id, reason := range failures {
		if s.l != nil {
			s.l.Warn("sweep strategy failed",
				applogger.String("fund", fund),
				applogger.String("strategy", id),
				applogger.String("reason", reason),
			)
		}
	}
	if s.bc != nil {
		for _, sig := range signals {
			s.bc.Broadcast(sig)
		}
	}
}
