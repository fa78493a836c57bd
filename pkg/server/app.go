package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"FundPulse/internal/domain/repository"
	"FundPulse/internal/handler/api"
	"FundPulse/internal/usecase"
	"FundPulse/pkg/cache"
	pkgch "FundPulse/pkg/clickhouse"
	"FundPulse/pkg/config"
	xhttp "FundPulse/pkg/http"
	applogger "FundPulse/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server, the watchlist
// sweeper, and the infrastructure clients that need graceful teardown.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	svc      *usecase.SignalService
	handler  *api.StrategiesHandler
	stream   *api.StreamHandler
	sweeper  *usecase.Sweeper
	chClient *pkgch.Client
	cacheSvc cache.Service
	pub      repository.SignalPublisher

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	svc *usecase.SignalService,
	handler *api.StrategiesHandler,
	stream *api.StreamHandler,
	sweeper *usecase.Sweeper,
	chClient *pkgch.Client,
	cacheSvc cache.Service,
	pub repository.SignalPublisher,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		svc:      svc,
		handler:  handler,
		stream:   stream,
		sweeper:  sweeper,
		chClient: chClient,
		cacheSvc: cacheSvc,
		pub:      pub,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(a.log),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	if a.sweeper != nil {
		if err := a.sweeper.Start(); err != nil {
			a.log.Error("sweep start error", applogger.Error(err))
			return err
		}
	}

	a.log.Info("fundpulse started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.sweeper != nil {
		a.sweeper.Stop()
	}

	if a.stream != nil {
		a.stream.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
