package di

import (
	"context"
	"fmt"
	"time"

	"FundPulse/internal/domain/repository"
	"FundPulse/internal/handler/api"
	internalrepo "FundPulse/internal/repository"
	"FundPulse/internal/strategy"
	"FundPulse/internal/usecase"
	"FundPulse/pkg/cache"
	pkgch "FundPulse/pkg/clickhouse"
	"FundPulse/pkg/config"
	pkgkafka "FundPulse/pkg/kafka"
	applogger "FundPulse/pkg/logger"
	"FundPulse/pkg/metrics"
	"FundPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// NAV history schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.NavTable)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideNavHistory creates the ClickHouse NAV store.
func ProvideNavHistory(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.NavHistory {
	store := internalrepo.NewCHNavStore(chClient, cfg.ClickHouse.NavTable)
	store.SetLogger(l)
	return store
}

// ProvideCache creates the configured cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		return cache.NewRedisCache(
			cache.WithAddress(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			cache.WithPassword(cfg.Cache.Redis.Password),
			cache.WithDB(cfg.Cache.Redis.DB),
			cache.WithPrefix(cfg.Cache.Redis.Prefix),
		)
	}
	return cache.NewMemoryCache(cache.WithDefaultTTL(cfg.Cache.SignalTTL)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSignalPublisher creates the Kafka publisher, or nil when Kafka
// is disabled.
func ProvideSignalPublisher(cfg *config.Config) (repository.SignalPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideEngine creates the strategy engine with all built-in strategies.
func ProvideEngine() *strategy.Engine {
	return strategy.NewEngine(strategy.NewRegistry())
}

// ProvideSignalService creates the evaluation use case.
func ProvideSignalService(
	navs repository.NavHistory,
	engine *strategy.Engine,
	cacheSvc cache.Service,
	m repository.Metrics,
	pub repository.SignalPublisher,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.SignalService {
	opts := []usecase.SignalServiceOption{
		usecase.WithCache(cacheSvc, cfg.Cache.SignalTTL),
		usecase.WithNavTTL(cfg.Cache.NavTTL),
		usecase.WithMetrics(m),
		usecase.WithLogger(l),
		usecase.WithDefaultDays(cfg.Engine.DefaultDays),
	}
	if pub != nil {
		opts = append(opts, usecase.WithPublisher(pub))
	}
	return usecase.NewSignalService(navs, engine, opts...)
}

// ProvideStreamHandler creates the WebSocket fan-out hub.
func ProvideStreamHandler(l *applogger.Logger) *api.StreamHandler {
	return api.NewStreamHandler(l)
}

// ProvideStrategiesHandler creates the HTTP handler.
func ProvideStrategiesHandler(l *applogger.Logger, svc *usecase.SignalService, stream *api.StreamHandler) *api.StrategiesHandler {
	return api.NewStrategiesHandler(l, svc, stream)
}

// ProvideSweeper creates the watchlist sweeper, or nil when disabled.
func ProvideSweeper(svc *usecase.SignalService, stream *api.StreamHandler, l *applogger.Logger, cfg *config.Config) *usecase.Sweeper {
	if !cfg.Sweep.Enabled {
		return nil
	}
	return usecase.NewSweeper(svc, cfg.Sweep.Schedule, cfg.Sweep.Watchlist,
		usecase.WithBroadcaster(stream),
		usecase.WithSweepLogger(l),
		usecase.WithSweepTimeout(cfg.Engine.Timeout*time.Duration(len(cfg.Sweep.Watchlist)+1)),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	svc *usecase.SignalService,
	handler *api.StrategiesHandler,
	stream *api.StreamHandler,
	sweeper *usecase.Sweeper,
	chClient *pkgch.Client,
	cacheSvc cache.Service,
	pub repository.SignalPublisher,
) *server.App {
	return server.New(cfg, l, svc, handler, stream, sweeper, chClient, cacheSvc, pub)
}
