//go:build wireinject
// +build wireinject

package di

import (
	"FundPulse/pkg/config"
	"FundPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,
		ProvideSignalPublisher,

		// Repositories
		ProvideNavHistory,

		// Engine and use cases
		ProvideEngine,
		ProvideSignalService,
		ProvideSweeper,

		// HTTP surface
		ProvideStreamHandler,
		ProvideStrategiesHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
