//go:build wireinject
// +build wireinject

package di

import (
	"Sentinel/pkg/config"
	"Sentinel/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedisCache,
		ProvideCacheService,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideStorage,
		ProvidePublisher,
		ProvideDeduper,
		ProvideDeliveryGuard,
		ProvideLaunchStream,

		// Domain services
		ProvideScorer,
		ProvideNotifiers,
		ProvideMetadataEnricher,
		ProvideSocialScorer,

		// Use cases
		ProvideAlertRouter,
		ProvideScoreAndRouteJob,
		ProvideQueue,
		ProvideEventValidator,
		ProvideIngestPipeline,
		ProvideEventCollector,
		ProvideReplayHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
