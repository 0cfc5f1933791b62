//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"kindra/application/ports"
	"kindra/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideRepositories,
	ProvideEventPublisher,
	ProvideInsightNotifier,
	ProvideCollector,
	ProvideMetrics,
	ProvideTracer,
	ProvideInMemoryCache,
	wire.Bind(new(ports.Cache), new(*InMemoryCache)),
	ProvideInsightEngine,
	ProvideAdviceResponder,
	ProvideInsightService,
	ProvideAdviceRateLimiter,
	ProvideDistributedLock,
	ProvideJWTValidator,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The cleanup releases
// the cache sweeper and any open database.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
