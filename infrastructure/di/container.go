package di

import (
	"kindra/application/commands/bus"
	"kindra/application/ports"
	querybus "kindra/application/queries/bus"
	"kindra/application/services"
	domainconfig "kindra/domain/config"
	"kindra/infrastructure/config"
	"kindra/infrastructure/persistence/dynamodb"
	"kindra/pkg/auth"
	"kindra/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	DomainConfig   *domainconfig.DomainConfig
	Logger         *zap.Logger
	Repositories   *Repositories
	Publisher      ports.EventPublisher
	Notifier       ports.InsightNotifier
	Cache          ports.Cache
	Collector      *observability.Collector
	Metrics        *observability.Metrics
	Tracer         *observability.Tracer
	InsightService *services.InsightService
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	AdviceLimiter  auth.RateLimiter
	RefreshLock    *dynamodb.DistributedLock
	JWTValidator   *auth.JWTValidator
}
