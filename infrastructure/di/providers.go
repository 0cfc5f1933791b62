package di

import (
	"context"
	"fmt"
	"time"

	"kindra/application/commands"
	"kindra/application/commands/bus"
	commands_handlers "kindra/application/commands/handlers"
	"kindra/application/ports"
	"kindra/application/queries"
	querybus "kindra/application/queries/bus"
	queries_handlers "kindra/application/queries/handlers"
	"kindra/application/services"
	"kindra/domain/advice"
	domainconfig "kindra/domain/config"
	"kindra/domain/insights"
	"kindra/infrastructure/config"
	"kindra/infrastructure/messaging/eventbridge"
	"kindra/infrastructure/messaging/local"
	"kindra/infrastructure/messaging/websocket"
	"kindra/infrastructure/persistence/dynamodb"
	"kindra/infrastructure/persistence/memory"
	"kindra/infrastructure/persistence/sqlite"
	"kindra/pkg/auth"
	"kindra/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("env", cfg.Environment)), nil
}

// ProvideDomainConfig picks the environment's domain rules and layers the
// optional analytics YAML on top
func ProvideDomainConfig(cfg *config.Config) (*domainconfig.DomainConfig, error) {
	domainCfg := domainconfig.LoadDomainConfig(cfg.Environment)
	if cfg.AnalyticsConfigPath != "" {
		analytics, err := domainconfig.LoadAnalyticsConfig(cfg.AnalyticsConfigPath)
		if err != nil {
			return nil, err
		}
		domainCfg.Analytics = analytics
	}
	if err := domainCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid domain configuration: %w", err)
	}
	return domainCfg, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// Repositories groups the storage ports of the selected driver
type Repositories struct {
	Moments     ports.MomentRepository
	Connections ports.ConnectionRepository
	Profiles    ports.ProfileRepository
	Sockets     ports.SocketStore

	ping func(ctx context.Context) error
}

// Ping checks the backing store. Drivers without a cheap probe always succeed.
func (r *Repositories) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

// ProvideRepositories builds the repositories for cfg.StorageDriver. The
// cleanup closes the SQLite handle when one was opened.
func ProvideRepositories(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) (*Repositories, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDynamoDB:
		return &Repositories{
			Moments:     dynamodb.NewMomentRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger),
			Connections: dynamodb.NewConnectionRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger),
			Profiles:    dynamodb.NewProfileRepository(client, cfg.DynamoDBTable, logger),
			Sockets:     dynamodb.NewSocketStore(client, cfg.ConnectionsTable, cfg.IndexName, logger),
		}, func() {}, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using SQLite storage", zap.String("path", cfg.SQLitePath))
		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close SQLite database", zap.Error(err))
			}
		}
		return &Repositories{
			Moments:     sqlite.NewMomentRepository(db),
			Connections: sqlite.NewConnectionRepository(db),
			Profiles:    sqlite.NewProfileRepository(db),
			Sockets:     memory.NewSocketStore(),
			ping:        db.Ping,
		}, cleanup, nil

	default:
		logger.Warn("Using in-memory storage, data is lost on restart")
		return &Repositories{
			Moments:     memory.NewMomentRepository(),
			Connections: memory.NewConnectionRepository(),
			Profiles:    memory.NewProfileRepository(),
			Sockets:     memory.NewSocketStore(),
		}, func() {}, nil
	}
}

// ProvideEventPublisher sends events to EventBridge when running against
// AWS storage and logs them otherwise
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if cfg.StorageDriver == config.StorageDynamoDB && cfg.EventBusName != "" {
		return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
	}
	return local.NewPublisher(logger)
}

// ProvideInsightNotifier pushes refreshed insights over the websocket API
// when an endpoint is configured
func ProvideInsightNotifier(cfg *config.Config, awsCfg aws.Config, repos *Repositories, logger *zap.Logger) ports.InsightNotifier {
	if cfg.WebSocketEndpoint == "" {
		return local.NewNotifier(logger)
	}
	client := websocket.NewManagementClient(awsCfg, cfg.WebSocketEndpoint)
	return websocket.NewNotifier(client, repos.Sockets, logger)
}

// ProvideCollector creates the Prometheus collector served at /metrics
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("kindra")
}

// ProvideMetrics creates the CloudWatch metrics sink. With metrics disabled
// every recording is a no-op.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("Kindra/%s", cfg.Environment)
	if !cfg.EnableMetrics {
		return observability.NewMetrics(namespace, nil, logger)
	}
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("kindra", cfg.EnableTracing)
}

// ProvideInMemoryCache creates the query cache. Hits and misses are
// reported to the Prometheus collector.
func ProvideInMemoryCache(collector *observability.Collector) (*InMemoryCache, func()) {
	cache := NewInMemoryCache(time.Minute, collector)
	return cache, cache.Close
}

// ProvideInsightEngine creates the rule engine with the configured tuning
func ProvideInsightEngine(domainCfg *domainconfig.DomainConfig) *insights.Engine {
	return insights.NewEngine(domainCfg.Analytics)
}

// ProvideAdviceResponder creates the keyword advice responder
func ProvideAdviceResponder() *advice.Responder {
	return advice.NewResponder()
}

// ProvideInsightService wires the read side shared by queries and the refresh job
func ProvideInsightService(
	repos *Repositories,
	publisher ports.EventPublisher,
	notifier ports.InsightNotifier,
	engine *insights.Engine,
	responder *advice.Responder,
	domainCfg *domainconfig.DomainConfig,
	tracer *observability.Tracer,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.InsightService {
	return services.NewInsightService(
		repos.Moments,
		repos.Connections,
		repos.Profiles,
		publisher,
		notifier,
		engine,
		responder,
		domainCfg,
		tracer,
		metrics,
		logger,
	)
}

// ProvideAdviceRateLimiter limits advice questions per user per minute.
// Lambda instances share counters through DynamoDB.
func ProvideAdviceRateLimiter(cfg *config.Config, client *awsdynamodb.Client) auth.RateLimiter {
	if cfg.StorageDriver == config.StorageDynamoDB && cfg.IsLambda {
		return auth.NewDistributedRateLimiter(
			client,
			cfg.DynamoDBTable,
			cfg.AdviceRateLimit,
			time.Minute,
			"ADVICE",
		)
	}
	return auth.NewSlidingWindowLimiter(cfg.AdviceRateLimit, time.Minute)
}

// ProvideDistributedLock creates the lock that serializes insight refreshes
func ProvideDistributedLock(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.DistributedLock {
	return dynamodb.NewDistributedLock(client, cfg.DynamoDBTable, logger)
}

// ProvideJWTValidator creates the bearer token validator. Without a secret
// outside production the API runs unauthenticated and this returns nil.
func ProvideJWTValidator(cfg *config.Config, logger *zap.Logger) (*auth.JWTValidator, error) {
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, falling back to the X-User-ID header")
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  []string{auth.DefaultAudience},
	})
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

func adaptCommand[C bus.Command](handle func(context.Context, C) error) *CommandHandlerAdapter {
	return &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			typed, ok := cmd.(C)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			return handle(ctx, typed)
		},
	}
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	repos *Repositories,
	publisher ports.EventPublisher,
	cache ports.Cache,
	domainCfg *domainconfig.DomainConfig,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(&zapLoggerAdapter{logger}),
		bus.MetricsMiddleware(metrics),
	)

	logMoment := commands_handlers.NewLogMomentHandler(repos.Moments, repos.Connections, publisher, cache, domainCfg, logger)
	resolveMoment := commands_handlers.NewResolveMomentHandler(repos.Moments, publisher, cache, domainCfg, logger)
	deleteMoment := commands_handlers.NewDeleteMomentHandler(repos.Moments, publisher, cache, logger)
	addConnection := commands_handlers.NewAddConnectionHandler(repos.Connections, publisher, cache, domainCfg, logger)
	updateProfile := commands_handlers.NewUpdateProfileHandler(repos.Profiles, cache, logger)

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.LogMomentCommand{}, adaptCommand(logMoment.Handle)},
		{commands.ResolveMomentCommand{}, adaptCommand(resolveMoment.Handle)},
		{commands.DeleteMomentCommand{}, adaptCommand(deleteMoment.Handle)},
		{commands.AddConnectionCommand{}, adaptCommand(addConnection.Handle)},
		{commands.UpdateProfileCommand{}, adaptCommand(updateProfile.Handle)},
	}
	for _, r := range registrations {
		if err := commandBus.Register(r.cmd, r.handler); err != nil {
			return nil, err
		}
	}

	return commandBus, nil
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

func adaptQuery[Q querybus.Query, R any](handle func(context.Context, Q) (R, error)) *QueryHandlerAdapter {
	return &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(Q)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return handle(ctx, typed)
		},
	}
}

// ProvideQueryBus creates a query bus with registered handlers. Every
// handler is timed, and cacheable queries are served from cache.
func ProvideQueryBus(
	repos *Repositories,
	insightService *services.InsightService,
	cache ports.Cache,
	collector *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	queryBus.Use(querybus.NewMetricsMiddleware(&collectorMetrics{collector}).Wrap)
	queryBus.Use(querybus.NewCachingMiddleware(cache, cfg.InsightCacheDuration()).Wrap)

	getInsights := queries_handlers.NewGetInsightsHandler(insightService)
	askAdvice := queries_handlers.NewAskAdviceHandler(insightService)
	connectionStats := queries_handlers.NewGetConnectionStatsHandler(insightService)
	listMoments := queries_handlers.NewListMomentsHandler(repos.Moments, logger)
	listConnections := queries_handlers.NewListConnectionsHandler(repos.Connections)
	getProfile := queries_handlers.NewGetProfileHandler(repos.Profiles)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetInsightsQuery{}, adaptQuery(getInsights.Handle)},
		{queries.AskAdviceQuery{}, adaptQuery(askAdvice.Handle)},
		{queries.GetConnectionStatsQuery{}, adaptQuery(connectionStats.Handle)},
		{queries.ListMomentsQuery{}, adaptQuery(listMoments.Handle)},
		{queries.ListConnectionsQuery{}, adaptQuery(listConnections.Handle)},
		{queries.GetProfileQuery{}, adaptQuery(getProfile.Handle)},
	}
	for _, r := range registrations {
		if err := queryBus.Register(r.query, r.handler); err != nil {
			return nil, err
		}
	}

	return queryBus, nil
}

// collectorMetrics adapts the Prometheus collector to the query bus metrics interface
type collectorMetrics struct {
	collector *observability.Collector
}

func (m *collectorMetrics) StartTimer(metric, label string) querybus.Timer {
	return m.collector.StartTimer(metric, label)
}

func (m *collectorMetrics) Increment(metric, label string) {
	m.collector.Increment(metric, label)
}

// zapLoggerAdapter adapts zap.Logger to the bus.Logger interface
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, fields ...interface{}) {
	a.logger.Info(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) Error(msg string, fields ...interface{}) {
	a.logger.Error(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) fieldsToZap(fields ...interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			key, _ := fields[i].(string)
			zapFields = append(zapFields, zap.Any(key, fields[i+1]))
		}
	}
	return zapFields
}
