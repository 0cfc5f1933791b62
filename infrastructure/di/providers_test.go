package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kindra/application/commands"
	"kindra/application/queries"
	"kindra/application/services"
	domainconfig "kindra/domain/config"
	"kindra/infrastructure/config"
	"kindra/pkg/auth"
	"kindra/pkg/observability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testStack struct {
	container *Container
	close     func()
}

func newTestStack(t *testing.T, cfg *config.Config) *testStack {
	t.Helper()
	logger := zap.NewNop()
	domainCfg := domainconfig.DevelopmentDomainConfig()

	repos, cleanupRepos, err := ProvideRepositories(cfg, nil, logger)
	require.NoError(t, err)

	collector := ProvideCollector()
	cache, cleanupCache := ProvideInMemoryCache(collector)
	publisher := ProvideEventPublisher(cfg, nil, logger)
	metrics := observability.NewMetrics("test", nil, logger)
	service := ProvideInsightService(repos, publisher, nil, ProvideInsightEngine(domainCfg), ProvideAdviceResponder(), domainCfg, ProvideTracer(cfg), metrics, logger)

	commandBus, err := ProvideCommandBus(repos, publisher, cache, domainCfg, metrics, logger)
	require.NoError(t, err)
	queryBus, err := ProvideQueryBus(repos, service, cache, collector, cfg, logger)
	require.NoError(t, err)

	return &testStack{
		container: &Container{
			Config:         cfg,
			DomainConfig:   domainCfg,
			Logger:         logger,
			Repositories:   repos,
			Cache:          cache,
			Collector:      collector,
			InsightService: service,
			CommandBus:     commandBus,
			QueryBus:       queryBus,
		},
		close: func() {
			cleanupCache()
			cleanupRepos()
		},
	}
}

func TestBuses_EndToEnd(t *testing.T) {
	for _, driver := range []string{config.StorageMemory, config.StorageSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := &config.Config{
				Environment:     "development",
				StorageDriver:   driver,
				SQLitePath:      filepath.Join(t.TempDir(), "kindra.db"),
				InsightCacheTTL: 300,
			}
			stack := newTestStack(t, cfg)
			defer stack.close()
			c := stack.container
			ctx := context.Background()

			connectionID := uuid.NewString()
			require.NoError(t, c.CommandBus.Send(ctx, commands.AddConnectionCommand{
				ConnectionID:      connectionID,
				UserID:            "user-1",
				Name:              "Sam",
				RelationshipStage: "dating",
			}))

			result, err := c.QueryBus.Ask(ctx, queries.ListConnectionsQuery{UserID: "user-1"})
			require.NoError(t, err)
			assert.Equal(t, 1, result.(*queries.ListConnectionsResult).Total)

			for i := 0; i < 3; i++ {
				require.NoError(t, c.CommandBus.Send(ctx, commands.LogMomentCommand{
					MomentID:     uuid.NewString(),
					UserID:       "user-1",
					ConnectionID: connectionID,
					Emoji:        "😊",
					Tags:         []string{"date night"},
					CreatedAt:    time.Now().Add(-time.Duration(i) * time.Hour),
				}))
			}

			// a second connection must invalidate the cached listing
			require.NoError(t, c.CommandBus.Send(ctx, commands.AddConnectionCommand{
				ConnectionID:      uuid.NewString(),
				UserID:            "user-1",
				Name:              "Alex",
				RelationshipStage: "friendship",
			}))
			result, err = c.QueryBus.Ask(ctx, queries.ListConnectionsQuery{UserID: "user-1"})
			require.NoError(t, err)
			assert.Equal(t, 2, result.(*queries.ListConnectionsResult).Total)

			result, err = c.QueryBus.Ask(ctx, queries.GetInsightsQuery{UserID: "user-1"})
			require.NoError(t, err)
			report := result.(*services.InsightReport)
			assert.Equal(t, 3, report.MomentCount)
			assert.Equal(t, 2, report.ConnectionCount)

			result, err = c.QueryBus.Ask(ctx, queries.ListMomentsQuery{UserID: "user-1", Page: 1, PageSize: 2})
			require.NoError(t, err)
			page := result.(*queries.ListMomentsResult)
			assert.Len(t, page.Moments, 2)
			assert.Equal(t, 3, page.Total)

			assert.NoError(t, c.Repositories.Ping(ctx))
		})
	}
}

func TestQueryBus_RejectsInvalidQuery(t *testing.T) {
	stack := newTestStack(t, &config.Config{Environment: "development", StorageDriver: config.StorageMemory})
	defer stack.close()

	_, err := stack.container.QueryBus.Ask(context.Background(), queries.AskAdviceQuery{UserID: "user-1", Question: "   "})
	assert.Error(t, err)
}

func TestProvideDomainConfig_AnalyticsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_n: 3\nmin_conflicts: 5\n"), 0o600))

	domainCfg, err := ProvideDomainConfig(&config.Config{Environment: "development", AnalyticsConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, 3, domainCfg.Analytics.TopN)
	assert.Equal(t, 5, domainCfg.Analytics.MinConflicts)
	assert.Equal(t, domainconfig.DefaultAnalyticsConfig().MinWeeklyRhythmMoments, domainCfg.Analytics.MinWeeklyRhythmMoments)

	domainCfg, err = ProvideDomainConfig(&config.Config{Environment: "production"})
	require.NoError(t, err)
	assert.Equal(t, domainconfig.DefaultAnalyticsConfig(), domainCfg.Analytics)
}

func TestProvideDomainConfig_RejectsBadAnalytics(t *testing.T) {
	_, err := ProvideDomainConfig(&config.Config{
		Environment:         "development",
		AnalyticsConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
	})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "analytics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_weekly_rhythm_moments: 0\n"), 0o600))
	_, err = ProvideDomainConfig(&config.Config{Environment: "development", AnalyticsConfigPath: path})
	assert.Error(t, err)
}

func TestProvideAdviceRateLimiter_LocalIsInProcess(t *testing.T) {
	limiter := ProvideAdviceRateLimiter(&config.Config{StorageDriver: config.StorageMemory, AdviceRateLimit: 1}, nil)
	_, ok := limiter.(*auth.SlidingWindowLimiter)
	require.True(t, ok)

	allowed, err := limiter.Allow(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(context.Background(), "user-1")
	assert.False(t, allowed)
}

func TestProvideLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := ProvideLogger(&config.Config{Environment: "development", LogLevel: "loud"})
	assert.Error(t, err)

	logger, err := ProvideLogger(&config.Config{Environment: "development", LogLevel: "warn"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
