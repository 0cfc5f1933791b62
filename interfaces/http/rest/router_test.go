package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kindra/infrastructure/config"
	"kindra/infrastructure/di"
	"kindra/interfaces/http/rest/middleware"
	"kindra/pkg/auth"
	"kindra/pkg/observability"

	domainconfig "kindra/domain/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T, mutate func(*RouterConfig)) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	cfg := &config.Config{Environment: "development", StorageDriver: config.StorageMemory, InsightCacheTTL: 60}
	domainCfg := domainconfig.DevelopmentDomainConfig()

	repos, cleanupRepos, err := di.ProvideRepositories(cfg, nil, logger)
	require.NoError(t, err)
	collector := di.ProvideCollector()
	cache, cleanupCache := di.ProvideInMemoryCache(collector)
	t.Cleanup(func() {
		cleanupCache()
		cleanupRepos()
	})

	publisher := di.ProvideEventPublisher(cfg, nil, logger)
	metrics := observability.NewMetrics("test", nil, logger)
	service := di.ProvideInsightService(repos, publisher, nil, di.ProvideInsightEngine(domainCfg), di.ProvideAdviceResponder(), domainCfg, di.ProvideTracer(cfg), metrics, logger)
	commandBus, err := di.ProvideCommandBus(repos, publisher, cache, domainCfg, metrics, logger)
	require.NoError(t, err)
	queryBus, err := di.ProvideQueryBus(repos, service, cache, collector, cfg, logger)
	require.NoError(t, err)

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: testSecret,
		Issuer:    "kindra-test",
		Audience:  []string{auth.DefaultAudience},
	})
	require.NoError(t, err)

	rc := RouterConfig{
		CommandBus:      commandBus,
		QueryBus:        queryBus,
		Logger:          logger,
		Collector:       collector,
		Auth:            middleware.AuthConfig{Validator: validator},
		AdviceLimiter:   auth.NewSlidingWindowLimiter(10, time.Minute),
		AdviceRateLimit: 10,
		Ready:           repos.Ping,
	}
	if mutate != nil {
		mutate(&rc)
	}
	return NewRouter(rc).Setup()
}

func token(t *testing.T, userID string) string {
	t.Helper()
	gen, err := auth.NewJWTGenerator(testSecret, "kindra-test", []string{auth.DefaultAudience}, time.Hour)
	require.NoError(t, err)
	tok, err := gen.GenerateToken(userID, userID+"@example.com", []string{"authenticated"})
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, h http.Handler, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, userID))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v2", rec.Header().Get("X-API-Version"))

	rec = do(t, h, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ReadyReportsStorageFailure(t *testing.T) {
	h := newTestRouter(t, func(rc *RouterConfig) {
		rc.Ready = func(context.Context) error { return errors.New("down") }
	})

	rec := do(t, h, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/api/v2/insights", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/insights", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ConnectionsAndMoments(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v2/connections", `{"name":"Sam","relationship_stage":"dating"}`, "user-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	var createdBody struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(created.Data, &createdBody))
	require.NotEmpty(t, createdBody.ID)

	rec = do(t, h, http.MethodPost, "/api/v2/moments", `{"connection_id":"`+createdBody.ID+`","emoji":"😊","tags":["dinner"]}`, "user-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v2/moments?page=1&page_size=10", "", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pagination"`)

	rec = do(t, h, http.MethodGet, "/api/v2/connections", "", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(listed.Data, &list))
	assert.Equal(t, 1, list.Total)

	// another user cannot see the connection
	rec = do(t, h, http.MethodGet, "/api/v2/connections", "", "user-2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.NoError(t, json.Unmarshal(listed.Data, &list))
	assert.Equal(t, 0, list.Total)

	rec = do(t, h, http.MethodGet, "/api/v2/insights", "", "user-1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RejectsInvalidBodies(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v2/advice", `{"question":"   "}`, "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v2/connections", `{"name":"Sam","relationship_stage":"dating","extra":1}`, "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v2/moments?since=yesterday", "", "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_AdviceRateLimit(t *testing.T) {
	h := newTestRouter(t, func(rc *RouterConfig) {
		rc.AdviceLimiter = auth.NewSlidingWindowLimiter(1, time.Minute)
		rc.AdviceRateLimit = 1
	})

	rec := do(t, h, http.MethodPost, "/api/v2/advice", `{"question":"how do we talk more?"}`, "user-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v2/advice", `{"question":"how do we talk more?"}`, "user-1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// the limit is per user
	rec = do(t, h, http.MethodPost, "/api/v2/advice", `{"question":"how do we talk more?"}`, "user-2")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LegacyV1ReadOnly(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/insights", "", "user-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-API-Deprecated"))

	rec = do(t, h, http.MethodPost, "/api/v1/advice", `{"question":"are we compatible?"}`, "user-1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/insights", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_DevelopmentHeaderAuth(t *testing.T) {
	h := newTestRouter(t, func(rc *RouterConfig) {
		rc.Auth = middleware.AuthConfig{}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v2/connections", nil)
	req.Header.Set("X-User-ID", "dev-user")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestRouter(t, nil)
	do(t, h, http.MethodGet, "/health", "", "")

	rec := do(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kindra_http_requests_total")
}
