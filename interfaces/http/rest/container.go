package rest

import (
	"time"

	"kindra/infrastructure/di"
	"kindra/interfaces/http/rest/middleware"
	"kindra/pkg/auth"
)

// In-process request budgets applied before and after authentication
const (
	ipRequestsPerMinute   = 100
	userRequestsPerMinute = 200
)

// NewRouterFromContainer builds the router from a wired container.
// trustGateway is set by the Lambda entry point, where API Gateway has
// already checked the token.
func NewRouterFromContainer(c *di.Container, trustGateway bool) *Router {
	return NewRouter(RouterConfig{
		CommandBus: c.CommandBus,
		QueryBus:   c.QueryBus,
		Logger:     c.Logger,
		Collector:  c.Collector,
		Auth: middleware.AuthConfig{
			Validator:    c.JWTValidator,
			TrustGateway: trustGateway,
			IPLimiter:    auth.NewSlidingWindowLimiter(ipRequestsPerMinute, time.Minute),
			UserLimiter:  auth.NewSlidingWindowLimiter(userRequestsPerMinute, time.Minute),
		},
		AdviceLimiter:   c.AdviceLimiter,
		AdviceRateLimit: c.Config.AdviceRateLimit,
		EnableCORS:      c.Config.EnableCORS,
		Ready:           c.Repositories.Ping,
		Debug:           c.Config.IsDevelopment(),
	})
}
