package rest

import (
	"context"
	"net/http"
	"strings"

	"kindra/application/commands/bus"
	querybus "kindra/application/queries/bus"
	"kindra/interfaces/http/rest/handlers"
	"kindra/interfaces/http/rest/middleware"
	v1 "kindra/interfaces/http/rest/v1"
	"kindra/pkg/auth"
	pkgerrors "kindra/pkg/errors"
	"kindra/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig carries everything the HTTP surface depends on
type RouterConfig struct {
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Logger     *zap.Logger

	// Collector serves /metrics and records request metrics. Optional.
	Collector *observability.Collector

	Auth middleware.AuthConfig

	AdviceLimiter   auth.RateLimiter
	AdviceRateLimit int

	EnableCORS     bool
	AllowedOrigins []string

	// Ready reports whether backing stores are reachable. Optional.
	Ready func(ctx context.Context) error

	// Debug includes internal error messages in responses
	Debug bool
}

// Router creates and configures the HTTP router
type Router struct {
	cfg    RouterConfig
	errors *pkgerrors.ErrorHandler
}

// NewRouter creates a new router instance
func NewRouter(cfg RouterConfig) *Router {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000", "https://*.kindra.app"}
	}
	errs := pkgerrors.NewErrorHandler(cfg.Logger, cfg.Debug)
	cfg.Auth.Errors = errs
	if cfg.Auth.Logger == nil {
		cfg.Auth.Logger = cfg.Logger
	}
	return &Router{cfg: cfg, errors: errs}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Logger(rt.cfg.Logger, rt.recorder()))
	router.Use(versionMiddleware)

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusNotFound, "Route not found")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.cfg.Collector != nil {
		router.Handle("/metrics", rt.cfg.Collector.Handler())
	}

	authenticate := middleware.Authenticate(rt.cfg.Auth)
	adviceLimit := middleware.RateLimitUser(rt.cfg.AdviceLimiter, rt.cfg.AdviceRateLimit, "1m", rt.errors, rt.cfg.Logger)

	momentHandler := handlers.NewMomentHandler(rt.cfg.CommandBus, rt.cfg.QueryBus, rt.errors, rt.cfg.Logger)
	connectionHandler := handlers.NewConnectionHandler(rt.cfg.CommandBus, rt.cfg.QueryBus, rt.errors, rt.cfg.Logger)
	insightHandler := handlers.NewInsightHandler(rt.cfg.QueryBus, rt.errors, rt.cfg.Logger)

	// API v1 routes (legacy, read-only insights and advice)
	router.Mount("/api/v1", v1.NewRouter(insightHandler, authenticate, adviceLimit))

	// API v2 routes (current)
	router.Route("/api/v2", func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/moments", func(r chi.Router) {
			r.Post("/", momentHandler.LogMoment)
			r.Get("/", momentHandler.ListMoments)
			r.Delete("/{momentID}", momentHandler.DeleteMoment)
			r.Post("/{momentID}/resolve", momentHandler.ResolveMoment)
		})

		r.Route("/connections", func(r chi.Router) {
			r.Post("/", connectionHandler.AddConnection)
			r.Get("/", connectionHandler.ListConnections)
			r.Get("/{connectionID}/stats", connectionHandler.GetConnectionStats)
		})

		r.Get("/profile", connectionHandler.GetProfile)
		r.Put("/profile", connectionHandler.UpdateProfile)

		r.Get("/insights", insightHandler.GetInsights)
		r.With(adviceLimit).Post("/advice", insightHandler.AskAdvice)
	})

	return router
}

func (rt *Router) recorder() middleware.HTTPRecorder {
	if rt.cfg.Collector == nil {
		return nil
	}
	return rt.cfg.Collector
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports 503 while the backing store is unreachable
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.cfg.Ready != nil {
		if err := rt.cfg.Ready(req.Context()); err != nil {
			rt.cfg.Logger.Warn("Readiness check failed", zap.Error(err))
			rt.errors.HandleStatus(w, req, http.StatusServiceUnavailable, "Storage unavailable")
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version := "v2"
		if strings.HasPrefix(r.URL.Path, "/api/v1") {
			version = "v1"
		}

		w.Header().Set("X-API-Version", version)
		w.Header().Set("X-API-Latest", "v2")
		w.Header().Set("X-API-Deprecated", "false")

		if version == "v1" {
			w.Header().Set("X-API-Deprecated", "true")
		}

		next.ServeHTTP(w, r)
	})
}
