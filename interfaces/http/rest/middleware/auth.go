package middleware

import (
	"errors"
	"net/http"
	"strings"

	"kindra/pkg/auth"
	"kindra/pkg/common"
	pkgerrors "kindra/pkg/errors"

	"go.uber.org/zap"
)

// AuthConfig configures Authenticate
type AuthConfig struct {
	// Validator checks bearer tokens. When nil the caller is identified by
	// the X-User-ID header, which is only meant for local development.
	Validator *auth.JWTValidator

	// TrustGateway accepts requests that API Gateway already authorized and
	// annotated with X-API-Gateway-Authorized and X-User-ID
	TrustGateway bool

	IPLimiter   auth.RateLimiter
	UserLimiter auth.RateLimiter

	Errors *pkgerrors.ErrorHandler
	Logger *zap.Logger
}

// Authenticate resolves the calling user and puts it on the request context
func Authenticate(cfg AuthConfig) func(next http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Errors == nil {
		cfg.Errors = pkgerrors.NewErrorHandler(cfg.Logger, false)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)
			if !allow(r, cfg.IPLimiter, clientIP, cfg.Logger) {
				cfg.Errors.HandleStatus(w, r, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			user, err := resolveUser(r, cfg)
			if err != nil {
				cfg.Logger.Debug("Authentication failed",
					zap.Error(err),
					zap.String("ip", clientIP),
					zap.String("path", r.URL.Path),
				)
				cfg.Errors.Handle(w, r, pkgerrors.NewUnauthorizedError(unauthorizedMessage(err)))
				return
			}

			if !allow(r, cfg.UserLimiter, user.UserID, cfg.Logger) {
				cfg.Errors.HandleStatus(w, r, http.StatusTooManyRequests, "User rate limit exceeded")
				return
			}

			ctx := auth.SetUserInContext(r.Context(), user)
			ctx = common.WithUserID(ctx, user.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveUser(r *http.Request, cfg AuthConfig) (*auth.UserContext, error) {
	if cfg.TrustGateway && r.Header.Get("X-API-Gateway-Authorized") == "true" {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			return nil, auth.ErrInvalidClaims
		}
		roles := []string{"authenticated"}
		if header := r.Header.Get("X-User-Roles"); header != "" {
			roles = strings.Split(header, ",")
		}
		return &auth.UserContext{UserID: userID, Email: r.Header.Get("X-User-Email"), Roles: roles}, nil
	}

	if cfg.Validator == nil {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			return nil, auth.ErrMissingToken
		}
		return &auth.UserContext{UserID: userID, Roles: []string{"authenticated"}}, nil
	}

	token := extractToken(r)
	if token == "" {
		return nil, auth.ErrMissingToken
	}
	claims, err := cfg.Validator.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &auth.UserContext{UserID: claims.UserID, Email: claims.Email, Roles: claims.Roles}, nil
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Missing authentication token"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "Invalid token signature"
	default:
		return "Invalid token"
	}
}

// allow fails open when the limiter itself errors
func allow(r *http.Request, limiter auth.RateLimiter, key string, logger *zap.Logger) bool {
	if limiter == nil {
		return true
	}
	allowed, err := limiter.Allow(r.Context(), key)
	if err != nil {
		logger.Warn("Rate limiter error", zap.Error(err))
		return true
	}
	return allowed
}

// RateLimitUser limits a route per authenticated user. It must run after
// Authenticate.
func RateLimitUser(limiter auth.RateLimiter, limit int, window string, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _ := common.GetUserID(r.Context())
			if !allow(r, limiter, userID, logger) {
				errs.Handle(w, r, pkgerrors.NewRateLimitError(limit, window))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the JWT token from the Authorization header, the
// auth_token cookie or the token query parameter, in that order
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return authHeader
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}

	return r.URL.Query().Get("token")
}

// getClientIP extracts the client IP address
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
