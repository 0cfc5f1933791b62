package queries

import (
	"kindra/application/ports"
	pkgerrors "kindra/pkg/errors"
	"kindra/pkg/utils"
)

// GetInsightsQuery represents a query for the user's ranked insights
type GetInsightsQuery struct {
	UserID string
}

// Validate validates the query
func (q GetInsightsQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	return nil
}

// CacheKey scopes the cached report to the user
func (q GetInsightsQuery) CacheKey() string {
	return ports.UserCachePrefix(q.UserID) + "insights"
}

// AskAdviceQuery represents a free-text relationship question
type AskAdviceQuery struct {
	UserID   string `validate:"required"`
	Question string `validate:"required,notblank,max=1000"`
}

// Validate validates the query
func (q AskAdviceQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetConnectionStatsQuery represents a query for one connection's statistics
type GetConnectionStatsQuery struct {
	UserID       string
	ConnectionID string
}

// Validate validates the query
func (q GetConnectionStatsQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	if q.ConnectionID == "" {
		return pkgerrors.NewValidationError("connection ID is required")
	}
	return nil
}

// CacheKey scopes the cached stats to the user and connection
func (q GetConnectionStatsQuery) CacheKey() string {
	return ports.UserCachePrefix(q.UserID) + "stats:" + q.ConnectionID
}
