package queries

import (
	"kindra/application/ports"
	"kindra/domain/core/entities"
	pkgerrors "kindra/pkg/errors"
)

// ListConnectionsQuery represents a query for the user's connections
type ListConnectionsQuery struct {
	UserID string
}

// Validate validates the query
func (q ListConnectionsQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	return nil
}

// CacheKey scopes the cached list to the user
func (q ListConnectionsQuery) CacheKey() string {
	return ports.UserCachePrefix(q.UserID) + "connections"
}

// ListConnectionsResult represents the user's connections in creation order
type ListConnectionsResult struct {
	Connections []entities.ConnectionSnapshot `json:"connections"`
	Total       int                           `json:"total"`
}

// GetProfileQuery represents a query for the user's own profile
type GetProfileQuery struct {
	UserID string
}

// Validate validates the query
func (q GetProfileQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	return nil
}
