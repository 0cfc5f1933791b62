package queries

import (
	"time"

	"kindra/domain/core/entities"
	pkgerrors "kindra/pkg/errors"
)

// ListMomentsQuery represents a paginated, newest-first moment listing
type ListMomentsQuery struct {
	UserID       string
	ConnectionID string
	Since        time.Time
	Page         int
	PageSize     int
}

// Validate validates the query
func (q ListMomentsQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	if q.Page < 1 {
		return pkgerrors.NewValidationError("page must be at least 1")
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		return pkgerrors.NewValidationError("page size must be between 1 and 100")
	}
	return nil
}

// ListMomentsResult represents one page of moments
type ListMomentsResult struct {
	Moments  []entities.MomentSnapshot `json:"moments"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"pageSize"`
	Total    int                       `json:"total"`
}
