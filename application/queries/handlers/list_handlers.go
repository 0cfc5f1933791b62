package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"kindra/application/ports"
	"kindra/application/queries"
	"kindra/domain/core/entities"
	pkgerrors "kindra/pkg/errors"
)

// ListMomentsHandler handles paginated moment listings
type ListMomentsHandler struct {
	momentRepo ports.MomentRepository
	logger     *zap.Logger
}

// NewListMomentsHandler creates a new list moments handler
func NewListMomentsHandler(momentRepo ports.MomentRepository, logger *zap.Logger) *ListMomentsHandler {
	return &ListMomentsHandler{
		momentRepo: momentRepo,
		logger:     logger,
	}
}

// Handle executes the list moments query. Pages run newest first.
func (h *ListMomentsHandler) Handle(ctx context.Context, query queries.ListMomentsQuery) (*queries.ListMomentsResult, error) {
	moments, err := h.momentRepo.ListByUser(ctx, query.UserID, ports.MomentFilter{
		ConnectionID: query.ConnectionID,
		Since:        query.Since,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list moments: %w", err)
	}

	total := len(moments)
	start := (query.Page - 1) * query.PageSize
	end := min(start+query.PageSize, total)

	page := make([]entities.MomentSnapshot, 0, max(0, end-start))
	for i := start; i < end; i++ {
		page = append(page, moments[total-1-i].Snapshot())
	}

	h.logger.Debug("Listed moments",
		zap.String("userID", query.UserID),
		zap.Int("total", total),
		zap.Int("returned", len(page)),
	)

	return &queries.ListMomentsResult{
		Moments:  page,
		Page:     query.Page,
		PageSize: query.PageSize,
		Total:    total,
	}, nil
}

// ListConnectionsHandler handles connection listings
type ListConnectionsHandler struct {
	connectionRepo ports.ConnectionRepository
}

// NewListConnectionsHandler creates a new list connections handler
func NewListConnectionsHandler(connectionRepo ports.ConnectionRepository) *ListConnectionsHandler {
	return &ListConnectionsHandler{connectionRepo: connectionRepo}
}

// Handle executes the list connections query
func (h *ListConnectionsHandler) Handle(ctx context.Context, query queries.ListConnectionsQuery) (*queries.ListConnectionsResult, error) {
	connections, err := h.connectionRepo.ListByUser(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	out := make([]entities.ConnectionSnapshot, 0, len(connections))
	for _, c := range connections {
		out = append(out, c.Snapshot())
	}
	return &queries.ListConnectionsResult{Connections: out, Total: len(out)}, nil
}

// GetProfileHandler handles profile reads
type GetProfileHandler struct {
	profileRepo ports.ProfileRepository
}

// NewGetProfileHandler creates a new get profile handler
func NewGetProfileHandler(profileRepo ports.ProfileRepository) *GetProfileHandler {
	return &GetProfileHandler{profileRepo: profileRepo}
}

// Handle executes the profile query. A user who never saved a profile gets
// an empty one.
func (h *GetProfileHandler) Handle(ctx context.Context, query queries.GetProfileQuery) (*entities.ProfileSnapshot, error) {
	profile, err := h.profileRepo.Get(ctx, query.UserID)
	if pkgerrors.IsNotFound(err) {
		return &entities.ProfileSnapshot{UserID: query.UserID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	snap := profile.Snapshot()
	return &snap, nil
}
