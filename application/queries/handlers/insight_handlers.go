package handlers

import (
	"context"

	"kindra/application/queries"
	"kindra/application/services"
)

// InsightReader is the part of services.InsightService the read side uses
type InsightReader interface {
	Generate(ctx context.Context, userID string) (*services.InsightReport, error)
	Ask(ctx context.Context, userID, question string) (*services.AdviceAnswer, error)
	ConnectionStats(ctx context.Context, userID, connectionID string) (*services.ConnectionStats, error)
}

// GetInsightsHandler handles insight queries
type GetInsightsHandler struct {
	insights InsightReader
}

// NewGetInsightsHandler creates a new insights handler
func NewGetInsightsHandler(insights InsightReader) *GetInsightsHandler {
	return &GetInsightsHandler{insights: insights}
}

// Handle executes the insights query
func (h *GetInsightsHandler) Handle(ctx context.Context, query queries.GetInsightsQuery) (*services.InsightReport, error) {
	return h.insights.Generate(ctx, query.UserID)
}

// AskAdviceHandler handles advice questions
type AskAdviceHandler struct {
	insights InsightReader
}

// NewAskAdviceHandler creates a new advice handler
func NewAskAdviceHandler(insights InsightReader) *AskAdviceHandler {
	return &AskAdviceHandler{insights: insights}
}

// Handle executes the advice query
func (h *AskAdviceHandler) Handle(ctx context.Context, query queries.AskAdviceQuery) (*services.AdviceAnswer, error) {
	return h.insights.Ask(ctx, query.UserID, query.Question)
}

// GetConnectionStatsHandler handles per-connection statistics queries
type GetConnectionStatsHandler struct {
	insights InsightReader
}

// NewGetConnectionStatsHandler creates a new connection stats handler
func NewGetConnectionStatsHandler(insights InsightReader) *GetConnectionStatsHandler {
	return &GetConnectionStatsHandler{insights: insights}
}

// Handle executes the connection stats query
func (h *GetConnectionStatsHandler) Handle(ctx context.Context, query queries.GetConnectionStatsQuery) (*services.ConnectionStats, error) {
	return h.insights.ConnectionStats(ctx, query.UserID, query.ConnectionID)
}
