package handlers

import (
	"net/http"

	"kindra/application/queries"
	querybus "kindra/application/queries/bus"
	pkgerrors "kindra/pkg/errors"

	"go.uber.org/zap"
)

// InsightHandler serves generated insights and advice answers
type InsightHandler struct {
	base
}

// NewInsightHandler creates a new insight handler. It only reads, so it
// takes no command bus.
func NewInsightHandler(queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{base: newBase(nil, queryBus, errs, logger)}
}

// AskAdviceRequest represents a free-text relationship question
type AskAdviceRequest struct {
	Question string `json:"question" validate:"required,notblank,max=1000"`
}

// GetInsights handles GET /insights
func (h *InsightHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetInsightsQuery{UserID: userID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result)
}

// AskAdvice handles POST /advice
func (h *InsightHandler) AskAdvice(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req AskAdviceRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.AskAdviceQuery{UserID: userID, Question: req.Question})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result)
}
