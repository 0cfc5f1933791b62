package handlers

import (
	"net/http"
	"time"

	"kindra/application/commands"
	"kindra/application/commands/bus"
	"kindra/application/queries"
	querybus "kindra/application/queries/bus"
	"kindra/pkg/common"
	pkgerrors "kindra/pkg/errors"
	"kindra/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MomentHandler handles moment-related HTTP requests
type MomentHandler struct {
	base
}

// NewMomentHandler creates a new moment handler
func NewMomentHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *MomentHandler {
	return &MomentHandler{base: newBase(commandBus, queryBus, errs, logger)}
}

// LogMomentRequest represents the request body for logging a moment
type LogMomentRequest struct {
	ConnectionID            string     `json:"connection_id" validate:"required,uuid"`
	Emoji                   string     `json:"emoji" validate:"required,notblank"`
	Tags                    []string   `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Content                 string     `json:"content,omitempty" validate:"max=5000"`
	IsIntimate              bool       `json:"is_intimate,omitempty"`
	RelatedToMenstrualCycle bool       `json:"related_to_menstrual_cycle,omitempty"`
	CreatedAt               *time.Time `json:"created_at,omitempty"` // backfill, defaults to now
}

// ResolveMomentRequest represents the optional body for resolving a moment
type ResolveMomentRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=2000"`
}

// CreatedResponse is returned by endpoints that create a resource
type CreatedResponse struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// LogMoment handles POST /moments
func (h *MomentHandler) LogMoment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req LogMomentRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	cmd := commands.LogMomentCommand{
		MomentID:                uuid.NewString(),
		UserID:                  userID,
		ConnectionID:            req.ConnectionID,
		Emoji:                   req.Emoji,
		Tags:                    req.Tags,
		Content:                 req.Content,
		IsIntimate:              req.IsIntimate,
		RelatedToMenstrualCycle: req.RelatedToMenstrualCycle,
	}
	if req.CreatedAt != nil {
		cmd.CreatedAt = *req.CreatedAt
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Warn("Failed to log moment", zap.String("userID", userID), zap.Error(err))
		h.errors.Handle(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, CreatedResponse{
		ID:        cmd.MomentID,
		Message:   "Moment logged",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// ListMoments handles GET /moments. Supports connection_id, since, page and page_size.
func (h *MomentHandler) ListMoments(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	query := queries.ListMomentsQuery{
		UserID:       userID,
		ConnectionID: r.URL.Query().Get("connection_id"),
	}
	if since := r.URL.Query().Get("since"); since != "" {
		t, err := utils.ParseSince(since)
		if err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("since must be RFC3339 or YYYY-MM-DD"))
			return
		}
		query.Since = t
	}
	params := common.ExtractPaginationParams(r)
	query.Page, query.PageSize = params.Page, params.PageSize

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	page := result.(*queries.ListMomentsResult)
	meta := common.NewMeta(r, apiVersion)
	meta.Pagination = common.BuildPaginationMeta(page.Page, page.PageSize, page.Total)
	common.RespondWithMeta(w, http.StatusOK, page.Moments, meta)
}

// ResolveMoment handles POST /moments/{momentID}/resolve
func (h *MomentHandler) ResolveMoment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req ResolveMomentRequest
	if !h.decode(w, r, &req, true) {
		return
	}

	momentID := chi.URLParam(r, "momentID")
	cmd := commands.ResolveMomentCommand{MomentID: momentID, UserID: userID, Notes: req.Notes}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, map[string]string{
		"id":      momentID,
		"message": "Moment resolved",
	})
}

// DeleteMoment handles DELETE /moments/{momentID}
func (h *MomentHandler) DeleteMoment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	cmd := commands.DeleteMomentCommand{MomentID: chi.URLParam(r, "momentID"), UserID: userID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
