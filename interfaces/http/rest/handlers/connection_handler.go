package handlers

import (
	"net/http"
	"time"

	"kindra/application/commands"
	"kindra/application/commands/bus"
	"kindra/application/queries"
	querybus "kindra/application/queries/bus"
	pkgerrors "kindra/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectionHandler handles connections and the caller's own profile
type ConnectionHandler struct {
	base
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ConnectionHandler {
	return &ConnectionHandler{base: newBase(commandBus, queryBus, errs, logger)}
}

// AddConnectionRequest represents the request body for adding a connection
type AddConnectionRequest struct {
	Name              string `json:"name" validate:"required,notblank,max=100"`
	RelationshipStage string `json:"relationship_stage" validate:"required"`
	ZodiacSign        string `json:"zodiac_sign,omitempty"`
	LoveLanguage      string `json:"love_language,omitempty"`
}

// UpdateProfileRequest represents the request body for the caller's profile
type UpdateProfileRequest struct {
	ZodiacSign   string `json:"zodiac_sign,omitempty"`
	LoveLanguage string `json:"love_language,omitempty"`
}

// AddConnection handles POST /connections
func (h *ConnectionHandler) AddConnection(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req AddConnectionRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	cmd := commands.AddConnectionCommand{
		ConnectionID:      uuid.NewString(),
		UserID:            userID,
		Name:              req.Name,
		RelationshipStage: req.RelationshipStage,
		ZodiacSign:        req.ZodiacSign,
		LoveLanguage:      req.LoveLanguage,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Warn("Failed to add connection", zap.String("userID", userID), zap.Error(err))
		h.errors.Handle(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, CreatedResponse{
		ID:        cmd.ConnectionID,
		Message:   "Connection added",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// ListConnections handles GET /connections
func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListConnectionsQuery{UserID: userID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result)
}

// GetConnectionStats handles GET /connections/{connectionID}/stats
func (h *ConnectionHandler) GetConnectionStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	query := queries.GetConnectionStatsQuery{UserID: userID, ConnectionID: chi.URLParam(r, "connectionID")}
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result)
}

// GetProfile handles GET /profile
func (h *ConnectionHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetProfileQuery{UserID: userID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result)
}

// UpdateProfile handles PUT /profile
func (h *ConnectionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	cmd := commands.UpdateProfileCommand{UserID: userID, ZodiacSign: req.ZodiacSign, LoveLanguage: req.LoveLanguage}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]string{"message": "Profile updated"})
}
