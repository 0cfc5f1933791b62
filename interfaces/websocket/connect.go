// Package websocket handles the API Gateway websocket routes and fans
// server-side messages out to connected clients.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"kindra/application/ports"
	"kindra/pkg/auth"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// TokenValidator checks the token a client connects with
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// ConnectHandler registers and unregisters sockets
type ConnectHandler struct {
	sockets   ports.SocketStore
	validator TokenValidator
	logger    *zap.Logger
}

// NewConnectHandler creates a connect handler. With a nil validator the
// user_id query parameter identifies the caller, for local development.
func NewConnectHandler(sockets ports.SocketStore, validator TokenValidator, logger *zap.Logger) *ConnectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectHandler{sockets: sockets, validator: validator, logger: logger}
}

// Handle dispatches on the route key
func (h *ConnectHandler) Handle(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch req.RequestContext.RouteKey {
	case "$connect":
		return h.Connect(ctx, req)
	case "$disconnect":
		return h.Disconnect(ctx, req)
	default:
		return reply(http.StatusOK, map[string]interface{}{"type": "pong", "timestamp": time.Now().Unix()}), nil
	}
}

// Connect authenticates the client and records its socket
func (h *ConnectHandler) Connect(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	socketID := req.RequestContext.ConnectionID
	userID, err := h.authenticate(req)
	if err != nil {
		h.logger.Info("Websocket authentication failed", zap.String("socketID", socketID), zap.Error(err))
		return reply(http.StatusUnauthorized, map[string]string{"error": "unauthorized"}), nil
	}

	if err := h.sockets.Add(ctx, socketID, userID); err != nil {
		h.logger.Error("Failed to store socket", zap.String("socketID", socketID), zap.Error(err))
		return reply(http.StatusInternalServerError, map[string]string{"error": "internal server error"}), nil
	}

	h.logger.Info("Websocket connected", zap.String("socketID", socketID), zap.String("userID", userID))
	return reply(http.StatusOK, map[string]interface{}{
		"type":         "connection_established",
		"connectionId": socketID,
		"userId":       userID,
		"timestamp":    time.Now().Unix(),
	}), nil
}

// Disconnect forgets the socket
func (h *ConnectHandler) Disconnect(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	socketID := req.RequestContext.ConnectionID
	if err := h.sockets.Remove(ctx, socketID); err != nil {
		h.logger.Warn("Failed to remove socket", zap.String("socketID", socketID), zap.Error(err))
		return reply(http.StatusInternalServerError, map[string]string{"error": "internal server error"}), nil
	}
	h.logger.Info("Websocket disconnected", zap.String("socketID", socketID))
	return reply(http.StatusOK, nil), nil
}

func (h *ConnectHandler) authenticate(req events.APIGatewayWebsocketProxyRequest) (string, error) {
	if h.validator == nil {
		if userID := req.QueryStringParameters["user_id"]; userID != "" {
			return userID, nil
		}
		return "", auth.ErrMissingToken
	}

	token := req.QueryStringParameters["token"]
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(req.Headers["Authorization"], "Bearer "))
	}
	if token == "" {
		return "", auth.ErrMissingToken
	}

	claims, err := h.validator.ValidateToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func reply(status int, body interface{}) events.APIGatewayProxyResponse {
	resp := events.APIGatewayProxyResponse{StatusCode: status}
	if body != nil {
		if data, err := json.Marshal(body); err == nil {
			resp.Body = string(data)
		}
	}
	return resp
}
