// Package websocket pushes messages to clients connected through the API
// Gateway websocket API.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwTypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"go.uber.org/zap"

	"kindra/application/ports"
	"kindra/domain/events"
	"kindra/domain/insights"
)

// PostToConnectionAPI is the part of the management API client the notifier needs
type PostToConnectionAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// Message is the frame sent to clients
type Message struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Notifier delivers messages to every open socket of a user
type Notifier struct {
	client  PostToConnectionAPI
	sockets ports.SocketStore
	logger  *zap.Logger
}

// NewNotifier creates a notifier
func NewNotifier(client PostToConnectionAPI, sockets ports.SocketStore, logger *zap.Logger) *Notifier {
	return &Notifier{client: client, sockets: sockets, logger: logger}
}

// NewManagementClient builds a management API client for a websocket endpoint
// such as "abc123.execute-api.us-west-2.amazonaws.com/prod"
func NewManagementClient(cfg aws.Config, endpoint string) *apigatewaymanagementapi.Client {
	return apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String("https://" + endpoint)
	})
}

// Notify sends a refreshed insight digest to the user
func (n *Notifier) Notify(ctx context.Context, userID string, items []insights.Insight) error {
	return n.Send(ctx, userID, events.TypeInsightsRefreshed, map[string]interface{}{
		"count":    len(items),
		"insights": items,
	})
}

// Send delivers one message to all of the user's sockets. Sockets that are
// gone are removed from the store. An error is returned only when every
// delivery failed.
func (n *Notifier) Send(ctx context.Context, userID, messageType string, data interface{}) error {
	socketIDs, err := n.sockets.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list sockets: %w", err)
	}
	if len(socketIDs) == 0 {
		return nil
	}

	payload, err := json.Marshal(Message{
		Type:      messageType,
		Timestamp: time.Now().Unix(),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	sent, failed := 0, 0
	for _, socketID := range socketIDs {
		_, err := n.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(socketID),
			Data:         payload,
		})
		if err == nil {
			sent++
			continue
		}

		var gone *apigwTypes.GoneException
		if errors.As(err, &gone) {
			n.logger.Info("Removing stale socket", zap.String("socketID", socketID))
			if err := n.sockets.Remove(ctx, socketID); err != nil {
				n.logger.Warn("Failed to remove stale socket", zap.String("socketID", socketID), zap.Error(err))
			}
			continue
		}

		n.logger.Warn("Failed to post to socket",
			zap.String("socketID", socketID),
			zap.Error(err),
		)
		failed++
	}

	n.logger.Debug("Websocket delivery complete",
		zap.String("userID", userID),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
	if failed > 0 && sent == 0 {
		return fmt.Errorf("all %d websocket sends failed", failed)
	}
	return nil
}

var _ ports.InsightNotifier = (*Notifier)(nil)
