package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// Sender delivers one message to every socket of a user
type Sender interface {
	Send(ctx context.Context, userID, messageType string, data interface{}) error
}

// BroadcastMessage asks for a message to be pushed to one or more users
type BroadcastMessage struct {
	EventType    string                 `json:"event_type"`
	TargetUserID string                 `json:"target_user_id,omitempty"`
	TargetUsers  []string               `json:"target_users,omitempty"`
	Payload      map[string]interface{} `json:"payload"`
}

// Recipients returns the distinct target users
func (m BroadcastMessage) Recipients() []string {
	seen := make(map[string]bool)
	var users []string
	for _, id := range append([]string{m.TargetUserID}, m.TargetUsers...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		users = append(users, id)
	}
	return users
}

// Broadcaster turns domain events and direct requests into socket messages
type Broadcaster struct {
	sender Sender
	logger *zap.Logger
}

// NewBroadcaster creates a broadcaster
func NewBroadcaster(sender Sender, logger *zap.Logger) *Broadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broadcaster{sender: sender, logger: logger}
}

// Handle accepts an EventBridge event, a BroadcastMessage or an SQS batch
// of BroadcastMessages
func (b *Broadcaster) Handle(ctx context.Context, raw json.RawMessage) error {
	var probe struct {
		DetailType string            `json:"detail-type"`
		Records    []json.RawMessage `json:"Records"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("unable to parse event: %w", err)
	}

	switch {
	case probe.DetailType != "":
		var event events.CloudWatchEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return fmt.Errorf("invalid EventBridge event: %w", err)
		}
		return b.HandleDomainEvent(ctx, event)

	case len(probe.Records) > 0:
		var batch events.SQSEvent
		if err := json.Unmarshal(raw, &batch); err != nil {
			return fmt.Errorf("invalid SQS event: %w", err)
		}
		for _, record := range batch.Records {
			var msg BroadcastMessage
			if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
				b.logger.Warn("Skipping unparsable SQS record", zap.String("messageID", record.MessageId), zap.Error(err))
				continue
			}
			if err := b.Broadcast(ctx, msg); err != nil {
				b.logger.Warn("Broadcast failed", zap.String("messageID", record.MessageId), zap.Error(err))
			}
		}
		return nil

	default:
		var msg BroadcastMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return fmt.Errorf("invalid broadcast message: %w", err)
		}
		return b.Broadcast(ctx, msg)
	}
}

// HandleDomainEvent forwards an event to the user who caused it
func (b *Broadcaster) HandleDomainEvent(ctx context.Context, event events.CloudWatchEvent) error {
	var payload map[string]interface{}
	if err := json.Unmarshal(event.Detail, &payload); err != nil {
		return fmt.Errorf("failed to parse event detail: %w", err)
	}

	userID, _ := payload["user_id"].(string)
	if userID == "" {
		b.logger.Debug("Event has no user, not forwarded", zap.String("detailType", event.DetailType))
		return nil
	}
	return b.Broadcast(ctx, BroadcastMessage{EventType: event.DetailType, TargetUserID: userID, Payload: payload})
}

// Broadcast sends the message to each recipient. It fails only when every
// recipient failed.
func (b *Broadcaster) Broadcast(ctx context.Context, msg BroadcastMessage) error {
	recipients := msg.Recipients()
	if msg.EventType == "" || len(recipients) == 0 {
		return errors.New("broadcast needs an event type and at least one recipient")
	}

	var errs []error
	for _, userID := range recipients {
		if err := b.sender.Send(ctx, userID, msg.EventType, msg.Payload); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
		}
	}

	b.logger.Info("Broadcast complete",
		zap.String("type", msg.EventType),
		zap.Int("recipients", len(recipients)),
		zap.Int("failed", len(errs)),
	)
	if len(errs) == len(recipients) {
		return errors.Join(errs...)
	}
	return nil
}
