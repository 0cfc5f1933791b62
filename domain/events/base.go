package events

import (
	"time"

	"kindra/domain/core/valueobjects"
)

// SourceBackend is the EventBridge source for every event this service emits
const SourceBackend = "kindra.backend"

// Event types, used as EventBridge detail types
const (
	TypeMomentLogged      = "moment.logged"
	TypeMomentResolved    = "moment.resolved"
	TypeMomentDeleted     = "moment.deleted"
	TypeConnectionAdded   = "connection.added"
	TypeInsightsRefreshed = "insights.refreshed"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetUserID() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	UserID      string    `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetUserID() string       { return e.UserID }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType, userID string, at time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		UserID:      userID,
		Timestamp:   at,
		Version:     1,
	}
}

// MomentLogged is raised when a user records a new moment
type MomentLogged struct {
	BaseEvent
	MomentID     valueobjects.MomentID     `json:"moment_id"`
	ConnectionID valueobjects.ConnectionID `json:"connection_id"`
	Emoji        string                    `json:"emoji"`
	Tags         []string                  `json:"tags"`
	Polarity     valueobjects.Polarity     `json:"polarity"`
}

// NewMomentLogged creates a MomentLogged event
func NewMomentLogged(momentID valueobjects.MomentID, userID string, connectionID valueobjects.ConnectionID, emoji string, tags []string, at time.Time) MomentLogged {
	return MomentLogged{
		BaseEvent:    newBase(momentID.String(), TypeMomentLogged, userID, at),
		MomentID:     momentID,
		ConnectionID: connectionID,
		Emoji:        emoji,
		Tags:         tags,
		Polarity:     valueobjects.ClassifyEmoji(emoji),
	}
}

// MomentResolved is raised when a conflict moment is marked resolved
type MomentResolved struct {
	BaseEvent
	MomentID valueobjects.MomentID `json:"moment_id"`
	Notes    string                `json:"notes,omitempty"`
}

// NewMomentResolved creates a MomentResolved event
func NewMomentResolved(momentID valueobjects.MomentID, userID, notes string, at time.Time) MomentResolved {
	return MomentResolved{
		BaseEvent: newBase(momentID.String(), TypeMomentResolved, userID, at),
		MomentID:  momentID,
		Notes:     notes,
	}
}

// MomentDeleted is raised when a moment is removed
type MomentDeleted struct {
	BaseEvent
	MomentID     valueobjects.MomentID     `json:"moment_id"`
	ConnectionID valueobjects.ConnectionID `json:"connection_id"`
}

// NewMomentDeleted creates a MomentDeleted event
func NewMomentDeleted(momentID valueobjects.MomentID, userID string, connectionID valueobjects.ConnectionID, at time.Time) MomentDeleted {
	return MomentDeleted{
		BaseEvent:    newBase(momentID.String(), TypeMomentDeleted, userID, at),
		MomentID:     momentID,
		ConnectionID: connectionID,
	}
}

// ConnectionAdded is raised when a user starts tracking a person
type ConnectionAdded struct {
	BaseEvent
	ConnectionID valueobjects.ConnectionID      `json:"connection_id"`
	Name         string                         `json:"name"`
	Stage        valueobjects.RelationshipStage `json:"relationship_stage"`
}

// NewConnectionAdded creates a ConnectionAdded event
func NewConnectionAdded(connectionID valueobjects.ConnectionID, userID, name string, stage valueobjects.RelationshipStage, at time.Time) ConnectionAdded {
	return ConnectionAdded{
		BaseEvent:    newBase(connectionID.String(), TypeConnectionAdded, userID, at),
		ConnectionID: connectionID,
		Name:         name,
		Stage:        stage,
	}
}

// InsightDigest is the compact form of an insight pushed to clients
type InsightDigest struct {
	Title      string `json:"title"`
	Type       string `json:"type"`
	Category   string `json:"category"`
	Confidence int    `json:"confidence"`
}

// InsightsRefreshed is raised by the refresh worker after recomputing a user's insights
type InsightsRefreshed struct {
	BaseEvent
	Count    int             `json:"count"`
	Insights []InsightDigest `json:"insights"`
}

// NewInsightsRefreshed creates an InsightsRefreshed event
func NewInsightsRefreshed(userID string, digests []InsightDigest, at time.Time) InsightsRefreshed {
	return InsightsRefreshed{
		BaseEvent: newBase(userID, TypeInsightsRefreshed, userID, at),
		Count:     len(digests),
		Insights:  digests,
	}
}
