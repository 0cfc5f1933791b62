package ports

import (
	"context"
	"time"

	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
	"kindra/domain/events"
	"kindra/domain/insights"
)

// MomentFilter narrows a moment listing
type MomentFilter struct {
	// ConnectionID restricts the listing to one connection when set
	ConnectionID string
	// Since drops moments created before it when non-zero
	Since time.Time
	// Limit keeps only the newest N moments when positive
	Limit int
}

// MomentRepository defines the interface for moment persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type MomentRepository interface {
	// Save persists a moment (create or update)
	Save(ctx context.Context, moment *entities.Moment) error

	// GetByID retrieves one of the user's moments
	GetByID(ctx context.Context, userID string, id valueobjects.MomentID) (*entities.Moment, error)

	// ListByUser returns the user's moments oldest first
	ListByUser(ctx context.Context, userID string, filter MomentFilter) ([]*entities.Moment, error)

	// Delete removes a moment
	Delete(ctx context.Context, userID string, id valueobjects.MomentID) error
}

// ConnectionRepository defines the interface for connection persistence
type ConnectionRepository interface {
	Save(ctx context.Context, connection *entities.Connection) error

	// GetByID looks a connection up without knowing its owner, so callers
	// can tell "missing" from "someone else's"
	GetByID(ctx context.Context, id valueobjects.ConnectionID) (*entities.Connection, error)

	// ListByUser returns the user's connections in creation order
	ListByUser(ctx context.Context, userID string) ([]*entities.Connection, error)

	CountByUser(ctx context.Context, userID string) (int, error)
}

// ProfileRepository stores the user's own astrological and love-language profile
type ProfileRepository interface {
	// Get returns a NotFound error when the user never saved a profile
	Get(ctx context.Context, userID string) (*entities.Profile, error)
	Save(ctx context.Context, profile *entities.Profile) error
}

// SocketStore tracks open websocket connections per user
type SocketStore interface {
	Add(ctx context.Context, socketID, userID string) error
	Remove(ctx context.Context, socketID string) error
	ListByUser(ctx context.Context, userID string) ([]string, error)
}

// EventPublisher publishes domain events to external systems
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// InsightNotifier pushes a fresh insight digest to the user's live sessions
type InsightNotifier interface {
	Notify(ctx context.Context, userID string, items []insights.Insight) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)

	// Delete removes a value from cache
	Delete(ctx context.Context, key string)

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string)
}

// UserCachePrefix is the key prefix under which every cached read of a user lives
func UserCachePrefix(userID string) string {
	return "user:" + userID + ":"
}
