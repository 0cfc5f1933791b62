package entities

import (
	"strings"
	"time"

	"kindra/domain/config"
	"kindra/domain/core/validators"
	"kindra/domain/core/valueobjects"
	"kindra/domain/events"
	pkgerrors "kindra/pkg/errors"
)

// ConnectionInput carries the caller-supplied fields of a new connection
type ConnectionInput struct {
	ID                valueobjects.ConnectionID
	Name              string
	RelationshipStage string
	ZodiacSign        string
	LoveLanguage      string
}

// Connection is a person the user logs moments about
type Connection struct {
	id           valueobjects.ConnectionID
	userID       string
	name         string
	stage        valueobjects.RelationshipStage
	zodiacSign   valueobjects.ZodiacSign
	loveLanguage valueobjects.LoveLanguage
	createdAt    time.Time

	events []events.DomainEvent
}

// NewConnection creates a connection with the default domain rules
func NewConnection(userID string, in ConnectionInput) (*Connection, error) {
	return NewConnectionWithConfig(userID, in, config.DefaultDomainConfig())
}

// NewConnectionWithConfig creates a connection, validating it against cfg
func NewConnectionWithConfig(userID string, in ConnectionInput, cfg *config.DomainConfig) (*Connection, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	verrs := pkgerrors.NewValidationErrors()
	verrs.Merge(validators.NewMomentValidator(cfg).ValidateConnectionName(in.Name))
	stage, err := valueobjects.ParseRelationshipStage(in.RelationshipStage)
	if err != nil {
		verrs.Add("relationship_stage", err.Error())
	}
	sign, err := valueobjects.ParseZodiacSign(in.ZodiacSign)
	if err != nil {
		verrs.Add("zodiac_sign", err.Error())
	}
	language, err := valueobjects.ParseLoveLanguage(in.LoveLanguage)
	if err != nil {
		verrs.Add("love_language", err.Error())
	}
	if verrs.HasErrors() {
		return nil, verrs
	}

	id := in.ID
	if id.IsZero() {
		id = valueobjects.NewConnectionID()
	}

	c := &Connection{
		id:           id,
		userID:       userID,
		name:         strings.TrimSpace(in.Name),
		stage:        stage,
		zodiacSign:   sign,
		loveLanguage: language,
		createdAt:    time.Now().UTC(),
	}
	c.events = append(c.events, events.NewConnectionAdded(c.id, userID, c.name, c.stage, c.createdAt))
	return c, nil
}

// ReconstructConnection rebuilds a connection from stored data
func ReconstructConnection(s ConnectionSnapshot) (*Connection, error) {
	id, err := valueobjects.NewConnectionIDFromString(s.ID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	if s.UserID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	return &Connection{
		id:           id,
		userID:       s.UserID,
		name:         s.Name,
		stage:        s.RelationshipStage,
		zodiacSign:   s.ZodiacSign,
		loveLanguage: s.LoveLanguage,
		createdAt:    s.CreatedAt,
	}, nil
}

func (c *Connection) ID() valueobjects.ConnectionID                     { return c.id }
func (c *Connection) UserID() string                                    { return c.userID }
func (c *Connection) Name() string                                      { return c.name }
func (c *Connection) RelationshipStage() valueobjects.RelationshipStage { return c.stage }
func (c *Connection) ZodiacSign() valueobjects.ZodiacSign               { return c.zodiacSign }
func (c *Connection) LoveLanguage() valueobjects.LoveLanguage           { return c.loveLanguage }
func (c *Connection) CreatedAt() time.Time                              { return c.createdAt }

// IsOwnedBy reports whether the connection belongs to userID
func (c *Connection) IsOwnedBy(userID string) bool {
	return c.userID == userID
}

// Snapshot copies the connection into its read-only form
func (c *Connection) Snapshot() ConnectionSnapshot {
	return ConnectionSnapshot{
		ID:                c.id.String(),
		UserID:            c.userID,
		Name:              c.name,
		RelationshipStage: c.stage,
		ZodiacSign:        c.zodiacSign,
		LoveLanguage:      c.loveLanguage,
		CreatedAt:         c.createdAt,
	}
}

// GetUncommittedEvents returns all uncommitted domain events
func (c *Connection) GetUncommittedEvents() []events.DomainEvent {
	return c.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (c *Connection) MarkEventsAsCommitted() {
	c.events = nil
}
