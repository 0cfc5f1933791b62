package entities

import (
	"time"

	"kindra/domain/config"
	"kindra/domain/core/validators"
	"kindra/domain/core/valueobjects"
	"kindra/domain/events"
	pkgerrors "kindra/pkg/errors"
)

// MomentInput carries the caller-supplied fields of a new moment
type MomentInput struct {
	// ID is assigned by the caller when set, generated otherwise.
	ID                      valueobjects.MomentID
	ConnectionID            valueobjects.ConnectionID
	Emoji                   string
	Tags                    []string
	Content                 string
	IsIntimate              bool
	RelatedToMenstrualCycle bool
	// CreatedAt backfills a past moment. Zero means now.
	CreatedAt time.Time
}

// Moment is a single logged relationship event
type Moment struct {
	id                      valueobjects.MomentID
	userID                  string
	connectionID            valueobjects.ConnectionID
	emoji                   string
	tags                    []string
	content                 string
	isIntimate              bool
	isResolved              bool
	resolutionNotes         string
	relatedToMenstrualCycle bool
	createdAt               time.Time

	events []events.DomainEvent
}

// NewMoment creates a moment with the default domain rules
func NewMoment(userID string, in MomentInput) (*Moment, error) {
	return NewMomentWithConfig(userID, in, config.DefaultDomainConfig())
}

// NewMomentWithConfig creates a moment, validating it against cfg
func NewMomentWithConfig(userID string, in MomentInput, cfg *config.DomainConfig) (*Moment, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if in.ConnectionID.IsZero() {
		return nil, pkgerrors.NewValidationError("connectionID cannot be empty")
	}

	tags := valueobjects.NormalizeTags(in.Tags)
	if err := validators.NewMomentValidator(cfg).ValidateMoment(in.Emoji, tags, in.Content, in.CreatedAt); err != nil {
		return nil, err
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	id := in.ID
	if id.IsZero() {
		id = valueobjects.NewMomentID()
	}

	m := &Moment{
		id:                      id,
		userID:                  userID,
		connectionID:            in.ConnectionID,
		emoji:                   in.Emoji,
		tags:                    tags,
		content:                 in.Content,
		isIntimate:              in.IsIntimate,
		relatedToMenstrualCycle: in.RelatedToMenstrualCycle,
		createdAt:               createdAt,
	}
	m.addEvent(events.NewMomentLogged(m.id, userID, m.connectionID, m.emoji, m.Tags(), createdAt))
	return m, nil
}

// ReconstructMoment rebuilds a moment from stored data without raising events
func ReconstructMoment(s MomentSnapshot) (*Moment, error) {
	id, err := valueobjects.NewMomentIDFromString(s.ID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	connectionID, err := valueobjects.NewConnectionIDFromString(s.ConnectionID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	if s.UserID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	return &Moment{
		id:                      id,
		userID:                  s.UserID,
		connectionID:            connectionID,
		emoji:                   s.Emoji,
		tags:                    append([]string(nil), s.Tags...),
		content:                 s.Content,
		isIntimate:              s.IsIntimate,
		isResolved:              s.IsResolved,
		resolutionNotes:         s.ResolutionNotes,
		relatedToMenstrualCycle: s.RelatedToMenstrualCycle,
		createdAt:               s.CreatedAt,
	}, nil
}

func (m *Moment) ID() valueobjects.MomentID               { return m.id }
func (m *Moment) UserID() string                          { return m.userID }
func (m *Moment) ConnectionID() valueobjects.ConnectionID { return m.connectionID }
func (m *Moment) Emoji() string                           { return m.emoji }
func (m *Moment) Content() string                         { return m.content }
func (m *Moment) IsIntimate() bool                        { return m.isIntimate }
func (m *Moment) IsResolved() bool                        { return m.isResolved }
func (m *Moment) ResolutionNotes() string                 { return m.resolutionNotes }
func (m *Moment) RelatedToMenstrualCycle() bool           { return m.relatedToMenstrualCycle }
func (m *Moment) CreatedAt() time.Time                    { return m.createdAt }
func (m *Moment) Polarity() valueobjects.Polarity         { return valueobjects.ClassifyEmoji(m.emoji) }
func (m *Moment) Flag() valueobjects.Flag                 { return valueobjects.FlagFromTags(m.tags) }

// Tags returns a copy of the moment's normalized tags
func (m *Moment) Tags() []string {
	out := make([]string, len(m.tags))
	copy(out, m.tags)
	return out
}

// Resolve marks the moment as worked through. It is the only mutation a
// moment allows after creation.
func (m *Moment) Resolve(notes string) error {
	return m.ResolveWithConfig(notes, config.DefaultDomainConfig())
}

// ResolveWithConfig resolves the moment, validating notes against cfg
func (m *Moment) ResolveWithConfig(notes string, cfg *config.DomainConfig) error {
	if m.isResolved {
		return pkgerrors.ErrMomentAlreadyResolved(m.id.String())
	}
	if err := validators.NewMomentValidator(cfg).ValidateResolution(notes); err != nil {
		return err
	}

	m.isResolved = true
	m.resolutionNotes = notes
	m.addEvent(events.NewMomentResolved(m.id, m.userID, notes, time.Now().UTC()))
	return nil
}

// MarkDeleted raises the deletion event. Removal itself is the repository's job.
func (m *Moment) MarkDeleted() {
	m.addEvent(events.NewMomentDeleted(m.id, m.userID, m.connectionID, time.Now().UTC()))
}

// Snapshot copies the moment into its read-only form
func (m *Moment) Snapshot() MomentSnapshot {
	return MomentSnapshot{
		ID:                      m.id.String(),
		UserID:                  m.userID,
		ConnectionID:            m.connectionID.String(),
		Emoji:                   m.emoji,
		Tags:                    m.Tags(),
		Content:                 m.content,
		IsIntimate:              m.isIntimate,
		IsResolved:              m.isResolved,
		ResolutionNotes:         m.resolutionNotes,
		RelatedToMenstrualCycle: m.relatedToMenstrualCycle,
		CreatedAt:               m.createdAt,
	}
}

// GetUncommittedEvents returns all uncommitted domain events
func (m *Moment) GetUncommittedEvents() []events.DomainEvent {
	return m.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (m *Moment) MarkEventsAsCommitted() {
	m.events = nil
}

func (m *Moment) addEvent(event events.DomainEvent) {
	m.events = append(m.events, event)
}
