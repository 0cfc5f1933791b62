package entities

import (
	"time"

	"kindra/domain/core/valueobjects"
)

// MomentSnapshot is the read-only copy of a moment handed to the insight
// engine, the advice responder and the repositories.
type MomentSnapshot struct {
	ID                      string    `json:"id"`
	UserID                  string    `json:"userId,omitempty"`
	ConnectionID            string    `json:"connectionId"`
	Emoji                   string    `json:"emoji"`
	Tags                    []string  `json:"tags"`
	Content                 string    `json:"content"`
	IsIntimate              bool      `json:"isIntimate"`
	IsResolved              bool      `json:"isResolved"`
	ResolutionNotes         string    `json:"resolutionNotes,omitempty"`
	RelatedToMenstrualCycle bool      `json:"relatedToMenstrualCycle"`
	CreatedAt               time.Time `json:"createdAt"`
}

// Polarity classifies the snapshot's emoji
func (m MomentSnapshot) Polarity() valueobjects.Polarity {
	return valueobjects.ClassifyEmoji(m.Emoji)
}

// Flag returns the green/red/blue flag carried in the tags, if any
func (m MomentSnapshot) Flag() valueobjects.Flag {
	return valueobjects.FlagFromTags(m.Tags)
}

// ConnectionSnapshot is the read-only copy of a connection
type ConnectionSnapshot struct {
	ID                string                         `json:"id"`
	UserID            string                         `json:"userId,omitempty"`
	Name              string                         `json:"name"`
	RelationshipStage valueobjects.RelationshipStage `json:"relationshipStage"`
	ZodiacSign        valueobjects.ZodiacSign        `json:"zodiacSign,omitempty"`
	LoveLanguage      valueobjects.LoveLanguage      `json:"loveLanguage,omitempty"`
	CreatedAt         time.Time                      `json:"createdAt"`
}

// ProfileSnapshot is the read-only copy of the user's own profile
type ProfileSnapshot struct {
	UserID       string                    `json:"userId,omitempty"`
	ZodiacSign   valueobjects.ZodiacSign   `json:"zodiacSign,omitempty"`
	LoveLanguage valueobjects.LoveLanguage `json:"loveLanguage,omitempty"`
	UpdatedAt    time.Time                 `json:"updatedAt,omitempty"`
}
