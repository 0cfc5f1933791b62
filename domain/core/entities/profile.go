package entities

import (
	"time"

	"kindra/domain/core/valueobjects"
	pkgerrors "kindra/pkg/errors"
)

// Profile holds the optional self-description used to personalize advice
type Profile struct {
	userID       string
	zodiacSign   valueobjects.ZodiacSign
	loveLanguage valueobjects.LoveLanguage
	updatedAt    time.Time
}

// NewProfile creates an empty profile for a user
func NewProfile(userID string) (*Profile, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	return &Profile{userID: userID, updatedAt: time.Now().UTC()}, nil
}

// ReconstructProfile rebuilds a profile from stored data
func ReconstructProfile(s ProfileSnapshot) *Profile {
	return &Profile{
		userID:       s.UserID,
		zodiacSign:   s.ZodiacSign,
		loveLanguage: s.LoveLanguage,
		updatedAt:    s.UpdatedAt,
	}
}

// Update replaces the zodiac sign and love language. Blank values clear them.
func (p *Profile) Update(zodiacSign, loveLanguage string) error {
	verrs := pkgerrors.NewValidationErrors()
	sign, err := valueobjects.ParseZodiacSign(zodiacSign)
	if err != nil {
		verrs.Add("zodiac_sign", err.Error())
	}
	language, err := valueobjects.ParseLoveLanguage(loveLanguage)
	if err != nil {
		verrs.Add("love_language", err.Error())
	}
	if verrs.HasErrors() {
		return verrs
	}

	p.zodiacSign = sign
	p.loveLanguage = language
	p.updatedAt = time.Now().UTC()
	return nil
}

func (p *Profile) UserID() string                          { return p.userID }
func (p *Profile) ZodiacSign() valueobjects.ZodiacSign     { return p.zodiacSign }
func (p *Profile) LoveLanguage() valueobjects.LoveLanguage { return p.loveLanguage }

// Snapshot copies the profile into its read-only form
func (p *Profile) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{
		UserID:       p.userID,
		ZodiacSign:   p.zodiacSign,
		LoveLanguage: p.loveLanguage,
		UpdatedAt:    p.updatedAt,
	}
}
