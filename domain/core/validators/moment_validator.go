package validators

import (
	"strings"
	"time"
	"unicode/utf8"

	"kindra/domain/config"
	"kindra/domain/core/valueobjects"
	"kindra/pkg/errors"
)

// clockSkew tolerates client clocks running slightly ahead of ours
const clockSkew = 5 * time.Minute

// MomentValidator validates moment and connection rules against the domain config
type MomentValidator struct {
	cfg *config.DomainConfig
	now func() time.Time
}

// NewMomentValidator creates a validator. A nil config falls back to defaults.
func NewMomentValidator(cfg *config.DomainConfig) *MomentValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &MomentValidator{cfg: cfg, now: time.Now}
}

// ValidateMoment checks the raw fields of a new moment. Tags are expected
// to be normalized already.
func (v *MomentValidator) ValidateMoment(emoji string, tags []string, content string, createdAt time.Time) error {
	verrs := errors.NewValidationErrors()

	if valueobjects.NormalizeEmoji(emoji) == "" {
		verrs.Add("emoji", "emoji is required")
	}

	v.validateTags(verrs, tags)

	if !v.cfg.AllowEmptyContent && strings.TrimSpace(content) == "" {
		verrs.Add("content", "content is required")
	}
	if n := utf8.RuneCountInString(content); n > v.cfg.MaxContentLength {
		verrs.Addf("content", "content is %d characters, maximum is %d", n, v.cfg.MaxContentLength)
	}

	if !createdAt.IsZero() && !v.cfg.AllowFutureDates && createdAt.After(v.now().Add(clockSkew)) {
		verrs.Add("created_at", "moments cannot be logged in the future")
	}

	return verrs.OrNil()
}

func (v *MomentValidator) validateTags(verrs *errors.ValidationErrors, tags []string) {
	if len(tags) > v.cfg.MaxTagsPerMoment {
		verrs.Addf("tags", "at most %d tags allowed, got %d", v.cfg.MaxTagsPerMoment, len(tags))
	}
	for _, tag := range tags {
		if n := valueobjects.TagLength(tag); n == 0 || n > v.cfg.MaxTagLength {
			verrs.Addf("tags", "tag %q must be 1 to %d characters", tag, v.cfg.MaxTagLength)
		}
	}
}

// ValidateResolution checks resolution notes
func (v *MomentValidator) ValidateResolution(notes string) error {
	if n := utf8.RuneCountInString(notes); n > v.cfg.MaxResolutionNote {
		verrs := errors.NewValidationErrors()
		verrs.Addf("resolution_notes", "notes are %d characters, maximum is %d", n, v.cfg.MaxResolutionNote)
		return verrs
	}
	return nil
}

// ValidateConnectionName checks a connection's display name
func (v *MomentValidator) ValidateConnectionName(name string) error {
	verrs := errors.NewValidationErrors()
	trimmed := strings.TrimSpace(name)
	switch n := utf8.RuneCountInString(trimmed); {
	case n == 0:
		verrs.Add("name", "name is required")
	case n > v.cfg.MaxConnectionNameLength:
		verrs.Addf("name", "name is %d characters, maximum is %d", n, v.cfg.MaxConnectionNameLength)
	}
	return verrs.OrNil()
}
